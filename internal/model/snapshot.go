package model

import "time"

// Collection names a live record set.
type Collection string

const (
	CollectionPatients Collection = "patients"
	CollectionQueue    Collection = "queue"
)

func (c Collection) Valid() bool {
	return c == CollectionPatients || c == CollectionQueue
}

// Snapshot is a complete ordered view of a collection at a point in time.
// Records holds []*PatientView or []*QueuePatient depending on Collection.
type Snapshot struct {
	Collection Collection  `json:"collection"`
	Records    interface{} `json:"records"`
	Count      int         `json:"count"`
	At         time.Time   `json:"at"`
}

// ChangeEvent is published on the broker after a committed write.
type ChangeEvent struct {
	Collection Collection `json:"collection"`
	Op         string     `json:"op"`
	ID         string     `json:"id,omitempty"`
	At         time.Time  `json:"at"`
}
