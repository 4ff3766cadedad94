package model

import "time"

const BackupVersion = 1

// Backup is the export file layout.
type Backup struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Patients   []*Patient      `json:"patients"`
	Queue      []*QueuePatient `json:"queue"`
}

// BackupFilename is kopia_bazy_myway_<YYYY-MM-DD>.json for the given day.
func BackupFilename(at time.Time) string {
	return "kopia_bazy_myway_" + at.Format("2006-01-02") + ".json"
}

type ImportResult struct {
	Patients int `json:"patients"`
	Queue    int `json:"queue"`
}
