package store

import (
	"sync"

	"github.com/myway/panel-api/internal/model"
)

// Subscription delivers snapshots of one collection. It holds at most one
// pending snapshot: a slow reader skips straight to the latest one.
type Subscription struct {
	ch     chan *model.Snapshot
	mu     sync.Mutex
	closed bool
	err    error
}

func newSubscription() *Subscription {
	return &Subscription{ch: make(chan *model.Snapshot, 1)}
}

// C is closed when the subscription ends. Check Err afterwards.
func (s *Subscription) C() <-chan *model.Snapshot {
	return s.ch
}

// Err reports why the subscription ended; nil after a normal cancel.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) offer(snap *model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}

func (s *Subscription) close(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.ch)
}
