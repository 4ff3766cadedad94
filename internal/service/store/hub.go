package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/messaging"
	"github.com/myway/panel-api/pkg/metrics"
)

var ErrUnknownCollection = errors.New("unknown collection")

const channelPrefix = "myway:changes:"

// Channel is the broker channel carrying change events for c.
func Channel(c model.Collection) string {
	return channelPrefix + string(c)
}

// Publisher announces committed writes.
type Publisher interface {
	Publish(ctx context.Context, c model.Collection, op, id string) error
}

// Hub turns change events from the broker into full ordered snapshots for
// every live subscriber. Events published by any API instance reach all of
// them.
type Hub struct {
	broker   messaging.Broker
	patients repository.PatientRepository
	queue    repository.QueueRepository
	logger   *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu   sync.Mutex
	subs map[model.Collection]map[*Subscription]struct{}
	// loads serializes snapshot reads per collection so subscribers never
	// see an older snapshot after a newer one.
	loads map[model.Collection]*sync.Mutex
}

func NewHub(
	broker messaging.Broker,
	patients repository.PatientRepository,
	queue repository.QueueRepository,
	log *logger.Logger,
	m *metrics.Metrics,
) *Hub {
	return &Hub{
		broker:   broker,
		patients: patients,
		queue:    queue,
		logger:   log.With("store_hub"),
		metrics:  m,
		now:      time.Now,
		subs: map[model.Collection]map[*Subscription]struct{}{
			model.CollectionPatients: {},
			model.CollectionQueue:    {},
		},
		loads: map[model.Collection]*sync.Mutex{
			model.CollectionPatients: {},
			model.CollectionQueue:    {},
		},
	}
}

// Run consumes change events until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, c := range []model.Collection{model.CollectionPatients, model.CollectionQueue} {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			messaging.Consume(ctx, h.broker, Channel(c), h.logger, func([]byte) {
				h.refresh(ctx, c)
			})
		}()
	}
	wg.Wait()
}

func (h *Hub) Publish(ctx context.Context, c model.Collection, op, id string) error {
	payload, err := json.Marshal(model.ChangeEvent{Collection: c, Op: op, ID: id, At: h.now().UTC()})
	if err != nil {
		return err
	}
	if err := h.broker.Publish(ctx, Channel(c), payload); err != nil {
		return fmt.Errorf("failed to publish %s change: %w", c, err)
	}
	return nil
}

// Snapshot reads the current ordered state of c.
func (h *Hub) Snapshot(ctx context.Context, c model.Collection) (*model.Snapshot, error) {
	snap := &model.Snapshot{Collection: c, At: h.now().UTC()}
	switch c {
	case model.CollectionPatients:
		patients, err := h.patients.List(ctx)
		if err != nil {
			return nil, err
		}
		snap.Records = model.NewPatientViews(patients)
		snap.Count = len(patients)
	case model.CollectionQueue:
		entries, err := h.queue.List(ctx)
		if err != nil {
			return nil, err
		}
		snap.Records = entries
		snap.Count = len(entries)
	default:
		return nil, ErrUnknownCollection
	}
	return snap, nil
}

// Subscribe returns a live view of c. The first value is the current
// snapshot. The subscription ends when ctx is done or a refresh fails.
func (h *Hub) Subscribe(ctx context.Context, c model.Collection) (*Subscription, error) {
	lock, ok := h.loads[c]
	if !ok {
		return nil, ErrUnknownCollection
	}

	lock.Lock()
	snap, err := h.Snapshot(ctx, c)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("failed to load %s snapshot: %w", c, err)
	}
	sub := newSubscription()
	sub.offer(snap)
	h.mu.Lock()
	h.subs[c][sub] = struct{}{}
	h.mu.Unlock()
	lock.Unlock()

	h.metrics.Subscribers.WithLabelValues(string(c)).Inc()
	h.metrics.SnapshotsDelivered.WithLabelValues(string(c)).Inc()

	go func() {
		<-ctx.Done()
		h.remove(c, sub, nil)
	}()

	return sub, nil
}

func (h *Hub) remove(c model.Collection, sub *Subscription, err error) {
	h.mu.Lock()
	_, ok := h.subs[c][sub]
	delete(h.subs[c], sub)
	h.mu.Unlock()
	if ok {
		h.metrics.Subscribers.WithLabelValues(string(c)).Dec()
		sub.close(err)
	}
}

func (h *Hub) subscribers(c model.Collection) []*Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Subscription, 0, len(h.subs[c]))
	for s := range h.subs[c] {
		out = append(out, s)
	}
	return out
}

func (h *Hub) refresh(ctx context.Context, c model.Collection) {
	lock := h.loads[c]
	lock.Lock()
	defer lock.Unlock()

	subs := h.subscribers(c)
	if len(subs) == 0 {
		return
	}

	snap, err := h.Snapshot(ctx, c)
	if err != nil {
		h.logger.Error(err, "Failed to refresh snapshot, closing subscriptions", "collection", string(c))
		for _, s := range subs {
			h.remove(c, s, err)
		}
		return
	}

	for _, s := range subs {
		s.offer(snap)
	}
	h.metrics.SnapshotsDelivered.WithLabelValues(string(c)).Add(float64(len(subs)))
}

// Subscriber count for c, used by health output.
func (h *Hub) Subscribers(c model.Collection) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[c])
}
