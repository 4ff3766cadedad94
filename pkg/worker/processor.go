package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/metrics"
)

// ErrNoHandler is recorded on jobs whose kind nobody handles.
var ErrNoHandler = errors.New("no handler registered for job kind")

type BackoffConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// Jitter is the randomization factor, 0 disables it.
	Jitter float64
}

type Config struct {
	BatchSize    int
	PollInterval time.Duration
	MaxAttempts  int
	// Lease is how long a claimed job stays hidden from other workers. It
	// must outlast the slowest handler.
	Lease time.Duration
	// Concurrency caps handlers running at once. Defaults to BatchSize.
	Concurrency int
	Backoff     BackoffConfig
}

const defaultLease = 5 * time.Minute

// Handler delivers a single job. The returned bytes, if any, are stored as the
// job result. Wrap an error with backoff.Permanent to fail the job without
// further attempts.
type Handler func(ctx context.Context, job *model.NotificationJob) ([]byte, error)

type JobProcessor struct {
	repo     repository.NotificationJobRepository
	config   Config
	logger   *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	mu       sync.RWMutex
	handlers map[model.JobKind]Handler
}

func NewJobProcessor(
	repo repository.NotificationJobRepository,
	config Config,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) (*JobProcessor, error) {
	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than 0")
	}
	if config.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be greater than 0")
	}
	if config.MaxAttempts <= 0 {
		return nil, fmt.Errorf("max attempts must be greater than 0")
	}
	if config.Backoff.InitialInterval <= 0 {
		return nil, fmt.Errorf("backoff initial interval must be greater than 0")
	}
	if config.Lease <= 0 {
		config.Lease = defaultLease
	}
	if config.Concurrency <= 0 {
		config.Concurrency = config.BatchSize
	}

	return &JobProcessor{
		repo:     repo,
		config:   config,
		logger:   logger.With("job_processor"),
		metrics:  metrics,
		now:      time.Now,
		handlers: make(map[model.JobKind]Handler),
	}, nil
}

// Handle registers h for kind, replacing any previous handler.
func (p *JobProcessor) Handle(kind model.JobKind, h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[kind] = h
}

func (p *JobProcessor) handler(kind model.JobKind) (Handler, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	h, ok := p.handlers[kind]
	return h, ok
}

func (p *JobProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("Starting job processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Shutting down job processor")
			return
		case <-ticker.C:
			if _, err := p.ProcessBatch(ctx); err != nil {
				p.logger.Error(err, "Failed to process jobs")
			}
		}
	}
}

// ProcessBatch leases due jobs and delivers them concurrently. No
// transaction is held while handlers run; a job whose worker dies becomes due
// again once its lease runs out.
func (p *JobProcessor) ProcessBatch(ctx context.Context) (int, error) {
	jobs, err := p.repo.ClaimDue(ctx, p.config.BatchSize, p.now().Add(p.config.Lease))
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("claim_jobs", "error").Inc()
		return 0, fmt.Errorf("failed to claim jobs: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("claim_jobs", "success").Inc()
	p.metrics.JobBatchLength.Set(float64(len(jobs)))

	var processed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(p.config.Concurrency)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := p.processJob(ctx, job); err != nil {
				return err
			}
			processed.Add(1)
			return nil
		})
	}
	err = g.Wait()
	return int(processed.Load()), err
}

// processJob only returns an error when the outcome could not be stored.
func (p *JobProcessor) processJob(ctx context.Context, job *model.NotificationJob) error {
	kind := string(job.Kind)
	timer := prometheus.NewTimer(p.metrics.JobLatency.WithLabelValues(kind))
	defer timer.ObserveDuration()

	var (
		result []byte
		err    error
	)
	if h, ok := p.handler(job.Kind); ok {
		result, err = h(ctx, job)
	} else {
		err = backoff.Permanent(ErrNoHandler)
	}

	attempts := job.Attempts + 1
	if err == nil {
		p.metrics.JobsProcessed.WithLabelValues(kind).Inc()
		if markErr := p.repo.MarkProcessed(ctx, job.ID, result); markErr != nil {
			return fmt.Errorf("failed to mark job %s processed: %w", job.ID, markErr)
		}
		p.logger.Debug("Job delivered", "job_id", job.ID.String(), "kind", kind, "attempts", attempts)
		return nil
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) || attempts >= p.config.MaxAttempts {
		p.metrics.JobsFailed.WithLabelValues(kind).Inc()
		p.logger.Error(err, "Job failed",
			"job_id", job.ID.String(),
			"kind", kind,
			"attempts", attempts)
		if markErr := p.repo.MarkFailed(ctx, job.ID, attempts, err.Error()); markErr != nil {
			return fmt.Errorf("failed to mark job %s failed: %w", job.ID, markErr)
		}
		return nil
	}

	runAt := p.now().Add(p.NextDelay(attempts))
	p.metrics.JobsRetried.WithLabelValues(kind).Inc()
	p.logger.Warn("Job attempt failed, rescheduled",
		"job_id", job.ID.String(),
		"kind", kind,
		"attempts", attempts,
		"run_at", runAt,
		"error", err.Error())
	if markErr := p.repo.MarkRetry(ctx, job.ID, attempts, err.Error(), runAt); markErr != nil {
		return fmt.Errorf("failed to reschedule job %s: %w", job.ID, markErr)
	}
	return nil
}

// NextDelay returns the wait before the attempt following the given number of
// failed attempts.
func (p *JobProcessor) NextDelay(attempts int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.config.Backoff.InitialInterval
	if p.config.Backoff.MaxInterval > 0 {
		b.MaxInterval = p.config.Backoff.MaxInterval
	}
	if p.config.Backoff.Multiplier > 0 {
		b.Multiplier = p.config.Backoff.Multiplier
	}
	b.RandomizationFactor = p.config.Backoff.Jitter
	b.MaxElapsedTime = 0
	b.Reset()

	delay := b.NextBackOff()
	for i := 1; i < attempts; i++ {
		delay = b.NextBackOff()
	}
	return delay
}
