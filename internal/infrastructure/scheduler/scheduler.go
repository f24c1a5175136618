// Package scheduler runs the process-wide background loops: the sync
// schedule ticker with its worker pool and the warehouse transfer sweeper.
// Both are thin drivers; the decisions live in the application services they
// call.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// ScheduleRunner is implemented by the sync schedule manager
type ScheduleRunner interface {
	// ReapStaleRuns fails running syncs whose lease expired
	ReapStaleRuns(ctx context.Context, now time.Time) (int, error)
	// DueSchedules returns the enabled schedules that are due at now
	DueSchedules(ctx context.Context, now time.Time) ([]fulfillment.SyncSchedule, error)
	// RunSchedule moves one due schedule through Running to a terminal state
	RunSchedule(ctx context.Context, schedule *fulfillment.SyncSchedule) error
}

// Config holds schedule trigger configuration
type Config struct {
	Enabled           bool
	CheckInterval     time.Duration
	MaxConcurrentJobs int
	JobTimeout        time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		CheckInterval:     30 * time.Second,
		MaxConcurrentJobs: 4,
		JobTimeout:        10 * time.Minute,
	}
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.CheckInterval <= 0 {
		return fmt.Errorf("%w: check interval must be positive", ErrInvalidConfig)
	}
	if c.MaxConcurrentJobs <= 0 {
		return fmt.Errorf("%w: max concurrent jobs must be positive", ErrInvalidConfig)
	}
	if c.JobTimeout <= 0 {
		return fmt.Errorf("%w: job timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// ScheduleTrigger is the single ticker of the process. Each tick it reaps
// expired runs, asks the runner which schedules are due and hands them to a
// bounded worker pool. A schedule that cannot be queued is skipped and picked
// up again by a later tick.
type ScheduleTrigger struct {
	config Config
	runner ScheduleRunner
	logger *zap.Logger
	now    func() time.Time

	jobs      chan fulfillment.SyncSchedule
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	inFlight  map[uuid.UUID]struct{}
}

// NewScheduleTrigger creates a new trigger
func NewScheduleTrigger(config Config, runner ScheduleRunner, logger *zap.Logger) (*ScheduleTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ScheduleTrigger{
		config:   config,
		runner:   runner,
		logger:   logger,
		now:      time.Now,
		jobs:     make(chan fulfillment.SyncSchedule, config.MaxConcurrentJobs),
		inFlight: make(map[uuid.UUID]struct{}),
	}, nil
}

// Start starts the ticker and the worker pool
func (t *ScheduleTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	for i := 0; i < t.config.MaxConcurrentJobs; i++ {
		t.wg.Add(1)
		go t.worker(ctx, i)
	}
	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Sync schedule trigger started",
		zap.Int("workers", t.config.MaxConcurrentJobs),
		zap.Duration("check_interval", t.config.CheckInterval),
		zap.Duration("job_timeout", t.config.JobTimeout),
	)
	return nil
}

// Stop stops the ticker and waits for running jobs
func (t *ScheduleTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sync schedule trigger stopped gracefully")
		return nil
	case <-ctx.Done():
		t.logger.Warn("Sync schedule trigger stop timed out")
		return ctx.Err()
	}
}

func (t *ScheduleTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

// Tick evaluates schedules once and returns how many were queued
func (t *ScheduleTrigger) Tick(ctx context.Context) int {
	now := t.now().UTC()

	if reaped, err := t.runner.ReapStaleRuns(ctx, now); err != nil {
		t.logger.Error("Failed to reap stale sync runs", zap.Error(err))
	} else if reaped > 0 {
		t.logger.Warn("Reaped sync runs with expired leases", zap.Int("count", reaped))
	}

	due, err := t.runner.DueSchedules(ctx, now)
	if err != nil {
		t.logger.Error("Failed to load due sync schedules", zap.Error(err))
		return 0
	}

	queued := 0
	for _, s := range due {
		switch err := t.submit(s); err {
		case nil:
			queued++
		case ErrJobInFlight:
			// still running from an earlier tick
		default:
			t.logger.Warn("Skipping due sync schedule until next tick",
				zap.String("schedule_id", s.ID.String()),
				zap.String("seller_id", s.SellerID.String()),
				zap.String("provider", string(s.ProviderName)),
				zap.Error(err),
			)
		}
	}
	if len(due) > 0 {
		t.logger.Debug("Sync schedule tick", zap.Int("due", len(due)), zap.Int("queued", queued))
	}
	return queued
}

// submit queues s unless it is already in flight or the queue is full
func (t *ScheduleTrigger) submit(s fulfillment.SyncSchedule) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.isRunning {
		return ErrSchedulerNotRunning
	}
	if _, ok := t.inFlight[s.ID]; ok {
		return ErrJobInFlight
	}
	select {
	case t.jobs <- s:
		t.inFlight[s.ID] = struct{}{}
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (t *ScheduleTrigger) worker(ctx context.Context, workerID int) {
	defer t.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-t.jobs:
			t.process(ctx, s, workerID)
		}
	}
}

func (t *ScheduleTrigger) process(ctx context.Context, s fulfillment.SyncSchedule, workerID int) {
	defer func() {
		t.mu.Lock()
		delete(t.inFlight, s.ID)
		t.mu.Unlock()
	}()

	jobCtx, cancel := context.WithTimeout(ctx, t.config.JobTimeout)
	defer cancel()

	if err := t.runner.RunSchedule(jobCtx, &s); err != nil {
		t.logger.Warn("Scheduled sync did not complete",
			zap.Int("worker_id", workerID),
			zap.String("schedule_id", s.ID.String()),
			zap.String("seller_id", s.SellerID.String()),
			zap.String("provider", string(s.ProviderName)),
			zap.String("error_class", fulfillment.Classify(err)),
			zap.Error(err),
		)
	}
}
