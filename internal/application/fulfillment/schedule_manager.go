package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
	"github.com/fulfillsync/backend/internal/infrastructure/retry"
	"github.com/fulfillsync/backend/internal/infrastructure/scheduler"
)

// SyncExecutor runs an already started SyncRun to a terminal state
type SyncExecutor interface {
	Execute(ctx context.Context, run *fulfillment.SyncRun, opts fulfillment.SyncOptions, filters fulfillment.ScheduleFilters) error
}

// ScheduleInput creates a schedule
type ScheduleInput struct {
	SellerID    uuid.UUID
	Name        string
	Provider    fulfillment.ProviderName
	Enabled     *bool
	Frequency   fulfillment.Frequency
	Timezone    string
	RetryPolicy fulfillment.RetryPolicy
	Filters     fulfillment.ScheduleFilters
	Options     fulfillment.SyncOptions
}

// ScheduleUpdate edits a schedule. Nil fields are left unchanged.
type ScheduleUpdate struct {
	Name        *string
	Enabled     *bool
	Frequency   *fulfillment.Frequency
	Timezone    *string
	RetryPolicy *fulfillment.RetryPolicy
	Filters     *fulfillment.ScheduleFilters
	Options     *fulfillment.SyncOptions
}

// SyncScheduleManager owns recurring sync definitions and drives each due
// schedule through Running to a terminal state. It is the runner behind the
// process-wide schedule trigger.
type SyncScheduleManager struct {
	schedules fulfillment.ScheduleRepository
	providers fulfillment.ProviderRegistry
	tracker   *SyncProgressTracker
	executor  SyncExecutor
	notifier  fulfillment.NotificationSender
	policy    retry.Policy
	// runTimeout bounds manual runs started outside the trigger's workers
	runTimeout time.Duration
	logger     *zap.Logger
	now        func() time.Time

	manual sync.WaitGroup
}

// NewSyncScheduleManager creates a schedule manager
func NewSyncScheduleManager(
	schedules fulfillment.ScheduleRepository,
	providers fulfillment.ProviderRegistry,
	tracker *SyncProgressTracker,
	executor SyncExecutor,
	notifier fulfillment.NotificationSender,
	policy retry.Policy,
	runTimeout time.Duration,
	logger *zap.Logger,
) *SyncScheduleManager {
	if runTimeout <= 0 {
		runTimeout = 10 * time.Minute
	}
	return &SyncScheduleManager{
		schedules:  schedules,
		providers:  providers,
		tracker:    tracker,
		executor:   executor,
		notifier:   notifier,
		policy:     policy,
		runTimeout: runTimeout,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateSchedule validates and stores a new schedule
func (m *SyncScheduleManager) CreateSchedule(ctx context.Context, in ScheduleInput) (*fulfillment.SyncSchedule, error) {
	if _, err := m.providers.Get(in.Provider); err != nil {
		return nil, err
	}
	now := m.now().UTC()
	s, err := fulfillment.NewSyncSchedule(in.SellerID, in.Name, in.Provider, in.Frequency, in.Timezone, now)
	if err != nil {
		return nil, err
	}
	if err := s.SetRetryPolicy(in.RetryPolicy, now); err != nil {
		return nil, err
	}
	s.Filters = in.Filters
	s.Options = in.Options
	if in.Enabled != nil && !*in.Enabled {
		s.Disable(now)
	}
	if err := m.schedules.Save(ctx, s); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, m.logger).Info("Sync schedule created",
		zap.String("schedule_id", s.ID.String()),
		zap.String("seller_id", s.SellerID.String()),
		zap.String("provider", s.ProviderName.String()),
		zap.String("frequency", fmt.Sprintf("%s:%s", s.Frequency.Kind, s.Frequency.Value)),
		zap.String("timezone", s.Timezone),
	)
	return s, nil
}

// UpdateSchedule applies the non-nil fields of upd
func (m *SyncScheduleManager) UpdateSchedule(ctx context.Context, sellerID, id uuid.UUID, upd ScheduleUpdate) (*fulfillment.SyncSchedule, error) {
	s, err := m.GetSchedule(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()

	name, freq, tz := s.Name, s.Frequency, s.Timezone
	if upd.Name != nil {
		name = *upd.Name
	}
	if upd.Frequency != nil {
		freq = *upd.Frequency
	}
	if upd.Timezone != nil {
		tz = *upd.Timezone
	}
	if err := s.Reconfigure(name, freq, tz, now); err != nil {
		return nil, err
	}
	if upd.RetryPolicy != nil {
		if err := s.SetRetryPolicy(*upd.RetryPolicy, now); err != nil {
			return nil, err
		}
	}
	if upd.Filters != nil {
		s.Filters = *upd.Filters
	}
	if upd.Options != nil {
		s.Options = *upd.Options
	}
	if upd.Enabled != nil {
		if *upd.Enabled {
			s.Enable(now)
		} else {
			s.Disable(now)
		}
	}
	if err := m.schedules.Save(ctx, s); err != nil {
		return nil, err
	}
	logger.WithLogger(ctx, m.logger).Info("Sync schedule updated",
		zap.String("schedule_id", s.ID.String()),
		zap.Bool("enabled", s.Enabled),
	)
	return s, nil
}

// DisableSchedule turns a schedule off. Schedules are never deleted.
func (m *SyncScheduleManager) DisableSchedule(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.SyncSchedule, error) {
	enabled := false
	return m.UpdateSchedule(ctx, sellerID, id, ScheduleUpdate{Enabled: &enabled})
}

// GetSchedule returns a schedule owned by sellerID
func (m *SyncScheduleManager) GetSchedule(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.SyncSchedule, error) {
	s, err := m.schedules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.BelongsTo(sellerID) {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

// ListSchedules returns every schedule of a seller
func (m *SyncScheduleManager) ListSchedules(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.SyncSchedule, error) {
	return m.schedules.FindBySeller(ctx, sellerID)
}

// RunNow starts an immediate run of a schedule and returns the running
// SyncRun. The run continues in the background; a held lock yields
// ErrSyncInProgress.
func (m *SyncScheduleManager) RunNow(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.SyncRun, error) {
	s, err := m.GetSchedule(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	if s.State == fulfillment.ScheduleStateRunning {
		return nil, fmt.Errorf("%w: %s", fulfillment.ErrSyncInProgress, s.ProviderName)
	}
	run, err := m.start(ctx, s, fulfillment.SyncTriggerManual)
	if err != nil {
		return nil, err
	}
	snapshot := *run

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.runTimeout)
	m.manual.Add(1)
	go func() {
		defer m.manual.Done()
		defer cancel()
		m.execute(bg, s, run)
	}()
	return &snapshot, nil
}

// Wait blocks until manual runs started by RunNow have finished or ctx ends
func (m *SyncScheduleManager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.manual.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReapStaleRuns fails running syncs whose lease expired and returns their
// schedules to Idle
func (m *SyncScheduleManager) ReapStaleRuns(ctx context.Context, now time.Time) (int, error) {
	reaped, err := m.tracker.ReapExpired(ctx, now)
	for i := range reaped {
		run := &reaped[i]
		if run.ScheduleID == nil {
			continue
		}
		s, ferr := m.schedules.FindByID(ctx, *run.ScheduleID)
		if ferr != nil {
			logger.WithLogger(ctx, m.logger).Warn("Failed to load schedule of reaped run",
				zap.String("sync_run_id", run.ID.String()),
				zap.Error(ferr),
			)
			continue
		}
		if s.State != fulfillment.ScheduleStateRunning || s.LastRunID == nil || *s.LastRunID != run.ID {
			continue
		}
		m.finish(ctx, s, run, errors.New(LeaseExpiredSummary))
	}
	return len(reaped), err
}

// DueSchedules returns the enabled schedules due at now. A schedule whose
// frequency no longer evaluates is logged and skipped.
func (m *SyncScheduleManager) DueSchedules(ctx context.Context, now time.Time) ([]fulfillment.SyncSchedule, error) {
	enabled, err := m.schedules.FindEnabled(ctx)
	if err != nil {
		return nil, err
	}
	due := make([]fulfillment.SyncSchedule, 0, len(enabled))
	for _, s := range enabled {
		ok, err := s.IsDue(now)
		if err != nil {
			logger.WithLogger(ctx, m.logger).Warn("Skipping schedule with invalid frequency",
				zap.String("schedule_id", s.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if ok {
			due = append(due, s)
		}
	}
	return due, nil
}

// RunSchedule moves one due schedule through Running to a terminal state.
// A held lock skips the tick; the schedule stays due for the next one.
func (m *SyncScheduleManager) RunSchedule(ctx context.Context, s *fulfillment.SyncSchedule) error {
	run, err := m.start(ctx, s, fulfillment.SyncTriggerSchedule)
	if errors.Is(err, fulfillment.ErrSyncInProgress) {
		logger.WithLogger(ctx, m.logger).Debug("Sync lock held, skipping tick",
			zap.String("schedule_id", s.ID.String()),
			zap.String("provider", s.ProviderName.String()),
		)
		return nil
	}
	if err != nil {
		return err
	}
	return m.execute(ctx, s, run)
}

// start takes the sync lock and records the Due -> Running transition
func (m *SyncScheduleManager) start(ctx context.Context, s *fulfillment.SyncSchedule, trigger fulfillment.SyncTrigger) (*fulfillment.SyncRun, error) {
	run, err := m.tracker.Begin(ctx, s.SellerID, s.ProviderName, &s.ID, trigger)
	if err != nil {
		return nil, err
	}
	s.MarkRunning(run.ID, m.now().UTC())
	if err := m.schedules.SaveRunState(ctx, s); err != nil {
		if ferr := m.tracker.Finish(ctx, run, 0, 0, "", err); ferr != nil {
			logger.WithLogger(ctx, m.logger).Error("Failed to fail sync run", zap.Error(ferr))
		}
		return nil, fmt.Errorf("schedule: mark running: %w", err)
	}
	return run, nil
}

func (m *SyncScheduleManager) execute(ctx context.Context, s *fulfillment.SyncSchedule, run *fulfillment.SyncRun) error {
	runErr := m.executor.Execute(ctx, run, s.Options, s.Filters)
	m.finish(ctx, s, run, runErr)
	return runErr
}

// finish records Running -> {Completed|Failed} -> Idle and emits the
// notifications the retry policy asks for
func (m *SyncScheduleManager) finish(ctx context.Context, s *fulfillment.SyncSchedule, run *fulfillment.SyncRun, runErr error) {
	now := m.now().UTC()
	log := logger.WithLogger(ctx, m.logger).With(
		zap.String("schedule_id", s.ID.String()),
		zap.String("sync_run_id", run.ID.String()),
	)

	if runErr == nil {
		s.MarkCompleted(now)
		if s.RetryPolicy.NotifyOnCompletion {
			notify(ctx, m.notifier, m.logger, fulfillment.Notification{
				UserID:   s.SellerID,
				Type:     fulfillment.NotificationSyncCompleted,
				Title:    fmt.Sprintf("%s sync completed", s.ProviderName.DisplayName()),
				Message:  fmt.Sprintf("%d items synced, %d failed.", run.ItemsSynced, run.ItemsFailed),
				Channels: []string{fulfillment.ChannelInApp},
				Data:     scheduleNotificationData(s, run),
			})
		}
	} else {
		retried := false
		if fulfillment.IsPermanent(runErr) {
			s.MarkAbandoned(now)
			log.Info("Sync schedule failure is not retryable",
				zap.String("error_code", fulfillment.Classify(runErr)),
			)
		} else {
			hint, _ := fulfillment.RetryAfter(runErr)
			retried = s.MarkFailed(now, func(attempt int) time.Duration {
				return max(m.policy.Delay(attempt), hint)
			})
		}
		if retried {
			log.Info("Sync schedule retry scheduled",
				zap.Int("retry_count", s.RetryCount),
				zap.Timep("next_retry_at", s.NextRetryAt),
			)
		} else if s.RetryPolicy.NotifyOnFailure {
			notify(ctx, m.notifier, m.logger, fulfillment.Notification{
				UserID:   s.SellerID,
				Type:     fulfillment.NotificationSyncFailed,
				Title:    fmt.Sprintf("%s sync failed", s.ProviderName.DisplayName()),
				Message:  run.ErrorSummary,
				Channels: []string{fulfillment.ChannelEmail, fulfillment.ChannelInApp},
				Data:     scheduleNotificationData(s, run),
			})
		}
	}

	if err := m.schedules.SaveRunState(context.WithoutCancel(ctx), s); err != nil {
		log.Error("Failed to save sync schedule outcome", zap.Error(err))
	}
}

func scheduleNotificationData(s *fulfillment.SyncSchedule, run *fulfillment.SyncRun) map[string]any {
	return map[string]any{
		"scheduleId":  s.ID.String(),
		"syncRunId":   run.ID.String(),
		"provider":    s.ProviderName.String(),
		"itemsSynced": run.ItemsSynced,
		"itemsFailed": run.ItemsFailed,
	}
}

var _ scheduler.ScheduleRunner = (*SyncScheduleManager)(nil)
