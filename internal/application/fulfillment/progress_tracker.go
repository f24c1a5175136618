package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
)

// LeaseExpiredSummary is the error summary of runs whose holder vanished
const LeaseExpiredSummary = "lease expired"

// SyncProgressTracker is the durable record of sync runs and the owner of
// the lease locks that serialize them. Lock state lives in the database so a
// restart neither loses nor leaks it.
type SyncProgressTracker struct {
	runs     fulfillment.SyncRunRepository
	leases   fulfillment.LeaseRepository
	holder   string
	leaseTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewSyncProgressTracker creates a tracker. holder identifies this process
// and prefixes the token of every lease it takes.
func NewSyncProgressTracker(
	runs fulfillment.SyncRunRepository,
	leases fulfillment.LeaseRepository,
	holder string,
	leaseTTL time.Duration,
	logger *zap.Logger,
) *SyncProgressTracker {
	if holder == "" {
		holder = uuid.NewString()
	}
	if leaseTTL <= 0 {
		leaseTTL = 15 * time.Minute
	}
	return &SyncProgressTracker{
		runs:     runs,
		leases:   leases,
		holder:   holder,
		leaseTTL: leaseTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Holder returns the lease holder id of this process
func (t *SyncProgressTracker) Holder() string {
	return t.holder
}

// Acquire takes the lease on key for ttl. It fails with ErrLockHeld when
// any other acquisition, including one from this process, owns a live lease.
// The returned func releases it.
func (t *SyncProgressTracker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token, err := t.acquire(ctx, key, ttl)
	if err != nil {
		return nil, err
	}
	return func() { t.release(ctx, key, token) }, nil
}

// acquire takes key under a token unique to this acquisition and returns it
func (t *SyncProgressTracker) acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := t.holder + ":" + uuid.NewString()
	ok, err := t.leases.TryAcquire(ctx, key, token, t.now().UTC(), ttl)
	if err != nil {
		return "", fmt.Errorf("tracker: acquire %s: %w", key, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", fulfillment.ErrLockHeld, key)
	}
	return token, nil
}

// Begin takes the (seller, provider) sync lock and records a running run.
// A held lock yields ErrSyncInProgress and no run is written.
func (t *SyncProgressTracker) Begin(
	ctx context.Context,
	sellerID uuid.UUID,
	provider fulfillment.ProviderName,
	scheduleID *uuid.UUID,
	trigger fulfillment.SyncTrigger,
) (*fulfillment.SyncRun, error) {
	key := fulfillment.SyncLockKey(sellerID, provider)
	token, err := t.acquire(ctx, key, t.leaseTTL)
	if err != nil {
		if errors.Is(err, fulfillment.ErrLockHeld) {
			return nil, fmt.Errorf("%w: %s", fulfillment.ErrSyncInProgress, provider)
		}
		return nil, err
	}

	now := t.now().UTC()
	run := fulfillment.NewSyncRun(sellerID, provider, scheduleID, trigger, logger.GetRequestID(ctx), now)
	if err := run.Start(token, now); err != nil {
		t.release(ctx, key, token)
		return nil, err
	}
	if err := t.runs.Create(ctx, run); err != nil {
		t.release(ctx, key, token)
		return nil, fmt.Errorf("tracker: create run: %w", err)
	}
	return run, nil
}

// Finish moves run to its terminal state and releases the sync lock. A nil
// cause completes the run.
func (t *SyncProgressTracker) Finish(ctx context.Context, run *fulfillment.SyncRun, synced, failed int, summary string, cause error) error {
	defer t.release(ctx, fulfillment.SyncLockKey(run.SellerID, run.ProviderName), run.LockHolder)

	now := t.now().UTC()
	var err error
	if cause == nil {
		err = run.Complete(synced, failed, summary, now)
	} else {
		if summary == "" {
			summary = fmt.Sprintf("%s: %v", fulfillment.Classify(cause), cause)
		}
		err = run.Fail(synced, failed, summary, now)
	}
	if err != nil {
		return err
	}
	// The run outcome must be stored even when the caller's context is done
	wctx := context.WithoutCancel(ctx)
	if err := t.runs.Update(wctx, run); err != nil {
		return fmt.Errorf("tracker: update run: %w", err)
	}
	return nil
}

func (t *SyncProgressTracker) release(ctx context.Context, key, token string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := t.leases.Release(rctx, key, token); err != nil {
		logger.WithLogger(ctx, t.logger).Warn("Failed to release lease",
			zap.String("lease_key", key),
			zap.Error(err),
		)
	}
}

// Status returns the run with id owned by sellerID. Ids the tracker has
// never seen, or that belong to another seller, come back as a synthetic
// run with status unknown.
func (t *SyncProgressTracker) Status(ctx context.Context, sellerID, runID uuid.UUID) (*fulfillment.SyncRun, error) {
	run, err := t.runs.FindByID(ctx, runID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return unknownRun(sellerID, runID), nil
		}
		return nil, err
	}
	if run.SellerID != sellerID {
		return unknownRun(sellerID, runID), nil
	}
	return run, nil
}

// Latest returns the most recent run for (seller, provider), or an unknown
// run when none exists
func (t *SyncProgressTracker) Latest(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName) (*fulfillment.SyncRun, error) {
	run, err := t.runs.FindLatest(ctx, sellerID, provider)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			u := unknownRun(sellerID, uuid.Nil)
			u.ProviderName = provider
			return u, nil
		}
		return nil, err
	}
	return run, nil
}

// Recent lists runs newest first
func (t *SyncProgressTracker) Recent(ctx context.Context, filter fulfillment.SyncRunFilter) ([]fulfillment.SyncRun, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return t.runs.List(ctx, filter)
}

// ReapExpired fails running runs whose sync lease is gone or expired, which
// means their holder crashed or timed out. It returns the reaped runs.
func (t *SyncProgressTracker) ReapExpired(ctx context.Context, now time.Time) ([]fulfillment.SyncRun, error) {
	running, err := t.runs.FindRunning(ctx)
	if err != nil {
		return nil, err
	}

	reaped := make([]fulfillment.SyncRun, 0)
	for i := range running {
		run := &running[i]
		lease, err := t.leases.Get(ctx, fulfillment.SyncLockKey(run.SellerID, run.ProviderName))
		switch {
		case err == nil && lease.Holder == run.LockHolder && now.Before(lease.ExpiresAt):
			continue
		case err != nil && !errors.Is(err, shared.ErrNotFound):
			return reaped, err
		}
		if err := run.Fail(run.ItemsSynced, run.ItemsFailed, LeaseExpiredSummary, now); err != nil {
			continue
		}
		if err := t.runs.Update(ctx, run); err != nil {
			logger.WithLogger(ctx, t.logger).Error("Failed to reap stale sync run",
				zap.String("sync_run_id", run.ID.String()),
				zap.Error(err),
			)
			continue
		}
		logger.WithLogger(ctx, t.logger).Warn("Reaped sync run with expired lease",
			zap.String("sync_run_id", run.ID.String()),
			zap.String("seller_id", run.SellerID.String()),
			zap.String("provider", run.ProviderName.String()),
			zap.String("lock_holder", run.LockHolder),
		)
		reaped = append(reaped, *run)
	}
	return reaped, nil
}

func unknownRun(sellerID, runID uuid.UUID) *fulfillment.SyncRun {
	return &fulfillment.SyncRun{
		ID:       runID,
		SellerID: sellerID,
		Status:   fulfillment.SyncRunStatusUnknown,
	}
}
