package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyncRunStatus is the lifecycle status of a SyncRun
type SyncRunStatus string

const (
	SyncRunStatusPending   SyncRunStatus = "pending"
	SyncRunStatusRunning   SyncRunStatus = "running"
	SyncRunStatusCompleted SyncRunStatus = "completed"
	SyncRunStatusFailed    SyncRunStatus = "failed"
	// SyncRunStatusUnknown is reported for ids the tracker has never seen
	SyncRunStatusUnknown SyncRunStatus = "unknown"
)

// IsFinal returns true if no further transition is allowed
func (s SyncRunStatus) IsFinal() bool {
	return s == SyncRunStatusCompleted || s == SyncRunStatusFailed
}

// SyncTrigger records what started a run
type SyncTrigger string

const (
	SyncTriggerSchedule SyncTrigger = "schedule"
	SyncTriggerManual   SyncTrigger = "manual"
	SyncTriggerAPI      SyncTrigger = "api"
)

// SyncRun is one reconciliation of one provider for one seller.
// Transitions pending -> running -> {completed|failed}; terminal runs are immutable.
type SyncRun struct {
	ID           uuid.UUID
	ScheduleID   *uuid.UUID
	SellerID     uuid.UUID
	ProviderName ProviderName
	Status       SyncRunStatus
	Trigger      SyncTrigger
	RequestID    string
	LockHolder   string
	CreatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
	ItemsSynced  int
	ItemsFailed  int
	ErrorSummary string
}

// NewSyncRun creates a pending run
func NewSyncRun(sellerID uuid.UUID, provider ProviderName, scheduleID *uuid.UUID, trigger SyncTrigger, requestID string, now time.Time) *SyncRun {
	return &SyncRun{
		ID:           uuid.New(),
		ScheduleID:   scheduleID,
		SellerID:     sellerID,
		ProviderName: provider,
		Status:       SyncRunStatusPending,
		Trigger:      trigger,
		RequestID:    requestID,
		CreatedAt:    now,
	}
}

// Start moves pending -> running
func (r *SyncRun) Start(holder string, now time.Time) error {
	if r.Status != SyncRunStatusPending {
		return fmt.Errorf("%w: %s -> running", ErrInvalidTransition, r.Status)
	}
	r.Status = SyncRunStatusRunning
	r.LockHolder = holder
	r.StartedAt = &now
	return nil
}

// Complete moves running -> completed
func (r *SyncRun) Complete(synced, failed int, summary string, now time.Time) error {
	if r.Status != SyncRunStatusRunning {
		return fmt.Errorf("%w: %s -> completed", ErrInvalidTransition, r.Status)
	}
	r.Status = SyncRunStatusCompleted
	r.ItemsSynced = synced
	r.ItemsFailed = failed
	r.ErrorSummary = summary
	r.FinishedAt = &now
	return nil
}

// Fail moves a non-terminal run to failed
func (r *SyncRun) Fail(synced, failed int, summary string, now time.Time) error {
	if r.Status.IsFinal() {
		return fmt.Errorf("%w: %s -> failed", ErrInvalidTransition, r.Status)
	}
	r.Status = SyncRunStatusFailed
	r.ItemsSynced = synced
	r.ItemsFailed = failed
	r.ErrorSummary = summary
	r.FinishedAt = &now
	return nil
}

// Duration returns how long the run took, zero while unfinished
func (r *SyncRun) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// SyncRunFilter narrows run listings
type SyncRunFilter struct {
	SellerID     uuid.UUID
	ProviderName ProviderName
	ScheduleID   *uuid.UUID
	Limit        int
}

// SyncRunRepository persists SyncRuns
type SyncRunRepository interface {
	Create(ctx context.Context, run *SyncRun) error
	// Update persists a transition; terminal rows are never overwritten
	Update(ctx context.Context, run *SyncRun) error
	FindByID(ctx context.Context, id uuid.UUID) (*SyncRun, error)
	FindLatest(ctx context.Context, sellerID uuid.UUID, provider ProviderName) (*SyncRun, error)
	List(ctx context.Context, filter SyncRunFilter) ([]SyncRun, error)
	FindRunning(ctx context.Context) ([]SyncRun, error)
}

// ---------------------------------------------------------------------------
// Lease locks
// ---------------------------------------------------------------------------

// Lease is an exclusive, expiring claim on a key stored in the database so it
// survives process restarts. An expired lease may be taken over by anyone.
type Lease struct {
	Key       string
	Holder    string
	ExpiresAt time.Time
}

// LeaseRepository stores lease locks
type LeaseRepository interface {
	// TryAcquire takes the key if it is free or expired. It returns false
	// without error when another holder owns a live lease.
	TryAcquire(ctx context.Context, key, holder string, now time.Time, ttl time.Duration) (bool, error)
	// Release drops the lease if still owned by holder
	Release(ctx context.Context, key, holder string) error
	// Get returns the current lease, or shared.ErrNotFound
	Get(ctx context.Context, key string) (*Lease, error)
}

// SyncLockKey is the lease key serializing runs of one (seller, provider)
func SyncLockKey(sellerID uuid.UUID, provider ProviderName) string {
	return fmt.Sprintf("sync:%s:%s", sellerID, provider)
}

// StockLockKey is the lease key guarding one (product, warehouse) stock line
func StockLockKey(productID, warehouseID uuid.UUID) string {
	return fmt.Sprintf("stock:%s:%s", productID, warehouseID)
}
