package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fulfillsync/backend/internal/domain/shared"
)

// TransferStatus is the lifecycle status of a WarehouseTransfer
type TransferStatus string

const (
	TransferStatusPending    TransferStatus = "pending"
	TransferStatusScheduled  TransferStatus = "scheduled"
	TransferStatusProcessing TransferStatus = "processing"
	TransferStatusCompleted  TransferStatus = "completed"
	TransferStatusFailed     TransferStatus = "failed"
	TransferStatusCancelled  TransferStatus = "cancelled"
)

// IsValid returns true if the status is a known value
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusScheduled, TransferStatusProcessing,
		TransferStatusCompleted, TransferStatusFailed, TransferStatusCancelled:
		return true
	}
	return false
}

// IsFinal returns true if no further transition is allowed
func (s TransferStatus) IsFinal() bool {
	return s == TransferStatusCompleted || s == TransferStatusFailed || s == TransferStatusCancelled
}

// WarehouseTransfer moves a quantity of one product between two warehouses.
// Stock is only mutated after the provider confirms the move.
type WarehouseTransfer struct {
	shared.SellerEntity
	ProductID             uuid.UUID
	SourceWarehouseID     uuid.UUID
	TargetWarehouseID     uuid.UUID
	Quantity              int64
	Sandbox               bool
	TransferFee           decimal.Decimal
	Status                TransferStatus
	ScheduledAt           *time.Time
	StartedAt             *time.Time
	CompletedAt           *time.Time
	ProviderTransactionID string
	ErrorMessage          string
	RequestID             string
}

// NewWarehouseTransfer creates a pending transfer
func NewWarehouseTransfer(sellerID, productID, sourceID, targetID uuid.UUID, quantity int64, now time.Time) (*WarehouseTransfer, error) {
	if sellerID == uuid.Nil || productID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("seller and product are required")
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if sourceID == uuid.Nil || targetID == uuid.Nil || sourceID == targetID {
		return nil, fmt.Errorf("%w: source and target must be distinct warehouses", ErrInvalidWarehouse)
	}
	return &WarehouseTransfer{
		SellerEntity:      shared.NewSellerEntity(sellerID, now),
		ProductID:         productID,
		SourceWarehouseID: sourceID,
		TargetWarehouseID: targetID,
		Quantity:          quantity,
		TransferFee:       decimal.Zero,
		Status:            TransferStatusPending,
	}, nil
}

func (t *WarehouseTransfer) transition(to TransferStatus, allowed ...TransferStatus) error {
	for _, s := range allowed {
		if t.Status == s {
			t.Status = to
			return nil
		}
	}
	return fmt.Errorf("%w: transfer %s -> %s", ErrInvalidTransition, t.Status, to)
}

// Schedule defers execution until at
func (t *WarehouseTransfer) Schedule(at time.Time, now time.Time) error {
	if err := t.transition(TransferStatusScheduled, TransferStatusPending); err != nil {
		return err
	}
	t.ScheduledAt = &at
	t.Touch(now)
	return nil
}

// IsDue reports whether a scheduled transfer should run
func (t *WarehouseTransfer) IsDue(now time.Time) bool {
	return t.Status == TransferStatusScheduled && t.ScheduledAt != nil && !now.Before(*t.ScheduledAt)
}

// StartProcessing marks the point after which the transfer must reach a terminal state
func (t *WarehouseTransfer) StartProcessing(now time.Time) error {
	if err := t.transition(TransferStatusProcessing, TransferStatusPending, TransferStatusScheduled); err != nil {
		return err
	}
	t.StartedAt = &now
	t.Touch(now)
	return nil
}

// Complete records provider confirmation
func (t *WarehouseTransfer) Complete(providerTxID string, now time.Time) error {
	if err := t.transition(TransferStatusCompleted, TransferStatusProcessing); err != nil {
		return err
	}
	t.ProviderTransactionID = providerTxID
	t.CompletedAt = &now
	t.ErrorMessage = ""
	t.Touch(now)
	return nil
}

// Fail records a terminal failure with a human-readable message
func (t *WarehouseTransfer) Fail(message string, now time.Time) error {
	if err := t.transition(TransferStatusFailed, TransferStatusPending, TransferStatusScheduled, TransferStatusProcessing); err != nil {
		return err
	}
	t.ErrorMessage = message
	t.CompletedAt = &now
	t.Touch(now)
	return nil
}

// Cancel is only allowed before any provider call has been made
func (t *WarehouseTransfer) Cancel(now time.Time) error {
	if t.Status != TransferStatusScheduled {
		return ErrTransferNotCancel
	}
	t.Status = TransferStatusCancelled
	t.Touch(now)
	return nil
}

// FeePolicy prices a transfer. The fee depends only on whether the two
// warehouses share a provider.
type FeePolicy struct {
	UnitFee decimal.Decimal
}

// DefaultUnitFee is the per-unit cross-provider fee
var DefaultUnitFee = decimal.RequireFromString("0.50")

// Calculate returns 0 within one provider, quantity * UnitFee across providers
func (p FeePolicy) Calculate(source, target ProviderName, quantity int64) decimal.Decimal {
	if source == target {
		return decimal.Zero
	}
	return p.UnitFee.Mul(decimal.NewFromInt(quantity)).Round(2)
}

// TransferFilter narrows transfer listings
type TransferFilter struct {
	SellerID uuid.UUID
	Status   *TransferStatus
	Limit    int
}

// TransferRepository persists WarehouseTransfers
type TransferRepository interface {
	Create(ctx context.Context, transfer *WarehouseTransfer) error
	Update(ctx context.Context, transfer *WarehouseTransfer) error
	FindByID(ctx context.Context, id uuid.UUID) (*WarehouseTransfer, error)
	List(ctx context.Context, filter TransferFilter) ([]WarehouseTransfer, error)
	FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]WarehouseTransfer, error)
	FindStuckProcessing(ctx context.Context, startedBefore time.Time, limit int) ([]WarehouseTransfer, error)
}

// TransferLedger applies a confirmed transfer to stock in one transaction:
// it re-checks source availability under a row lock, debits the source,
// credits or creates the target line and persists the completed transfer.
type TransferLedger interface {
	CommitTransfer(ctx context.Context, transfer *WarehouseTransfer) error
}
