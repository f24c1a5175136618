package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/persistence/models"
)

const defaultTransferListLimit = 50

var finalTransferStatuses = []string{
	string(fulfillment.TransferStatusCompleted),
	string(fulfillment.TransferStatusFailed),
	string(fulfillment.TransferStatusCancelled),
}

// GormTransferRepository implements TransferRepository and TransferLedger using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// Create inserts a new transfer
func (r *GormTransferRepository) Create(ctx context.Context, transfer *fulfillment.WarehouseTransfer) error {
	return r.db.WithContext(ctx).Create(models.WarehouseTransferModelFromDomain(transfer)).Error
}

// Update persists a transition. Terminal rows are never overwritten.
func (r *GormTransferRepository) Update(ctx context.Context, transfer *fulfillment.WarehouseTransfer) error {
	return r.update(r.db.WithContext(ctx), transfer)
}

func (r *GormTransferRepository) update(db *gorm.DB, transfer *fulfillment.WarehouseTransfer) error {
	model := models.WarehouseTransferModelFromDomain(transfer)
	result := db.Model(&models.WarehouseTransferModel{}).
		Where("id = ? AND status NOT IN ?", transfer.ID, finalTransferStatuses).
		Select("status", "transfer_fee", "scheduled_at", "started_at", "completed_at",
			"provider_transaction_id", "error_message", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: transfer %s is final or missing", fulfillment.ErrInvalidTransition, transfer.ID)
	}
	return nil
}

// FindByID finds a transfer by its ID
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.WarehouseTransfer, error) {
	var model models.WarehouseTransferModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List finds transfers matching the filter, newest first
func (r *GormTransferRepository) List(ctx context.Context, filter fulfillment.TransferFilter) ([]fulfillment.WarehouseTransfer, error) {
	query := r.db.WithContext(ctx).Model(&models.WarehouseTransferModel{})
	if filter.SellerID != uuid.Nil {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTransferListLimit
	}
	return r.find(query.Order("created_at DESC").Limit(limit))
}

// FindDueScheduled finds scheduled transfers whose time has come
func (r *GormTransferRepository) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]fulfillment.WarehouseTransfer, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", string(fulfillment.TransferStatusScheduled), now).
		Order("scheduled_at ASC").
		Limit(limit))
}

// FindStuckProcessing finds transfers left processing since before startedBefore
func (r *GormTransferRepository) FindStuckProcessing(ctx context.Context, startedBefore time.Time, limit int) ([]fulfillment.WarehouseTransfer, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND started_at < ?", string(fulfillment.TransferStatusProcessing), startedBefore).
		Order("started_at ASC").
		Limit(limit))
}

func (r *GormTransferRepository) find(query *gorm.DB) ([]fulfillment.WarehouseTransfer, error) {
	var rows []models.WarehouseTransferModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	transfers := make([]fulfillment.WarehouseTransfer, len(rows))
	for i, model := range rows {
		transfers[i] = *model.ToDomain()
	}
	return transfers, nil
}

// CommitTransfer applies a provider-confirmed transfer to stock and persists
// it as completed in one transaction. The source line is re-read under a row
// lock, so a concurrent debit between the pre-check and the provider call
// surfaces as ErrInsufficientStock instead of a negative balance.
func (r *GormTransferRepository) CommitTransfer(ctx context.Context, transfer *fulfillment.WarehouseTransfer) error {
	if transfer.Status != fulfillment.TransferStatusCompleted {
		return fmt.Errorf("%w: commit requires a completed transfer, got %s", fulfillment.ErrInvalidTransition, transfer.Status)
	}
	now := transfer.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source models.StockLevelModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND warehouse_id = ?", transfer.ProductID, transfer.SourceWarehouseID).
			First(&source).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fulfillment.ErrInsufficientStock
			}
			return err
		}
		if source.Available < transfer.Quantity {
			return fmt.Errorf("%w: %d available, %d requested", fulfillment.ErrInsufficientStock, source.Available, transfer.Quantity)
		}

		if err := tx.Model(&models.StockLevelModel{}).
			Where("product_id = ? AND warehouse_id = ?", transfer.ProductID, transfer.SourceWarehouseID).
			Updates(map[string]any{
				"quantity":   gorm.Expr("quantity - ?", transfer.Quantity),
				"available":  gorm.Expr("available - ?", transfer.Quantity),
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		target := models.StockLevelModel{
			ProductID:   transfer.ProductID,
			WarehouseID: transfer.TargetWarehouseID,
			SellerID:    transfer.SellerID,
			Quantity:    transfer.Quantity,
			Available:   transfer.Quantity,
			UpdatedAt:   now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("stock_levels.quantity + ?", transfer.Quantity),
				"available":  gorm.Expr("stock_levels.available + ?", transfer.Quantity),
				"updated_at": now,
			}),
		}).Create(&target).Error; err != nil {
			return err
		}

		return r.update(tx, transfer)
	})
}

// Ensure GormTransferRepository implements TransferRepository and TransferLedger
var (
	_ fulfillment.TransferRepository = (*GormTransferRepository)(nil)
	_ fulfillment.TransferLedger     = (*GormTransferRepository)(nil)
)
