package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/persistence/models"
)

// GormLeaseRepository implements LeaseRepository on the resource_locks table.
// Acquisition is a single conditional upsert, so two processes racing for a
// free key cannot both win.
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// TryAcquire inserts the lease or takes over an expired one. A live lease
// held by the same holder is extended.
func (r *GormLeaseRepository) TryAcquire(ctx context.Context, key, holder string, now time.Time, ttl time.Duration) (bool, error) {
	model := models.ResourceLockModel{
		LockKey:   key,
		Holder:    holder,
		ExpiresAt: now.Add(ttl),
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lock_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"holder", "expires_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Or(
				clause.Expr{SQL: "resource_locks.expires_at <= ?", Vars: []any{now}},
				clause.Expr{SQL: "resource_locks.holder = ?", Vars: []any{holder}},
			),
		}},
	}).Create(&model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Release drops the lease only if holder still owns it
func (r *GormLeaseRepository) Release(ctx context.Context, key, holder string) error {
	return r.db.WithContext(ctx).
		Where("lock_key = ? AND holder = ?", key, holder).
		Delete(&models.ResourceLockModel{}).Error
}

// Get returns the current lease row
func (r *GormLeaseRepository) Get(ctx context.Context, key string) (*fulfillment.Lease, error) {
	var model models.ResourceLockModel
	if err := r.db.WithContext(ctx).First(&model, "lock_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// PurgeExpired deletes leases that expired before now and returns the count
func (r *GormLeaseRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.ResourceLockModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// Ensure GormLeaseRepository implements LeaseRepository
var _ fulfillment.LeaseRepository = (*GormLeaseRepository)(nil)
