package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/persistence/models"
)

const defaultRunListLimit = 50

var finalRunStatuses = []string{
	string(fulfillment.SyncRunStatusCompleted),
	string(fulfillment.SyncRunStatusFailed),
}

// GormSyncRunRepository implements SyncRunRepository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Create inserts a new run
func (r *GormSyncRunRepository) Create(ctx context.Context, run *fulfillment.SyncRun) error {
	return r.db.WithContext(ctx).Create(models.SyncRunModelFromDomain(run)).Error
}

// Update persists a transition. Rows already in a terminal state are left untouched.
func (r *GormSyncRunRepository) Update(ctx context.Context, run *fulfillment.SyncRun) error {
	model := models.SyncRunModelFromDomain(run)
	result := r.db.WithContext(ctx).
		Model(&models.SyncRunModel{}).
		Where("id = ? AND status NOT IN ?", run.ID, finalRunStatuses).
		Select("status", "lock_holder", "started_at", "finished_at", "items_synced", "items_failed", "error_summary").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: run %s is final or missing", fulfillment.ErrInvalidTransition, run.ID)
	}
	return nil
}

// FindByID finds a run by its ID
func (r *GormSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.SyncRun, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatest finds the most recently created run for a (seller, provider)
func (r *GormSyncRunRepository) FindLatest(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName) (*fulfillment.SyncRun, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND provider_name = ?", sellerID, string(provider)).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List finds runs matching the filter, newest first
func (r *GormSyncRunRepository) List(ctx context.Context, filter fulfillment.SyncRunFilter) ([]fulfillment.SyncRun, error) {
	query := r.db.WithContext(ctx).Model(&models.SyncRunModel{})
	if filter.SellerID != uuid.Nil {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.ProviderName != "" {
		query = query.Where("provider_name = ?", string(filter.ProviderName))
	}
	if filter.ScheduleID != nil {
		query = query.Where("schedule_id = ?", *filter.ScheduleID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultRunListLimit
	}
	return r.find(query.Order("created_at DESC").Limit(limit))
}

// FindRunning finds every run currently marked running
func (r *GormSyncRunRepository) FindRunning(ctx context.Context) ([]fulfillment.SyncRun, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ?", string(fulfillment.SyncRunStatusRunning)).
		Order("created_at ASC"))
}

func (r *GormSyncRunRepository) find(query *gorm.DB) ([]fulfillment.SyncRun, error) {
	var rows []models.SyncRunModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	runs := make([]fulfillment.SyncRun, len(rows))
	for i, model := range rows {
		runs[i] = *model.ToDomain()
	}
	return runs, nil
}

// Ensure GormSyncRunRepository implements SyncRunRepository
var _ fulfillment.SyncRunRepository = (*GormSyncRunRepository)(nil)
