package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/persistence/models"
)

// GormScheduleRepository implements ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindByID finds a schedule by its ID
func (r *GormScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.SyncSchedule, error) {
	var model models.SyncScheduleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySeller finds all schedules of a seller, enabled or not
func (r *GormScheduleRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.SyncSchedule, error) {
	return r.find(r.db.WithContext(ctx).Where("seller_id = ?", sellerID))
}

// FindEnabled finds all enabled schedules across sellers
func (r *GormScheduleRepository) FindEnabled(ctx context.Context) ([]fulfillment.SyncSchedule, error) {
	return r.find(r.db.WithContext(ctx).Where("enabled = ?", true))
}

func (r *GormScheduleRepository) find(query *gorm.DB) ([]fulfillment.SyncSchedule, error) {
	var rows []models.SyncScheduleModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	schedules := make([]fulfillment.SyncSchedule, len(rows))
	for i, model := range rows {
		schedules[i] = *model.ToDomain()
	}
	return schedules, nil
}

// Save creates or updates a schedule
func (r *GormScheduleRepository) Save(ctx context.Context, schedule *fulfillment.SyncSchedule) error {
	var model models.SyncScheduleModel
	if err := model.FromDomain(schedule); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveRunState persists the run bookkeeping of a schedule without touching
// the seller-editable columns
func (r *GormScheduleRepository) SaveRunState(ctx context.Context, schedule *fulfillment.SyncSchedule) error {
	var model models.SyncScheduleModel
	if err := model.FromDomain(schedule); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&models.SyncScheduleModel{}).
		Where("id = ?", schedule.ID).
		Select("state", "last_run_at", "last_run_id", "last_status", "retry_count", "next_retry_at", "updated_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormScheduleRepository implements ScheduleRepository
var _ fulfillment.ScheduleRepository = (*GormScheduleRepository)(nil)
