package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/persistence/models"
)

const defaultDeliveryListLimit = 100

// ---------------------------------------------------------------------------
// Inbound events
// ---------------------------------------------------------------------------

// GormWebhookEventRepository implements WebhookEventRepository using GORM
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewGormWebhookEventRepository creates a new GormWebhookEventRepository
func NewGormWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// CreateIfAbsent inserts the event unless (source_provider, dedupe_key) is taken.
// The unique index decides, so concurrent replays of one body store it once.
func (r *GormWebhookEventRepository) CreateIfAbsent(ctx context.Context, event *fulfillment.WebhookEvent) (*fulfillment.WebhookEvent, bool, error) {
	model := models.WebhookEventModelFromDomain(event)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 {
		return event, true, nil
	}

	var existing models.WebhookEventModel
	if err := r.db.WithContext(ctx).
		Where("source_provider = ? AND dedupe_key = ?", model.SourceProvider, model.DedupeKey).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return existing.ToDomain(), false, nil
}

// FindByID finds an event by its ID
func (r *GormWebhookEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.WebhookEvent, error) {
	var model models.WebhookEventModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ---------------------------------------------------------------------------
// Subscriptions
// ---------------------------------------------------------------------------

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Save creates or updates a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *fulfillment.WebhookSubscription) error {
	return r.db.WithContext(ctx).Save(models.WebhookSubscriptionModelFromDomain(sub)).Error
}

// FindByID finds a subscription by its ID
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.WebhookSubscription, error) {
	var model models.WebhookSubscriptionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySeller finds all subscriptions of a seller
func (r *GormSubscriptionRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.WebhookSubscription, error) {
	return r.find(r.db.WithContext(ctx).Where("seller_id = ?", sellerID))
}

// FindActiveBySeller finds the active subscriptions of a seller
func (r *GormSubscriptionRepository) FindActiveBySeller(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.WebhookSubscription, error) {
	return r.find(r.db.WithContext(ctx).Where("seller_id = ? AND active = ?", sellerID, true))
}

func (r *GormSubscriptionRepository) find(query *gorm.DB) ([]fulfillment.WebhookSubscription, error) {
	var rows []models.WebhookSubscriptionModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	subs := make([]fulfillment.WebhookSubscription, len(rows))
	for i, model := range rows {
		subs[i] = *model.ToDomain()
	}
	return subs, nil
}

// ---------------------------------------------------------------------------
// Deliveries
// ---------------------------------------------------------------------------

// GormDeliveryRepository implements DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// CreateIfAbsent inserts the delivery unless one exists for (event, subscription)
func (r *GormDeliveryRepository) CreateIfAbsent(ctx context.Context, delivery *fulfillment.WebhookDelivery) (*fulfillment.WebhookDelivery, bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(models.WebhookDeliveryModelFromDomain(delivery))
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 {
		return delivery, true, nil
	}

	var existing models.WebhookDeliveryModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND subscription_id = ?", delivery.EventID, delivery.SubscriptionID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return existing.ToDomain(), false, nil
}

// Update persists the delivery state after an attempt or a replay
func (r *GormDeliveryRepository) Update(ctx context.Context, delivery *fulfillment.WebhookDelivery) error {
	return r.db.WithContext(ctx).Save(models.WebhookDeliveryModelFromDomain(delivery)).Error
}

// FindByID finds a delivery by its ID
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.WebhookDelivery, error) {
	var model models.WebhookDeliveryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List finds deliveries matching the filter, newest first
func (r *GormDeliveryRepository) List(ctx context.Context, filter fulfillment.DeliveryFilter) ([]fulfillment.WebhookDelivery, error) {
	query := r.db.WithContext(ctx).Model(&models.WebhookDeliveryModel{})
	if filter.SellerID != uuid.Nil {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.EventID != nil {
		query = query.Where("event_id = ?", *filter.EventID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultDeliveryListLimit
	}
	return r.find(query.Order("created_at DESC").Limit(limit))
}

// ClaimDue locks due pending rows with FOR UPDATE SKIP LOCKED and pushes
// next_attempt_at out by lease, so a second processor skips them until the
// claim either resolves or expires.
func (r *GormDeliveryRepository) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]fulfillment.WebhookDelivery, error) {
	var rows []models.WebhookDeliveryModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Options:  "SKIP LOCKED",
			}).
			Where("status = ? AND next_attempt_at <= ?", string(fulfillment.DeliveryStatusPending), now).
			Order("next_attempt_at ASC").
			Limit(limit).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}
		return tx.Model(&models.WebhookDeliveryModel{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"next_attempt_at": now.Add(lease),
				"updated_at":      now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	deliveries := make([]fulfillment.WebhookDelivery, len(rows))
	for i, model := range rows {
		deliveries[i] = *model.ToDomain()
	}
	return deliveries, nil
}

func (r *GormDeliveryRepository) find(query *gorm.DB) ([]fulfillment.WebhookDelivery, error) {
	var rows []models.WebhookDeliveryModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	deliveries := make([]fulfillment.WebhookDelivery, len(rows))
	for i, model := range rows {
		deliveries[i] = *model.ToDomain()
	}
	return deliveries, nil
}

// CountByStatus returns the number of deliveries in each status
func (r *GormDeliveryRepository) CountByStatus(ctx context.Context) (map[fulfillment.DeliveryStatus]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var results []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.WebhookDeliveryModel{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[fulfillment.DeliveryStatus]int64, len(results))
	for _, row := range results {
		counts[fulfillment.DeliveryStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// Ensure the GORM repositories implement their domain interfaces
var (
	_ fulfillment.WebhookEventRepository = (*GormWebhookEventRepository)(nil)
	_ fulfillment.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
	_ fulfillment.DeliveryRepository     = (*GormDeliveryRepository)(nil)
)
