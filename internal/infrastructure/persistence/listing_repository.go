package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/persistence/models"
)

// GormListingRepository implements ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// Save creates or updates a listing
func (r *GormListingRepository) Save(ctx context.Context, listing *fulfillment.ProductListing) error {
	return r.db.WithContext(ctx).Save(models.ProductListingModelFromDomain(listing)).Error
}

// FindBySeller finds all listings of a seller
func (r *GormListingRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.ProductListing, error) {
	return r.find(r.db.WithContext(ctx).Where("seller_id = ?", sellerID))
}

// FindForSync finds the active listings of one provider that a sync should read
func (r *GormListingRepository) FindForSync(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, filter fulfillment.ListingFilter) ([]fulfillment.ProductListing, error) {
	query := r.db.WithContext(ctx).
		Where("seller_id = ? AND provider_name = ? AND active = ?", sellerID, string(provider), true)
	if len(filter.WarehouseIDs) > 0 {
		query = query.Where("warehouse_id IN ?", filter.WarehouseIDs)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
	}
	if filter.StaleBefore != nil {
		query = query.Where("(last_synced_at IS NULL OR last_synced_at < ?)", *filter.StaleBefore)
	}
	return r.find(query)
}

// FindByProductAndWarehouse finds the listing of a product in one warehouse
func (r *GormListingRepository) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*fulfillment.ProductListing, error) {
	var model models.ProductListingModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// MarkSynced stamps last_synced_at on the given listings
func (r *GormListingRepository) MarkSynced(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ProductListingModel{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"last_synced_at": at,
			"updated_at":     at,
		}).Error
}

func (r *GormListingRepository) find(query *gorm.DB) ([]fulfillment.ProductListing, error) {
	var rows []models.ProductListingModel
	if err := query.Order("sku ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	listings := make([]fulfillment.ProductListing, len(rows))
	for i, model := range rows {
		listings[i] = *model.ToDomain()
	}
	return listings, nil
}

// Ensure GormListingRepository implements ListingRepository
var _ fulfillment.ListingRepository = (*GormListingRepository)(nil)
