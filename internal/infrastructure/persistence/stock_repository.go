package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/persistence/models"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Get finds the stock line of a product in a warehouse
func (r *GormStockRepository) Get(ctx context.Context, productID, warehouseID uuid.UUID) (*fulfillment.StockLevel, error) {
	var model models.StockLevelModel
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

// Upsert writes the stock line, replacing any previous reading
func (r *GormStockRepository) Upsert(ctx context.Context, level *fulfillment.StockLevel) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"seller_id", "quantity", "available", "updated_at"}),
	}).Create(models.StockLevelModelFromDomain(level)).Error
}

// ListByProduct finds the stock lines of a product across all warehouses
func (r *GormStockRepository) ListByProduct(ctx context.Context, sellerID, productID uuid.UUID) ([]fulfillment.StockLevel, error) {
	var rows []models.StockLevelModel
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND product_id = ?", sellerID, productID).
		Order("warehouse_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	levels := make([]fulfillment.StockLevel, len(rows))
	for i, model := range rows {
		levels[i] = *model.ToDomain()
	}
	return levels, nil
}

// Ensure GormStockRepository implements StockRepository
var _ fulfillment.StockRepository = (*GormStockRepository)(nil)
