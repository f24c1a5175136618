package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// WarehouseModel is the persistence model for Warehouse
type WarehouseModel struct {
	SellerModel
	ProviderName string `gorm:"type:varchar(32);not null;index"`
	ProviderRef  string `gorm:"type:varchar(100);not null"`
	Name         string `gorm:"type:varchar(200);not null"`
	Active       bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the persistence model to a domain Warehouse
func (m *WarehouseModel) ToDomain() *fulfillment.Warehouse {
	return &fulfillment.Warehouse{
		SellerEntity: m.ToSellerEntity(),
		ProviderName: fulfillment.ProviderName(m.ProviderName),
		ProviderRef:  m.ProviderRef,
		Name:         m.Name,
		Active:       m.Active,
	}
}

// WarehouseModelFromDomain creates a new persistence model from a domain Warehouse
func WarehouseModelFromDomain(w *fulfillment.Warehouse) *WarehouseModel {
	m := &WarehouseModel{
		ProviderName: string(w.ProviderName),
		ProviderRef:  w.ProviderRef,
		Name:         w.Name,
		Active:       w.Active,
	}
	m.FromDomainSellerEntity(w.SellerEntity)
	return m
}

// ProductListingModel is the persistence model for ProductListing
type ProductListingModel struct {
	SellerModel
	ProductID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_product_listings_product_warehouse,priority:1"`
	WarehouseID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_product_listings_product_warehouse,priority:2"`
	ProviderName string     `gorm:"type:varchar(32);not null;index"`
	SKU          string     `gorm:"column:sku;type:varchar(100);not null"`
	ProviderRef  string     `gorm:"type:varchar(100);not null"`
	Category     string     `gorm:"type:varchar(100);index"`
	Active       bool       `gorm:"not null"`
	LastSyncedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductListingModel) TableName() string {
	return "product_listings"
}

// ToDomain converts the persistence model to a domain ProductListing
func (m *ProductListingModel) ToDomain() *fulfillment.ProductListing {
	return &fulfillment.ProductListing{
		SellerEntity: m.ToSellerEntity(),
		ProductID:    m.ProductID,
		ProviderName: fulfillment.ProviderName(m.ProviderName),
		WarehouseID:  m.WarehouseID,
		SKU:          m.SKU,
		ProviderRef:  m.ProviderRef,
		Category:     m.Category,
		Active:       m.Active,
		LastSyncedAt: m.LastSyncedAt,
	}
}

// ProductListingModelFromDomain creates a new persistence model from a domain ProductListing
func ProductListingModelFromDomain(l *fulfillment.ProductListing) *ProductListingModel {
	m := &ProductListingModel{
		ProductID:    l.ProductID,
		WarehouseID:  l.WarehouseID,
		ProviderName: string(l.ProviderName),
		SKU:          l.SKU,
		ProviderRef:  l.ProviderRef,
		Category:     l.Category,
		Active:       l.Active,
		LastSyncedAt: l.LastSyncedAt,
	}
	m.FromDomainSellerEntity(l.SellerEntity)
	return m
}

// StockLevelModel is the persistence model for StockLevel, one row per (product, warehouse)
type StockLevelModel struct {
	ProductID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	WarehouseID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SellerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity    int64     `gorm:"not null"`
	Available   int64     `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockLevelModel) TableName() string {
	return "stock_levels"
}

// ToDomain converts the persistence model to a domain StockLevel
func (m *StockLevelModel) ToDomain() *fulfillment.StockLevel {
	return &fulfillment.StockLevel{
		SellerID:    m.SellerID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Quantity:    m.Quantity,
		Available:   m.Available,
		UpdatedAt:   m.UpdatedAt,
	}
}

// StockLevelModelFromDomain creates a new persistence model from a domain StockLevel
func StockLevelModelFromDomain(s *fulfillment.StockLevel) *StockLevelModel {
	return &StockLevelModel{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		SellerID:    s.SellerID,
		Quantity:    s.Quantity,
		Available:   s.Available,
		UpdatedAt:   s.UpdatedAt,
	}
}
