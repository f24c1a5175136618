package fulfillment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/shared"
)

// Warehouse is the local view of a provider location the seller stocks
type Warehouse struct {
	shared.SellerEntity
	ProviderName ProviderName
	ProviderRef  string
	Name         string
	Active       bool
}

// NewWarehouse creates an active warehouse link
func NewWarehouse(sellerID uuid.UUID, provider ProviderName, providerRef, name string, now time.Time) (*Warehouse, error) {
	if sellerID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("seller id is required")
	}
	if !provider.IsValid() {
		return nil, ErrUnknownProvider
	}
	providerRef = strings.TrimSpace(providerRef)
	if providerRef == "" {
		return nil, shared.ErrInvalidInput.WithMessage("provider warehouse reference is required")
	}
	if name == "" {
		name = providerRef
	}
	return &Warehouse{
		SellerEntity: shared.NewSellerEntity(sellerID, now),
		ProviderName: provider,
		ProviderRef:  providerRef,
		Name:         name,
		Active:       true,
	}, nil
}

// Deactivate hides the warehouse from sync and transfers
func (w *Warehouse) Deactivate(now time.Time) {
	w.Active = false
	w.Touch(now)
}

// WarehouseRepository persists warehouses
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]Warehouse, error)
	Save(ctx context.Context, warehouse *Warehouse) error
}

// ProductListing maps a seller product to a SKU held in one provider warehouse
type ProductListing struct {
	shared.SellerEntity
	ProductID    uuid.UUID
	ProviderName ProviderName
	WarehouseID  uuid.UUID
	SKU          string
	ProviderRef  string
	Category     string
	Active       bool
	LastSyncedAt *time.Time
}

// NewProductListing creates an active listing
func NewProductListing(sellerID, productID uuid.UUID, warehouse *Warehouse, sku, providerRef, category string, now time.Time) (*ProductListing, error) {
	if productID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("product id is required")
	}
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.ErrInvalidInput.WithMessage("sku is required")
	}
	if warehouse == nil || !warehouse.BelongsTo(sellerID) {
		return nil, ErrInvalidWarehouse
	}
	if providerRef == "" {
		providerRef = sku
	}
	return &ProductListing{
		SellerEntity: shared.NewSellerEntity(sellerID, now),
		ProductID:    productID,
		ProviderName: warehouse.ProviderName,
		WarehouseID:  warehouse.ID,
		SKU:          sku,
		ProviderRef:  providerRef,
		Category:     category,
		Active:       true,
	}, nil
}

// Ref converts the listing into a provider call reference
func (l *ProductListing) Ref(warehouseRef string) ProductRef {
	return ProductRef{
		ProductID:    l.ProductID,
		WarehouseID:  l.WarehouseID,
		SKU:          l.SKU,
		ProviderRef:  l.ProviderRef,
		WarehouseRef: warehouseRef,
	}
}

// ListingFilter narrows listings considered by a sync
type ListingFilter struct {
	WarehouseIDs []uuid.UUID
	Categories   []string
	// StaleBefore limits to listings never synced or synced before this time
	StaleBefore *time.Time
}

// ListingRepository persists product listings
type ListingRepository interface {
	Save(ctx context.Context, listing *ProductListing) error
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProductListing, error)
	FindForSync(ctx context.Context, sellerID uuid.UUID, provider ProviderName, filter ListingFilter) ([]ProductListing, error)
	FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*ProductListing, error)
	MarkSynced(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// StockLevel is the last known quantity of a product in a warehouse
type StockLevel struct {
	SellerID    uuid.UUID
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Quantity    int64
	Available   int64
	UpdatedAt   time.Time
}

// Changed reports whether a provider reading differs from the stored level
func (s *StockLevel) Changed(item InventoryItem) bool {
	return s.Quantity != item.Quantity || s.Available != item.AvailableQuantity
}

// StockRepository persists stock levels
type StockRepository interface {
	// Get returns shared.ErrNotFound when the line does not exist
	Get(ctx context.Context, productID, warehouseID uuid.UUID) (*StockLevel, error)
	Upsert(ctx context.Context, level *StockLevel) error
	ListByProduct(ctx context.Context, sellerID, productID uuid.UUID) ([]StockLevel, error)
}
