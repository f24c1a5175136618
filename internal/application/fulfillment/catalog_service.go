package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
)

// ListingInput links a product to a SKU in one warehouse
type ListingInput struct {
	SellerID    uuid.UUID
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	SKU         string
	ProviderRef string
	Category    string
}

// CatalogService maintains the warehouse and listing projections that sync
// and transfers work against
type CatalogService struct {
	warehouses fulfillment.WarehouseRepository
	listings   fulfillment.ListingRepository
	stock      fulfillment.StockRepository
	providers  fulfillment.ProviderRegistry
	logger     *zap.Logger
	now        func() time.Time
}

// NewCatalogService creates a catalog service
func NewCatalogService(
	warehouses fulfillment.WarehouseRepository,
	listings fulfillment.ListingRepository,
	stock fulfillment.StockRepository,
	providers fulfillment.ProviderRegistry,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		warehouses: warehouses,
		listings:   listings,
		stock:      stock,
		providers:  providers,
		logger:     logger,
		now:        time.Now,
	}
}

// RegisterWarehouse links a provider warehouse to the seller
func (c *CatalogService) RegisterWarehouse(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, providerRef, name string) (*fulfillment.Warehouse, error) {
	if _, err := c.providers.Get(provider); err != nil {
		return nil, err
	}
	w, err := fulfillment.NewWarehouse(sellerID, provider, providerRef, name, c.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := c.warehouses.Save(ctx, w); err != nil {
		return nil, err
	}
	logger.WithLogger(ctx, c.logger).Info("Warehouse registered",
		zap.String("warehouse_id", w.ID.String()),
		zap.String("provider", provider.String()),
		zap.String("provider_ref", w.ProviderRef),
	)
	return w, nil
}

// ListWarehouses returns every warehouse of a seller
func (c *CatalogService) ListWarehouses(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.Warehouse, error) {
	return c.warehouses.FindBySeller(ctx, sellerID)
}

// DeactivateWarehouse removes a warehouse from sync and transfers
func (c *CatalogService) DeactivateWarehouse(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.Warehouse, error) {
	w, err := c.warehouses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !w.BelongsTo(sellerID) {
		return nil, shared.ErrNotFound
	}
	w.Deactivate(c.now().UTC())
	if err := c.warehouses.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// CreateListing links a product to a SKU in a seller warehouse. One listing
// exists per (product, warehouse).
func (c *CatalogService) CreateListing(ctx context.Context, in ListingInput) (*fulfillment.ProductListing, error) {
	w, err := c.warehouses.FindByID(ctx, in.WarehouseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: warehouse not found", fulfillment.ErrInvalidWarehouse)
		}
		return nil, err
	}
	if _, err := c.listings.FindByProductAndWarehouse(ctx, in.ProductID, in.WarehouseID); err == nil {
		return nil, shared.ErrAlreadyExists.WithMessage("product is already listed in this warehouse")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	l, err := fulfillment.NewProductListing(in.SellerID, in.ProductID, w, in.SKU, in.ProviderRef, in.Category, c.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := c.listings.Save(ctx, l); err != nil {
		return nil, err
	}
	logger.WithLogger(ctx, c.logger).Info("Listing created",
		zap.String("listing_id", l.ID.String()),
		zap.String("warehouse_id", w.ID.String()),
		zap.String("sku", l.SKU),
	)
	return l, nil
}

// ListListings returns every listing of a seller
func (c *CatalogService) ListListings(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.ProductListing, error) {
	return c.listings.FindBySeller(ctx, sellerID)
}

// StockLevels returns the known quantities of a product across warehouses
func (c *CatalogService) StockLevels(ctx context.Context, sellerID, productID uuid.UUID) ([]fulfillment.StockLevel, error) {
	return c.stock.ListByProduct(ctx, sellerID, productID)
}
