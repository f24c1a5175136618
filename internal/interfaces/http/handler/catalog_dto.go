package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// RegisterWarehouseRequest links a provider warehouse to the seller
type RegisterWarehouseRequest struct {
	Provider    string `json:"provider" binding:"required,provider_name"`
	ProviderRef string `json:"providerRef" binding:"required,max=128"`
	Name        string `json:"name" binding:"omitempty,max=200"`
}

// WarehouseResponse is the API view of a Warehouse
type WarehouseResponse struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderRef string    `json:"providerRef"`
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toWarehouseResponse(w *fulfillment.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:          w.ID.String(),
		Provider:    string(w.ProviderName),
		ProviderRef: w.ProviderRef,
		Name:        w.Name,
		Active:      w.Active,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func toWarehouseResponses(warehouses []fulfillment.Warehouse) []WarehouseResponse {
	out := make([]WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		out = append(out, toWarehouseResponse(&warehouses[i]))
	}
	return out
}

// CreateListingRequest maps a product to a SKU in one warehouse
type CreateListingRequest struct {
	ProductID   uuid.UUID `json:"productId" binding:"required"`
	WarehouseID uuid.UUID `json:"warehouseId" binding:"required"`
	SKU         string    `json:"sku" binding:"required,max=64"`
	ProviderRef string    `json:"providerRef" binding:"omitempty,max=128"`
	Category    string    `json:"category" binding:"omitempty,max=100"`
}

// ListingResponse is the API view of a ProductListing
type ListingResponse struct {
	ID           string     `json:"id"`
	ProductID    string     `json:"productId"`
	Provider     string     `json:"provider"`
	WarehouseID  string     `json:"warehouseId"`
	SKU          string     `json:"sku"`
	ProviderRef  string     `json:"providerRef,omitempty"`
	Category     string     `json:"category,omitempty"`
	Active       bool       `json:"active"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toListingResponse(l *fulfillment.ProductListing) ListingResponse {
	return ListingResponse{
		ID:           l.ID.String(),
		ProductID:    l.ProductID.String(),
		Provider:     string(l.ProviderName),
		WarehouseID:  l.WarehouseID.String(),
		SKU:          l.SKU,
		ProviderRef:  l.ProviderRef,
		Category:     l.Category,
		Active:       l.Active,
		LastSyncedAt: l.LastSyncedAt,
		CreatedAt:    l.CreatedAt,
	}
}

func toListingResponses(listings []fulfillment.ProductListing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, toListingResponse(&listings[i]))
	}
	return out
}

// StockLevelResponse is one warehouse's stock of a product
type StockLevelResponse struct {
	WarehouseID string    `json:"warehouseId"`
	Quantity    int64     `json:"quantity"`
	Available   int64     `json:"available"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductStockResponse aggregates a product's stock across warehouses
type ProductStockResponse struct {
	ProductID      string               `json:"productId"`
	TotalQuantity  int64                `json:"totalQuantity"`
	TotalAvailable int64                `json:"totalAvailable"`
	Warehouses     []StockLevelResponse `json:"warehouses"`
}

func toProductStockResponse(productID uuid.UUID, levels []fulfillment.StockLevel) ProductStockResponse {
	resp := ProductStockResponse{
		ProductID:  productID.String(),
		Warehouses: make([]StockLevelResponse, 0, len(levels)),
	}
	for _, l := range levels {
		resp.TotalQuantity += l.Quantity
		resp.TotalAvailable += l.Available
		resp.Warehouses = append(resp.Warehouses, StockLevelResponse{
			WarehouseID: l.WarehouseID.String(),
			Quantity:    l.Quantity,
			Available:   l.Available,
			UpdatedAt:   l.UpdatedAt,
		})
	}
	return resp
}
