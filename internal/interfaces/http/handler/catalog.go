package handler

import (
	"github.com/gin-gonic/gin"

	appfulfillment "github.com/fulfillsync/backend/internal/application/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// CatalogHandler serves warehouses, listings and stock views
type CatalogHandler struct {
	BaseHandler
	catalog CatalogService
}

// NewCatalogHandler creates a CatalogHandler
func NewCatalogHandler(catalog CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterWarehouse handles POST /v1/warehouses
//
//	@ID			registerWarehouse
//	@Summary		Register a warehouse
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body	RegisterWarehouseRequest	true	"Warehouse to register"
//	@Success		201	{object}	APIResponse[WarehouseResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/warehouses [post]
func (h *CatalogHandler) RegisterWarehouse(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	var req RegisterWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	w, err := h.catalog.RegisterWarehouse(c.Request.Context(), sellerID,
		fulfillment.ProviderName(req.Provider), req.ProviderRef, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toWarehouseResponse(w))
}

// ListWarehouses handles GET /v1/warehouses
//
//	@ID			listWarehouses
//	@Summary		List warehouses
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]WarehouseResponse]
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/warehouses [get]
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	warehouses, err := h.catalog.ListWarehouses(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toWarehouseResponses(warehouses))
}

// DeactivateWarehouse handles DELETE /v1/warehouses/:id
//
//	@ID			deactivateWarehouse
//	@Summary		Deactivate a warehouse
//	@Tags			catalog
//	@Produce		json
//	@Param			id	path	string	true	"Warehouse ID"	format(uuid)
//	@Success		200	{object}	APIResponse[WarehouseResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/warehouses/{id} [delete]
func (h *CatalogHandler) DeactivateWarehouse(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	w, err := h.catalog.DeactivateWarehouse(c.Request.Context(), sellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toWarehouseResponse(w))
}

// CreateListing handles POST /v1/listings
//
//	@ID			createListing
//	@Summary		Create a product listing
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body	CreateListingRequest	true	"Listing to create"
//	@Success		201	{object}	APIResponse[ListingResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/listings [post]
func (h *CatalogHandler) CreateListing(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	l, err := h.catalog.CreateListing(c.Request.Context(), appfulfillment.ListingInput{
		SellerID:    sellerID,
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		SKU:         req.SKU,
		ProviderRef: req.ProviderRef,
		Category:    req.Category,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toListingResponse(l))
}

// ListListings handles GET /v1/listings
//
//	@ID			listListings
//	@Summary		List product listings
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]ListingResponse]
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/listings [get]
func (h *CatalogHandler) ListListings(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	listings, err := h.catalog.ListListings(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toListingResponses(listings))
}

// ProductStock handles GET /v1/products/:id/stock
//
//	@ID			getProductStock
//	@Summary		Get stock levels of a product
//	@Tags			catalog
//	@Produce		json
//	@Param			id	path	string	true	"Product ID"	format(uuid)
//	@Success		200	{object}	APIResponse[ProductStockResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/products/{id}/stock [get]
func (h *CatalogHandler) ProductStock(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	levels, err := h.catalog.StockLevels(c.Request.Context(), sellerID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductStockResponse(productID, levels))
}
