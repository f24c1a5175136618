package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appfulfillment "github.com/fulfillsync/backend/internal/application/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// SyncHandler serves the inventory sync endpoints
type SyncHandler struct {
	BaseHandler
	syncer  InventorySyncer
	tracker SyncStatusReader
}

// NewSyncHandler creates a SyncHandler
func NewSyncHandler(syncer InventorySyncer, tracker SyncStatusReader) *SyncHandler {
	return &SyncHandler{syncer: syncer, tracker: tracker}
}

// SyncInventory handles POST /v1/inventory/sync. Per-provider failures are
// reported in the body; the request itself only fails for bad input.
//
//	@ID			syncInventory
//	@Summary		Sync inventory from providers
//	@Tags			sync
//	@Accept			json
//	@Produce		json
//	@Param			request	body	SyncInventoryRequest	false	"Providers and options"
//	@Success		200	{object}	APIResponse[SyncInventoryResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		429	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/inventory/sync [post]
func (h *SyncHandler) SyncInventory(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	var req SyncInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return
	}

	result, err := h.syncer.SyncInventory(c.Request.Context(), appfulfillment.SyncRequest{
		SellerID:  sellerID,
		Providers: providerNames(req.Providers),
		Options:   req.Options.toDomain(),
		Trigger:   fulfillment.SyncTriggerAPI,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSyncInventoryResponse(result))
}

// GetSyncStatus handles GET /v1/inventory/sync?syncId&provider. Untracked
// ids report status unknown.
//
//	@ID			getSyncStatus
//	@Summary		Get sync status
//	@Tags			sync
//	@Produce		json
//	@Param			syncId	query	string	false	"Sync run ID"	format(uuid)
//	@Param			provider	query	string	false	"Latest run of this provider"
//	@Success		200	{object}	APIResponse[SyncRunResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/inventory/sync [get]
func (h *SyncHandler) GetSyncStatus(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	var q SyncStatusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	var (
		run *fulfillment.SyncRun
		err error
	)
	switch {
	case q.SyncID != "":
		run, err = h.tracker.Status(c.Request.Context(), sellerID, uuid.MustParse(q.SyncID))
	case q.Provider != "":
		run, err = h.tracker.Latest(c.Request.Context(), sellerID, fulfillment.ProviderName(q.Provider))
	default:
		h.BadRequest(c, "syncId or provider is required")
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSyncRunResponse(run))
}

// ListSyncRuns handles GET /v1/inventory/sync/runs
//
//	@ID			listSyncRuns
//	@Summary		List recent sync runs
//	@Tags			sync
//	@Produce		json
//	@Param			provider	query	string	false	"Provider name"
//	@Param			limit	query	int	false	"Maximum runs"	default(20)	maximum(200)
//	@Success		200	{object}	APIResponse[[]SyncRunResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/inventory/sync/runs [get]
func (h *SyncHandler) ListSyncRuns(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	var q SyncRunsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	runs, err := h.tracker.Recent(c.Request.Context(), fulfillment.SyncRunFilter{
		SellerID:     sellerID,
		ProviderName: fulfillment.ProviderName(q.Provider),
		Limit:        q.Limit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSyncRunResponses(runs))
}
