package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// TransferHandler serves warehouse transfers
type TransferHandler struct {
	BaseHandler
	transfers TransferService
}

// NewTransferHandler creates a TransferHandler
func NewTransferHandler(transfers TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// Create handles POST /warehouse/transfer. Once persisted, a provider
// rejection is reported through the returned record's status.
//
//	@ID			createTransfer
//	@Summary		Transfer stock between warehouses
//	@Tags			transfers
//	@Accept			json
//	@Produce		json
//	@Param			request	body	CreateTransferRequest	true	"Transfer to perform or schedule"
//	@Success		201	{object}	APIResponse[TransferResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/warehouse/transfer [post]
//	@Router			/v1/warehouse/transfer [post]
func (h *TransferHandler) Create(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	t, err := h.transfers.Transfer(c.Request.Context(), req.toInput(sellerID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTransferResponse(t))
}

// Get handles GET /v1/warehouse/transfer/:id
//
//	@ID			getTransfer
//	@Summary		Get a warehouse transfer
//	@Tags			transfers
//	@Produce		json
//	@Param			id	path	string	true	"Transfer ID"	format(uuid)
//	@Success		200	{object}	APIResponse[TransferResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/warehouse/transfer/{id} [get]
func (h *TransferHandler) Get(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.transfers.Get(c.Request.Context(), sellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTransferResponse(t))
}

// List handles GET /v1/warehouse/transfer?status
//
//	@ID			listTransfers
//	@Summary		List warehouse transfers
//	@Tags			transfers
//	@Produce		json
//	@Param			status	query	string	false	"Transfer status"	Enums(pending, scheduled, processing, completed, failed, cancelled)
//	@Param			limit	query	int	false	"Maximum transfers"	maximum(200)
//	@Success		200	{object}	APIResponse[[]TransferResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/warehouse/transfer [get]
func (h *TransferHandler) List(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	var q TransferListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	filter := fulfillment.TransferFilter{SellerID: sellerID, Limit: q.Limit}
	if q.Status != "" {
		status := fulfillment.TransferStatus(q.Status)
		filter.Status = &status
	}
	transfers, err := h.transfers.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTransferResponses(transfers))
}

// Cancel handles POST /v1/warehouse/transfer/:id/cancel
//
//	@ID			cancelTransfer
//	@Summary		Cancel a scheduled transfer
//	@Tags			transfers
//	@Produce		json
//	@Param			id	path	string	true	"Transfer ID"	format(uuid)
//	@Success		200	{object}	APIResponse[TransferResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/warehouse/transfer/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.transfers.Cancel(c.Request.Context(), sellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTransferResponse(t))
}
