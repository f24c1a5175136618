package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appfulfillment "github.com/fulfillsync/backend/internal/application/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// CreateTransferRequest is the body of POST /warehouse/transfer
type CreateTransferRequest struct {
	ProductID         uuid.UUID  `json:"productId" binding:"required"`
	SourceWarehouseID uuid.UUID  `json:"sourceWarehouseId" binding:"required"`
	TargetWarehouseID uuid.UUID  `json:"targetWarehouseId" binding:"required"`
	Quantity          int64      `json:"quantity" binding:"required,gt=0"`
	Sandbox           bool       `json:"sandbox"`
	ScheduledAt       *time.Time `json:"scheduledAt"`
}

func (r CreateTransferRequest) toInput(sellerID uuid.UUID) appfulfillment.TransferInput {
	return appfulfillment.TransferInput{
		SellerID:          sellerID,
		ProductID:         r.ProductID,
		SourceWarehouseID: r.SourceWarehouseID,
		TargetWarehouseID: r.TargetWarehouseID,
		Quantity:          r.Quantity,
		Sandbox:           r.Sandbox,
		ScheduledAt:       r.ScheduledAt,
	}
}

// TransferListQuery filters GET /v1/warehouse/transfer
type TransferListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending scheduled processing completed failed cancelled"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// TransferResponse is the API view of a WarehouseTransfer
type TransferResponse struct {
	ID                    string          `json:"id"`
	ProductID             string          `json:"productId"`
	SourceWarehouseID     string          `json:"sourceWarehouseId"`
	TargetWarehouseID     string          `json:"targetWarehouseId"`
	Quantity              int64           `json:"quantity"`
	Sandbox               bool            `json:"sandbox"`
	TransferFee           decimal.Decimal `json:"transferFee"`
	Status                string          `json:"status"`
	ScheduledAt           *time.Time      `json:"scheduledAt,omitempty"`
	StartedAt             *time.Time      `json:"startedAt,omitempty"`
	CompletedAt           *time.Time      `json:"completedAt,omitempty"`
	ProviderTransactionID string          `json:"providerTransactionId,omitempty"`
	ErrorMessage          string          `json:"errorMessage,omitempty"`
	RequestID             string          `json:"requestId,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

func toTransferResponse(t *fulfillment.WarehouseTransfer) TransferResponse {
	return TransferResponse{
		ID:                    t.ID.String(),
		ProductID:             t.ProductID.String(),
		SourceWarehouseID:     t.SourceWarehouseID.String(),
		TargetWarehouseID:     t.TargetWarehouseID.String(),
		Quantity:              t.Quantity,
		Sandbox:               t.Sandbox,
		TransferFee:           t.TransferFee,
		Status:                string(t.Status),
		ScheduledAt:           t.ScheduledAt,
		StartedAt:             t.StartedAt,
		CompletedAt:           t.CompletedAt,
		ProviderTransactionID: t.ProviderTransactionID,
		ErrorMessage:          t.ErrorMessage,
		RequestID:             t.RequestID,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}

func toTransferResponses(transfers []fulfillment.WarehouseTransfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(transfers))
	for i := range transfers {
		out = append(out, toTransferResponse(&transfers[i]))
	}
	return out
}
