package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// WarehouseTransferModel is the persistence model for WarehouseTransfer
type WarehouseTransferModel struct {
	SellerModel
	ProductID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	SourceWarehouseID     uuid.UUID       `gorm:"type:uuid;not null"`
	TargetWarehouseID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity              int64           `gorm:"not null"`
	Sandbox               bool            `gorm:"not null;default:false"`
	TransferFee           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status                string          `gorm:"type:varchar(16);not null;index:idx_transfers_status_scheduled,priority:1"`
	ScheduledAt           *time.Time      `gorm:"index:idx_transfers_status_scheduled,priority:2"`
	StartedAt             *time.Time      `gorm:"index"`
	CompletedAt           *time.Time
	ProviderTransactionID string `gorm:"type:varchar(100)"`
	ErrorMessage          string `gorm:"type:text"`
	RequestID             string `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (WarehouseTransferModel) TableName() string {
	return "warehouse_transfers"
}

// ToDomain converts the persistence model to a domain WarehouseTransfer
func (m *WarehouseTransferModel) ToDomain() *fulfillment.WarehouseTransfer {
	return &fulfillment.WarehouseTransfer{
		SellerEntity:          m.ToSellerEntity(),
		ProductID:             m.ProductID,
		SourceWarehouseID:     m.SourceWarehouseID,
		TargetWarehouseID:     m.TargetWarehouseID,
		Quantity:              m.Quantity,
		Sandbox:               m.Sandbox,
		TransferFee:           m.TransferFee,
		Status:                fulfillment.TransferStatus(m.Status),
		ScheduledAt:           m.ScheduledAt,
		StartedAt:             m.StartedAt,
		CompletedAt:           m.CompletedAt,
		ProviderTransactionID: m.ProviderTransactionID,
		ErrorMessage:          m.ErrorMessage,
		RequestID:             m.RequestID,
	}
}

// FromDomain populates the persistence model from a domain WarehouseTransfer
func (m *WarehouseTransferModel) FromDomain(t *fulfillment.WarehouseTransfer) {
	m.FromDomainSellerEntity(t.SellerEntity)
	m.ProductID = t.ProductID
	m.SourceWarehouseID = t.SourceWarehouseID
	m.TargetWarehouseID = t.TargetWarehouseID
	m.Quantity = t.Quantity
	m.Sandbox = t.Sandbox
	m.TransferFee = t.TransferFee
	m.Status = string(t.Status)
	m.ScheduledAt = t.ScheduledAt
	m.StartedAt = t.StartedAt
	m.CompletedAt = t.CompletedAt
	m.ProviderTransactionID = t.ProviderTransactionID
	m.ErrorMessage = t.ErrorMessage
	m.RequestID = t.RequestID
}

// WarehouseTransferModelFromDomain creates a new persistence model from a domain WarehouseTransfer
func WarehouseTransferModelFromDomain(t *fulfillment.WarehouseTransfer) *WarehouseTransferModel {
	m := &WarehouseTransferModel{}
	m.FromDomain(t)
	return m
}
