package fulfillment

import (
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/shared"
)

// Event types fanned out to subscribers and published downstream
const (
	EventTypeSyncCompleted     = "inventory.sync.completed"
	EventTypeSyncFailed        = "inventory.sync.failed"
	EventTypeTransferCompleted = "warehouse.transfer.completed"
	EventTypeTransferFailed    = "warehouse.transfer.failed"
	EventTypeWebhookReceived   = "provider.webhook.received"
)

// Aggregate types
const (
	AggregateTypeSyncRun  = "SyncRun"
	AggregateTypeTransfer = "WarehouseTransfer"
	AggregateTypeWebhook  = "WebhookEvent"
)

// SyncRunFinishedEvent is raised when a run reaches a terminal state
type SyncRunFinishedEvent struct {
	shared.BaseDomainEvent
	RunID        uuid.UUID     `json:"run_id"`
	ScheduleID   *uuid.UUID    `json:"schedule_id,omitempty"`
	Provider     ProviderName  `json:"provider"`
	Status       SyncRunStatus `json:"status"`
	ItemsSynced  int           `json:"items_synced"`
	ItemsFailed  int           `json:"items_failed"`
	ErrorSummary string        `json:"error_summary,omitempty"`
	FinishedAt   time.Time     `json:"finished_at"`
}

// NewSyncRunFinishedEvent builds the event from a terminal run
func NewSyncRunFinishedEvent(run *SyncRun) *SyncRunFinishedEvent {
	eventType := EventTypeSyncCompleted
	if run.Status == SyncRunStatusFailed {
		eventType = EventTypeSyncFailed
	}
	base := shared.NewBaseDomainEvent(eventType, AggregateTypeSyncRun, run.ID, run.SellerID)
	base.RequestID = run.RequestID
	e := &SyncRunFinishedEvent{
		BaseDomainEvent: base,
		RunID:           run.ID,
		ScheduleID:      run.ScheduleID,
		Provider:        run.ProviderName,
		Status:          run.Status,
		ItemsSynced:     run.ItemsSynced,
		ItemsFailed:     run.ItemsFailed,
		ErrorSummary:    run.ErrorSummary,
	}
	if run.FinishedAt != nil {
		e.FinishedAt = *run.FinishedAt
	}
	return e
}

// TransferFinishedEvent is raised when a transfer completes or fails
type TransferFinishedEvent struct {
	shared.BaseDomainEvent
	TransferID            uuid.UUID      `json:"transfer_id"`
	ProductID             uuid.UUID      `json:"product_id"`
	SourceWarehouseID     uuid.UUID      `json:"source_warehouse_id"`
	TargetWarehouseID     uuid.UUID      `json:"target_warehouse_id"`
	Quantity              int64          `json:"quantity"`
	TransferFee           string         `json:"transfer_fee"`
	Status                TransferStatus `json:"status"`
	ProviderTransactionID string         `json:"provider_transaction_id,omitempty"`
	ErrorMessage          string         `json:"error_message,omitempty"`
}

// NewTransferFinishedEvent builds the event from a terminal transfer
func NewTransferFinishedEvent(t *WarehouseTransfer) *TransferFinishedEvent {
	eventType := EventTypeTransferCompleted
	if t.Status != TransferStatusCompleted {
		eventType = EventTypeTransferFailed
	}
	base := shared.NewBaseDomainEvent(eventType, AggregateTypeTransfer, t.ID, t.SellerID)
	base.RequestID = t.RequestID
	return &TransferFinishedEvent{
		BaseDomainEvent:       base,
		TransferID:            t.ID,
		ProductID:             t.ProductID,
		SourceWarehouseID:     t.SourceWarehouseID,
		TargetWarehouseID:     t.TargetWarehouseID,
		Quantity:              t.Quantity,
		TransferFee:           t.TransferFee.StringFixed(2),
		Status:                t.Status,
		ProviderTransactionID: t.ProviderTransactionID,
		ErrorMessage:          t.ErrorMessage,
	}
}

// WebhookReceivedEvent republishes a verified inbound webhook downstream
type WebhookReceivedEvent struct {
	shared.BaseDomainEvent
	Provider   ProviderName   `json:"provider"`
	Type       string         `json:"event_type"`
	ExternalID string         `json:"external_id,omitempty"`
	OrderID    string         `json:"order_id,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// NewWebhookReceivedEvent builds the event from a stored inbound webhook
func NewWebhookReceivedEvent(e *WebhookEvent, data map[string]any) *WebhookReceivedEvent {
	base := shared.NewBaseDomainEvent(EventTypeWebhookReceived, AggregateTypeWebhook, e.ID, e.SellerID)
	// the stored event id keeps a redelivered webhook on the same deliveries
	base.ID = e.ID
	base.Timestamp = e.ReceivedAt
	base.RequestID = e.RequestID
	return &WebhookReceivedEvent{
		BaseDomainEvent: base,
		Provider:        e.SourceProvider,
		Type:            e.EventType,
		ExternalID:      e.ExternalID,
		OrderID:         e.OrderID,
		Data:            data,
	}
}
