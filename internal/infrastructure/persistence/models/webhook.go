package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// WebhookEventModel is the persistence model for inbound WebhookEvents.
// The unique (source_provider, dedupe_key) index is the replay guard.
type WebhookEventModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	SellerID       uuid.UUID `gorm:"type:uuid;index"`
	SourceProvider string    `gorm:"type:varchar(32);not null;uniqueIndex:uq_webhook_events_dedupe,priority:1"`
	DedupeKey      string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_webhook_events_dedupe,priority:2"`
	EventType      string    `gorm:"type:varchar(100);not null;index"`
	ExternalID     string    `gorm:"type:varchar(100)"`
	OrderID        string    `gorm:"type:varchar(100);index"`
	Payload        []byte    `gorm:"type:jsonb;not null"`
	ReceivedAt     time.Time `gorm:"not null"`
	SignatureValid bool      `gorm:"not null"`
	RequestID      string    `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (WebhookEventModel) TableName() string {
	return "webhook_events"
}

// ToDomain converts the persistence model to a domain WebhookEvent
func (m *WebhookEventModel) ToDomain() *fulfillment.WebhookEvent {
	return &fulfillment.WebhookEvent{
		ID:             m.ID,
		SellerID:       m.SellerID,
		SourceProvider: fulfillment.ProviderName(m.SourceProvider),
		EventType:      m.EventType,
		ExternalID:     m.ExternalID,
		OrderID:        m.OrderID,
		DedupeKey:      m.DedupeKey,
		Payload:        m.Payload,
		ReceivedAt:     m.ReceivedAt,
		SignatureValid: m.SignatureValid,
		RequestID:      m.RequestID,
	}
}

// WebhookEventModelFromDomain creates a new persistence model from a domain WebhookEvent
func WebhookEventModelFromDomain(e *fulfillment.WebhookEvent) *WebhookEventModel {
	return &WebhookEventModel{
		ID:             e.ID,
		SellerID:       e.SellerID,
		SourceProvider: string(e.SourceProvider),
		DedupeKey:      e.DedupeKey,
		EventType:      e.EventType,
		ExternalID:     e.ExternalID,
		OrderID:        e.OrderID,
		Payload:        e.Payload,
		ReceivedAt:     e.ReceivedAt,
		SignatureValid: e.SignatureValid,
		RequestID:      e.RequestID,
	}
}

// WebhookSubscriptionModel is the persistence model for WebhookSubscription
type WebhookSubscriptionModel struct {
	SellerModel
	URL        string   `gorm:"type:varchar(2048);not null"`
	EventTypes []string `gorm:"type:jsonb;serializer:json;not null"`
	Secret     string   `gorm:"type:varchar(256)"`
	Active     bool     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (WebhookSubscriptionModel) TableName() string {
	return "webhook_subscriptions"
}

// ToDomain converts the persistence model to a domain WebhookSubscription
func (m *WebhookSubscriptionModel) ToDomain() *fulfillment.WebhookSubscription {
	return &fulfillment.WebhookSubscription{
		SellerEntity: m.ToSellerEntity(),
		URL:          m.URL,
		EventTypes:   m.EventTypes,
		Secret:       m.Secret,
		Active:       m.Active,
	}
}

// WebhookSubscriptionModelFromDomain creates a new persistence model from a domain WebhookSubscription
func WebhookSubscriptionModelFromDomain(s *fulfillment.WebhookSubscription) *WebhookSubscriptionModel {
	m := &WebhookSubscriptionModel{
		URL:        s.URL,
		EventTypes: s.EventTypes,
		Secret:     s.Secret,
		Active:     s.Active,
	}
	m.FromDomainSellerEntity(s.SellerEntity)
	return m
}

// WebhookDeliveryModel is the persistence model for WebhookDelivery, one row per (event, subscription)
type WebhookDeliveryModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key"`
	EventID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_webhook_deliveries_event_sub,priority:1"`
	SubscriptionID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_webhook_deliveries_event_sub,priority:2"`
	SellerID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	SubscriberURL  string     `gorm:"type:varchar(2048);not null"`
	EventType      string     `gorm:"type:varchar(100);not null"`
	Payload        []byte     `gorm:"type:jsonb;not null"`
	Attempt        int        `gorm:"not null"`
	MaxAttempts    int        `gorm:"not null"`
	Status         string     `gorm:"type:varchar(20);not null;index:idx_webhook_deliveries_due,priority:1"`
	NextAttemptAt  *time.Time `gorm:"index:idx_webhook_deliveries_due,priority:2"`
	LastAttemptAt  *time.Time
	LastStatusCode int    `gorm:"not null"`
	LastError      string `gorm:"type:text"`
	DeliveredAt    *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WebhookDeliveryModel) TableName() string {
	return "webhook_deliveries"
}

// ToDomain converts the persistence model to a domain WebhookDelivery
func (m *WebhookDeliveryModel) ToDomain() *fulfillment.WebhookDelivery {
	return &fulfillment.WebhookDelivery{
		ID:             m.ID,
		EventID:        m.EventID,
		SubscriptionID: m.SubscriptionID,
		SellerID:       m.SellerID,
		SubscriberURL:  m.SubscriberURL,
		EventType:      m.EventType,
		Payload:        m.Payload,
		Attempt:        m.Attempt,
		MaxAttempts:    m.MaxAttempts,
		Status:         fulfillment.DeliveryStatus(m.Status),
		LastAttemptAt:  m.LastAttemptAt,
		NextAttemptAt:  m.NextAttemptAt,
		LastStatusCode: m.LastStatusCode,
		LastError:      m.LastError,
		DeliveredAt:    m.DeliveredAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// WebhookDeliveryModelFromDomain creates a new persistence model from a domain WebhookDelivery
func WebhookDeliveryModelFromDomain(d *fulfillment.WebhookDelivery) *WebhookDeliveryModel {
	return &WebhookDeliveryModel{
		ID:             d.ID,
		EventID:        d.EventID,
		SubscriptionID: d.SubscriptionID,
		SellerID:       d.SellerID,
		SubscriberURL:  d.SubscriberURL,
		EventType:      d.EventType,
		Payload:        d.Payload,
		Attempt:        d.Attempt,
		MaxAttempts:    d.MaxAttempts,
		Status:         string(d.Status),
		NextAttemptAt:  d.NextAttemptAt,
		LastAttemptAt:  d.LastAttemptAt,
		LastStatusCode: d.LastStatusCode,
		LastError:      d.LastError,
		DeliveredAt:    d.DeliveredAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// AllModels lists every model owned by this service, in migration order
func AllModels() []any {
	return []any{
		&ProviderCredentialModel{},
		&SyncScheduleModel{},
		&SyncRunModel{},
		&ResourceLockModel{},
		&WarehouseModel{},
		&ProductListingModel{},
		&StockLevelModel{},
		&WarehouseTransferModel{},
		&WebhookEventModel{},
		&WebhookSubscriptionModel{},
		&WebhookDeliveryModel{},
	}
}
