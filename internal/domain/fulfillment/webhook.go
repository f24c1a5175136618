package fulfillment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/shared"
)

// WildcardEventType subscribes to every event type
const WildcardEventType = "*"

// ---------------------------------------------------------------------------
// Inbound events
// ---------------------------------------------------------------------------

// WebhookEvent is a verified, normalized inbound provider webhook. It is
// immutable once stored and deduplicated on (SourceProvider, DedupeKey).
type WebhookEvent struct {
	ID             uuid.UUID
	SellerID       uuid.UUID
	SourceProvider ProviderName
	EventType      string
	ExternalID     string
	OrderID        string
	DedupeKey      string
	Payload        []byte
	ReceivedAt     time.Time
	SignatureValid bool
	RequestID      string
}

// DedupeKey derives the replay key of a raw webhook body
func DedupeKey(provider ProviderName, raw []byte) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil))
}

// WebhookEventRepository persists inbound events
type WebhookEventRepository interface {
	// CreateIfAbsent stores the event unless one with the same dedupe key
	// exists, in which case the stored event is returned and created is false.
	CreateIfAbsent(ctx context.Context, event *WebhookEvent) (stored *WebhookEvent, created bool, err error)
	FindByID(ctx context.Context, id uuid.UUID) (*WebhookEvent, error)
}

// ---------------------------------------------------------------------------
// Subscriptions
// ---------------------------------------------------------------------------

// WebhookSubscription is a seller endpoint receiving fanned-out events
type WebhookSubscription struct {
	shared.SellerEntity
	URL        string
	EventTypes []string
	Secret     string
	Active     bool
}

// NewWebhookSubscription validates and creates an active subscription
func NewWebhookSubscription(sellerID uuid.UUID, rawURL string, eventTypes []string, secret string, now time.Time) (*WebhookSubscription, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, shared.ErrInvalidInput.WithMessage("subscription url must be an absolute http(s) url")
	}
	if len(eventTypes) == 0 {
		eventTypes = []string{WildcardEventType}
	}
	cleaned := make([]string, 0, len(eventTypes))
	for _, t := range eventTypes {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return &WebhookSubscription{
		SellerEntity: shared.NewSellerEntity(sellerID, now),
		URL:          u.String(),
		EventTypes:   cleaned,
		Secret:       secret,
		Active:       true,
	}, nil
}

// Matches reports whether the subscription wants eventType
func (s *WebhookSubscription) Matches(eventType string) bool {
	if !s.Active {
		return false
	}
	for _, t := range s.EventTypes {
		if t == WildcardEventType || t == eventType {
			return true
		}
		if strings.HasSuffix(t, ".*") && strings.HasPrefix(eventType, strings.TrimSuffix(t, "*")) {
			return true
		}
	}
	return false
}

// Deactivate stops deliveries to the endpoint
func (s *WebhookSubscription) Deactivate(now time.Time) {
	s.Active = false
	s.Touch(now)
}

// SubscriptionRepository persists subscriptions
type SubscriptionRepository interface {
	Save(ctx context.Context, sub *WebhookSubscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*WebhookSubscription, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]WebhookSubscription, error)
	FindActiveBySeller(ctx context.Context, sellerID uuid.UUID) ([]WebhookSubscription, error)
}

// ---------------------------------------------------------------------------
// Deliveries
// ---------------------------------------------------------------------------

// DeliveryStatus is the state of one (event, subscriber) delivery
type DeliveryStatus string

const (
	DeliveryStatusPending      DeliveryStatus = "pending"
	DeliveryStatusDelivered    DeliveryStatus = "delivered"
	DeliveryStatusDeadLettered DeliveryStatus = "dead_lettered"
)

// IsValid returns true if the status is a known value
func (s DeliveryStatus) IsValid() bool {
	return s == DeliveryStatusPending || s == DeliveryStatusDelivered || s == DeliveryStatusDeadLettered
}

// WebhookDelivery tracks delivery of one event to one subscriber. The body is
// stored on the row so retries do not depend on the source event.
type WebhookDelivery struct {
	ID             uuid.UUID
	EventID        uuid.UUID
	SubscriptionID uuid.UUID
	SellerID       uuid.UUID
	SubscriberURL  string
	EventType      string
	Payload        []byte
	Attempt        int
	MaxAttempts    int
	Status         DeliveryStatus
	LastAttemptAt  *time.Time
	NextAttemptAt  *time.Time
	LastStatusCode int
	LastError      string
	DeliveredAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewWebhookDelivery creates a pending delivery due immediately
func NewWebhookDelivery(eventID uuid.UUID, sub *WebhookSubscription, eventType string, payload []byte, maxAttempts int, now time.Time) *WebhookDelivery {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &WebhookDelivery{
		ID:             uuid.New(),
		EventID:        eventID,
		SubscriptionID: sub.ID,
		SellerID:       sub.SellerID,
		SubscriberURL:  sub.URL,
		EventType:      eventType,
		Payload:        payload,
		MaxAttempts:    maxAttempts,
		Status:         DeliveryStatusPending,
		NextAttemptAt:  &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsDue reports whether the delivery should be attempted at now
func (d *WebhookDelivery) IsDue(now time.Time) bool {
	return d.Status == DeliveryStatusPending && (d.NextAttemptAt == nil || !now.Before(*d.NextAttemptAt))
}

// RecordSuccess marks the delivery as delivered
func (d *WebhookDelivery) RecordSuccess(statusCode int, now time.Time) {
	d.Attempt++
	d.Status = DeliveryStatusDelivered
	d.LastStatusCode = statusCode
	d.LastError = ""
	d.LastAttemptAt = &now
	d.DeliveredAt = &now
	d.NextAttemptAt = nil
	d.UpdatedAt = now
}

// RecordFailure counts a failed attempt. When attempts are exhausted the
// delivery is dead-lettered, otherwise it becomes due again after delay.
// It reports whether the delivery was dead-lettered.
func (d *WebhookDelivery) RecordFailure(statusCode int, errMsg string, delay time.Duration, now time.Time) bool {
	d.Attempt++
	d.LastStatusCode = statusCode
	d.LastError = errMsg
	d.LastAttemptAt = &now
	d.UpdatedAt = now
	if d.Attempt >= d.MaxAttempts {
		d.Status = DeliveryStatusDeadLettered
		d.NextAttemptAt = nil
		return true
	}
	next := now.Add(delay)
	d.NextAttemptAt = &next
	return false
}

// DeadLetter stops retrying without spending an attempt, for example when
// the subscription was deactivated
func (d *WebhookDelivery) DeadLetter(reason string, now time.Time) {
	d.Status = DeliveryStatusDeadLettered
	d.LastError = reason
	d.NextAttemptAt = nil
	d.UpdatedAt = now
}

// Replay re-queues a dead-lettered delivery with a fresh attempt budget
func (d *WebhookDelivery) Replay(now time.Time) error {
	if d.Status != DeliveryStatusDeadLettered {
		return ErrInvalidTransition
	}
	d.Status = DeliveryStatusPending
	d.Attempt = 0
	d.NextAttemptAt = &now
	d.UpdatedAt = now
	return nil
}

// DeliveryFilter narrows delivery listings
type DeliveryFilter struct {
	SellerID uuid.UUID
	Status   *DeliveryStatus
	EventID  *uuid.UUID
	Limit    int
}

// DeliveryRepository persists deliveries
type DeliveryRepository interface {
	// CreateIfAbsent inserts unless a row for (event, subscription) exists
	CreateIfAbsent(ctx context.Context, delivery *WebhookDelivery) (stored *WebhookDelivery, created bool, err error)
	Update(ctx context.Context, delivery *WebhookDelivery) error
	FindByID(ctx context.Context, id uuid.UUID) (*WebhookDelivery, error)
	List(ctx context.Context, filter DeliveryFilter) ([]WebhookDelivery, error)
	// ClaimDue returns due pending deliveries and pushes their next attempt
	// out by lease so concurrent processors do not pick the same rows.
	ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]WebhookDelivery, error)
}
