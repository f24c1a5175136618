package handler

import (
	"time"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// Inbound webhook headers. The signature header name embeds the provider,
// e.g. x-shipbob-signature.
const (
	ProviderHeader        = "X-Fulfillment-Provider"
	signatureHeaderFormat = "X-%s-Signature"
)

// InboundWebhookResponse acknowledges an accepted provider webhook
type InboundWebhookResponse struct {
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
	Duplicate bool   `json:"duplicate"`
}

// CreateSubscriptionRequest registers an outbound webhook endpoint
type CreateSubscriptionRequest struct {
	URL        string   `json:"url" binding:"required,url,max=2048"`
	EventTypes []string `json:"eventTypes" binding:"required,min=1,max=32,dive,required,max=64"`
	Secret     string   `json:"secret" binding:"omitempty,min=16,max=128"`
}

// SubscriptionResponse is the API view of a WebhookSubscription. The secret
// is only populated in the creation response.
type SubscriptionResponse struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	EventTypes []string  `json:"eventTypes"`
	Secret     string    `json:"secret,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toSubscriptionResponse(s *fulfillment.WebhookSubscription, withSecret bool) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:         s.ID.String(),
		URL:        s.URL,
		EventTypes: s.EventTypes,
		Active:     s.Active,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if withSecret {
		resp.Secret = s.Secret
	}
	return resp
}

func toSubscriptionResponses(subs []fulfillment.WebhookSubscription) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, toSubscriptionResponse(&subs[i], false))
	}
	return out
}

// DeliveryListQuery filters GET /v1/webhooks/deliveries
type DeliveryListQuery struct {
	Status  string `form:"status" binding:"omitempty,oneof=pending delivered dead_lettered"`
	EventID string `form:"eventId" binding:"omitempty,uuid"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// DeliveryResponse is the API view of a WebhookDelivery
type DeliveryResponse struct {
	ID             string     `json:"id"`
	EventID        string     `json:"eventId"`
	SubscriptionID string     `json:"subscriptionId"`
	SubscriberURL  string     `json:"subscriberUrl"`
	EventType      string     `json:"eventType"`
	Status         string     `json:"status"`
	Attempt        int        `json:"attempt"`
	MaxAttempts    int        `json:"maxAttempts"`
	LastAttemptAt  *time.Time `json:"lastAttemptAt,omitempty"`
	NextAttemptAt  *time.Time `json:"nextAttemptAt,omitempty"`
	LastStatusCode int        `json:"lastStatusCode,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func toDeliveryResponse(d *fulfillment.WebhookDelivery) DeliveryResponse {
	return DeliveryResponse{
		ID:             d.ID.String(),
		EventID:        d.EventID.String(),
		SubscriptionID: d.SubscriptionID.String(),
		SubscriberURL:  d.SubscriberURL,
		EventType:      d.EventType,
		Status:         string(d.Status),
		Attempt:        d.Attempt,
		MaxAttempts:    d.MaxAttempts,
		LastAttemptAt:  d.LastAttemptAt,
		NextAttemptAt:  d.NextAttemptAt,
		LastStatusCode: d.LastStatusCode,
		LastError:      d.LastError,
		DeliveredAt:    d.DeliveredAt,
		CreatedAt:      d.CreatedAt,
	}
}

func toDeliveryResponses(deliveries []fulfillment.WebhookDelivery) []DeliveryResponse {
	out := make([]DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		out = append(out, toDeliveryResponse(&deliveries[i]))
	}
	return out
}
