package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
	"github.com/fulfillsync/backend/internal/infrastructure/webhook"
)

// EventTypeOrderPaid is the normalized payment event that starts fulfillment
const EventTypeOrderPaid = "order.paid"

// EventDispatcher fans an event out to subscribers
type EventDispatcher interface {
	Dispatch(ctx context.Context, e shared.DomainEvent) (int, error)
}

// OrderProcessor creates provider fulfillment orders
type OrderProcessor interface {
	ProcessOrder(ctx context.Context, req OrderRequest) (*fulfillment.FulfillmentOrderResult, error)
}

// WebhookGatewayConfig configures inbound verification
type WebhookGatewayConfig struct {
	// Secrets holds the shared HMAC secret of each provider
	Secrets         map[fulfillment.ProviderName]string
	MaxPayloadBytes int64
}

// InboundResult describes an accepted inbound webhook
type InboundResult struct {
	EventID   uuid.UUID
	EventType string
	Duplicate bool
}

// WebhookGateway accepts provider webhooks. Signatures are verified over the
// raw body before anything is parsed; the gateway never retries.
type WebhookGateway struct {
	providers  fulfillment.ProviderRegistry
	events     fulfillment.WebhookEventRepository
	dispatcher EventDispatcher
	publisher  shared.EventPublisher
	orders     OrderProcessor
	notifier   fulfillment.NotificationSender
	metrics    Metrics
	config     WebhookGatewayConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewWebhookGateway creates a gateway
func NewWebhookGateway(
	providers fulfillment.ProviderRegistry,
	events fulfillment.WebhookEventRepository,
	dispatcher EventDispatcher,
	publisher shared.EventPublisher,
	orders OrderProcessor,
	notifier fulfillment.NotificationSender,
	metrics Metrics,
	config WebhookGatewayConfig,
	logger *zap.Logger,
) *WebhookGateway {
	return &WebhookGateway{
		providers:  providers,
		events:     events,
		dispatcher: dispatcher,
		publisher:  publisher,
		orders:     orders,
		notifier:   notifier,
		metrics:    metricsOrNop(metrics),
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Receive verifies, normalizes and stores one inbound webhook, then hands it
// to the dispatcher. A replayed body is dispatched again, which queues only
// the deliveries still missing, but is not processed again. A dispatch
// failure is returned so the provider redelivers.
func (g *WebhookGateway) Receive(ctx context.Context, provider fulfillment.ProviderName, raw []byte, signature string) (*InboundResult, error) {
	client, err := g.providers.Get(provider)
	if err != nil {
		return nil, err
	}
	if g.config.MaxPayloadBytes > 0 && int64(len(raw)) > g.config.MaxPayloadBytes {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", fulfillment.ErrMalformedPayload, g.config.MaxPayloadBytes)
	}

	if !webhook.Verify(g.config.Secrets[provider], raw, signature) {
		g.metrics.RecordWebhookEvent(ctx, provider, false)
		logger.WithLogger(ctx, g.logger).Security("Rejected webhook with invalid signature",
			zap.String("provider", provider.String()),
			zap.Int("body_size", len(raw)),
			zap.Bool("signature_present", signature != ""),
		)
		return nil, fulfillment.ErrInvalidSignature
	}
	g.metrics.RecordWebhookEvent(ctx, provider, true)

	normalized, err := client.HandleWebhook(raw)
	if err != nil {
		logger.WithLogger(ctx, g.logger).Warn("Rejected malformed webhook",
			zap.String("provider", provider.String()),
			zap.Error(err),
		)
		return nil, err
	}

	ev := &fulfillment.WebhookEvent{
		ID:             uuid.New(),
		SellerID:       normalized.SellerID,
		SourceProvider: provider,
		EventType:      normalized.EventType,
		ExternalID:     normalized.ExternalID,
		OrderID:        normalized.OrderID,
		DedupeKey:      fulfillment.DedupeKey(provider, raw),
		Payload:        raw,
		ReceivedAt:     g.now().UTC(),
		SignatureValid: true,
		RequestID:      logger.GetRequestID(ctx),
	}
	stored, created, err := g.events.CreateIfAbsent(ctx, ev)
	if err != nil {
		return nil, err
	}
	log := logger.WithLogger(ctx, g.logger).With(
		zap.String("webhook_event_id", stored.ID.String()),
		zap.String("provider", provider.String()),
		zap.String("event_type", stored.EventType),
	)
	received := fulfillment.NewWebhookReceivedEvent(stored, normalized.Data)
	_, dispatchErr := g.dispatcher.Dispatch(ctx, received)
	if dispatchErr != nil {
		log.Error("Failed to dispatch webhook event", zap.Error(dispatchErr))
		dispatchErr = fmt.Errorf("webhook: dispatch event %s: %w", stored.ID, dispatchErr)
	}
	if !created {
		log.Info("Duplicate webhook acknowledged")
		if dispatchErr != nil {
			return nil, dispatchErr
		}
		return &InboundResult{EventID: stored.ID, EventType: stored.EventType, Duplicate: true}, nil
	}
	log.Info("Webhook accepted", zap.String("seller_id", stored.SellerID.String()))

	if g.publisher != nil {
		if err := g.publisher.Publish(ctx, received); err != nil {
			log.Error("Failed to publish webhook event", zap.Error(err))
		}
	}
	if normalized.EventType == EventTypeOrderPaid {
		g.fulfillOrder(ctx, provider, normalized)
	}
	if dispatchErr != nil {
		return nil, dispatchErr
	}
	return &InboundResult{EventID: stored.ID, EventType: stored.EventType}, nil
}

// orderPayload is the order shape carried in the data of a payment event
type orderPayload struct {
	Lines         []fulfillment.OrderLine `json:"lines"`
	ShipTo        fulfillment.Address     `json:"ship_to"`
	ShippingSpeed string                  `json:"shipping_speed"`
	Sandbox       bool                    `json:"sandbox"`
}

// fulfillOrder starts fulfillment of a paid order. A failure is reported to
// the seller; the webhook itself is still accepted.
func (g *WebhookGateway) fulfillOrder(ctx context.Context, provider fulfillment.ProviderName, ev *fulfillment.NormalizedEvent) {
	if g.orders == nil {
		return
	}
	req := OrderRequest{SellerID: ev.SellerID, Provider: provider, OrderID: ev.OrderID}
	payload, err := decodeOrderPayload(ev.Data)
	if err == nil {
		req.Lines = payload.Lines
		req.ShipTo = payload.ShipTo
		req.ShippingSpeed = payload.ShippingSpeed
		req.Sandbox = payload.Sandbox
		_, err = g.orders.ProcessOrder(ctx, req)
	}
	if err == nil {
		return
	}
	logger.WithLogger(ctx, g.logger).Warn("Fulfillment of paid order failed",
		zap.String("order_id", ev.OrderID),
		zap.String("provider", provider.String()),
		zap.Error(err),
	)
	notify(ctx, g.notifier, g.logger, fulfillment.Notification{
		UserID:   ev.SellerID,
		Type:     fulfillment.NotificationFulfillmentFailed,
		Title:    "Order fulfillment failed",
		Message:  fmt.Sprintf("Order %s could not be sent to %s: %s", ev.OrderID, provider.DisplayName(), fulfillmentFailureReason(err)),
		Channels: []string{fulfillment.ChannelEmail, fulfillment.ChannelInApp},
		Data: map[string]any{
			"orderId":   ev.OrderID,
			"provider":  provider.String(),
			"errorCode": fulfillment.Classify(err),
		},
	})
}

func decodeOrderPayload(data map[string]any) (*orderPayload, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrMalformedPayload, err)
	}
	var p orderPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: order data: %v", fulfillment.ErrMalformedPayload, err)
	}
	return &p, nil
}

func fulfillmentFailureReason(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	switch fulfillment.Classify(err) {
	case "auth_error":
		return "the provider connection needs to be re-authorized"
	case "rate_limited", "provider_unavailable":
		return "the provider is temporarily unavailable"
	default:
		return "the provider rejected the order"
	}
}
