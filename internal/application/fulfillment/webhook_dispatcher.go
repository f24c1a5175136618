package fulfillment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/event"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
	"github.com/fulfillsync/backend/internal/infrastructure/retry"
	"github.com/fulfillsync/backend/internal/infrastructure/webhook"
)

// SubscriptionInactive is the dead-letter reason for deliveries whose
// subscription is gone
const SubscriptionInactive = "subscription inactive"

// DeliverySender posts one signed body to a subscriber
type DeliverySender interface {
	Send(ctx context.Context, msg webhook.Message) (int, error)
}

// DeliveryTrigger wakes the delivery loop
type DeliveryTrigger interface {
	Trigger()
}

// WebhookDispatcher fans events out to the seller's subscriptions. Every
// (event, subscription) pair becomes its own persisted delivery, so one slow
// or failing subscriber never holds back another.
type WebhookDispatcher struct {
	subscriptions fulfillment.SubscriptionRepository
	deliveries    fulfillment.DeliveryRepository
	sender        DeliverySender
	policy        retry.Policy
	trigger       DeliveryTrigger
	metrics       Metrics
	logger        *zap.Logger
	now           func() time.Time
}

// NewWebhookDispatcher creates a dispatcher. The policy's MaxAttempts is the
// attempt budget of each delivery.
func NewWebhookDispatcher(
	subscriptions fulfillment.SubscriptionRepository,
	deliveries fulfillment.DeliveryRepository,
	sender DeliverySender,
	policy retry.Policy,
	metrics Metrics,
	logger *zap.Logger,
) *WebhookDispatcher {
	return &WebhookDispatcher{
		subscriptions: subscriptions,
		deliveries:    deliveries,
		sender:        sender,
		policy:        policy,
		metrics:       metricsOrNop(metrics),
		logger:        logger,
		now:           time.Now,
	}
}

// SetTrigger attaches the delivery loop woken after new deliveries are queued
func (d *WebhookDispatcher) SetTrigger(t DeliveryTrigger) {
	d.trigger = t
}

// Dispatch queues one delivery per matching active subscription and returns
// how many were queued. A failure for one subscription does not stop the
// others; all failures are returned joined.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, e shared.DomainEvent) (int, error) {
	env, err := event.NewEnvelope(e)
	if err != nil {
		return 0, err
	}
	body, err := env.Marshal()
	if err != nil {
		return 0, fmt.Errorf("dispatcher: encode envelope: %w", err)
	}
	subs, err := d.subscriptions.FindActiveBySeller(ctx, e.SellerID())
	if err != nil {
		return 0, err
	}

	now := d.now().UTC()
	queued := 0
	var errs []error
	for i := range subs {
		sub := &subs[i]
		if !sub.Matches(e.EventType()) {
			continue
		}
		delivery := fulfillment.NewWebhookDelivery(e.EventID(), sub, e.EventType(), body, d.policy.MaxAttempts, now)
		if _, created, err := d.deliveries.CreateIfAbsent(ctx, delivery); err != nil {
			logger.WithLogger(ctx, d.logger).Error("Failed to queue webhook delivery",
				zap.String("event_id", e.EventID().String()),
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		} else if created {
			queued++
		}
	}
	if queued > 0 {
		logger.WithLogger(ctx, d.logger).Debug("Queued webhook deliveries",
			zap.String("event_type", e.EventType()),
			zap.String("event_id", e.EventID().String()),
			zap.Int("count", queued),
		)
		if d.trigger != nil {
			d.trigger.Trigger()
		}
	}
	return queued, errors.Join(errs...)
}

// Handle implements shared.EventHandler
func (d *WebhookDispatcher) Handle(ctx context.Context, e shared.DomainEvent) error {
	_, err := d.Dispatch(ctx, e)
	return err
}

// EventTypes are the lifecycle events subscribers can receive from the bus
func (d *WebhookDispatcher) EventTypes() []string {
	return []string{
		fulfillment.EventTypeSyncCompleted,
		fulfillment.EventTypeSyncFailed,
		fulfillment.EventTypeTransferCompleted,
		fulfillment.EventTypeTransferFailed,
	}
}

// Attempt makes one delivery attempt and persists the outcome
func (d *WebhookDispatcher) Attempt(ctx context.Context, delivery *fulfillment.WebhookDelivery) error {
	log := logger.WithLogger(ctx, d.logger).With(
		zap.String("delivery_id", delivery.ID.String()),
		zap.String("event_type", delivery.EventType),
		zap.String("subscriber_url", delivery.SubscriberURL),
	)

	sub, err := d.subscriptions.FindByID(ctx, delivery.SubscriptionID)
	switch {
	case err == nil && sub.Active:
	case err == nil || errors.Is(err, shared.ErrNotFound):
		delivery.DeadLetter(SubscriptionInactive, d.now().UTC())
		log.Info("Dead-lettered delivery of inactive subscription")
		d.metrics.RecordWebhookDelivery(ctx, delivery.Status)
		return d.deliveries.Update(context.WithoutCancel(ctx), delivery)
	default:
		return err
	}

	code, sendErr := d.sender.Send(ctx, webhook.Message{
		URL:        delivery.SubscriberURL,
		EventType:  delivery.EventType,
		DeliveryID: delivery.ID.String(),
		Secret:     sub.Secret,
		Body:       delivery.Payload,
	})
	now := d.now().UTC()
	if sendErr == nil {
		delivery.RecordSuccess(code, now)
		log.Debug("Webhook delivered", zap.Int("status_code", code), zap.Int("attempt", delivery.Attempt))
	} else {
		dead := delivery.RecordFailure(code, sendErr.Error(), d.policy.Delay(delivery.Attempt+1), now)
		fields := []zap.Field{
			zap.Int("status_code", code),
			zap.Int("attempt", delivery.Attempt),
			zap.Int("max_attempts", delivery.MaxAttempts),
			zap.Error(sendErr),
		}
		if dead {
			log.Error("Webhook delivery dead-lettered", fields...)
		} else {
			log.Warn("Webhook delivery failed, retry scheduled", append(fields, zap.Timep("next_attempt_at", delivery.NextAttemptAt))...)
		}
	}
	d.metrics.RecordWebhookDelivery(ctx, delivery.Status)
	return d.deliveries.Update(context.WithoutCancel(ctx), delivery)
}

// CreateSubscription registers an endpoint. A signing secret is generated
// when none is given.
func (d *WebhookDispatcher) CreateSubscription(ctx context.Context, sellerID uuid.UUID, url string, eventTypes []string, secret string) (*fulfillment.WebhookSubscription, error) {
	if sellerID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("seller id is required")
	}
	if secret == "" {
		var err error
		if secret, err = newSigningSecret(); err != nil {
			return nil, err
		}
	}
	sub, err := fulfillment.NewWebhookSubscription(sellerID, url, eventTypes, secret, d.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := d.subscriptions.Save(ctx, sub); err != nil {
		return nil, err
	}
	logger.WithLogger(ctx, d.logger).Info("Webhook subscription created",
		zap.String("subscription_id", sub.ID.String()),
		zap.Strings("event_types", sub.EventTypes),
	)
	return sub, nil
}

// ListSubscriptions returns every subscription of a seller
func (d *WebhookDispatcher) ListSubscriptions(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.WebhookSubscription, error) {
	return d.subscriptions.FindBySeller(ctx, sellerID)
}

// DeactivateSubscription stops deliveries to a subscription. Pending
// deliveries are dead-lettered on their next attempt.
func (d *WebhookDispatcher) DeactivateSubscription(ctx context.Context, sellerID, id uuid.UUID) error {
	sub, err := d.subscriptions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !sub.BelongsTo(sellerID) {
		return shared.ErrNotFound
	}
	sub.Deactivate(d.now().UTC())
	if err := d.subscriptions.Save(ctx, sub); err != nil {
		return err
	}
	logger.WithLogger(ctx, d.logger).Info("Webhook subscription deactivated", zap.String("subscription_id", id.String()))
	return nil
}

// ListDeliveries returns deliveries of a seller, optionally by status
func (d *WebhookDispatcher) ListDeliveries(ctx context.Context, filter fulfillment.DeliveryFilter) ([]fulfillment.WebhookDelivery, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return d.deliveries.List(ctx, filter)
}

// ReplayDelivery re-queues a dead-lettered delivery with a fresh budget
func (d *WebhookDispatcher) ReplayDelivery(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.WebhookDelivery, error) {
	delivery, err := d.deliveries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery.SellerID != sellerID {
		return nil, shared.ErrNotFound
	}
	if err := delivery.Replay(d.now().UTC()); err != nil {
		return nil, shared.ErrInvalidState.WithMessage("only dead-lettered deliveries can be replayed")
	}
	if err := d.deliveries.Update(ctx, delivery); err != nil {
		return nil, err
	}
	logger.WithLogger(ctx, d.logger).Info("Webhook delivery replayed", zap.String("delivery_id", id.String()))
	if d.trigger != nil {
		d.trigger.Trigger()
	}
	return delivery, nil
}

func newSigningSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("dispatcher: generate secret: %w", err)
	}
	return "whsec_" + hex.EncodeToString(b), nil
}

var (
	_ shared.EventHandler     = (*WebhookDispatcher)(nil)
	_ event.DeliveryAttempter = (*WebhookDispatcher)(nil)
)
