package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
)

// ProviderDirectory is the provider registry plus its capability lookups
type ProviderDirectory interface {
	fulfillment.ProviderRegistry
	OAuth(name fulfillment.ProviderName) (fulfillment.OAuthProvider, error)
	Fulfiller(name fulfillment.ProviderName) (fulfillment.OrderFulfiller, error)
}

// Metrics records business metrics. A nil *telemetry.FulfillmentMetrics
// satisfies it and records nothing.
type Metrics interface {
	RecordSyncRun(ctx context.Context, provider fulfillment.ProviderName, status fulfillment.SyncRunStatus)
	RecordSyncItems(ctx context.Context, provider fulfillment.ProviderName, synced, failed int)
	RecordProviderCall(ctx context.Context, provider fulfillment.ProviderName, operation string, err error, elapsed time.Duration)
	RecordTransfer(ctx context.Context, status fulfillment.TransferStatus)
	RecordWebhookEvent(ctx context.Context, provider fulfillment.ProviderName, valid bool)
	RecordWebhookDelivery(ctx context.Context, status fulfillment.DeliveryStatus)
}

type nopMetrics struct{}

func (nopMetrics) RecordSyncRun(context.Context, fulfillment.ProviderName, fulfillment.SyncRunStatus) {}
func (nopMetrics) RecordSyncItems(context.Context, fulfillment.ProviderName, int, int)              {}
func (nopMetrics) RecordProviderCall(context.Context, fulfillment.ProviderName, string, error, time.Duration) {
}
func (nopMetrics) RecordTransfer(context.Context, fulfillment.TransferStatus)      {}
func (nopMetrics) RecordWebhookEvent(context.Context, fulfillment.ProviderName, bool) {}
func (nopMetrics) RecordWebhookDelivery(context.Context, fulfillment.DeliveryStatus) {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

// notify sends n and only logs a failure. Notification delivery never
// changes the outcome of the operation that requested it.
func notify(ctx context.Context, sender fulfillment.NotificationSender, zl *zap.Logger, n fulfillment.Notification) {
	if sender == nil || n.UserID == uuid.Nil {
		return
	}
	if err := sender.Send(ctx, n); err != nil {
		logger.WithLogger(ctx, zl).Warn("Failed to request notification",
			zap.String("notification_type", n.Type),
			zap.Error(err),
		)
	}
}
