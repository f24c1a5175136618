package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
)

// Metric attribute keys
var (
	AttrProvider  = attribute.Key("provider")
	AttrStatus    = attribute.Key("status")
	AttrResult    = attribute.Key("result")
	AttrOperation = attribute.Key("operation")
	AttrOutcome   = attribute.Key("outcome")
	AttrValid     = attribute.Key("valid")
	AttrRequestID = attribute.Key("request_id")
)

// FulfillmentMetrics records the business metrics of syncs, transfers and
// webhooks. A nil *FulfillmentMetrics records nothing.
type FulfillmentMetrics struct {
	syncRuns          metric.Int64Counter
	syncItems         metric.Int64Counter
	providerCalls     metric.Int64Counter
	providerDuration  metric.Float64Histogram
	transfers         metric.Int64Counter
	webhookEvents     metric.Int64Counter
	webhookDeliveries metric.Int64Counter
}

// NewFulfillmentMetrics registers the instruments on meter
func NewFulfillmentMetrics(meter metric.Meter) (*FulfillmentMetrics, error) {
	m := &FulfillmentMetrics{}
	var err error

	counters := []struct {
		dst         *metric.Int64Counter
		name, descr string
	}{
		{&m.syncRuns, "fs_sync_runs_total", "Finished sync runs by provider and status"},
		{&m.syncItems, "fs_sync_items_total", "Listings processed by sync runs"},
		{&m.providerCalls, "fs_provider_calls_total", "Outbound provider API calls"},
		{&m.transfers, "fs_transfers_total", "Warehouse transfers reaching a status"},
		{&m.webhookEvents, "fs_webhook_events_total", "Inbound provider webhooks"},
		{&m.webhookDeliveries, "fs_webhook_deliveries_total", "Outbound webhook delivery attempts"},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.descr), metric.WithUnit("1"))
		if err != nil {
			return nil, fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
	}

	m.providerDuration, err = meter.Float64Histogram("fs_provider_call_duration_seconds",
		metric.WithDescription("Duration of outbound provider API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(ProviderCallDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram fs_provider_call_duration_seconds: %w", err)
	}
	return m, nil
}

func withRequest(ctx context.Context, attrs ...attribute.KeyValue) metric.MeasurementOption {
	if id := logger.GetRequestID(ctx); id != "" {
		attrs = append(attrs, AttrRequestID.String(id))
	}
	return metric.WithAttributes(attrs...)
}

// RecordSyncRun counts a finished sync run
func (m *FulfillmentMetrics) RecordSyncRun(ctx context.Context, provider fulfillment.ProviderName, status fulfillment.SyncRunStatus) {
	if m == nil {
		return
	}
	m.syncRuns.Add(ctx, 1, withRequest(ctx, AttrProvider.String(string(provider)), AttrStatus.String(string(status))))
}

// RecordSyncItems counts synced and failed listings of one run
func (m *FulfillmentMetrics) RecordSyncItems(ctx context.Context, provider fulfillment.ProviderName, synced, failed int) {
	if m == nil {
		return
	}
	p := AttrProvider.String(string(provider))
	if synced > 0 {
		m.syncItems.Add(ctx, int64(synced), withRequest(ctx, p, AttrResult.String("synced")))
	}
	if failed > 0 {
		m.syncItems.Add(ctx, int64(failed), withRequest(ctx, p, AttrResult.String("failed")))
	}
}

// RecordProviderCall counts one provider call and its latency. The outcome
// label is "ok" or the error class.
func (m *FulfillmentMetrics) RecordProviderCall(ctx context.Context, provider fulfillment.ProviderName, operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = fulfillment.Classify(err)
	}
	p, op := AttrProvider.String(string(provider)), AttrOperation.String(operation)
	m.providerCalls.Add(ctx, 1, withRequest(ctx, p, op, AttrOutcome.String(outcome)))
	m.providerDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(p, op))
}

// RecordTransfer counts a transfer reaching status
func (m *FulfillmentMetrics) RecordTransfer(ctx context.Context, status fulfillment.TransferStatus) {
	if m == nil {
		return
	}
	m.transfers.Add(ctx, 1, withRequest(ctx, AttrStatus.String(string(status))))
}

// RecordWebhookEvent counts an inbound webhook by signature validity
func (m *FulfillmentMetrics) RecordWebhookEvent(ctx context.Context, provider fulfillment.ProviderName, valid bool) {
	if m == nil {
		return
	}
	m.webhookEvents.Add(ctx, 1, withRequest(ctx, AttrProvider.String(string(provider)), AttrValid.Bool(valid)))
}

// RecordWebhookDelivery counts a delivery attempt by resulting status
func (m *FulfillmentMetrics) RecordWebhookDelivery(ctx context.Context, status fulfillment.DeliveryStatus) {
	if m == nil {
		return
	}
	m.webhookDeliveries.Add(ctx, 1, withRequest(ctx, AttrStatus.String(string(status))))
}
