package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
	"github.com/fulfillsync/backend/internal/infrastructure/telemetry"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumWhere(t *testing.T, agg metricdata.Aggregation, key attribute.Key, value string) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(key); ok && v.Emit() == value {
			total += dp.Value
		}
	}
	return total
}

func TestFulfillmentMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := telemetry.NewFulfillmentMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := logger.ContextWithRequestID(context.Background(), "req-1")
	m.RecordSyncRun(ctx, "shiphub", fulfillment.SyncRunStatusCompleted)
	m.RecordSyncRun(ctx, "marketplace", fulfillment.SyncRunStatusFailed)
	m.RecordSyncItems(ctx, "shiphub", 5, 2)
	m.RecordProviderCall(ctx, "shiphub", "get_inventory", nil, 120*time.Millisecond)
	m.RecordProviderCall(ctx, "shiphub", "get_inventory", fulfillment.ErrProviderUnavailable, time.Second)
	m.RecordTransfer(ctx, fulfillment.TransferStatusCompleted)
	m.RecordWebhookEvent(ctx, "shiphub", false)
	m.RecordWebhookDelivery(ctx, fulfillment.DeliveryStatusDeadLettered)

	data := collect(t, reader)
	assert.Equal(t, int64(1), sumWhere(t, data["fs_sync_runs_total"], telemetry.AttrStatus, "completed"))
	assert.Equal(t, int64(1), sumWhere(t, data["fs_sync_runs_total"], telemetry.AttrStatus, "failed"))
	assert.Equal(t, int64(5), sumWhere(t, data["fs_sync_items_total"], telemetry.AttrResult, "synced"))
	assert.Equal(t, int64(2), sumWhere(t, data["fs_sync_items_total"], telemetry.AttrResult, "failed"))
	assert.Equal(t, int64(1), sumWhere(t, data["fs_provider_calls_total"], telemetry.AttrOutcome, "ok"))
	assert.Equal(t, int64(1), sumWhere(t, data["fs_provider_calls_total"], telemetry.AttrOutcome, "provider_unavailable"))
	assert.Equal(t, int64(1), sumWhere(t, data["fs_transfers_total"], telemetry.AttrStatus, "completed"))
	assert.Equal(t, int64(1), sumWhere(t, data["fs_webhook_events_total"], telemetry.AttrValid, "false"))
	assert.Equal(t, int64(1), sumWhere(t, data["fs_webhook_deliveries_total"], telemetry.AttrStatus, "dead_lettered"))
	assert.Equal(t, int64(1), sumWhere(t, data["fs_transfers_total"], telemetry.AttrRequestID, "req-1"))

	hist, ok := data["fs_provider_call_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
}

func TestFulfillmentMetrics_NilSafe(t *testing.T) {
	var m *telemetry.FulfillmentMetrics
	ctx := context.Background()
	m.RecordSyncRun(ctx, "shiphub", fulfillment.SyncRunStatusCompleted)
	m.RecordSyncItems(ctx, "shiphub", 1, 1)
	m.RecordProviderCall(ctx, "shiphub", "op", errors.New("x"), time.Second)
	m.RecordTransfer(ctx, fulfillment.TransferStatusFailed)
	m.RecordWebhookEvent(ctx, "shiphub", true)
	m.RecordWebhookDelivery(ctx, fulfillment.DeliveryStatusDelivered)
}
