package persistence

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

func TestDeliveryBacklogCollector(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormDeliveryRepository(db)
	collector := NewDeliveryBacklogCollector(repo)
	ctx := context.Background()
	now := testNow()

	t.Run("empty table reports zero for every status", func(t *testing.T) {
		expected := `
# HELP fs_webhook_deliveries Outbound webhook deliveries by status
# TYPE fs_webhook_deliveries gauge
fs_webhook_deliveries{status="dead_lettered"} 0
fs_webhook_deliveries{status="delivered"} 0
fs_webhook_deliveries{status="pending"} 0
`
		assert.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected)))
	})

	t.Run("dead lettered deliveries are counted", func(t *testing.T) {
		sub, err := fulfillment.NewWebhookSubscription(uuid.New(), "https://hooks.example.com/a", nil, "s1", now)
		require.NoError(t, err)

		dead := fulfillment.NewWebhookDelivery(uuid.New(), sub, "order.shipped", []byte(`{}`), 1, now)
		_, _, err = repo.CreateIfAbsent(ctx, dead)
		require.NoError(t, err)
		dead.RecordFailure(500, "boom", 0, now)
		require.Equal(t, fulfillment.DeliveryStatusDeadLettered, dead.Status)
		require.NoError(t, repo.Update(ctx, dead))

		pending := fulfillment.NewWebhookDelivery(uuid.New(), sub, "order.shipped", []byte(`{}`), 3, now)
		_, _, err = repo.CreateIfAbsent(ctx, pending)
		require.NoError(t, err)

		expected := `
# HELP fs_webhook_deliveries Outbound webhook deliveries by status
# TYPE fs_webhook_deliveries gauge
fs_webhook_deliveries{status="dead_lettered"} 1
fs_webhook_deliveries{status="delivered"} 0
fs_webhook_deliveries{status="pending"} 1
`
		assert.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected)))
	})

	t.Run("count failure surfaces as a collect error", func(t *testing.T) {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		assert.Error(t, testutil.CollectAndCompare(collector, strings.NewReader("")))
	})
}
