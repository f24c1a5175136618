package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
)

func newWebhookEvent(sellerID uuid.UUID, body string, now time.Time) *fulfillment.WebhookEvent {
	return &fulfillment.WebhookEvent{
		ID:             uuid.New(),
		SellerID:       sellerID,
		SourceProvider: "shiphub",
		EventType:      "order.shipped",
		ExternalID:     "evt-1",
		OrderID:        "ord-1",
		DedupeKey:      fulfillment.DedupeKey("shiphub", []byte(body)),
		Payload:        []byte(body),
		ReceivedAt:     now,
		SignatureValid: true,
	}
}

func TestGormWebhookEventRepository_CreateIfAbsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormWebhookEventRepository(db)
	ctx := context.Background()
	now := testNow()
	sellerID := uuid.New()

	first := newWebhookEvent(sellerID, `{"id":"evt-1"}`, now)
	stored, created, err := repo.CreateIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, first.ID, stored.ID)

	replay := newWebhookEvent(sellerID, `{"id":"evt-1"}`, now.Add(time.Minute))
	stored, created, err = repo.CreateIfAbsent(ctx, replay)
	require.NoError(t, err)
	assert.False(t, created, "identical body is a replay")
	assert.Equal(t, first.ID, stored.ID)

	other := newWebhookEvent(sellerID, `{"id":"evt-2"}`, now)
	_, created, err = repo.CreateIfAbsent(ctx, other)
	require.NoError(t, err)
	assert.True(t, created)

	found, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "order.shipped", found.EventType)
	assert.JSONEq(t, `{"id":"evt-1"}`, string(found.Payload))
}

func TestGormSubscriptionRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSubscriptionRepository(db)
	ctx := context.Background()
	now := testNow()
	sellerID := uuid.New()

	active, err := fulfillment.NewWebhookSubscription(sellerID, "https://hooks.example.com/a", []string{"inventory.*"}, "s1", now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, active))

	inactive, err := fulfillment.NewWebhookSubscription(sellerID, "https://hooks.example.com/b", nil, "s2", now)
	require.NoError(t, err)
	inactive.Deactivate(now)
	require.NoError(t, repo.Save(ctx, inactive))

	found, err := repo.FindByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"inventory.*"}, found.EventTypes)
	assert.True(t, found.Matches("inventory.sync.completed"))

	subs, err := repo.FindActiveBySeller(ctx, sellerID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, active.ID, subs[0].ID)

	all, err := repo.FindBySeller(ctx, sellerID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormDeliveryRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormDeliveryRepository(db)
	ctx := context.Background()
	now := testNow()
	sellerID := uuid.New()

	sub, err := fulfillment.NewWebhookSubscription(sellerID, "https://hooks.example.com/a", nil, "s1", now)
	require.NoError(t, err)
	eventID := uuid.New()

	delivery := fulfillment.NewWebhookDelivery(eventID, sub, "order.shipped", []byte(`{}`), 3, now)
	_, created, err := repo.CreateIfAbsent(ctx, delivery)
	require.NoError(t, err)
	assert.True(t, created)

	t.Run("one delivery per event and subscription", func(t *testing.T) {
		dup := fulfillment.NewWebhookDelivery(eventID, sub, "order.shipped", []byte(`{}`), 3, now)
		stored, created, err := repo.CreateIfAbsent(ctx, dup)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, delivery.ID, stored.ID)
	})

	t.Run("claim pushes the row out by the lease", func(t *testing.T) {
		claimed, err := repo.ClaimDue(ctx, now, 10, 30*time.Second)
		require.NoError(t, err)
		require.Len(t, claimed, 1)
		assert.Equal(t, delivery.ID, claimed[0].ID)

		again, err := repo.ClaimDue(ctx, now.Add(10*time.Second), 10, 30*time.Second)
		require.NoError(t, err)
		assert.Empty(t, again, "claimed rows are invisible until the lease lapses")

		again, err = repo.ClaimDue(ctx, now.Add(31*time.Second), 10, 30*time.Second)
		require.NoError(t, err)
		assert.Len(t, again, 1)
	})

	t.Run("dead lettered rows are not claimed", func(t *testing.T) {
		at := now.Add(time.Minute)
		for i := 0; i < 3; i++ {
			delivery.RecordFailure(500, "boom", time.Second, at)
		}
		require.Equal(t, fulfillment.DeliveryStatusDeadLettered, delivery.Status)
		require.NoError(t, repo.Update(ctx, delivery))

		claimed, err := repo.ClaimDue(ctx, now.Add(time.Hour), 10, time.Second)
		require.NoError(t, err)
		assert.Empty(t, claimed)

		status := fulfillment.DeliveryStatusDeadLettered
		list, err := repo.List(ctx, fulfillment.DeliveryFilter{SellerID: sellerID, Status: &status})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 3, list[0].Attempt)
		assert.Equal(t, "boom", list[0].LastError)

		counts, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[fulfillment.DeliveryStatusDeadLettered])
	})
}
