package fulfillment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/event"
	"github.com/fulfillsync/backend/internal/infrastructure/retry"
	"github.com/fulfillsync/backend/internal/infrastructure/webhook"
)

type dispatcherFixture struct {
	dispatcher    *WebhookDispatcher
	subscriptions *MockSubscriptionRepository
	deliveries    *MockDeliveryRepository
	sender        *MockDeliverySender
	trigger       *MockDeliveryTrigger
	now           time.Time
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	f := &dispatcherFixture{
		subscriptions: new(MockSubscriptionRepository),
		deliveries:    new(MockDeliveryRepository),
		sender:        new(MockDeliverySender),
		trigger:       new(MockDeliveryTrigger),
		now:           time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC),
	}
	policy := retry.Policy{BaseDelay: time.Second, MaxDelay: time.Minute, MaxAttempts: 3}
	f.dispatcher = NewWebhookDispatcher(f.subscriptions, f.deliveries, f.sender, policy, nil, zap.NewNop())
	f.dispatcher.SetTrigger(f.trigger)
	f.dispatcher.now = func() time.Time { return f.now }
	return f
}

func newTestSubscription(t *testing.T, seller uuid.UUID, url string, types ...string) fulfillment.WebhookSubscription {
	t.Helper()
	sub, err := fulfillment.NewWebhookSubscription(seller, url, types, "whsec_test", time.Now())
	require.NoError(t, err)
	return *sub
}

func completedRunEvent(seller uuid.UUID) *fulfillment.SyncRunFinishedEvent {
	now := time.Now().UTC()
	run := fulfillment.NewSyncRun(seller, "shiphub", nil, fulfillment.SyncTriggerAPI, "req-7", now)
	_ = run.Start("test", now)
	_ = run.Complete(12, 0, "", now)
	return fulfillment.NewSyncRunFinishedEvent(run)
}

func TestWebhookDispatcher_DispatchFansOutPerSubscription(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	f := newDispatcherFixture(t)

	all := newTestSubscription(t, seller, "https://a.example.com/hook")
	inventory := newTestSubscription(t, seller, "https://b.example.com/hook", "inventory.*")
	transfers := newTestSubscription(t, seller, "https://c.example.com/hook", fulfillment.EventTypeTransferCompleted)
	f.subscriptions.On("FindActiveBySeller", ctx, seller).Return([]fulfillment.WebhookSubscription{all, inventory, transfers}, nil)

	e := completedRunEvent(seller)
	var queued []*fulfillment.WebhookDelivery
	f.deliveries.On("CreateIfAbsent", ctx, mock.AnythingOfType("*fulfillment.WebhookDelivery")).
		Run(func(args mock.Arguments) { queued = append(queued, args.Get(1).(*fulfillment.WebhookDelivery)) }).
		Return(nil, true, nil).Twice()
	f.trigger.On("Trigger").Once()

	n, err := f.dispatcher.Dispatch(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, queued, 2)
	for _, d := range queued {
		assert.Equal(t, e.EventID(), d.EventID)
		assert.Equal(t, fulfillment.EventTypeSyncCompleted, d.EventType)
		assert.Equal(t, 3, d.MaxAttempts)
		assert.True(t, d.IsDue(f.now))

		env, err := event.Decode(d.Payload)
		require.NoError(t, err)
		assert.Equal(t, e.EventID(), env.ID)
	}
	assert.NotEqual(t, queued[0].SubscriptionID, queued[1].SubscriptionID)
	f.trigger.AssertExpectations(t)
}

func TestWebhookDispatcher_DispatchIsolatesSubscriptionFailures(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	f := newDispatcherFixture(t)

	first := newTestSubscription(t, seller, "https://a.example.com/hook")
	second := newTestSubscription(t, seller, "https://b.example.com/hook")
	third := newTestSubscription(t, seller, "https://c.example.com/hook")
	f.subscriptions.On("FindActiveBySeller", ctx, seller).Return([]fulfillment.WebhookSubscription{first, second, third}, nil)

	f.deliveries.On("CreateIfAbsent", ctx, mock.MatchedBy(func(d *fulfillment.WebhookDelivery) bool {
		return d.SubscriptionID == first.ID
	})).Return(nil, false, errors.New("insert failed"))
	f.deliveries.On("CreateIfAbsent", ctx, mock.MatchedBy(func(d *fulfillment.WebhookDelivery) bool {
		return d.SubscriptionID == second.ID
	})).Return(nil, false, nil)
	f.deliveries.On("CreateIfAbsent", ctx, mock.MatchedBy(func(d *fulfillment.WebhookDelivery) bool {
		return d.SubscriptionID == third.ID
	})).Return(nil, true, nil)
	f.trigger.On("Trigger").Once()

	n, err := f.dispatcher.Dispatch(ctx, completedRunEvent(seller))
	assert.EqualError(t, err, "insert failed")
	assert.Equal(t, 1, n, "existing deliveries are not counted again")
	f.deliveries.AssertNumberOfCalls(t, "CreateIfAbsent", 3)
}

func TestWebhookDispatcher_DispatchWithoutSubscribers(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	f := newDispatcherFixture(t)
	f.subscriptions.On("FindActiveBySeller", ctx, seller).Return([]fulfillment.WebhookSubscription{}, nil)

	n, err := f.dispatcher.Dispatch(ctx, completedRunEvent(seller))
	require.NoError(t, err)
	assert.Zero(t, n)
	f.trigger.AssertNotCalled(t, "Trigger")
}

func TestWebhookDispatcher_Attempt(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()

	newDelivery := func(t *testing.T, f *dispatcherFixture, sub *fulfillment.WebhookSubscription, attempt int) *fulfillment.WebhookDelivery {
		d := fulfillment.NewWebhookDelivery(uuid.New(), sub, fulfillment.EventTypeSyncCompleted, []byte(`{"id":"1"}`), 3, f.now)
		d.Attempt = attempt
		return d
	}

	t.Run("success", func(t *testing.T) {
		f := newDispatcherFixture(t)
		sub := newTestSubscription(t, seller, "https://a.example.com/hook")
		d := newDelivery(t, f, &sub, 0)
		f.subscriptions.On("FindByID", ctx, sub.ID).Return(&sub, nil)
		f.sender.On("Send", ctx, webhook.Message{
			URL:        sub.URL,
			EventType:  d.EventType,
			DeliveryID: d.ID.String(),
			Secret:     "whsec_test",
			Body:       d.Payload,
		}).Return(200, nil).Once()
		f.deliveries.On("Update", mock.Anything, d).Return(nil).Once()

		require.NoError(t, f.dispatcher.Attempt(ctx, d))
		assert.Equal(t, fulfillment.DeliveryStatusDelivered, d.Status)
		assert.Equal(t, 1, d.Attempt)
		assert.Equal(t, 200, d.LastStatusCode)
	})

	t.Run("failure schedules the next attempt", func(t *testing.T) {
		f := newDispatcherFixture(t)
		sub := newTestSubscription(t, seller, "https://a.example.com/hook")
		d := newDelivery(t, f, &sub, 0)
		f.subscriptions.On("FindByID", ctx, sub.ID).Return(&sub, nil)
		f.sender.On("Send", ctx, mock.Anything).Return(502, webhook.ErrUnexpectedStatus).Once()
		f.deliveries.On("Update", mock.Anything, d).Return(nil).Once()

		require.NoError(t, f.dispatcher.Attempt(ctx, d))
		assert.Equal(t, fulfillment.DeliveryStatusPending, d.Status)
		assert.Equal(t, 1, d.Attempt)
		require.NotNil(t, d.NextAttemptAt)
		assert.True(t, d.NextAttemptAt.After(f.now))
		assert.Equal(t, 502, d.LastStatusCode)
	})

	t.Run("last failure dead-letters", func(t *testing.T) {
		f := newDispatcherFixture(t)
		sub := newTestSubscription(t, seller, "https://a.example.com/hook")
		d := newDelivery(t, f, &sub, 2)
		f.subscriptions.On("FindByID", ctx, sub.ID).Return(&sub, nil)
		f.sender.On("Send", ctx, mock.Anything).Return(0, errors.New("connection refused")).Once()
		f.deliveries.On("Update", mock.Anything, d).Return(nil).Once()

		require.NoError(t, f.dispatcher.Attempt(ctx, d))
		assert.Equal(t, fulfillment.DeliveryStatusDeadLettered, d.Status)
		assert.Nil(t, d.NextAttemptAt)
		assert.Equal(t, "connection refused", d.LastError)
	})

	t.Run("inactive subscription dead-letters without sending", func(t *testing.T) {
		f := newDispatcherFixture(t)
		sub := newTestSubscription(t, seller, "https://a.example.com/hook")
		sub.Deactivate(f.now)
		d := newDelivery(t, f, &sub, 0)
		f.subscriptions.On("FindByID", ctx, sub.ID).Return(&sub, nil)
		f.deliveries.On("Update", mock.Anything, d).Return(nil).Once()

		require.NoError(t, f.dispatcher.Attempt(ctx, d))
		assert.Equal(t, fulfillment.DeliveryStatusDeadLettered, d.Status)
		assert.Equal(t, SubscriptionInactive, d.LastError)
		assert.Zero(t, d.Attempt)
		f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("deleted subscription dead-letters", func(t *testing.T) {
		f := newDispatcherFixture(t)
		sub := newTestSubscription(t, seller, "https://a.example.com/hook")
		d := newDelivery(t, f, &sub, 0)
		f.subscriptions.On("FindByID", ctx, sub.ID).Return(nil, shared.ErrNotFound)
		f.deliveries.On("Update", mock.Anything, d).Return(nil).Once()

		require.NoError(t, f.dispatcher.Attempt(ctx, d))
		assert.Equal(t, fulfillment.DeliveryStatusDeadLettered, d.Status)
	})
}

func TestWebhookDispatcher_Subscriptions(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	f := newDispatcherFixture(t)
	f.subscriptions.On("Save", ctx, mock.Anything).Return(nil)

	sub, err := f.dispatcher.CreateSubscription(ctx, seller, "https://a.example.com/hook", nil, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sub.Secret, "whsec_"))
	assert.Equal(t, []string{fulfillment.WildcardEventType}, sub.EventTypes)

	_, err = f.dispatcher.CreateSubscription(ctx, seller, "ftp://a.example.com", nil, "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	f.subscriptions.On("FindByID", ctx, sub.ID).Return(sub, nil)
	assert.ErrorIs(t, f.dispatcher.DeactivateSubscription(ctx, uuid.New(), sub.ID), shared.ErrNotFound)
	require.NoError(t, f.dispatcher.DeactivateSubscription(ctx, seller, sub.ID))
	assert.False(t, sub.Active)
}

func TestWebhookDispatcher_ReplayDelivery(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	f := newDispatcherFixture(t)
	sub := newTestSubscription(t, seller, "https://a.example.com/hook")

	dead := fulfillment.NewWebhookDelivery(uuid.New(), &sub, fulfillment.EventTypeSyncFailed, []byte(`{}`), 3, f.now)
	dead.RecordFailure(500, "boom", time.Second, f.now)
	dead.RecordFailure(500, "boom", time.Second, f.now)
	dead.RecordFailure(500, "boom", time.Second, f.now)
	require.Equal(t, fulfillment.DeliveryStatusDeadLettered, dead.Status)
	pending := fulfillment.NewWebhookDelivery(uuid.New(), &sub, fulfillment.EventTypeSyncFailed, []byte(`{}`), 3, f.now)

	f.deliveries.On("FindByID", ctx, dead.ID).Return(dead, nil)
	f.deliveries.On("FindByID", ctx, pending.ID).Return(pending, nil)
	f.deliveries.On("Update", ctx, dead).Return(nil).Once()
	f.trigger.On("Trigger").Once()

	replayed, err := f.dispatcher.ReplayDelivery(ctx, seller, dead.ID)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.DeliveryStatusPending, replayed.Status)
	assert.Zero(t, replayed.Attempt)

	_, err = f.dispatcher.ReplayDelivery(ctx, seller, pending.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = f.dispatcher.ReplayDelivery(ctx, uuid.New(), dead.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
