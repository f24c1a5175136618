package fulfillment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/infrastructure/provider"
	"github.com/fulfillsync/backend/internal/infrastructure/webhook"
)

const testWebhookSecret = "s3cret"

type gatewayFixture struct {
	gateway    *WebhookGateway
	client     *MockProviderClient
	events     *MockWebhookEventRepository
	dispatcher *MockEventDispatcher
	publisher  *MockEventPublisher
	orders     *MockOrderProcessor
	notifier   *MockNotificationSender
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	f := &gatewayFixture{
		client:     newMockProvider("shiphub"),
		events:     new(MockWebhookEventRepository),
		dispatcher: new(MockEventDispatcher),
		publisher:  new(MockEventPublisher),
		orders:     new(MockOrderProcessor),
		notifier:   new(MockNotificationSender),
	}
	registry, err := provider.NewRegistry(f.client)
	require.NoError(t, err)
	f.gateway = NewWebhookGateway(registry, f.events, f.dispatcher, f.publisher, f.orders, f.notifier, nil,
		WebhookGatewayConfig{
			Secrets:         map[fulfillment.ProviderName]string{"shiphub": testWebhookSecret},
			MaxPayloadBytes: 1024,
		},
		zap.NewNop(),
	)
	return f
}

// expectStored makes CreateIfAbsent store the event it is given
func (f *gatewayFixture) expectStored(ctx context.Context) {
	f.events.On("CreateIfAbsent", ctx, mock.AnythingOfType("*fulfillment.WebhookEvent")).
		Return(func(_ context.Context, e *fulfillment.WebhookEvent) *fulfillment.WebhookEvent { return e }, true, nil).Once()
}

func TestWebhookGateway_RejectsBeforeParsing(t *testing.T) {
	ctx := context.Background()
	raw := []byte(`{"type":"inventory.updated"}`)

	tests := []struct {
		name      string
		provider  fulfillment.ProviderName
		body      []byte
		signature string
		wantErr   error
	}{
		{"missing signature", "shiphub", raw, "", fulfillment.ErrInvalidSignature},
		{"wrong secret", "shiphub", raw, webhook.SignatureHeader("other", raw), fulfillment.ErrInvalidSignature},
		{"tampered body", "shiphub", []byte(`{"type":"order.paid"}`), webhook.SignatureHeader(testWebhookSecret, raw), fulfillment.ErrInvalidSignature},
		{"oversize payload", "shiphub", make([]byte, 2048), "", fulfillment.ErrMalformedPayload},
		{"unregistered provider", "marketplace", raw, webhook.SignatureHeader(testWebhookSecret, raw), fulfillment.ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGatewayFixture(t)

			result, err := f.gateway.Receive(ctx, tt.provider, tt.body, tt.signature)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			f.client.AssertNotCalled(t, "HandleWebhook", mock.Anything)
			f.events.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
			f.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
		})
	}
}

func TestWebhookGateway_MalformedPayloadFromProvider(t *testing.T) {
	ctx := context.Background()
	f := newGatewayFixture(t)
	raw := []byte(`not json`)
	f.client.On("HandleWebhook", raw).Return(nil, fulfillment.ErrMalformedPayload).Once()

	_, err := f.gateway.Receive(ctx, "shiphub", raw, webhook.SignatureHeader(testWebhookSecret, raw))
	assert.ErrorIs(t, err, fulfillment.ErrMalformedPayload)
	f.events.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestWebhookGateway_AcceptsAndDispatches(t *testing.T) {
	ctx := context.Background()
	f := newGatewayFixture(t)
	seller := uuid.New()
	raw := []byte(`{"type":"inventory.updated","id":"evt_1"}`)

	f.client.On("HandleWebhook", raw).Return(&fulfillment.NormalizedEvent{
		EventType:  "inventory.updated",
		ExternalID: "evt_1",
		SellerID:   seller,
		Data:       map[string]any{"sku": "SKU-1"},
	}, nil).Once()
	var stored *fulfillment.WebhookEvent
	f.events.On("CreateIfAbsent", ctx, mock.AnythingOfType("*fulfillment.WebhookEvent")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*fulfillment.WebhookEvent) }).
		Return(func(_ context.Context, e *fulfillment.WebhookEvent) *fulfillment.WebhookEvent { return e }, true, nil).Once()
	f.dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e *fulfillment.WebhookReceivedEvent) bool {
		return e.EventType() == fulfillment.EventTypeWebhookReceived && e.SellerID() == seller
	})).Return(1, nil).Once()
	f.publisher.On("Publish", ctx, mock.AnythingOfType("*fulfillment.WebhookReceivedEvent")).Return(nil).Once()

	result, err := f.gateway.Receive(ctx, "shiphub", raw, webhook.SignatureHeader(testWebhookSecret, raw))
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, "inventory.updated", result.EventType)

	require.NotNil(t, stored)
	assert.Equal(t, result.EventID, stored.ID)
	assert.True(t, stored.SignatureValid)
	assert.Equal(t, fulfillment.DedupeKey("shiphub", raw), stored.DedupeKey)
	assert.Equal(t, raw, stored.Payload)
	f.dispatcher.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.orders.AssertNotCalled(t, "ProcessOrder", mock.Anything, mock.Anything)
}

func TestWebhookGateway_DuplicateIsDispatchedAgain(t *testing.T) {
	ctx := context.Background()
	f := newGatewayFixture(t)
	raw := []byte(`{"type":"inventory.updated","id":"evt_1"}`)
	existing := &fulfillment.WebhookEvent{ID: uuid.New(), SellerID: uuid.New(), EventType: "inventory.updated"}

	f.client.On("HandleWebhook", raw).Return(&fulfillment.NormalizedEvent{EventType: "inventory.updated"}, nil).Once()
	f.events.On("CreateIfAbsent", ctx, mock.Anything).Return(existing, false, nil).Once()
	f.dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e *fulfillment.WebhookReceivedEvent) bool {
		return e.EventID() == existing.ID && e.SellerID() == existing.SellerID
	})).Return(0, nil).Once()

	result, err := f.gateway.Receive(ctx, "shiphub", raw, webhook.SignatureHeader(testWebhookSecret, raw))
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, existing.ID, result.EventID)
	f.dispatcher.AssertExpectations(t)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "ProcessOrder", mock.Anything, mock.Anything)
}

func TestWebhookGateway_DispatchFailureAsksForRedelivery(t *testing.T) {
	ctx := context.Background()
	f := newGatewayFixture(t)
	raw := []byte(`{"type":"shipment.created"}`)
	dbDown := errors.New("db down")

	f.client.On("HandleWebhook", raw).Return(&fulfillment.NormalizedEvent{EventType: "shipment.created", SellerID: uuid.New()}, nil).Twice()
	var stored *fulfillment.WebhookEvent
	f.events.On("CreateIfAbsent", ctx, mock.AnythingOfType("*fulfillment.WebhookEvent")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*fulfillment.WebhookEvent) }).
		Return(func(_ context.Context, e *fulfillment.WebhookEvent) *fulfillment.WebhookEvent { return e }, true, nil).Once()
	f.dispatcher.On("Dispatch", ctx, mock.Anything).Return(0, dbDown).Once()
	f.publisher.On("Publish", ctx, mock.Anything).Return(errors.New("broker down")).Once()

	result, err := f.gateway.Receive(ctx, "shiphub", raw, webhook.SignatureHeader(testWebhookSecret, raw))
	assert.ErrorIs(t, err, dbDown)
	assert.Nil(t, result)
	require.NotNil(t, stored)

	// the provider redelivers the same body
	f.events.On("CreateIfAbsent", ctx, mock.AnythingOfType("*fulfillment.WebhookEvent")).
		Return(func(context.Context, *fulfillment.WebhookEvent) *fulfillment.WebhookEvent { return stored }, false, nil).Once()
	f.dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e *fulfillment.WebhookReceivedEvent) bool {
		return e.EventID() == stored.ID
	})).Return(1, nil).Once()

	result, err = f.gateway.Receive(ctx, "shiphub", raw, webhook.SignatureHeader(testWebhookSecret, raw))
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, stored.ID, result.EventID)
	f.dispatcher.AssertNumberOfCalls(t, "Dispatch", 2)
	f.publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestWebhookGateway_OrderPaid(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	raw := []byte(`{"type":"order.paid","order":"1001"}`)
	paid := func() *fulfillment.NormalizedEvent {
		return &fulfillment.NormalizedEvent{
			EventType: EventTypeOrderPaid,
			SellerID:  seller,
			OrderID:   "1001",
			Data: map[string]any{
				"lines":          []any{map[string]any{"sku": "SKU-1", "quantity": 2}},
				"ship_to":        map[string]any{"name": "Ada", "line1": "1 Main St", "city": "Austin", "country": "US"},
				"shipping_speed": "standard",
			},
		}
	}
	setup := func(t *testing.T) *gatewayFixture {
		f := newGatewayFixture(t)
		f.client.On("HandleWebhook", raw).Return(paid(), nil).Once()
		f.expectStored(ctx)
		f.dispatcher.On("Dispatch", ctx, mock.Anything).Return(0, nil).Once()
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()
		return f
	}

	t.Run("creates the provider order", func(t *testing.T) {
		f := setup(t)
		f.orders.On("ProcessOrder", ctx, OrderRequest{
			SellerID:      seller,
			Provider:      "shiphub",
			OrderID:       "1001",
			Lines:         []fulfillment.OrderLine{{SKU: "SKU-1", Quantity: 2}},
			ShipTo:        fulfillment.Address{Name: "Ada", Line1: "1 Main St", City: "Austin", Country: "US"},
			ShippingSpeed: "standard",
		}).Return(&fulfillment.FulfillmentOrderResult{ProviderOrderID: "SH-9"}, nil).Once()

		_, err := f.gateway.Receive(ctx, "shiphub", raw, webhook.SignatureHeader(testWebhookSecret, raw))
		require.NoError(t, err)
		f.orders.AssertExpectations(t)
		f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("failure notifies the seller", func(t *testing.T) {
		f := setup(t)
		f.orders.On("ProcessOrder", ctx, mock.Anything).Return(nil, fulfillment.ErrProviderUnavailable).Once()
		f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(n fulfillment.Notification) bool {
			return n.UserID == seller && n.Type == fulfillment.NotificationFulfillmentFailed &&
				n.Data["orderId"] == "1001"
		})).Return(nil).Once()

		result, err := f.gateway.Receive(ctx, "shiphub", raw, webhook.SignatureHeader(testWebhookSecret, raw))
		require.NoError(t, err)
		assert.Equal(t, EventTypeOrderPaid, result.EventType)
		f.notifier.AssertExpectations(t)
	})
}
