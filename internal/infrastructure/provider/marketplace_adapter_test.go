package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

func newTestMarketplace(t *testing.T, handler http.HandlerFunc) *MarketplaceAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := NewMarketplaceConfig("app-id", "app-secret")
	config.BaseURL = server.URL
	config.SandboxBaseURL = server.URL
	config.RateLimitRPS = 0

	adapter, err := NewMarketplaceAdapter(config)
	require.NoError(t, err)
	return adapter
}

var oauthCreds = fulfillment.Credentials{AccessToken: "mp-token"}

func TestMarketplaceAdapter_GetInventory_Paginates(t *testing.T) {
	var tokens []string
	adapter := newTestMarketplace(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fba/inventory/summaries", r.URL.Path)
		assert.Equal(t, "Bearer mp-token", r.Header.Get("Authorization"))

		var req marketplaceSummariesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		tokens = append(tokens, req.NextToken)

		resp := marketplaceEnvelope[marketplaceSummariesPayload]{}
		if req.NextToken == "" {
			resp.Payload.InventorySummaries = []marketplaceInventorySummary{
				{SellerSku: "A", FnSku: "X0A", FulfillmentCenterID: "FC1", TotalQuantity: 5, FulfillableQuantity: 4},
			}
			resp.Payload.NextToken = "page-2"
		} else {
			resp.Payload.InventorySummaries = []marketplaceInventorySummary{
				{SellerSku: "A", FnSku: "X0A", FulfillmentCenterID: "FC2", TotalQuantity: 1, FulfillableQuantity: 1},
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	items, err := adapter.GetInventory(context.Background(), oauthCreds, []fulfillment.ProductRef{{SKU: "A"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "page-2"}, tokens)
	require.Len(t, items, 2)
	assert.Equal(t, "FC1", items[0].WarehouseRef)
	assert.Equal(t, int64(4), items[0].AvailableQuantity)
	assert.Equal(t, "FC2", items[1].WarehouseRef)
}

func TestMarketplaceAdapter_QuotaExceededIsRateLimited(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"in 200 body", http.StatusOK},
		{"in 400 body", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newTestMarketplace(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"errors":[{"code":"QuotaExceeded","message":"slow down"}]}`))
			})

			_, err := adapter.GetInventory(context.Background(), oauthCreds, []fulfillment.ProductRef{{SKU: "A"}})
			assert.ErrorIs(t, err, fulfillment.ErrProviderRateLimited)
			var rl *fulfillment.RateLimitedError
			require.True(t, errors.As(err, &rl))
			assert.Equal(t, MarketplaceName, rl.Provider)
			assert.Positive(t, rl.RetryAfterSeconds())
		})
	}
}

func TestMarketplaceAdapter_InvalidTokenIsAuth(t *testing.T) {
	adapter := newTestMarketplace(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"code":"InvalidAccessToken","message":"expired"}]}`))
	})
	_, err := adapter.GetInventory(context.Background(), oauthCreds, []fulfillment.ProductRef{{SKU: "A"}})
	assert.ErrorIs(t, err, fulfillment.ErrProviderAuth)
}

func TestMarketplaceAdapter_RequiresOAuth(t *testing.T) {
	adapter := newTestMarketplace(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := adapter.GetInventory(context.Background(), fulfillment.Credentials{APIKey: "k"}, []fulfillment.ProductRef{{SKU: "A"}})
	assert.ErrorIs(t, err, fulfillment.ErrProviderAuth)
}

func TestMarketplaceAdapter_TransferStock(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		adapter := newTestMarketplace(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/fba/inbound/transfers", r.URL.Path)
			_, _ = w.Write([]byte(`{"payload":{"transferId":"mp-77"}}`))
		})
		res, err := adapter.TransferStock(context.Background(), oauthCreds, fulfillment.TransferRequest{SourceRef: "FC1", TargetRef: "FC2", SKU: "A", Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, "mp-77", res.ProviderTransactionID)
	})

	t.Run("insufficient inventory", func(t *testing.T) {
		adapter := newTestMarketplace(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"code":"InsufficientInventory","message":"only 1 unit"}]}`))
		})
		_, err := adapter.TransferStock(context.Background(), oauthCreds, fulfillment.TransferRequest{SourceRef: "FC1", TargetRef: "FC2", SKU: "A", Quantity: 2})
		var te *fulfillment.TransferError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, fulfillment.TransferReasonInsufficientStock, te.Reason)
	})

	t.Run("throttled", func(t *testing.T) {
		adapter := newTestMarketplace(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := adapter.TransferStock(context.Background(), oauthCreds, fulfillment.TransferRequest{SourceRef: "FC1", TargetRef: "FC2", SKU: "A", Quantity: 2})
		assert.ErrorIs(t, err, fulfillment.ErrProviderRateLimited)
		assert.True(t, fulfillment.IsRetryable(err))
	})
}

func TestMarketplaceAdapter_CreateFulfillmentOrder(t *testing.T) {
	adapter := newTestMarketplace(t, func(w http.ResponseWriter, r *http.Request) {
		var req marketplaceOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "order-1", req.SellerFulfillmentOrderID)
		assert.Equal(t, "Standard", req.ShippingSpeedCategory)
		assert.Equal(t, "US", req.DestinationAddress.CountryCode)
		_, _ = w.Write([]byte(`{"payload":{"fulfillmentOrderId":"MP-ORD-1","status":"RECEIVED"}}`))
	})

	res, err := adapter.CreateFulfillmentOrder(context.Background(), oauthCreds, fulfillment.FulfillmentOrderRequest{
		OrderID: "order-1",
		Lines:   []fulfillment.OrderLine{{SKU: "A", Quantity: 1}},
		ShipTo:  fulfillment.Address{Name: "Jo", Line1: "1 Main", City: "Town", Country: "US"},
	})
	require.NoError(t, err)
	assert.Equal(t, "MP-ORD-1", res.ProviderOrderID)
}

func TestMarketplaceAdapter_HandleWebhook(t *testing.T) {
	adapter := newTestMarketplace(t, http.NotFound)
	seller := uuid.New()

	raw := []byte(`{"notificationType":"ORDER_PAYMENT_CONFIRMED","notificationId":"n-1","eventTime":"2026-04-01T10:00:00Z",` +
		`"payload":{"orderId":"o-9","sellerId":"` + seller.String() + `","amount":12}}`)
	ev, err := adapter.HandleWebhook(raw)
	require.NoError(t, err)
	assert.Equal(t, "order.paid", ev.EventType)
	assert.Equal(t, "n-1", ev.ExternalID)
	assert.Equal(t, "o-9", ev.OrderID)
	assert.Equal(t, seller, ev.SellerID)

	ev, err = adapter.HandleWebhook([]byte(`{"notificationType":"REPORT_DONE","notificationId":"n-2","payload":{"sellerId":"` + seller.String() + `"}}`))
	require.NoError(t, err)
	assert.Equal(t, "marketplace.report_done", ev.EventType)

	_, err = adapter.HandleWebhook([]byte(`{"notificationType":"X","notificationId":"n-3"}`))
	assert.ErrorIs(t, err, fulfillment.ErrMalformedPayload)
}
