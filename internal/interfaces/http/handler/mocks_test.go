package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	appfulfillment "github.com/fulfillsync/backend/internal/application/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

var testSellerID = uuid.MustParse("6f1c2a52-7a4e-4c1e-9a55-2d5f0b8c9e01")

// newTestRouter returns an engine whose requests are authenticated as seller.
// A nil seller leaves requests unauthenticated.
func newTestRouter(seller uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	if seller != uuid.Nil {
		r.Use(func(c *gin.Context) {
			middleware.SetSellerID(c, seller)
			c.Next()
		})
	}
	return r
}

func doRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope decodes the response envelope with a typed data payload
type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		RetryAfter int    `json:"retry_after"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func decode[T any](w *httptest.ResponseRecorder) envelope[T] {
	var env envelope[T]
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return env
}

type mockSyncer struct{ mock.Mock }

func (m *mockSyncer) SyncInventory(ctx context.Context, req appfulfillment.SyncRequest) (*appfulfillment.SyncResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.SyncResult), args.Error(1)
}

type mockTracker struct{ mock.Mock }

func (m *mockTracker) Status(ctx context.Context, sellerID, runID uuid.UUID) (*fulfillment.SyncRun, error) {
	args := m.Called(ctx, sellerID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.SyncRun), args.Error(1)
}

func (m *mockTracker) Latest(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName) (*fulfillment.SyncRun, error) {
	args := m.Called(ctx, sellerID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.SyncRun), args.Error(1)
}

func (m *mockTracker) Recent(ctx context.Context, filter fulfillment.SyncRunFilter) ([]fulfillment.SyncRun, error) {
	args := m.Called(ctx, filter)
	runs, _ := args.Get(0).([]fulfillment.SyncRun)
	return runs, args.Error(1)
}

type mockSchedules struct{ mock.Mock }

func (m *mockSchedules) schedule(args mock.Arguments) (*fulfillment.SyncSchedule, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.SyncSchedule), args.Error(1)
}

func (m *mockSchedules) CreateSchedule(ctx context.Context, in appfulfillment.ScheduleInput) (*fulfillment.SyncSchedule, error) {
	return m.schedule(m.Called(ctx, in))
}

func (m *mockSchedules) UpdateSchedule(ctx context.Context, sellerID, id uuid.UUID, upd appfulfillment.ScheduleUpdate) (*fulfillment.SyncSchedule, error) {
	return m.schedule(m.Called(ctx, sellerID, id, upd))
}

func (m *mockSchedules) DisableSchedule(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.SyncSchedule, error) {
	return m.schedule(m.Called(ctx, sellerID, id))
}

func (m *mockSchedules) GetSchedule(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.SyncSchedule, error) {
	return m.schedule(m.Called(ctx, sellerID, id))
}

func (m *mockSchedules) ListSchedules(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.SyncSchedule, error) {
	args := m.Called(ctx, sellerID)
	list, _ := args.Get(0).([]fulfillment.SyncSchedule)
	return list, args.Error(1)
}

func (m *mockSchedules) RunNow(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.SyncRun, error) {
	args := m.Called(ctx, sellerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.SyncRun), args.Error(1)
}

type mockTransfers struct{ mock.Mock }

func (m *mockTransfers) transfer(args mock.Arguments) (*fulfillment.WarehouseTransfer, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.WarehouseTransfer), args.Error(1)
}

func (m *mockTransfers) Transfer(ctx context.Context, in appfulfillment.TransferInput) (*fulfillment.WarehouseTransfer, error) {
	return m.transfer(m.Called(ctx, in))
}

func (m *mockTransfers) Cancel(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.WarehouseTransfer, error) {
	return m.transfer(m.Called(ctx, sellerID, id))
}

func (m *mockTransfers) Get(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.WarehouseTransfer, error) {
	return m.transfer(m.Called(ctx, sellerID, id))
}

func (m *mockTransfers) List(ctx context.Context, filter fulfillment.TransferFilter) ([]fulfillment.WarehouseTransfer, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]fulfillment.WarehouseTransfer)
	return list, args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) RegisterWarehouse(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, providerRef, name string) (*fulfillment.Warehouse, error) {
	args := m.Called(ctx, sellerID, provider, providerRef, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Warehouse), args.Error(1)
}

func (m *mockCatalog) ListWarehouses(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.Warehouse, error) {
	args := m.Called(ctx, sellerID)
	list, _ := args.Get(0).([]fulfillment.Warehouse)
	return list, args.Error(1)
}

func (m *mockCatalog) DeactivateWarehouse(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.Warehouse, error) {
	args := m.Called(ctx, sellerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Warehouse), args.Error(1)
}

func (m *mockCatalog) CreateListing(ctx context.Context, in appfulfillment.ListingInput) (*fulfillment.ProductListing, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.ProductListing), args.Error(1)
}

func (m *mockCatalog) ListListings(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.ProductListing, error) {
	args := m.Called(ctx, sellerID)
	list, _ := args.Get(0).([]fulfillment.ProductListing)
	return list, args.Error(1)
}

func (m *mockCatalog) StockLevels(ctx context.Context, sellerID, productID uuid.UUID) ([]fulfillment.StockLevel, error) {
	args := m.Called(ctx, sellerID, productID)
	list, _ := args.Get(0).([]fulfillment.StockLevel)
	return list, args.Error(1)
}

type mockInbound struct{ mock.Mock }

func (m *mockInbound) Receive(ctx context.Context, provider fulfillment.ProviderName, raw []byte, signature string) (*appfulfillment.InboundResult, error) {
	args := m.Called(ctx, provider, raw, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.InboundResult), args.Error(1)
}

type mockSubscriptions struct{ mock.Mock }

func (m *mockSubscriptions) CreateSubscription(ctx context.Context, sellerID uuid.UUID, url string, eventTypes []string, secret string) (*fulfillment.WebhookSubscription, error) {
	args := m.Called(ctx, sellerID, url, eventTypes, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.WebhookSubscription), args.Error(1)
}

func (m *mockSubscriptions) ListSubscriptions(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.WebhookSubscription, error) {
	args := m.Called(ctx, sellerID)
	list, _ := args.Get(0).([]fulfillment.WebhookSubscription)
	return list, args.Error(1)
}

func (m *mockSubscriptions) DeactivateSubscription(ctx context.Context, sellerID, id uuid.UUID) error {
	return m.Called(ctx, sellerID, id).Error(0)
}

func (m *mockSubscriptions) ListDeliveries(ctx context.Context, filter fulfillment.DeliveryFilter) ([]fulfillment.WebhookDelivery, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]fulfillment.WebhookDelivery)
	return list, args.Error(1)
}

func (m *mockSubscriptions) ReplayDelivery(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.WebhookDelivery, error) {
	args := m.Called(ctx, sellerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.WebhookDelivery), args.Error(1)
}

type mockConnector struct{ mock.Mock }

func (m *mockConnector) BeginConnect(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) (string, error) {
	args := m.Called(ctx, sellerID, provider, sandbox)
	return args.String(0), args.Error(1)
}

func (m *mockConnector) CompleteConnect(ctx context.Context, code, stateToken string, sandbox bool) (*appfulfillment.ConnectionResult, error) {
	args := m.Called(ctx, code, stateToken, sandbox)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.ConnectionResult), args.Error(1)
}

func (m *mockConnector) ConnectManual(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool, apiKey, apiSecret string) (*appfulfillment.ConnectionResult, error) {
	args := m.Called(ctx, sellerID, provider, sandbox, apiKey, apiSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.ConnectionResult), args.Error(1)
}

type mockConnections struct{ mock.Mock }

func (m *mockConnections) Disconnect(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) error {
	return m.Called(ctx, sellerID, provider, sandbox).Error(0)
}

func (m *mockConnections) Connections(ctx context.Context, sellerID uuid.UUID) ([]appfulfillment.Connection, error) {
	args := m.Called(ctx, sellerID)
	list, _ := args.Get(0).([]appfulfillment.Connection)
	return list, args.Error(1)
}

var (
	_ InventorySyncer     = (*mockSyncer)(nil)
	_ SyncStatusReader    = (*mockTracker)(nil)
	_ ScheduleService     = (*mockSchedules)(nil)
	_ TransferService     = (*mockTransfers)(nil)
	_ CatalogService      = (*mockCatalog)(nil)
	_ InboundWebhooks     = (*mockInbound)(nil)
	_ SubscriptionService = (*mockSubscriptions)(nil)
	_ Connector           = (*mockConnector)(nil)
	_ ConnectionRegistry  = (*mockConnections)(nil)
)
