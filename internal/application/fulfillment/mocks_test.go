package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/webhook"
)

// =============================================================================
// Provider mocks
// =============================================================================

type MockProviderClient struct {
	mock.Mock
	name fulfillment.ProviderName
}

func newMockProvider(name fulfillment.ProviderName) *MockProviderClient {
	return &MockProviderClient{name: name}
}

func (m *MockProviderClient) Name() fulfillment.ProviderName { return m.name }

func (m *MockProviderClient) Kind() fulfillment.ProviderKind { return fulfillment.ProviderKindWarehouse }

func (m *MockProviderClient) GetInventory(ctx context.Context, creds fulfillment.Credentials, refs []fulfillment.ProductRef) ([]fulfillment.InventoryItem, error) {
	args := m.Called(ctx, creds, refs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.InventoryItem), args.Error(1)
}

func (m *MockProviderClient) TransferStock(ctx context.Context, creds fulfillment.Credentials, req fulfillment.TransferRequest) (*fulfillment.TransferResult, error) {
	args := m.Called(ctx, creds, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.TransferResult), args.Error(1)
}

func (m *MockProviderClient) HandleWebhook(raw []byte) (*fulfillment.NormalizedEvent, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.NormalizedEvent), args.Error(1)
}

func (m *MockProviderClient) AuthorizationURL(state string, sandbox bool, redirectURL string) (string, error) {
	args := m.Called(state, sandbox, redirectURL)
	return args.String(0), args.Error(1)
}

func (m *MockProviderClient) ExchangeCode(ctx context.Context, code string, sandbox bool, redirectURL string) (*fulfillment.TokenSet, error) {
	args := m.Called(ctx, code, sandbox, redirectURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.TokenSet), args.Error(1)
}

func (m *MockProviderClient) CreateFulfillmentOrder(ctx context.Context, creds fulfillment.Credentials, req fulfillment.FulfillmentOrderRequest) (*fulfillment.FulfillmentOrderResult, error) {
	args := m.Called(ctx, creds, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.FulfillmentOrderResult), args.Error(1)
}

// =============================================================================
// Repository mocks
// =============================================================================

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) FindBySellerAndProvider(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) (*fulfillment.ProviderCredential, error) {
	args := m.Called(ctx, sellerID, provider, sandbox)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.ProviderCredential), args.Error(1)
}

func (m *MockCredentialRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.ProviderCredential, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]fulfillment.ProviderCredential), args.Error(1)
}

func (m *MockCredentialRepository) Save(ctx context.Context, credential *fulfillment.ProviderCredential) error {
	return m.Called(ctx, credential).Error(0)
}

type MockSyncRunRepository struct {
	mock.Mock
}

func (m *MockSyncRunRepository) Create(ctx context.Context, run *fulfillment.SyncRun) error {
	return m.Called(ctx, run).Error(0)
}

func (m *MockSyncRunRepository) Update(ctx context.Context, run *fulfillment.SyncRun) error {
	return m.Called(ctx, run).Error(0)
}

func (m *MockSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.SyncRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) FindLatest(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName) (*fulfillment.SyncRun, error) {
	args := m.Called(ctx, sellerID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) List(ctx context.Context, filter fulfillment.SyncRunFilter) ([]fulfillment.SyncRun, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]fulfillment.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) FindRunning(ctx context.Context) ([]fulfillment.SyncRun, error) {
	args := m.Called(ctx)
	return args.Get(0).([]fulfillment.SyncRun), args.Error(1)
}

type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) TryAcquire(ctx context.Context, key, holder string, now time.Time, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, holder, now, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeaseRepository) Release(ctx context.Context, key, holder string) error {
	return m.Called(ctx, key, holder).Error(0)
}

func (m *MockLeaseRepository) Get(ctx context.Context, key string) (*fulfillment.Lease, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Lease), args.Error(1)
}

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.SyncSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.SyncSchedule), args.Error(1)
}

func (m *MockScheduleRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.SyncSchedule, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]fulfillment.SyncSchedule), args.Error(1)
}

func (m *MockScheduleRepository) FindEnabled(ctx context.Context) ([]fulfillment.SyncSchedule, error) {
	args := m.Called(ctx)
	return args.Get(0).([]fulfillment.SyncSchedule), args.Error(1)
}

func (m *MockScheduleRepository) Save(ctx context.Context, schedule *fulfillment.SyncSchedule) error {
	return m.Called(ctx, schedule).Error(0)
}

func (m *MockScheduleRepository) SaveRunState(ctx context.Context, schedule *fulfillment.SyncSchedule) error {
	return m.Called(ctx, schedule).Error(0)
}

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *fulfillment.WarehouseTransfer) error {
	return m.Called(ctx, transfer).Error(0)
}

func (m *MockTransferRepository) Update(ctx context.Context, transfer *fulfillment.WarehouseTransfer) error {
	return m.Called(ctx, transfer).Error(0)
}

func (m *MockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.WarehouseTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.WarehouseTransfer), args.Error(1)
}

func (m *MockTransferRepository) List(ctx context.Context, filter fulfillment.TransferFilter) ([]fulfillment.WarehouseTransfer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]fulfillment.WarehouseTransfer), args.Error(1)
}

func (m *MockTransferRepository) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]fulfillment.WarehouseTransfer, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]fulfillment.WarehouseTransfer), args.Error(1)
}

func (m *MockTransferRepository) FindStuckProcessing(ctx context.Context, startedBefore time.Time, limit int) ([]fulfillment.WarehouseTransfer, error) {
	args := m.Called(ctx, startedBefore, limit)
	return args.Get(0).([]fulfillment.WarehouseTransfer), args.Error(1)
}

func (m *MockTransferRepository) CommitTransfer(ctx context.Context, transfer *fulfillment.WarehouseTransfer) error {
	return m.Called(ctx, transfer).Error(0)
}

type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.Warehouse, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]fulfillment.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, warehouse *fulfillment.Warehouse) error {
	return m.Called(ctx, warehouse).Error(0)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Save(ctx context.Context, listing *fulfillment.ProductListing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *MockListingRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.ProductListing, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]fulfillment.ProductListing), args.Error(1)
}

func (m *MockListingRepository) FindForSync(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, filter fulfillment.ListingFilter) ([]fulfillment.ProductListing, error) {
	args := m.Called(ctx, sellerID, provider, filter)
	return args.Get(0).([]fulfillment.ProductListing), args.Error(1)
}

func (m *MockListingRepository) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*fulfillment.ProductListing, error) {
	args := m.Called(ctx, productID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.ProductListing), args.Error(1)
}

func (m *MockListingRepository) MarkSynced(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	return m.Called(ctx, ids, at).Error(0)
}

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) Get(ctx context.Context, productID, warehouseID uuid.UUID) (*fulfillment.StockLevel, error) {
	args := m.Called(ctx, productID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.StockLevel), args.Error(1)
}

func (m *MockStockRepository) Upsert(ctx context.Context, level *fulfillment.StockLevel) error {
	return m.Called(ctx, level).Error(0)
}

func (m *MockStockRepository) ListByProduct(ctx context.Context, sellerID, productID uuid.UUID) ([]fulfillment.StockLevel, error) {
	args := m.Called(ctx, sellerID, productID)
	return args.Get(0).([]fulfillment.StockLevel), args.Error(1)
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, sub *fulfillment.WebhookSubscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.WebhookSubscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.WebhookSubscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.WebhookSubscription, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]fulfillment.WebhookSubscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindActiveBySeller(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.WebhookSubscription, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]fulfillment.WebhookSubscription), args.Error(1)
}

type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) CreateIfAbsent(ctx context.Context, d *fulfillment.WebhookDelivery) (*fulfillment.WebhookDelivery, bool, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*fulfillment.WebhookDelivery), args.Bool(1), args.Error(2)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *fulfillment.WebhookDelivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.WebhookDelivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.WebhookDelivery), args.Error(1)
}

func (m *MockDeliveryRepository) List(ctx context.Context, filter fulfillment.DeliveryFilter) ([]fulfillment.WebhookDelivery, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]fulfillment.WebhookDelivery), args.Error(1)
}

func (m *MockDeliveryRepository) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]fulfillment.WebhookDelivery, error) {
	args := m.Called(ctx, now, limit, lease)
	return args.Get(0).([]fulfillment.WebhookDelivery), args.Error(1)
}

type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) CreateIfAbsent(ctx context.Context, e *fulfillment.WebhookEvent) (*fulfillment.WebhookEvent, bool, error) {
	args := m.Called(ctx, e)
	if fn, ok := args.Get(0).(func(context.Context, *fulfillment.WebhookEvent) *fulfillment.WebhookEvent); ok {
		return fn(ctx, e), args.Bool(1), args.Error(2)
	}
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*fulfillment.WebhookEvent), args.Bool(1), args.Error(2)
}

func (m *MockWebhookEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.WebhookEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.WebhookEvent), args.Error(1)
}

// =============================================================================
// Collaborator mocks
// =============================================================================

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) Send(ctx context.Context, n fulfillment.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := make([]any, 0, len(events)+1)
	args = append(args, ctx)
	for _, e := range events {
		args = append(args, e)
	}
	return m.Called(args...).Error(0)
}

type MockDeliverySender struct {
	mock.Mock
}

func (m *MockDeliverySender) Send(ctx context.Context, msg webhook.Message) (int, error) {
	args := m.Called(ctx, msg)
	return args.Int(0), args.Error(1)
}

type MockDeliveryTrigger struct {
	mock.Mock
}

func (m *MockDeliveryTrigger) Trigger() {
	m.Called()
}

type MockEventDispatcher struct {
	mock.Mock
}

func (m *MockEventDispatcher) Dispatch(ctx context.Context, e shared.DomainEvent) (int, error) {
	args := m.Called(ctx, e)
	return args.Int(0), args.Error(1)
}

type MockOrderProcessor struct {
	mock.Mock
}

func (m *MockOrderProcessor) ProcessOrder(ctx context.Context, req OrderRequest) (*fulfillment.FulfillmentOrderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.FulfillmentOrderResult), args.Error(1)
}

type MockSyncExecutor struct {
	mock.Mock
}

func (m *MockSyncExecutor) Execute(ctx context.Context, run *fulfillment.SyncRun, opts fulfillment.SyncOptions, filters fulfillment.ScheduleFilters) error {
	return m.Called(ctx, run, opts, filters).Error(0)
}

type MockConnectionChecker struct {
	mock.Mock
}

func (m *MockConnectionChecker) Resolve(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) (fulfillment.Credentials, error) {
	args := m.Called(ctx, sellerID, provider, sandbox)
	return args.Get(0).(fulfillment.Credentials), args.Error(1)
}

func (m *MockConnectionChecker) IsConnected(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) (bool, error) {
	args := m.Called(ctx, sellerID, provider, sandbox)
	return args.Bool(0), args.Error(1)
}
