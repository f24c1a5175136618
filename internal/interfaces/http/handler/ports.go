package handler

import (
	"context"

	"github.com/google/uuid"

	appfulfillment "github.com/fulfillsync/backend/internal/application/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// InventorySyncer starts API syncs
type InventorySyncer interface {
	SyncInventory(ctx context.Context, req appfulfillment.SyncRequest) (*appfulfillment.SyncResult, error)
}

// SyncStatusReader answers sync status queries
type SyncStatusReader interface {
	Status(ctx context.Context, sellerID, runID uuid.UUID) (*fulfillment.SyncRun, error)
	Latest(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName) (*fulfillment.SyncRun, error)
	Recent(ctx context.Context, filter fulfillment.SyncRunFilter) ([]fulfillment.SyncRun, error)
}

// ScheduleService manages recurring syncs
type ScheduleService interface {
	CreateSchedule(ctx context.Context, in appfulfillment.ScheduleInput) (*fulfillment.SyncSchedule, error)
	UpdateSchedule(ctx context.Context, sellerID, id uuid.UUID, upd appfulfillment.ScheduleUpdate) (*fulfillment.SyncSchedule, error)
	DisableSchedule(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.SyncSchedule, error)
	GetSchedule(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.SyncSchedule, error)
	ListSchedules(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.SyncSchedule, error)
	RunNow(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.SyncRun, error)
}

// TransferService moves stock between warehouses
type TransferService interface {
	Transfer(ctx context.Context, in appfulfillment.TransferInput) (*fulfillment.WarehouseTransfer, error)
	Cancel(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.WarehouseTransfer, error)
	Get(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.WarehouseTransfer, error)
	List(ctx context.Context, filter fulfillment.TransferFilter) ([]fulfillment.WarehouseTransfer, error)
}

// CatalogService manages warehouses, listings and stock views
type CatalogService interface {
	RegisterWarehouse(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, providerRef, name string) (*fulfillment.Warehouse, error)
	ListWarehouses(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.Warehouse, error)
	DeactivateWarehouse(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.Warehouse, error)
	CreateListing(ctx context.Context, in appfulfillment.ListingInput) (*fulfillment.ProductListing, error)
	ListListings(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.ProductListing, error)
	StockLevels(ctx context.Context, sellerID, productID uuid.UUID) ([]fulfillment.StockLevel, error)
}

// InboundWebhooks verifies and records provider webhooks
type InboundWebhooks interface {
	Receive(ctx context.Context, provider fulfillment.ProviderName, raw []byte, signature string) (*appfulfillment.InboundResult, error)
}

// SubscriptionService manages outbound subscriptions and their deliveries
type SubscriptionService interface {
	CreateSubscription(ctx context.Context, sellerID uuid.UUID, url string, eventTypes []string, secret string) (*fulfillment.WebhookSubscription, error)
	ListSubscriptions(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.WebhookSubscription, error)
	DeactivateSubscription(ctx context.Context, sellerID, id uuid.UUID) error
	ListDeliveries(ctx context.Context, filter fulfillment.DeliveryFilter) ([]fulfillment.WebhookDelivery, error)
	ReplayDelivery(ctx context.Context, sellerID, id uuid.UUID) (*fulfillment.WebhookDelivery, error)
}

// Connector links seller accounts to providers
type Connector interface {
	BeginConnect(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) (string, error)
	CompleteConnect(ctx context.Context, code, stateToken string, sandbox bool) (*appfulfillment.ConnectionResult, error)
	ConnectManual(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool, apiKey, apiSecret string) (*appfulfillment.ConnectionResult, error)
}

// ConnectionRegistry lists and removes stored connections
type ConnectionRegistry interface {
	Disconnect(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) error
	Connections(ctx context.Context, sellerID uuid.UUID) ([]appfulfillment.Connection, error)
}

var (
	_ InventorySyncer     = (*appfulfillment.FulfillmentOrchestrator)(nil)
	_ SyncStatusReader    = (*appfulfillment.SyncProgressTracker)(nil)
	_ ScheduleService     = (*appfulfillment.SyncScheduleManager)(nil)
	_ TransferService     = (*appfulfillment.WarehouseTransferService)(nil)
	_ CatalogService      = (*appfulfillment.CatalogService)(nil)
	_ InboundWebhooks     = (*appfulfillment.WebhookGateway)(nil)
	_ SubscriptionService = (*appfulfillment.WebhookDispatcher)(nil)
	_ Connector           = (*appfulfillment.OAuthConnector)(nil)
	_ ConnectionRegistry  = (*appfulfillment.CredentialVault)(nil)
)
