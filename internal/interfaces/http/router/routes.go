package router

import (
	"github.com/gin-gonic/gin"

	"github.com/fulfillsync/backend/internal/interfaces/http/handler"
)

// Handlers bundles every HTTP handler the service exposes
type Handlers struct {
	System      *handler.SystemHandler
	Sync        *handler.SyncHandler
	Schedule    *handler.ScheduleHandler
	Transfer    *handler.TransferHandler
	Catalog     *handler.CatalogHandler
	Webhook     *handler.WebhookHandler
	Integration *handler.IntegrationHandler
	// Metrics serves the Prometheus exposition; nil leaves /metrics unmounted
	Metrics gin.HandlerFunc
}

// Mount registers the fulfillment API on r and sets it up. Provider
// webhooks and the OAuth callback are public: the first is authenticated by
// its signature, the second by its state token.
func Mount(r *Router, h Handlers) {
	public := NewDomainGroup("public", "")
	public.GET("/health", h.System.Health)
	if h.Metrics != nil {
		public.GET("/metrics", h.Metrics)
	}
	public.GET("/oauth/callback", h.Integration.OAuthCallback)
	public.POST("/"+r.apiVersion+"/webhooks/fulfillment", h.Webhook.Receive)
	// Unversioned alias of the transfer endpoint, still behind the API key
	public.POST("/warehouse/transfer", append(r.Auth(), h.Transfer.Create)...)
	r.RegisterPublic(public)

	inventory := NewDomainGroup("inventory", "/inventory")
	inventory.POST("/sync", h.Sync.SyncInventory)
	inventory.GET("/sync", h.Sync.GetSyncStatus)
	inventory.GET("/sync/runs", h.Sync.ListSyncRuns)
	schedule := inventory.Group("schedule", "/schedule")
	schedule.POST("", h.Schedule.Create)
	schedule.GET("", h.Schedule.List)
	schedule.GET("/:id", h.Schedule.Get)
	schedule.PUT("/:id", h.Schedule.Update)
	schedule.POST("/:id/disable", h.Schedule.Disable)
	schedule.POST("/:id/run", h.Schedule.RunNow)
	r.Register(inventory)

	transfer := NewDomainGroup("transfer", "/warehouse/transfer")
	transfer.POST("", h.Transfer.Create)
	transfer.GET("", h.Transfer.List)
	transfer.GET("/:id", h.Transfer.Get)
	transfer.POST("/:id/cancel", h.Transfer.Cancel)
	r.Register(transfer)

	catalog := NewDomainGroup("catalog", "")
	catalog.POST("/warehouses", h.Catalog.RegisterWarehouse)
	catalog.GET("/warehouses", h.Catalog.ListWarehouses)
	catalog.DELETE("/warehouses/:id", h.Catalog.DeactivateWarehouse)
	catalog.POST("/listings", h.Catalog.CreateListing)
	catalog.GET("/listings", h.Catalog.ListListings)
	catalog.GET("/products/:id/stock", h.Catalog.ProductStock)
	r.Register(catalog)

	webhooks := NewDomainGroup("webhooks", "/webhooks")
	webhooks.POST("/subscriptions", h.Webhook.CreateSubscription)
	webhooks.GET("/subscriptions", h.Webhook.ListSubscriptions)
	webhooks.DELETE("/subscriptions/:id", h.Webhook.DeleteSubscription)
	webhooks.GET("/deliveries", h.Webhook.ListDeliveries)
	webhooks.POST("/deliveries/:id/replay", h.Webhook.ReplayDelivery)
	r.Register(webhooks)

	integrations := NewDomainGroup("integrations", "/integrations")
	integrations.GET("", h.Integration.List)
	integrations.GET("/:provider/connect", h.Integration.Connect)
	integrations.POST("/:provider/manual", h.Integration.ConnectManual)
	integrations.DELETE("/:provider", h.Integration.Disconnect)
	r.Register(integrations)

	r.Setup()
}
