package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/fulfillsync/backend/docs"
	appfulfillment "github.com/fulfillsync/backend/internal/application/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/infrastructure/auth"
	"github.com/fulfillsync/backend/internal/infrastructure/cache"
	"github.com/fulfillsync/backend/internal/infrastructure/config"
	"github.com/fulfillsync/backend/internal/infrastructure/event"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
	"github.com/fulfillsync/backend/internal/infrastructure/notification"
	"github.com/fulfillsync/backend/internal/infrastructure/persistence"
	"github.com/fulfillsync/backend/internal/infrastructure/provider"
	"github.com/fulfillsync/backend/internal/infrastructure/retry"
	"github.com/fulfillsync/backend/internal/infrastructure/scheduler"
	"github.com/fulfillsync/backend/internal/infrastructure/telemetry"
	"github.com/fulfillsync/backend/internal/infrastructure/vault"
	"github.com/fulfillsync/backend/internal/infrastructure/webhook"
	"github.com/fulfillsync/backend/internal/interfaces/http/handler"
	"github.com/fulfillsync/backend/internal/interfaces/http/middleware"
	"github.com/fulfillsync/backend/internal/interfaces/http/router"
)

//	@title			FulfillSync API
//	@version		1.0
//	@description	Multi-provider fulfillment and inventory synchronization service
//
//	@BasePath	/
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key
//	@description				Seller API key. "Authorization: Bearer {key}" is accepted as well.

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	shutdownTimeout = 30 * time.Second
	sweepBatch      = 100
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// The OTLP log pipeline must exist before the logger so zap can tee into it
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize log exporter: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, logsProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)
	defer func() {
		telemetry.LogShutdown(log, "logs", logsProvider.Shutdown(context.Background()))
	}()

	log.Info("Starting fulfillsync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.Strings("providers", cfg.EnabledProviders()),
	)

	// Tracing and business metrics
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.TracingEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		telemetry.LogShutdown(log, "traces", tracerProvider.Shutdown(context.Background()))
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		telemetry.LogShutdown(log, "metrics", meterProvider.Shutdown(context.Background()))
	}()

	metrics, err := telemetry.NewFulfillmentMetrics(meterProvider.Meter(cfg.Telemetry.ServiceName))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Initialize database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// OAuth state store (Redis unless configured otherwise)
	stateStoreFactory := cache.NewStateStoreFactory(
		cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	stateStore, redisClient, err := stateStoreFactory.Create(cfg.OAuth.StateStore)
	if err != nil {
		log.Fatal("Failed to create oauth state store", zap.Error(err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis client", zap.Error(err))
			}
		}()
	}

	// Event bus; Kafka receives every published event when enabled
	eventBus := event.NewInMemoryEventBus(log)
	var notifier fulfillment.NotificationSender = notification.NewLogSender(log)
	if cfg.Kafka.Enabled {
		kafkaPublisher := event.NewKafkaPublisher(event.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic), log)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("Failed to close Kafka event writer", zap.Error(err))
			}
		}()
		eventBus.Subscribe(kafkaPublisher)

		kafkaNotifier := notification.NewKafkaSender(event.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic), log)
		defer func() {
			if err := kafkaNotifier.Close(); err != nil {
				log.Error("Failed to close Kafka notification writer", zap.Error(err))
			}
		}()
		notifier = kafkaNotifier
		log.Info("Kafka publishing enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("events_topic", cfg.Kafka.EventsTopic),
			zap.String("notifications_topic", cfg.Kafka.NotificationsTopic),
		)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Failed to stop event bus", zap.Error(err))
		}
	}()

	// Provider registry
	registry, webhookSecrets, err := buildRegistry(cfg, log)
	if err != nil {
		log.Fatal("Failed to build provider registry", zap.Error(err))
	}

	// Repositories
	credentialRepo := persistence.NewGormCredentialRepository(db.DB)
	leaseRepo := persistence.NewGormLeaseRepository(db.DB)
	syncRunRepo := persistence.NewGormSyncRunRepository(db.DB)
	scheduleRepo := persistence.NewGormScheduleRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	webhookEventRepo := persistence.NewGormWebhookEventRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	deliveryRepo := persistence.NewGormDeliveryRepository(db.DB)

	// Application services
	cipher, err := newCipher(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize credential cipher", zap.Error(err))
	}
	credentialVault := appfulfillment.NewCredentialVault(credentialRepo, cipher, log)

	redirectURL := cfg.OAuth.RedirectURL
	if redirectURL == "" && cfg.App.PublicBaseURL != "" {
		redirectURL = strings.TrimRight(cfg.App.PublicBaseURL, "/") + "/oauth/callback"
	}
	oauthConnector := appfulfillment.NewOAuthConnector(registry, stateStore, credentialVault, appfulfillment.OAuthConnectorConfig{
		StateTTL:    cfg.OAuth.StateTTL,
		RedirectURL: redirectURL,
	}, log)

	tracker := appfulfillment.NewSyncProgressTracker(syncRunRepo, leaseRepo, leaseHolder(), cfg.Scheduler.LockLease, log)
	gate := appfulfillment.NewProviderGate(cfg.Sync.ProviderConcurrency, cfg.Sync.RequestTimeout, metrics)

	catalogService := appfulfillment.NewCatalogService(warehouseRepo, listingRepo, stockRepo, registry, log)

	orchestrator := appfulfillment.NewFulfillmentOrchestrator(
		registry, credentialVault, gate, tracker,
		warehouseRepo, listingRepo, stockRepo,
		eventBus, notifier, metrics,
		appfulfillment.OrchestratorConfig{IncrementalStaleness: cfg.Sync.IncrementalStaleness},
		log,
	)

	schedulePolicy := retry.Policy{
		BaseDelay:   cfg.Scheduler.RetryBaseDelay,
		MaxDelay:    cfg.Scheduler.RetryMaxDelay,
		Jitter:      cfg.Scheduler.RetryJitter,
		MaxAttempts: retry.DefaultPolicy().MaxAttempts,
	}
	scheduleManager := appfulfillment.NewSyncScheduleManager(
		scheduleRepo, registry, tracker, orchestrator, notifier,
		schedulePolicy, cfg.Scheduler.JobTimeout, log,
	)

	transferService := appfulfillment.NewWarehouseTransferService(
		transferRepo, transferRepo, warehouseRepo, listingRepo, stockRepo,
		registry, credentialVault, gate, tracker,
		eventBus, notifier, metrics,
		appfulfillment.TransferConfig{
			Fees:                  fulfillment.FeePolicy{UnitFee: cfg.Transfer.UnitFee},
			LockLease:             cfg.Transfer.LockLease,
			MaxProcessingDuration: cfg.Transfer.MaxProcessingDuration,
			SweepBatch:            sweepBatch,
		},
		log,
	)

	webhookDispatcher := appfulfillment.NewWebhookDispatcher(
		subscriptionRepo, deliveryRepo,
		webhook.NewHTTPSender(cfg.Webhook.DeliveryTimeout),
		retry.DefaultPolicy().WithMaxAttempts(cfg.Webhook.MaxAttempts),
		metrics, log,
	)
	eventBus.Subscribe(webhookDispatcher)

	webhookGateway := appfulfillment.NewWebhookGateway(
		registry, webhookEventRepo, webhookDispatcher, eventBus, orchestrator, notifier, metrics,
		appfulfillment.WebhookGatewayConfig{
			Secrets:         webhookSecrets,
			MaxPayloadBytes: cfg.Webhook.MaxPayloadBytes,
		},
		log,
	)

	// Outbound deliveries are attempted by the processor; the dispatcher wakes it
	deliveryProcessor := event.NewDeliveryProcessor(deliveryRepo, webhookDispatcher, event.DeliveryProcessorConfig{
		BatchSize:    cfg.Webhook.BatchSize,
		PollInterval: cfg.Webhook.PollInterval,
	}, log)
	webhookDispatcher.SetTrigger(deliveryProcessor)

	// Background workers
	if cfg.Scheduler.Enabled {
		trigger, err := scheduler.NewScheduleTrigger(scheduler.Config{
			Enabled:           cfg.Scheduler.Enabled,
			CheckInterval:     cfg.Scheduler.CheckInterval,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
		}, scheduleManager, log)
		if err != nil {
			log.Fatal("Failed to create schedule trigger", zap.Error(err))
		}
		sweeper := scheduler.NewTransferSweeper(cfg.Transfer.SweepInterval, transferService, leaseRepo, log)

		workers := []interface {
			Start(context.Context) error
			Stop(context.Context) error
		}{trigger, sweeper, deliveryProcessor}
		for _, w := range workers {
			if err := w.Start(ctx); err != nil {
				log.Fatal("Failed to start background worker", zap.Error(err))
			}
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			for _, w := range workers {
				if err := w.Stop(stopCtx); err != nil {
					log.Error("Failed to stop background worker", zap.Error(err))
				}
			}
		}()
		log.Info("Background workers started")
	} else {
		log.Info("Background workers disabled")
	}
	defer func() {
		waitCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := scheduleManager.Wait(waitCtx); err != nil {
			log.Warn("Manual schedule runs still in flight at shutdown", zap.Error(err))
		}
	}()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register custom validators
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	// Prometheus registry behind /metrics
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	poolCollector, err := db.PoolCollector(cfg.Database.DBName)
	if err != nil {
		log.Fatal("Failed to create database pool collector", zap.Error(err))
	}
	promRegistry.MustRegister(poolCollector)
	promRegistry.MustRegister(persistence.NewDeliveryBacklogCollector(deliveryRepo))
	httpMetrics, err := middleware.NewHTTPMetrics(promRegistry)
	if err != nil {
		log.Fatal("Failed to register HTTP metrics", zap.Error(err))
	}

	// Middleware stack
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.TracingEnabled,
		SkipPaths:   middleware.DefaultTracingConfig().SkipPaths,
	})...)
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsCfg))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(httpMetrics.Middleware())

	stopSweeper := make(chan struct{})
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		go limiter.RunSweeper(stopSweeper)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.HTTP.RateLimitRPS),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	// API key authentication for the versioned API
	apiKeys, err := auth.NewAPIKeyStore(cfg.Auth.APIKeys)
	if err != nil {
		log.Fatal("Failed to load API keys", zap.Error(err))
	}
	if apiKeys.Len() == 0 {
		log.Warn("No API keys configured, every authenticated route will answer 401")
	}

	// Health checks
	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	apiKeyAuth := middleware.APIKeyAuth(apiKeys, log)

	// API documentation, guarded by config
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, apiKeyAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine, router.WithAuth(apiKeyAuth))
	router.Mount(r, router.Handlers{
		System:      handler.NewSystemHandler(version, checks),
		Sync:        handler.NewSyncHandler(orchestrator, tracker),
		Schedule:    handler.NewScheduleHandler(scheduleManager),
		Transfer:    handler.NewTransferHandler(transferService),
		Catalog:     handler.NewCatalogHandler(catalogService),
		Webhook:     handler.NewWebhookHandler(webhookGateway, webhookDispatcher),
		Integration: handler.NewIntegrationHandler(oauthConnector, credentialVault, cfg.App.DashboardURL),
		Metrics:     middleware.MetricsHandler(promRegistry),
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	close(stopSweeper)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildRegistry registers an adapter for every enabled provider and collects
// their inbound webhook secrets
func buildRegistry(cfg *config.Config, log *zap.Logger) (*provider.Registry, map[fulfillment.ProviderName]string, error) {
	registry, err := provider.NewRegistry()
	if err != nil {
		return nil, nil, err
	}
	secrets := make(map[fulfillment.ProviderName]string)

	for _, name := range cfg.EnabledProviders() {
		pc := cfg.Providers[name]

		var client fulfillment.ProviderClient
		switch name {
		case "shiphub":
			adapter, err := provider.NewShipHubAdapter(providerConfig(provider.NewShipHubConfig(pc.ClientID, pc.ClientSecret), pc))
			if err != nil {
				return nil, nil, fmt.Errorf("shiphub: %w", err)
			}
			client = adapter
		case "marketplace":
			adapter, err := provider.NewMarketplaceAdapter(providerConfig(provider.NewMarketplaceConfig(pc.ClientID, pc.ClientSecret), pc))
			if err != nil {
				return nil, nil, fmt.Errorf("marketplace: %w", err)
			}
			client = adapter
		default:
			log.Warn("No adapter for enabled provider, skipping", zap.String("provider", name))
			continue
		}

		if err := registry.Register(client); err != nil {
			return nil, nil, err
		}
		if pc.WebhookSecret != "" {
			secrets[client.Name()] = pc.WebhookSecret
		}
		log.Info("Provider registered", zap.String("provider", name))
	}
	return registry, secrets, nil
}

// providerConfig overlays the configured endpoints and limits on an adapter's defaults
func providerConfig(base *provider.Config, pc config.ProviderConfig) *provider.Config {
	if pc.BaseURL != "" {
		base.BaseURL = pc.BaseURL
	}
	if pc.SandboxBaseURL != "" {
		base.SandboxBaseURL = pc.SandboxBaseURL
	}
	if pc.RateLimitRPS > 0 {
		base.RateLimitRPS = pc.RateLimitRPS
	}
	if pc.Timeout > 0 {
		base.TimeoutSeconds = int(pc.Timeout.Seconds())
	}
	return base
}

// newCipher builds the vault cipher. Outside production a missing master key
// is replaced by a random one, so stored credentials do not survive a restart.
func newCipher(cfg *config.Config, log *zap.Logger) (*vault.AESGCMCipher, error) {
	if cfg.Vault.MasterKey != "" {
		return vault.NewAESGCMCipherFromBase64(cfg.Vault.MasterKey)
	}
	log.Warn("vault.master_key not set, using an ephemeral key")
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return vault.NewAESGCMCipher(key)
}

// leaseHolder identifies this process in lease rows
func leaseHolder() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "fulfillsync"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
