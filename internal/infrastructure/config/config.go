package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Auth      AuthConfig
	Vault     VaultConfig
	OAuth     OAuthConfig
	Scheduler SchedulerConfig
	Sync      SyncConfig
	Transfer  TransferConfig
	Webhook   WebhookConfig
	Swagger   SwaggerConfig
	Providers map[string]ProviderConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name          string
	Env           string
	Port          string
	DashboardURL  string // seller dashboard the OAuth callback redirects to
	PublicBaseURL string // externally reachable base URL of this service
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds event and notification publishing settings
type KafkaConfig struct {
	Enabled            bool
	Brokers            []string
	EventsTopic        string
	NotificationsTopic string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// AuthConfig holds API key authentication settings
type AuthConfig struct {
	// APIKeys entries are "sellerId:key"
	APIKeys []string
}

// SwaggerConfig holds API documentation endpoint settings
type SwaggerConfig struct {
	Enabled     bool     // Serve /swagger
	RequireAuth bool     // Require a seller API key to read the documentation
	AllowedIPs  []string // IPs or CIDRs allowed to read the documentation, empty = all
}

// VaultConfig holds the credential vault master key
type VaultConfig struct {
	MasterKey string // base64-encoded 32 bytes
}

// OAuthConfig holds connect-flow settings
type OAuthConfig struct {
	StateTTL    time.Duration
	StateStore  string // redis or memory
	RedirectURL string
}

// SchedulerConfig holds background worker settings
type SchedulerConfig struct {
	Enabled           bool
	CheckInterval     time.Duration
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	LockLease         time.Duration
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
	RetryJitter       float64
}

// SyncConfig holds inventory sync settings
type SyncConfig struct {
	ProviderConcurrency  int
	IncrementalStaleness time.Duration
	RequestTimeout       time.Duration
}

// TransferConfig holds warehouse transfer settings
type TransferConfig struct {
	UnitFee               decimal.Decimal
	SweepInterval         time.Duration
	MaxProcessingDuration time.Duration
	LockLease             time.Duration
}

// WebhookConfig holds inbound and outbound webhook settings
type WebhookConfig struct {
	DeliveryTimeout time.Duration
	MaxAttempts     int
	PollInterval    time.Duration
	BatchSize       int
	MaxPayloadBytes int64
}

// ProviderConfig holds the settings of one provider integration
type ProviderConfig struct {
	Enabled        bool
	BaseURL        string
	SandboxBaseURL string
	APIKey         string
	APISecret      string
	ClientID       string
	ClientSecret   string
	WebhookSecret  string
	RateLimitRPS   float64
	Timeout        time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	TracingEnabled    bool    // Export traces over OTLP
	MetricsEnabled    bool    // Export business metrics over OTLP
	LogsEnabled       bool    // Tee zap into the OTLP log exporter
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	// Database tracing options
	DBTraceEnabled    bool          // Enable database query tracing (otelgorm)
	DBLogFullSQL      bool          // Log full SQL statements (dev only)
	DBSlowQueryThresh time.Duration // Slow query threshold for warnings
}

// knownProviders are always read so env-only deployments can enable them
var knownProviders = []string{"shiphub", "marketplace"}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with FS_ prefix (e.g., FS_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fulfillsync")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("FS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	unitFee, err := parseDecimal(v.GetString("transfer.unit_fee"))
	if err != nil {
		return nil, fmt.Errorf("transfer.unit_fee: %w", err)
	}

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name:          v.GetString("app.name"),
			Env:           v.GetString("app.env"),
			Port:          v.GetString("app.port"),
			DashboardURL:  v.GetString("app.dashboard_url"),
			PublicBaseURL: v.GetString("app.public_base_url"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Kafka: KafkaConfig{
			Enabled:            v.GetBool("kafka.enabled"),
			Brokers:            v.GetStringSlice("kafka.brokers"),
			EventsTopic:        v.GetString("kafka.events_topic"),
			NotificationsTopic: v.GetString("kafka.notifications_topic"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			RateLimitEnabled: v.GetBool("http.rate_limit_enabled"),
			RateLimitRPS:     v.GetFloat64("http.rate_limit_rps"),
			RateLimitBurst:   v.GetInt("http.rate_limit_burst"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Auth: AuthConfig{
			APIKeys: v.GetStringSlice("auth.api_keys"),
		},
		Vault: VaultConfig{
			MasterKey: v.GetString("vault.master_key"),
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
			AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
		},
		OAuth: OAuthConfig{
			StateTTL:    v.GetDuration("oauth.state_ttl"),
			StateStore:  v.GetString("oauth.state_store"),
			RedirectURL: v.GetString("oauth.redirect_url"),
		},
		Scheduler: SchedulerConfig{
			Enabled:           v.GetBool("scheduler.enabled"),
			CheckInterval:     v.GetDuration("scheduler.check_interval"),
			MaxConcurrentJobs: v.GetInt("scheduler.max_concurrent_jobs"),
			JobTimeout:        v.GetDuration("scheduler.job_timeout"),
			LockLease:         v.GetDuration("scheduler.lock_lease"),
			RetryBaseDelay:    v.GetDuration("scheduler.retry_base_delay"),
			RetryMaxDelay:     v.GetDuration("scheduler.retry_max_delay"),
			RetryJitter:       v.GetFloat64("scheduler.retry_jitter"),
		},
		Sync: SyncConfig{
			ProviderConcurrency:  v.GetInt("sync.provider_concurrency"),
			IncrementalStaleness: v.GetDuration("sync.incremental_staleness"),
			RequestTimeout:       v.GetDuration("sync.request_timeout"),
		},
		Transfer: TransferConfig{
			UnitFee:               unitFee,
			SweepInterval:         v.GetDuration("transfer.sweep_interval"),
			MaxProcessingDuration: v.GetDuration("transfer.max_processing_duration"),
			LockLease:             v.GetDuration("transfer.lock_lease"),
		},
		Webhook: WebhookConfig{
			DeliveryTimeout: v.GetDuration("webhook.delivery_timeout"),
			MaxAttempts:     v.GetInt("webhook.max_attempts"),
			PollInterval:    v.GetDuration("webhook.poll_interval"),
			BatchSize:       v.GetInt("webhook.batch_size"),
			MaxPayloadBytes: v.GetInt64("webhook.max_payload_bytes"),
		},
		Providers: loadProviders(v),
		Telemetry: TelemetryConfig{
			TracingEnabled:    v.GetBool("telemetry.tracing_enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadProviders reads providers.<name> sections for the known providers plus
// any extra names present in the config file
func loadProviders(v *viper.Viper) map[string]ProviderConfig {
	names := map[string]struct{}{}
	for _, name := range knownProviders {
		names[name] = struct{}{}
	}
	for name := range v.GetStringMap("providers") {
		names[strings.ToLower(name)] = struct{}{}
	}

	providers := make(map[string]ProviderConfig, len(names))
	for name := range names {
		prefix := "providers." + name + "."
		providers[name] = ProviderConfig{
			Enabled:        v.GetBool(prefix + "enabled"),
			BaseURL:        v.GetString(prefix + "base_url"),
			SandboxBaseURL: v.GetString(prefix + "sandbox_base_url"),
			APIKey:         v.GetString(prefix + "api_key"),
			APISecret:      v.GetString(prefix + "api_secret"),
			ClientID:       v.GetString(prefix + "client_id"),
			ClientSecret:   v.GetString(prefix + "client_secret"),
			WebhookSecret:  v.GetString(prefix + "webhook_secret"),
			RateLimitRPS:   v.GetFloat64(prefix + "rate_limit_rps"),
			Timeout:        v.GetDuration(prefix + "timeout"),
		}
	}
	return providers
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "fulfillsync"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.DashboardURL == "" {
		cfg.App.DashboardURL = "http://localhost:3000/dashboard/integrations"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "fulfillsync"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Kafka.EventsTopic == "" {
		cfg.Kafka.EventsTopic = "fulfillment.events"
	}
	if cfg.Kafka.NotificationsTopic == "" {
		cfg.Kafka.NotificationsTopic = "fulfillment.notifications"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.HTTP.RateLimitRPS == 0 {
		cfg.HTTP.RateLimitRPS = 10
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 20
	}
	// An empty origin list means no cross-origin requests are allowed
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-API-Key", "X-Request-ID"}
	}
	if cfg.OAuth.StateTTL == 0 {
		cfg.OAuth.StateTTL = 24 * time.Hour
	}
	if cfg.OAuth.StateStore == "" {
		cfg.OAuth.StateStore = "redis"
	}
	if cfg.Scheduler.CheckInterval == 0 {
		cfg.Scheduler.CheckInterval = 30 * time.Second
	}
	if cfg.Scheduler.MaxConcurrentJobs == 0 {
		cfg.Scheduler.MaxConcurrentJobs = 4
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 10 * time.Minute
	}
	if cfg.Scheduler.LockLease == 0 {
		cfg.Scheduler.LockLease = 15 * time.Minute
	}
	if cfg.Scheduler.RetryBaseDelay == 0 {
		cfg.Scheduler.RetryBaseDelay = time.Second
	}
	if cfg.Scheduler.RetryMaxDelay == 0 {
		cfg.Scheduler.RetryMaxDelay = 5 * time.Minute
	}
	if cfg.Scheduler.RetryJitter == 0 {
		cfg.Scheduler.RetryJitter = 0.2
	}
	if cfg.Sync.ProviderConcurrency == 0 {
		cfg.Sync.ProviderConcurrency = 1
	}
	if cfg.Sync.IncrementalStaleness == 0 {
		cfg.Sync.IncrementalStaleness = 15 * time.Minute
	}
	if cfg.Sync.RequestTimeout == 0 {
		cfg.Sync.RequestTimeout = 20 * time.Second
	}
	if cfg.Transfer.UnitFee.IsZero() {
		cfg.Transfer.UnitFee = decimal.RequireFromString("0.50")
	}
	if cfg.Transfer.SweepInterval == 0 {
		cfg.Transfer.SweepInterval = time.Minute
	}
	if cfg.Transfer.MaxProcessingDuration == 0 {
		cfg.Transfer.MaxProcessingDuration = 15 * time.Minute
	}
	if cfg.Transfer.LockLease == 0 {
		cfg.Transfer.LockLease = 2 * time.Minute
	}
	if cfg.Webhook.DeliveryTimeout == 0 {
		cfg.Webhook.DeliveryTimeout = 8 * time.Second
	}
	if cfg.Webhook.MaxAttempts == 0 {
		cfg.Webhook.MaxAttempts = 8
	}
	if cfg.Webhook.PollInterval == 0 {
		cfg.Webhook.PollInterval = 10 * time.Second
	}
	if cfg.Webhook.BatchSize == 0 {
		cfg.Webhook.BatchSize = 50
	}
	if cfg.Webhook.MaxPayloadBytes == 0 {
		cfg.Webhook.MaxPayloadBytes = 1 << 20 // 1MiB
	}
	for name, p := range cfg.Providers {
		if p.Timeout == 0 {
			p.Timeout = cfg.Sync.RequestTimeout
		}
		cfg.Providers[name] = p
	}

	// Telemetry defaults
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.OAuth.StateStore != "redis" && c.OAuth.StateStore != "memory" {
		return fmt.Errorf("oauth.state_store must be redis or memory, got %q", c.OAuth.StateStore)
	}
	if c.Scheduler.RetryJitter < 0 || c.Scheduler.RetryJitter > 1 {
		return fmt.Errorf("scheduler.retry_jitter must be between 0 and 1, got %f", c.Scheduler.RetryJitter)
	}
	if c.Scheduler.JobTimeout >= c.Scheduler.LockLease {
		return fmt.Errorf("scheduler.job_timeout (%s) must be shorter than scheduler.lock_lease (%s)",
			c.Scheduler.JobTimeout, c.Scheduler.LockLease)
	}
	if c.Sync.ProviderConcurrency < 1 {
		return fmt.Errorf("sync.provider_concurrency must be at least 1")
	}
	if c.Transfer.UnitFee.IsNegative() {
		return fmt.Errorf("transfer.unit_fee cannot be negative")
	}
	if c.Webhook.MaxAttempts < 1 {
		return fmt.Errorf("webhook.max_attempts must be at least 1")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Vault.MasterKey != "" {
		key, err := base64.StdEncoding.DecodeString(c.Vault.MasterKey)
		if err != nil || len(key) != 32 {
			return fmt.Errorf("vault.master_key must be 32 bytes, base64 encoded")
		}
	}
	for _, entry := range c.Auth.APIKeys {
		if _, _, ok := strings.Cut(entry, ":"); !ok {
			return fmt.Errorf("auth.api_keys entries must look like sellerId:key")
		}
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Vault.MasterKey == "" {
			return fmt.Errorf("vault.master_key is required in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.OAuth.StateStore == "memory" {
			return fmt.Errorf("oauth.state_store=memory is not allowed in production")
		}
		// CORS must not use wildcard with credentials
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger.enabled in production needs swagger.require_auth or swagger.allowed_ips")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
		for name, p := range c.Providers {
			if p.Enabled && p.WebhookSecret == "" {
				return fmt.Errorf("providers.%s.webhook_secret is required in production", name)
			}
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// EnabledProviders returns the names of enabled providers in sorted order
func (c *Config) EnabledProviders() []string {
	names := make([]string, 0, len(c.Providers))
	for name, p := range c.Providers {
		if p.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
