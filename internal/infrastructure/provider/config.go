package provider

import (
	"errors"
	"strings"
)

// Config holds the process-wide settings of one provider integration.
// Seller secrets are not part of it; they arrive per call as Credentials.
type Config struct {
	// Enabled registers the adapter at startup
	Enabled bool
	// BaseURL is the production API endpoint
	BaseURL string
	// SandboxBaseURL is used when a seller connected a sandbox account
	SandboxBaseURL string
	// ClientID and ClientSecret identify this service to the provider's OAuth server
	ClientID     string
	ClientSecret string
	// Scopes requested during authorization
	Scopes []string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// RateLimitRPS caps outbound calls per second, 0 means unlimited
	RateLimitRPS float64
	// PageSize bounds SKUs per inventory request
	PageSize int
}

const (
	// ShipHubProductionAPIURL is the production API endpoint
	ShipHubProductionAPIURL = "https://api.shiphub.io/v2"
	// ShipHubSandboxAPIURL is the sandbox API endpoint
	ShipHubSandboxAPIURL = "https://sandbox.api.shiphub.io/v2"

	// MarketplaceProductionAPIURL is the production API endpoint
	MarketplaceProductionAPIURL = "https://sellingpartner.marketplace.example/api"
	// MarketplaceSandboxAPIURL is the sandbox API endpoint
	MarketplaceSandboxAPIURL = "https://sandbox.sellingpartner.marketplace.example/api"

	defaultTimeoutSeconds = 20
	defaultPageSize       = 50
)

// Errors for provider configuration
var (
	ErrConfigMissingBaseURL = errors.New("provider: base url is required")
	ErrConfigInvalidRate    = errors.New("provider: rate limit must not be negative")
)

// NewShipHubConfig creates a ShipHub configuration with defaults
func NewShipHubConfig(clientID, clientSecret string) *Config {
	return &Config{
		Enabled:        true,
		BaseURL:        ShipHubProductionAPIURL,
		SandboxBaseURL: ShipHubSandboxAPIURL,
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		Scopes:         []string{"inventory", "transfers", "orders"},
		TimeoutSeconds: defaultTimeoutSeconds,
		RateLimitRPS:   5,
		PageSize:       defaultPageSize,
	}
}

// NewMarketplaceConfig creates a marketplace configuration with defaults
func NewMarketplaceConfig(clientID, clientSecret string) *Config {
	return &Config{
		Enabled:        true,
		BaseURL:        MarketplaceProductionAPIURL,
		SandboxBaseURL: MarketplaceSandboxAPIURL,
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		Scopes:         []string{"fba_inventory", "fba_outbound"},
		TimeoutSeconds: defaultTimeoutSeconds,
		RateLimitRPS:   2,
		PageSize:       defaultPageSize,
	}
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.RateLimitRPS < 0 {
		return ErrConfigInvalidRate
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	return nil
}
