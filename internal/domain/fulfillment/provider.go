package fulfillment

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ---------------------------------------------------------------------------
// ProviderName identifies an external fulfillment/warehouse/marketplace system
// ---------------------------------------------------------------------------

// ProviderName is the registry key of a provider
type ProviderName string

var providerNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{1,31}$`)

// IsValid returns true if the name is a well-formed provider key
func (n ProviderName) IsValid() bool {
	return providerNamePattern.MatchString(string(n))
}

// String returns the string representation of ProviderName
func (n ProviderName) String() string {
	return string(n)
}

// DisplayName returns a human readable name for notifications
func (n ProviderName) DisplayName() string {
	words := strings.NewReplacer("_", " ", "-", " ").Replace(string(n))
	return cases.Title(language.English).String(words)
}

// ProviderKind describes how a provider holds stock
type ProviderKind string

const (
	// ProviderKindWarehouse ships from warehouses it operates for the seller
	ProviderKindWarehouse ProviderKind = "warehouse"
	// ProviderKindMarketplace is fulfillment managed by a marketplace
	ProviderKindMarketplace ProviderKind = "marketplace"
	// ProviderKindDropship sources stock from a third-party supplier
	ProviderKindDropship ProviderKind = "dropship"
)

// ---------------------------------------------------------------------------
// Provider call shapes
// ---------------------------------------------------------------------------

// Credentials are decrypted secrets handed to a provider call. They live on
// the call stack only and are never persisted in this form.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	APIKey       string
	APISecret    string
	ExpiresAt    *time.Time
	Sandbox      bool
}

// IsExpired reports whether the token has passed its expiry
func (c Credentials) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// ProductRef points at one product listing on a provider
type ProductRef struct {
	ProductID    uuid.UUID
	WarehouseID  uuid.UUID
	SKU          string
	ProviderRef  string
	WarehouseRef string
}

// InventoryItem is the normalized stock level reported by a provider
type InventoryItem struct {
	SKU               string
	Quantity          int64
	AvailableQuantity int64
	ProviderRef       string
	WarehouseRef      string
}

// TransferRequest moves stock between two provider locations. Quantity must
// already be validated against local availability.
type TransferRequest struct {
	SourceRef      string
	TargetRef      string
	SKU            string
	Quantity       int64
	IdempotencyKey string
}

// TransferResult is the provider's acknowledgement of a transfer
type TransferResult struct {
	ProviderTransactionID string
}

// NormalizedEvent is a provider webhook in provider-independent form
type NormalizedEvent struct {
	EventType  string
	ExternalID string
	SellerID   uuid.UUID
	OrderID    string
	OccurredAt time.Time
	Data       map[string]any
}

// Address is a shipping destination
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// OrderLine is one SKU of a fulfillment order
type OrderLine struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}

// FulfillmentOrderRequest asks a provider to ship an order
type FulfillmentOrderRequest struct {
	OrderID        string
	Lines          []OrderLine
	ShipTo         Address
	ShippingSpeed  string
	IdempotencyKey string
}

// FulfillmentOrderResult is the provider-side order reference
type FulfillmentOrderResult struct {
	ProviderOrderID string
	Status          string
}

// TokenSet is the result of an OAuth authorization-code exchange
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresIn    time.Duration
}

// ---------------------------------------------------------------------------
// ProviderClient Port Interface
// ---------------------------------------------------------------------------

// ProviderClient is implemented once per external provider. Implementations
// perform network calls only and normalize every vendor error into the
// fulfillment error taxonomy before returning.
type ProviderClient interface {
	// Name returns the registry key
	Name() ProviderName

	// Kind returns how the provider holds stock
	Kind() ProviderKind

	// GetInventory fetches stock for the given listings.
	// Fails with ErrProviderUnavailable on network/5xx and ErrProviderAuth on
	// an expired or invalid credential.
	GetInventory(ctx context.Context, creds Credentials, refs []ProductRef) ([]InventoryItem, error)

	// TransferStock asks the provider to move stock between two locations.
	// Provider-side rejections are returned as *TransferError.
	TransferStock(ctx context.Context, creds Credentials, req TransferRequest) (*TransferResult, error)

	// HandleWebhook parses a raw webhook body. It performs no I/O and returns
	// ErrMalformedPayload when required fields are missing.
	HandleWebhook(rawPayload []byte) (*NormalizedEvent, error)
}

// OrderFulfiller is implemented by providers that accept fulfillment orders
type OrderFulfiller interface {
	CreateFulfillmentOrder(ctx context.Context, creds Credentials, req FulfillmentOrderRequest) (*FulfillmentOrderResult, error)
}

// OAuthProvider is implemented by providers that support the authorization-code flow
type OAuthProvider interface {
	AuthorizationURL(state string, sandbox bool, redirectURL string) (string, error)
	ExchangeCode(ctx context.Context, code string, sandbox bool, redirectURL string) (*TokenSet, error)
}

// ProviderRegistry resolves provider clients by name. Unknown names are
// rejected here, at the boundary, with ErrUnknownProvider.
type ProviderRegistry interface {
	// Get returns the client registered under name
	Get(name ProviderName) (ProviderClient, error)

	// Names returns all registered provider names in sorted order
	Names() []ProviderName
}
