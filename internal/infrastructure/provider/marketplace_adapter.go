package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// MarketplaceName is the registry key of the marketplace adapter
const MarketplaceName fulfillment.ProviderName = "marketplace"

// maxSummaryPages stops a runaway nextToken chain
const maxSummaryPages = 100

// marketplaceEventTypes maps vendor notification types to normalized event types
var marketplaceEventTypes = map[string]string{
	"ORDER_PAYMENT_CONFIRMED":            "order.paid",
	"FULFILLMENT_ORDER_STATUS":           "shipment.updated",
	"FBA_INVENTORY_AVAILABILITY_CHANGES": "inventory.adjusted",
	"FBA_OUTBOUND_SHIPMENT_STATUS":       "shipment.updated",
}

// MarketplaceAdapter talks to a marketplace-managed fulfillment network.
// Only OAuth connections are supported.
type MarketplaceAdapter struct {
	api *apiClient
}

// NewMarketplaceAdapter creates a marketplace adapter with the given configuration
func NewMarketplaceAdapter(config *Config) (*MarketplaceAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &MarketplaceAdapter{api: newAPIClient(MarketplaceName, config)}, nil
}

// Name returns the registry key
func (a *MarketplaceAdapter) Name() fulfillment.ProviderName {
	return MarketplaceName
}

// Kind returns how the provider holds stock
func (a *MarketplaceAdapter) Kind() fulfillment.ProviderKind {
	return fulfillment.ProviderKindMarketplace
}

func (a *MarketplaceAdapter) authHeader(creds fulfillment.Credentials) (http.Header, error) {
	if err := requireUsable(MarketplaceName, creds); err != nil {
		return nil, err
	}
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: marketplace requires an oauth token", fulfillment.ErrProviderAuth)
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+creds.AccessToken)
	return h, nil
}

// call performs a request and unwraps the vendor envelope. Throttling is
// signalled by QuotaExceeded in the error list, on 200 and 400 alike.
func call[T any](ctx context.Context, a *MarketplaceAdapter, r request) (T, []marketplaceError, error) {
	var zero T
	body, err := a.api.do(ctx, r)
	if err != nil {
		var se *statusError
		if !errors.As(err, &se) {
			return zero, nil, err
		}
		body = se.Body
		var env marketplaceEnvelope[T]
		if json.Unmarshal(body, &env) != nil || len(env.Errors) == 0 {
			return zero, nil, err
		}
		if mapped := a.mapErrors(env.Errors); mapped != nil {
			return zero, env.Errors, mapped
		}
		return zero, env.Errors, err
	}

	var env marketplaceEnvelope[T]
	if err := decode(body, &env); err != nil {
		return zero, nil, err
	}
	if len(env.Errors) > 0 {
		if mapped := a.mapErrors(env.Errors); mapped != nil {
			return zero, env.Errors, mapped
		}
		return zero, env.Errors, fmt.Errorf("%w: %s: %s", fulfillment.ErrProviderResponse, env.Errors[0].Code, env.Errors[0].Message)
	}
	return env.Payload, nil, nil
}

// mapErrors converts cross-cutting vendor codes. Operation-specific codes are
// left to the caller.
func (a *MarketplaceAdapter) mapErrors(errs []marketplaceError) error {
	for _, e := range errs {
		switch e.Code {
		case mpCodeQuotaExceeded:
			return &fulfillment.RateLimitedError{Provider: MarketplaceName, RetryAfter: defaultRetryAfter}
		case mpCodeUnauthorized, mpCodeInvalidToken:
			return fmt.Errorf("%w: %s", fulfillment.ErrProviderAuth, e.Message)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

// GetInventory fetches fulfillment-center summaries for the given listings,
// following nextToken until the result set is exhausted.
func (a *MarketplaceAdapter) GetInventory(ctx context.Context, creds fulfillment.Credentials, refs []fulfillment.ProductRef) ([]fulfillment.InventoryItem, error) {
	header, err := a.authHeader(creds)
	if err != nil {
		return nil, err
	}

	skus := uniqueSKUs(refs)
	items := make([]fulfillment.InventoryItem, 0, len(refs))
	for start := 0; start < len(skus); start += a.api.config.PageSize {
		end := min(start+a.api.config.PageSize, len(skus))
		next := ""
		for page := 0; ; page++ {
			if page >= maxSummaryPages {
				return nil, fmt.Errorf("%w: inventory pagination did not terminate", fulfillment.ErrProviderResponse)
			}
			payload, _, err := call[marketplaceSummariesPayload](ctx, a, request{
				Method:  http.MethodPost,
				Path:    "/fba/inventory/summaries",
				Body:    marketplaceSummariesRequest{SellerSkus: skus[start:end], NextToken: next},
				Header:  header,
				Sandbox: creds.Sandbox,
			})
			if err != nil {
				return nil, err
			}
			for _, s := range payload.InventorySummaries {
				items = append(items, fulfillment.InventoryItem{
					SKU:               s.SellerSku,
					Quantity:          s.TotalQuantity,
					AvailableQuantity: s.FulfillableQuantity,
					ProviderRef:       s.FnSku,
					WarehouseRef:      s.FulfillmentCenterID,
				})
			}
			if payload.NextToken == "" {
				break
			}
			next = payload.NextToken
		}
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Transfers
// ---------------------------------------------------------------------------

// TransferStock asks the marketplace to move units between fulfillment centers
func (a *MarketplaceAdapter) TransferStock(ctx context.Context, creds fulfillment.Credentials, req fulfillment.TransferRequest) (*fulfillment.TransferResult, error) {
	header, err := a.authHeader(creds)
	if err != nil {
		return nil, err
	}

	payload, vendorErrs, err := call[marketplaceTransferPayload](ctx, a, request{
		Method: http.MethodPost,
		Path:   "/fba/inbound/transfers",
		Body: marketplaceTransferRequest{
			SourceFulfillmentCenterID:      req.SourceRef,
			DestinationFulfillmentCenterID: req.TargetRef,
			SellerSku:                      req.SKU,
			Quantity:                       req.Quantity,
			ClientReference:                req.IdempotencyKey,
		},
		Header:  header,
		Sandbox: creds.Sandbox,
	})
	if err != nil {
		if errors.Is(err, fulfillment.ErrProviderResponse) && len(vendorErrs) > 0 {
			return nil, transferErrorFromVendor(vendorErrs[0])
		}
		return nil, err
	}
	if payload.TransferID == "" {
		return nil, fmt.Errorf("%w: transfer accepted without id", fulfillment.ErrProviderResponse)
	}
	return &fulfillment.TransferResult{ProviderTransactionID: payload.TransferID}, nil
}

func transferErrorFromVendor(e marketplaceError) error {
	reason := fulfillment.TransferReasonUnknown
	switch e.Code {
	case mpCodeInsufficientInventory:
		reason = fulfillment.TransferReasonInsufficientStock
	case mpCodeInvalidRoute:
		reason = fulfillment.TransferReasonUnsupportedRoute
	}
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	return &fulfillment.TransferError{Provider: MarketplaceName, Reason: reason, Message: msg}
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// CreateFulfillmentOrder submits an outbound fulfillment order
func (a *MarketplaceAdapter) CreateFulfillmentOrder(ctx context.Context, creds fulfillment.Credentials, req fulfillment.FulfillmentOrderRequest) (*fulfillment.FulfillmentOrderResult, error) {
	header, err := a.authHeader(creds)
	if err != nil {
		return nil, err
	}

	speed := req.ShippingSpeed
	if speed == "" {
		speed = "Standard"
	}
	items := make([]marketplaceOrderItem, 0, len(req.Lines))
	for _, l := range req.Lines {
		items = append(items, marketplaceOrderItem{SellerSku: l.SKU, Quantity: l.Quantity})
	}
	payload, _, err := call[marketplaceOrderPayload](ctx, a, request{
		Method: http.MethodPost,
		Path:   "/fba/outbound/orders",
		Body: marketplaceOrderRequest{
			SellerFulfillmentOrderID: req.OrderID,
			ShippingSpeedCategory:    speed,
			DestinationAddress: marketplaceAddress{
				Name:          req.ShipTo.Name,
				AddressLine1:  req.ShipTo.Line1,
				AddressLine2:  req.ShipTo.Line2,
				City:          req.ShipTo.City,
				StateOrRegion: req.ShipTo.Region,
				PostalCode:    req.ShipTo.PostalCode,
				CountryCode:   req.ShipTo.Country,
				Phone:         req.ShipTo.Phone,
			},
			Items: items,
		},
		Header:  header,
		Sandbox: creds.Sandbox,
	})
	if err != nil {
		return nil, err
	}
	orderID := payload.FulfillmentOrderID
	if orderID == "" {
		orderID = req.OrderID
	}
	return &fulfillment.FulfillmentOrderResult{ProviderOrderID: orderID, Status: payload.Status}, nil
}

// ---------------------------------------------------------------------------
// OAuth
// ---------------------------------------------------------------------------

// AuthorizationURL returns the marketplace consent screen URL
func (a *MarketplaceAdapter) AuthorizationURL(state string, sandbox bool, redirectURL string) (string, error) {
	params := url.Values{
		"application_id": {a.api.config.ClientID},
		"redirect_uri":   {redirectURL},
		"state":          {state},
	}
	if len(a.api.config.Scopes) > 0 {
		params.Set("scope", strings.Join(a.api.config.Scopes, " "))
	}
	if sandbox {
		params.Set("version", "beta")
	}
	return a.api.authorizationURL("/apps/authorize/consent", params, sandbox)
}

// ExchangeCode trades an authorization code for tokens
func (a *MarketplaceAdapter) ExchangeCode(ctx context.Context, code string, sandbox bool, redirectURL string) (*fulfillment.TokenSet, error) {
	return a.api.exchangeCode(ctx, "/auth/o2/token", code, sandbox, redirectURL)
}

// ---------------------------------------------------------------------------
// Webhooks
// ---------------------------------------------------------------------------

// HandleWebhook parses a verified marketplace notification
func (a *MarketplaceAdapter) HandleWebhook(raw []byte) (*fulfillment.NormalizedEvent, error) {
	var n marketplaceNotification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrMalformedPayload, err)
	}
	if n.NotificationType == "" || n.NotificationID == "" || len(n.Payload) == 0 {
		return nil, fmt.Errorf("%w: notificationType, notificationId and payload are required", fulfillment.ErrMalformedPayload)
	}

	var p marketplaceNotificationPayload
	if err := json.Unmarshal(n.Payload, &p); err != nil {
		return nil, fmt.Errorf("%w: payload must be an object", fulfillment.ErrMalformedPayload)
	}
	sellerID, err := uuid.Parse(p.SellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: payload.sellerId is not a seller id", fulfillment.ErrMalformedPayload)
	}
	data := map[string]any{}
	if err := json.Unmarshal(n.Payload, &data); err != nil {
		return nil, fmt.Errorf("%w: payload must be an object", fulfillment.ErrMalformedPayload)
	}

	eventType, ok := marketplaceEventTypes[n.NotificationType]
	if !ok {
		eventType = "marketplace." + strings.ToLower(n.NotificationType)
	}
	event := &fulfillment.NormalizedEvent{
		EventType:  eventType,
		ExternalID: n.NotificationID,
		SellerID:   sellerID,
		OrderID:    p.OrderID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	if n.EventTime != "" {
		if t, err := time.Parse(time.RFC3339, n.EventTime); err == nil {
			event.OccurredAt = t.UTC()
		}
	}
	return event, nil
}

// Ensure MarketplaceAdapter implements the provider interfaces
var (
	_ fulfillment.ProviderClient = (*MarketplaceAdapter)(nil)
	_ fulfillment.OrderFulfiller = (*MarketplaceAdapter)(nil)
	_ fulfillment.OAuthProvider  = (*MarketplaceAdapter)(nil)
)
