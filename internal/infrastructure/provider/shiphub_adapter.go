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

// ShipHubName is the registry key of the ShipHub adapter
const ShipHubName fulfillment.ProviderName = "shiphub"

// ShipHubAdapter talks to a ship-from-warehouse provider. Sellers connect
// either through OAuth (bearer token) or with an API key pair.
type ShipHubAdapter struct {
	api *apiClient
}

// NewShipHubAdapter creates a ShipHub adapter with the given configuration
func NewShipHubAdapter(config *Config) (*ShipHubAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ShipHubAdapter{api: newAPIClient(ShipHubName, config)}, nil
}

// Name returns the registry key
func (a *ShipHubAdapter) Name() fulfillment.ProviderName {
	return ShipHubName
}

// Kind returns how the provider holds stock
func (a *ShipHubAdapter) Kind() fulfillment.ProviderKind {
	return fulfillment.ProviderKindWarehouse
}

func (a *ShipHubAdapter) authHeader(creds fulfillment.Credentials) (http.Header, error) {
	if err := requireUsable(ShipHubName, creds); err != nil {
		return nil, err
	}
	h := http.Header{}
	if creds.AccessToken != "" {
		h.Set("Authorization", "Bearer "+creds.AccessToken)
		return h, nil
	}
	h.Set("X-Api-Key", creds.APIKey)
	if creds.APISecret != "" {
		h.Set("X-Api-Secret", creds.APISecret)
	}
	return h, nil
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

// GetInventory fetches stock for the given listings, PageSize SKUs per request
func (a *ShipHubAdapter) GetInventory(ctx context.Context, creds fulfillment.Credentials, refs []fulfillment.ProductRef) ([]fulfillment.InventoryItem, error) {
	header, err := a.authHeader(creds)
	if err != nil {
		return nil, err
	}

	skus := uniqueSKUs(refs)
	items := make([]fulfillment.InventoryItem, 0, len(refs))
	for start := 0; start < len(skus); start += a.api.config.PageSize {
		end := min(start+a.api.config.PageSize, len(skus))
		body, err := a.api.do(ctx, request{
			Method:  http.MethodGet,
			Path:    "/inventory",
			Query:   url.Values{"skus": {strings.Join(skus[start:end], ",")}},
			Header:  header,
			Sandbox: creds.Sandbox,
		})
		if err != nil {
			return nil, err
		}
		var resp shipHubInventoryResponse
		if err := decode(body, &resp); err != nil {
			return nil, err
		}
		for _, it := range resp.Items {
			items = append(items, fulfillment.InventoryItem{
				SKU:               it.SKU,
				Quantity:          it.OnHand,
				AvailableQuantity: it.Available,
				ProviderRef:       it.ItemID,
				WarehouseRef:      it.LocationID,
			})
		}
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Transfers
// ---------------------------------------------------------------------------

// TransferStock asks ShipHub to move stock between two of its locations
func (a *ShipHubAdapter) TransferStock(ctx context.Context, creds fulfillment.Credentials, req fulfillment.TransferRequest) (*fulfillment.TransferResult, error) {
	header, err := a.authHeader(creds)
	if err != nil {
		return nil, err
	}
	if req.IdempotencyKey != "" {
		header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	body, err := a.api.do(ctx, request{
		Method: http.MethodPost,
		Path:   "/transfers",
		Body: shipHubTransferRequest{
			FromLocation: req.SourceRef,
			ToLocation:   req.TargetRef,
			SKU:          req.SKU,
			Quantity:     req.Quantity,
			Reference:    req.IdempotencyKey,
		},
		Header:  header,
		Sandbox: creds.Sandbox,
	})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, a.transferError(se)
		}
		return nil, err
	}

	var resp shipHubTransferResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	if resp.TransferID == "" {
		return nil, fmt.Errorf("%w: transfer accepted without id", fulfillment.ErrProviderResponse)
	}
	return &fulfillment.TransferResult{ProviderTransactionID: resp.TransferID}, nil
}

func (a *ShipHubAdapter) transferError(se *statusError) error {
	var env shipHubError
	_ = json.Unmarshal(se.Body, &env)
	reason := fulfillment.TransferReasonUnknown
	switch env.Error.Code {
	case "insufficient_stock", "insufficient_inventory":
		reason = fulfillment.TransferReasonInsufficientStock
	case "unsupported_route", "location_not_eligible":
		reason = fulfillment.TransferReasonUnsupportedRoute
	}
	msg := env.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", se.StatusCode)
	}
	return &fulfillment.TransferError{Provider: ShipHubName, Reason: reason, Message: msg}
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// CreateFulfillmentOrder asks ShipHub to ship an order
func (a *ShipHubAdapter) CreateFulfillmentOrder(ctx context.Context, creds fulfillment.Credentials, req fulfillment.FulfillmentOrderRequest) (*fulfillment.FulfillmentOrderResult, error) {
	header, err := a.authHeader(creds)
	if err != nil {
		return nil, err
	}
	if req.IdempotencyKey != "" {
		header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	lines := make([]shipHubLineItem, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, shipHubLineItem{SKU: l.SKU, Quantity: l.Quantity})
	}
	body, err := a.api.do(ctx, request{
		Method: http.MethodPost,
		Path:   "/orders",
		Body: shipHubOrderRequest{
			Reference:     req.OrderID,
			ShippingSpeed: req.ShippingSpeed,
			ShipTo: shipHubAddress{
				Name:       req.ShipTo.Name,
				Street1:    req.ShipTo.Line1,
				Street2:    req.ShipTo.Line2,
				City:       req.ShipTo.City,
				State:      req.ShipTo.Region,
				PostalCode: req.ShipTo.PostalCode,
				Country:    req.ShipTo.Country,
				Phone:      req.ShipTo.Phone,
			},
			Lines: lines,
		},
		Header:  header,
		Sandbox: creds.Sandbox,
	})
	if err != nil {
		return nil, err
	}

	var resp shipHubOrderResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	if resp.OrderID == "" {
		return nil, fmt.Errorf("%w: order accepted without id", fulfillment.ErrProviderResponse)
	}
	return &fulfillment.FulfillmentOrderResult{ProviderOrderID: resp.OrderID, Status: resp.Status}, nil
}

// ---------------------------------------------------------------------------
// OAuth
// ---------------------------------------------------------------------------

// AuthorizationURL returns the ShipHub consent screen URL
func (a *ShipHubAdapter) AuthorizationURL(state string, sandbox bool, redirectURL string) (string, error) {
	return a.api.authorizationURL("/oauth/authorize", url.Values{
		"client_id":     {a.api.config.ClientID},
		"redirect_uri":  {redirectURL},
		"response_type": {"code"},
		"scope":         {strings.Join(a.api.config.Scopes, " ")},
		"state":         {state},
	}, sandbox)
}

// ExchangeCode trades an authorization code for tokens
func (a *ShipHubAdapter) ExchangeCode(ctx context.Context, code string, sandbox bool, redirectURL string) (*fulfillment.TokenSet, error) {
	return a.api.exchangeCode(ctx, "/oauth/token", code, sandbox, redirectURL)
}

// ---------------------------------------------------------------------------
// Webhooks
// ---------------------------------------------------------------------------

// HandleWebhook parses a verified ShipHub webhook body
func (a *ShipHubAdapter) HandleWebhook(raw []byte) (*fulfillment.NormalizedEvent, error) {
	var w shipHubWebhook
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrMalformedPayload, err)
	}
	if w.EventType == "" || w.ID == "" {
		return nil, fmt.Errorf("%w: event_type and id are required", fulfillment.ErrMalformedPayload)
	}
	sellerID, err := uuid.Parse(w.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: user_id is not a seller id", fulfillment.ErrMalformedPayload)
	}

	event := &fulfillment.NormalizedEvent{
		EventType:  w.EventType,
		ExternalID: w.ID,
		SellerID:   sellerID,
		OrderID:    w.OrderID,
		OccurredAt: time.Now().UTC(),
		Data:       map[string]any{},
	}
	if w.OccurredAt != "" {
		if t, err := time.Parse(time.RFC3339, w.OccurredAt); err == nil {
			event.OccurredAt = t.UTC()
		}
	}
	if len(w.Data) > 0 && string(w.Data) != "null" {
		if err := json.Unmarshal(w.Data, &event.Data); err != nil {
			return nil, fmt.Errorf("%w: data must be an object", fulfillment.ErrMalformedPayload)
		}
	}
	return event, nil
}

// uniqueSKUs returns the distinct SKUs of refs in first-seen order
func uniqueSKUs(refs []fulfillment.ProductRef) []string {
	seen := make(map[string]struct{}, len(refs))
	skus := make([]string, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r.SKU]; ok {
			continue
		}
		seen[r.SKU] = struct{}{}
		skus = append(skus, r.SKU)
	}
	return skus
}

// Ensure ShipHubAdapter implements the provider interfaces
var (
	_ fulfillment.ProviderClient = (*ShipHubAdapter)(nil)
	_ fulfillment.OrderFulfiller = (*ShipHubAdapter)(nil)
	_ fulfillment.OAuthProvider  = (*ShipHubAdapter)(nil)
)
