package provider

import "encoding/json"

// ---------------------------------------------------------------------------
// Marketplace API Types
// ---------------------------------------------------------------------------

// marketplaceError is one entry of the vendor error list
type marketplaceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// marketplaceEnvelope wraps every marketplace response
type marketplaceEnvelope[T any] struct {
	Payload T                  `json:"payload"`
	Errors  []marketplaceError `json:"errors,omitempty"`
}

// Vendor error codes with a dedicated mapping
const (
	mpCodeQuotaExceeded         = "QuotaExceeded"
	mpCodeUnauthorized          = "Unauthorized"
	mpCodeInvalidToken          = "InvalidAccessToken"
	mpCodeInsufficientInventory = "InsufficientInventory"
	mpCodeInvalidRoute          = "InvalidDestination"
)

// marketplaceSummariesRequest is the body of POST /fba/inventory/summaries
type marketplaceSummariesRequest struct {
	SellerSkus []string `json:"sellerSkus"`
	NextToken  string   `json:"nextToken,omitempty"`
}

type marketplaceSummariesPayload struct {
	InventorySummaries []marketplaceInventorySummary `json:"inventorySummaries"`
	NextToken          string                        `json:"nextToken,omitempty"`
}

type marketplaceInventorySummary struct {
	SellerSku           string `json:"sellerSku"`
	FnSku               string `json:"fnSku"`
	FulfillmentCenterID string `json:"fulfillmentCenterId"`
	TotalQuantity       int64  `json:"totalQuantity"`
	FulfillableQuantity int64  `json:"fulfillableQuantity"`
}

// marketplaceTransferRequest is the body of POST /fba/inbound/transfers
type marketplaceTransferRequest struct {
	SourceFulfillmentCenterID      string `json:"sourceFulfillmentCenterId"`
	DestinationFulfillmentCenterID string `json:"destinationFulfillmentCenterId"`
	SellerSku                      string `json:"sellerSku"`
	Quantity                       int64  `json:"quantity"`
	ClientReference                string `json:"clientReference,omitempty"`
}

type marketplaceTransferPayload struct {
	TransferID string `json:"transferId"`
}

// marketplaceOrderRequest is the body of POST /fba/outbound/orders
type marketplaceOrderRequest struct {
	SellerFulfillmentOrderID string                 `json:"sellerFulfillmentOrderId"`
	ShippingSpeedCategory    string                 `json:"shippingSpeedCategory"`
	DestinationAddress       marketplaceAddress     `json:"destinationAddress"`
	Items                    []marketplaceOrderItem `json:"items"`
}

type marketplaceAddress struct {
	Name          string `json:"name"`
	AddressLine1  string `json:"addressLine1"`
	AddressLine2  string `json:"addressLine2,omitempty"`
	City          string `json:"city"`
	StateOrRegion string `json:"stateOrRegion"`
	PostalCode    string `json:"postalCode"`
	CountryCode   string `json:"countryCode"`
	Phone         string `json:"phone,omitempty"`
}

type marketplaceOrderItem struct {
	SellerSku string `json:"sellerSku"`
	Quantity  int64  `json:"quantity"`
}

type marketplaceOrderPayload struct {
	FulfillmentOrderID string `json:"fulfillmentOrderId"`
	Status             string `json:"status"`
}

// marketplaceNotification is the inbound webhook body
type marketplaceNotification struct {
	NotificationType string          `json:"notificationType"`
	NotificationID   string          `json:"notificationId"`
	EventTime        string          `json:"eventTime"`
	Payload          json.RawMessage `json:"payload"`
}

type marketplaceNotificationPayload struct {
	OrderID  string `json:"orderId"`
	SellerID string `json:"sellerId"`
}
