package provider

import "encoding/json"

// ---------------------------------------------------------------------------
// ShipHub API Types
// ---------------------------------------------------------------------------

// shipHubError is the error envelope returned on 4xx responses
type shipHubError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// shipHubInventoryResponse is the body of GET /inventory
type shipHubInventoryResponse struct {
	Items []shipHubInventoryItem `json:"items"`
}

type shipHubInventoryItem struct {
	ItemID     string `json:"item_id"`
	SKU        string `json:"sku"`
	LocationID string `json:"location_id"`
	OnHand     int64  `json:"on_hand"`
	Available  int64  `json:"available"`
}

// shipHubTransferRequest is the body of POST /transfers
type shipHubTransferRequest struct {
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
	SKU          string `json:"sku"`
	Quantity     int64  `json:"quantity"`
	Reference    string `json:"reference,omitempty"`
}

type shipHubTransferResponse struct {
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
}

// shipHubOrderRequest is the body of POST /orders
type shipHubOrderRequest struct {
	Reference     string            `json:"reference"`
	ShippingSpeed string            `json:"shipping_speed,omitempty"`
	ShipTo        shipHubAddress    `json:"ship_to"`
	Lines         []shipHubLineItem `json:"lines"`
}

type shipHubAddress struct {
	Name       string `json:"name"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type shipHubLineItem struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}

type shipHubOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// shipHubWebhook is the inbound webhook body
type shipHubWebhook struct {
	ID         string          `json:"id"`
	EventType  string          `json:"event_type"`
	OrderID    string          `json:"order_id"`
	UserID     string          `json:"user_id"`
	OccurredAt string          `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}
