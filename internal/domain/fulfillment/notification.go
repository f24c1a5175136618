package fulfillment

import (
	"context"

	"github.com/google/uuid"
)

// Notification types requested by this service
const (
	NotificationSyncCompleted     = "inventory_sync_completed"
	NotificationSyncFailed        = "inventory_sync_failed"
	NotificationTransferCompleted = "warehouse_transfer_completed"
	NotificationTransferFailed    = "warehouse_transfer_failed"
	NotificationFulfillmentFailed = "fulfillment_failed"
	NotificationReconnectRequired = "provider_reconnect_required"
)

// Notification channels
const (
	ChannelEmail = "email"
	ChannelInApp = "in_app"
	ChannelSMS   = "sms"
)

// Notification is a request for the external notification service
type Notification struct {
	UserID   uuid.UUID      `json:"userId"`
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Channels []string       `json:"channels"`
	Data     map[string]any `json:"data,omitempty"`
}

// NotificationSender hands notification requests to the delivery service.
// Transport (email, SMS) is not this service's concern.
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}
