package handler

import (
	"time"

	appfulfillment "github.com/fulfillsync/backend/internal/application/fulfillment"
)

// ConnectQuery selects the provider environment
type ConnectQuery struct {
	Sandbox bool `form:"sandbox"`
}

// ConnectResponse carries the provider consent URL
type ConnectResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
}

// ManualConnectRequest stores API key credentials directly
type ManualConnectRequest struct {
	APIKey    string `json:"apiKey" binding:"required,max=512"`
	APISecret string `json:"apiSecret" binding:"omitempty,max=512"`
	Sandbox   bool   `json:"sandbox"`
}

// ConnectionResponse describes one provider connection without secrets
type ConnectionResponse struct {
	Provider       string     `json:"provider"`
	Sandbox        bool       `json:"sandbox"`
	ConnectionType string     `json:"connectionType,omitempty"`
	Status         string     `json:"status"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	ConnectedAt    *time.Time `json:"connectedAt,omitempty"`
	DisconnectedAt *time.Time `json:"disconnectedAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

func toConnectionResultResponse(r *appfulfillment.ConnectionResult) ConnectionResponse {
	return ConnectionResponse{
		Provider: string(r.Provider),
		Sandbox:  r.Sandbox,
		Status:   string(r.Status),
	}
}

func toConnectionResponses(conns []appfulfillment.Connection) []ConnectionResponse {
	out := make([]ConnectionResponse, 0, len(conns))
	for _, conn := range conns {
		updatedAt := conn.UpdatedAt
		out = append(out, ConnectionResponse{
			Provider:       string(conn.Provider),
			Sandbox:        conn.Sandbox,
			ConnectionType: string(conn.ConnectionType),
			Status:         string(conn.Status),
			ExpiresAt:      conn.ExpiresAt,
			ConnectedAt:    conn.ConnectedAt,
			DisconnectedAt: conn.DisconnectedAt,
			UpdatedAt:      &updatedAt,
		})
	}
	return out
}
