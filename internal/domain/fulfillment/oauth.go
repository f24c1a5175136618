package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultStateTTL is how long an OAuth state token stays redeemable
const DefaultStateTTL = 24 * time.Hour

// OAuthState binds an opaque state token to the seller and provider that
// started a connect flow. It is single-use.
type OAuthState struct {
	Token     string       `json:"token"`
	SellerID  uuid.UUID    `json:"seller_id"`
	Provider  ProviderName `json:"provider"`
	Sandbox   bool         `json:"sandbox"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// IsExpired reports whether the state has outlived its TTL
func (s *OAuthState) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// StateStore persists OAuth state tokens with a TTL
type StateStore interface {
	// Save stores a new state; tokens are never overwritten
	Save(ctx context.Context, state *OAuthState) error
	// Consume atomically loads and deletes a state. A missing, already
	// consumed or expired token yields ErrInvalidOrExpiredState.
	Consume(ctx context.Context, token string) (*OAuthState, error)
}
