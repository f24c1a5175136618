package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/shared"
)

// ConnectionType describes how a seller linked a provider account
type ConnectionType string

const (
	ConnectionTypeOAuth  ConnectionType = "oauth"
	ConnectionTypeAPIKey ConnectionType = "apiKey"
	ConnectionTypeManual ConnectionType = "manual"
)

// IsValid returns true if the connection type is valid
func (t ConnectionType) IsValid() bool {
	switch t {
	case ConnectionTypeOAuth, ConnectionTypeAPIKey, ConnectionTypeManual:
		return true
	}
	return false
}

// CredentialStatus is the connection state of a ProviderCredential
type CredentialStatus string

const (
	CredentialStatusConnected    CredentialStatus = "connected"
	CredentialStatusDisconnected CredentialStatus = "disconnected"
	CredentialStatusExpired      CredentialStatus = "expired"
)

// ProviderCredential is a seller's encrypted link to one provider account.
// It is unique per (seller, provider, sandbox) and is never hard-deleted.
type ProviderCredential struct {
	shared.SellerEntity
	ProviderName     ProviderName
	Sandbox          bool
	EncryptedPayload []byte
	ExpiresAt        *time.Time
	ConnectionType   ConnectionType
	Status           CredentialStatus
	ConnectedAt      *time.Time
	DisconnectedAt   *time.Time
}

// NewProviderCredential creates a connected credential
func NewProviderCredential(
	sellerID uuid.UUID,
	provider ProviderName,
	sandbox bool,
	connType ConnectionType,
	encrypted []byte,
	expiresAt *time.Time,
	now time.Time,
) (*ProviderCredential, error) {
	if sellerID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("seller id is required")
	}
	if !provider.IsValid() {
		return nil, ErrUnknownProvider
	}
	if !connType.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("invalid connection type %q", connType))
	}
	if len(encrypted) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("credential payload is empty")
	}
	c := &ProviderCredential{
		SellerEntity:     shared.NewSellerEntity(sellerID, now),
		ProviderName:     provider,
		Sandbox:          sandbox,
		EncryptedPayload: encrypted,
		ExpiresAt:        expiresAt,
		ConnectionType:   connType,
		Status:           CredentialStatusConnected,
		ConnectedAt:      &now,
	}
	return c, nil
}

// Reconnect replaces the secret of an existing row with a fresh connection
func (c *ProviderCredential) Reconnect(connType ConnectionType, encrypted []byte, expiresAt *time.Time, now time.Time) {
	c.ConnectionType = connType
	c.EncryptedPayload = encrypted
	c.ExpiresAt = expiresAt
	c.Status = CredentialStatusConnected
	c.ConnectedAt = &now
	c.DisconnectedAt = nil
	c.Touch(now)
}

// Disconnect soft-deletes the credential and wipes the secret
func (c *ProviderCredential) Disconnect(now time.Time) {
	c.Status = CredentialStatusDisconnected
	c.EncryptedPayload = nil
	c.ExpiresAt = nil
	c.DisconnectedAt = &now
	c.Touch(now)
}

// EffectiveStatus folds token expiry into the stored status
func (c *ProviderCredential) EffectiveStatus(now time.Time) CredentialStatus {
	if c.Status == CredentialStatusConnected && c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return CredentialStatusExpired
	}
	return c.Status
}

// IsUsable reports whether provider calls may be made with this credential
func (c *ProviderCredential) IsUsable(now time.Time) bool {
	return c.EffectiveStatus(now) == CredentialStatusConnected
}

// AssociatedData binds a ciphertext to its owning row so a payload copied to
// another seller or provider fails to decrypt.
func (c *ProviderCredential) AssociatedData() []byte {
	return CredentialAssociatedData(c.SellerID, c.ProviderName, c.Sandbox)
}

// CredentialAssociatedData builds the AEAD associated data for a credential key
func CredentialAssociatedData(sellerID uuid.UUID, provider ProviderName, sandbox bool) []byte {
	return []byte(fmt.Sprintf("%s|%s|%t", sellerID, provider, sandbox))
}

// CredentialRepository persists ProviderCredentials
type CredentialRepository interface {
	// FindBySellerAndProvider returns shared.ErrNotFound when absent
	FindBySellerAndProvider(ctx context.Context, sellerID uuid.UUID, provider ProviderName, sandbox bool) (*ProviderCredential, error)

	// FindBySeller returns every credential row of the seller
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProviderCredential, error)

	// Save inserts or updates the row keyed by (seller, provider, sandbox) in one write
	Save(ctx context.Context, credential *ProviderCredential) error
}

// Cipher is the authenticated encryption primitive behind the credential vault
type Cipher interface {
	Encrypt(plaintext, associatedData []byte) ([]byte, error)
	Decrypt(ciphertext, associatedData []byte) ([]byte, error)
}

// CredentialResolver hands decrypted credentials to provider calls
type CredentialResolver interface {
	Resolve(ctx context.Context, sellerID uuid.UUID, provider ProviderName, sandbox bool) (Credentials, error)
}
