package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
)

// secretPayload is the plaintext sealed into ProviderCredential.EncryptedPayload
type secretPayload struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`
	APIKey       string `json:"api_key,omitempty"`
	APISecret    string `json:"api_secret,omitempty"`
}

// Secret is what a connect flow hands to the vault
type Secret struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	APIKey       string
	APISecret    string
	ExpiresAt    *time.Time
}

// SecretFromTokens converts an OAuth exchange result
func SecretFromTokens(tokens *fulfillment.TokenSet, now time.Time) Secret {
	s := Secret{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		Scope:        tokens.Scope,
	}
	if tokens.ExpiresIn > 0 {
		at := now.Add(tokens.ExpiresIn)
		s.ExpiresAt = &at
	}
	return s
}

func (s Secret) empty() bool {
	return s.AccessToken == "" && s.APIKey == ""
}

// Connection is the secret-free view of a ProviderCredential
type Connection struct {
	SellerID       uuid.UUID
	Provider       fulfillment.ProviderName
	Sandbox        bool
	ConnectionType fulfillment.ConnectionType
	Status         fulfillment.CredentialStatus
	ExpiresAt      *time.Time
	ConnectedAt    *time.Time
	DisconnectedAt *time.Time
	UpdatedAt      time.Time
}

// CredentialVault is the only writer of ProviderCredentials. Secrets are
// sealed with AEAD bound to (seller, provider, sandbox) and are decrypted
// only on the call stack of a provider call.
type CredentialVault struct {
	repo   fulfillment.CredentialRepository
	cipher fulfillment.Cipher
	logger *zap.Logger
	now    func() time.Time
}

// NewCredentialVault creates a vault
func NewCredentialVault(repo fulfillment.CredentialRepository, cipher fulfillment.Cipher, logger *zap.Logger) *CredentialVault {
	return &CredentialVault{
		repo:   repo,
		cipher: cipher,
		logger: logger,
		now:    time.Now,
	}
}

// Put seals secret and stores it as a connected credential in one write.
// An existing row for the key (including a disconnected one) is reused.
func (v *CredentialVault) Put(
	ctx context.Context,
	sellerID uuid.UUID,
	provider fulfillment.ProviderName,
	sandbox bool,
	connType fulfillment.ConnectionType,
	secret Secret,
) (*fulfillment.ProviderCredential, error) {
	if secret.empty() {
		return nil, shared.ErrInvalidInput.WithMessage("credential has neither an access token nor an api key")
	}
	plaintext, err := json.Marshal(secretPayload{
		AccessToken:  secret.AccessToken,
		RefreshToken: secret.RefreshToken,
		TokenType:    secret.TokenType,
		Scope:        secret.Scope,
		APIKey:       secret.APIKey,
		APISecret:    secret.APISecret,
	})
	if err != nil {
		return nil, fmt.Errorf("vault: encode secret: %w", err)
	}
	sealed, err := v.cipher.Encrypt(plaintext, fulfillment.CredentialAssociatedData(sellerID, provider, sandbox))
	if err != nil {
		return nil, fmt.Errorf("vault: seal secret: %w", err)
	}

	now := v.now().UTC()
	cred, err := v.repo.FindBySellerAndProvider(ctx, sellerID, provider, sandbox)
	switch {
	case err == nil:
		cred.Reconnect(connType, sealed, secret.ExpiresAt, now)
	case errors.Is(err, shared.ErrNotFound):
		cred, err = fulfillment.NewProviderCredential(sellerID, provider, sandbox, connType, sealed, secret.ExpiresAt, now)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := v.repo.Save(ctx, cred); err != nil {
		return nil, err
	}
	logger.WithLogger(ctx, v.logger).Info("Provider credential stored",
		zap.String("seller_id", sellerID.String()),
		zap.String("provider", provider.String()),
		zap.Bool("sandbox", sandbox),
		zap.String("connection_type", string(connType)),
	)
	return cred, nil
}

// Resolve decrypts the credential for a provider call. Missing or
// disconnected credentials fail with ErrCredentialNotFound, expired ones
// with ErrProviderAuth.
func (v *CredentialVault) Resolve(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) (fulfillment.Credentials, error) {
	cred, err := v.repo.FindBySellerAndProvider(ctx, sellerID, provider, sandbox)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fulfillment.Credentials{}, fmt.Errorf("%w: %s", fulfillment.ErrCredentialNotFound, provider)
		}
		return fulfillment.Credentials{}, err
	}

	switch cred.EffectiveStatus(v.now()) {
	case fulfillment.CredentialStatusDisconnected:
		return fulfillment.Credentials{}, fmt.Errorf("%w: %s", fulfillment.ErrCredentialNotFound, provider)
	case fulfillment.CredentialStatusExpired:
		return fulfillment.Credentials{}, fmt.Errorf("%w: %s credential expired, reconnect required", fulfillment.ErrProviderAuth, provider)
	}

	plaintext, err := v.cipher.Decrypt(cred.EncryptedPayload, cred.AssociatedData())
	if err != nil {
		logger.WithLogger(ctx, v.logger).Error("Failed to open provider credential",
			zap.String("seller_id", sellerID.String()),
			zap.String("provider", provider.String()),
			zap.Error(err),
		)
		return fulfillment.Credentials{}, fmt.Errorf("%w: stored credential unreadable", fulfillment.ErrProviderAuth)
	}
	var p secretPayload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return fulfillment.Credentials{}, fmt.Errorf("%w: stored credential unreadable", fulfillment.ErrProviderAuth)
	}
	return fulfillment.Credentials{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		APIKey:       p.APIKey,
		APISecret:    p.APISecret,
		ExpiresAt:    cred.ExpiresAt,
		Sandbox:      sandbox,
	}, nil
}

// IsConnected reports whether a usable credential exists for the key
func (v *CredentialVault) IsConnected(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) (bool, error) {
	cred, err := v.repo.FindBySellerAndProvider(ctx, sellerID, provider, sandbox)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return cred.IsUsable(v.now()), nil
}

// Disconnect soft-deletes the credential and wipes its secret
func (v *CredentialVault) Disconnect(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) error {
	cred, err := v.repo.FindBySellerAndProvider(ctx, sellerID, provider, sandbox)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("%w: %s", fulfillment.ErrCredentialNotFound, provider)
		}
		return err
	}
	cred.Disconnect(v.now().UTC())
	if err := v.repo.Save(ctx, cred); err != nil {
		return err
	}
	logger.WithLogger(ctx, v.logger).Info("Provider disconnected",
		zap.String("seller_id", sellerID.String()),
		zap.String("provider", provider.String()),
		zap.Bool("sandbox", sandbox),
	)
	return nil
}

// Connections lists the seller's connections without secrets
func (v *CredentialVault) Connections(ctx context.Context, sellerID uuid.UUID) ([]Connection, error) {
	creds, err := v.repo.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	now := v.now()
	out := make([]Connection, 0, len(creds))
	for i := range creds {
		c := &creds[i]
		out = append(out, Connection{
			SellerID:       c.SellerID,
			Provider:       c.ProviderName,
			Sandbox:        c.Sandbox,
			ConnectionType: c.ConnectionType,
			Status:         c.EffectiveStatus(now),
			ExpiresAt:      c.ExpiresAt,
			ConnectedAt:    c.ConnectedAt,
			DisconnectedAt: c.DisconnectedAt,
			UpdatedAt:      c.UpdatedAt,
		})
	}
	return out, nil
}

var _ fulfillment.CredentialResolver = (*CredentialVault)(nil)
