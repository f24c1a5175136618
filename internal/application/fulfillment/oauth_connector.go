package fulfillment

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
)

// stateTokenBytes is the entropy of an OAuth state token
const stateTokenBytes = 32

// ConnectionResult is returned by a completed connect flow
type ConnectionResult struct {
	SellerID uuid.UUID
	Provider fulfillment.ProviderName
	Sandbox  bool
	Status   fulfillment.CredentialStatus
}

// OAuthConnectorConfig holds connect-flow settings
type OAuthConnectorConfig struct {
	StateTTL    time.Duration
	RedirectURL string
}

// OAuthConnector runs the authorization-code handshake
type OAuthConnector struct {
	providers ProviderDirectory
	states    fulfillment.StateStore
	vault     *CredentialVault
	config    OAuthConnectorConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewOAuthConnector creates a connector
func NewOAuthConnector(
	providers ProviderDirectory,
	states fulfillment.StateStore,
	vault *CredentialVault,
	config OAuthConnectorConfig,
	logger *zap.Logger,
) *OAuthConnector {
	if config.StateTTL <= 0 {
		config.StateTTL = fulfillment.DefaultStateTTL
	}
	return &OAuthConnector{
		providers: providers,
		states:    states,
		vault:     vault,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// BeginConnect issues a single-use state bound to (seller, provider, sandbox)
// and returns the provider authorization URL carrying it.
func (c *OAuthConnector) BeginConnect(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) (string, error) {
	oauth, err := c.providers.OAuth(provider)
	if err != nil {
		return "", err
	}
	token, err := newStateToken()
	if err != nil {
		return "", err
	}

	now := c.now().UTC()
	state := &fulfillment.OAuthState{
		Token:     token,
		SellerID:  sellerID,
		Provider:  provider,
		Sandbox:   sandbox,
		CreatedAt: now,
		ExpiresAt: now.Add(c.config.StateTTL),
	}
	authURL, err := oauth.AuthorizationURL(token, sandbox, c.config.RedirectURL)
	if err != nil {
		return "", err
	}
	if err := c.states.Save(ctx, state); err != nil {
		return "", fmt.Errorf("oauth: save state: %w", err)
	}

	logger.WithLogger(ctx, c.logger).Info("OAuth connect started",
		zap.String("seller_id", sellerID.String()),
		zap.String("provider", provider.String()),
		zap.Bool("sandbox", sandbox),
		zap.Time("state_expires_at", state.ExpiresAt),
	)
	return authURL, nil
}

// CompleteConnect redeems state, exchanges code and stores the tokens. The
// state is consumed before the exchange so a replayed callback fails with
// ErrInvalidOrExpiredState even if the first exchange failed. Nothing is
// written unless the exchange fully succeeds.
func (c *OAuthConnector) CompleteConnect(ctx context.Context, code, stateToken string, sandbox bool) (*ConnectionResult, error) {
	log := logger.WithLogger(ctx, c.logger)
	if stateToken == "" {
		log.Security("OAuth callback without state")
		return nil, fulfillment.ErrInvalidOrExpiredState
	}

	state, err := c.states.Consume(ctx, stateToken)
	if err != nil {
		if errors.Is(err, fulfillment.ErrInvalidOrExpiredState) {
			log.Security("OAuth callback with unknown or reused state")
		}
		return nil, err
	}
	if state.IsExpired(c.now()) {
		log.Security("OAuth callback with expired state",
			zap.String("seller_id", state.SellerID.String()),
			zap.String("provider", state.Provider.String()),
		)
		return nil, fulfillment.ErrInvalidOrExpiredState
	}
	if state.Sandbox != sandbox {
		log.Security("OAuth callback sandbox flag does not match state",
			zap.String("seller_id", state.SellerID.String()),
			zap.String("provider", state.Provider.String()),
			zap.Bool("state_sandbox", state.Sandbox),
			zap.Bool("callback_sandbox", sandbox),
		)
		return nil, fulfillment.ErrInvalidOrExpiredState
	}
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code missing", fulfillment.ErrMalformedPayload)
	}

	oauth, err := c.providers.OAuth(state.Provider)
	if err != nil {
		return nil, err
	}
	tokens, err := oauth.ExchangeCode(ctx, code, state.Sandbox, c.config.RedirectURL)
	if err != nil {
		log.Error("OAuth code exchange failed",
			zap.String("seller_id", state.SellerID.String()),
			zap.String("provider", state.Provider.String()),
			zap.String("error_code", fulfillment.Classify(err)),
			zap.Error(err),
		)
		return nil, err
	}
	if tokens == nil || tokens.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response without access token", fulfillment.ErrProviderResponse)
	}

	cred, err := c.vault.Put(ctx, state.SellerID, state.Provider, state.Sandbox,
		fulfillment.ConnectionTypeOAuth, SecretFromTokens(tokens, c.now().UTC()))
	if err != nil {
		return nil, err
	}
	return &ConnectionResult{
		SellerID: state.SellerID,
		Provider: state.Provider,
		Sandbox:  state.Sandbox,
		Status:   cred.Status,
	}, nil
}

// ConnectManual stores an API key pair for providers connected without OAuth
func (c *OAuthConnector) ConnectManual(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool, apiKey, apiSecret string) (*ConnectionResult, error) {
	if _, err := c.providers.Get(provider); err != nil {
		return nil, err
	}
	cred, err := c.vault.Put(ctx, sellerID, provider, sandbox, fulfillment.ConnectionTypeAPIKey, Secret{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})
	if err != nil {
		return nil, err
	}
	return &ConnectionResult{SellerID: sellerID, Provider: provider, Sandbox: sandbox, Status: cred.Status}, nil
}

func newStateToken() (string, error) {
	b := make([]byte, stateTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("oauth: generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
