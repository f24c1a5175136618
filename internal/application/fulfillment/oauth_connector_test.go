package fulfillment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/cache"
	"github.com/fulfillsync/backend/internal/infrastructure/provider"
)

const testRedirectURL = "https://app.example.com/oauth/callback"

type connectorFixture struct {
	connector *OAuthConnector
	client    *MockProviderClient
	repo      *MockCredentialRepository
}

func newConnectorFixture(t *testing.T) *connectorFixture {
	t.Helper()
	client := newMockProvider("shiphub")
	registry, err := provider.NewRegistry(client)
	require.NoError(t, err)

	states := cache.NewInMemoryStateStore()
	t.Cleanup(func() { _ = states.Close() })

	repo := new(MockCredentialRepository)
	vault := NewCredentialVault(repo, newTestCipher(t), zap.NewNop())
	connector := NewOAuthConnector(registry, states, vault, OAuthConnectorConfig{
		StateTTL:    10 * time.Minute,
		RedirectURL: testRedirectURL,
	}, zap.NewNop())
	return &connectorFixture{connector: connector, client: client, repo: repo}
}

// begin runs BeginConnect and returns the state token handed to the provider
func (f *connectorFixture) begin(t *testing.T, seller uuid.UUID, sandbox bool) string {
	t.Helper()
	var state string
	f.client.On("AuthorizationURL", mock.AnythingOfType("string"), sandbox, testRedirectURL).
		Run(func(args mock.Arguments) { state = args.String(0) }).
		Return("https://auth.shiphub.test/authorize", nil).Once()

	url, err := f.connector.BeginConnect(context.Background(), seller, "shiphub", sandbox)
	require.NoError(t, err)
	assert.Equal(t, "https://auth.shiphub.test/authorize", url)
	require.NotEmpty(t, state)
	return state
}

func TestOAuthConnector_ConnectFlow(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	f := newConnectorFixture(t)
	state := f.begin(t, seller, true)

	f.client.On("ExchangeCode", mock.Anything, "auth-code", true, testRedirectURL).
		Return(&fulfillment.TokenSet{AccessToken: "at", RefreshToken: "rt", ExpiresIn: time.Hour}, nil).Once()
	f.repo.On("FindBySellerAndProvider", mock.Anything, seller, fulfillment.ProviderName("shiphub"), true).
		Return(nil, shared.ErrNotFound).Once()
	f.repo.On("Save", mock.Anything, mock.MatchedBy(func(c *fulfillment.ProviderCredential) bool {
		return c.SellerID == seller && c.Sandbox && c.ExpiresAt != nil
	})).Return(nil).Once()

	result, err := f.connector.CompleteConnect(ctx, "auth-code", state, true)
	require.NoError(t, err)
	assert.Equal(t, seller, result.SellerID)
	assert.Equal(t, fulfillment.ProviderName("shiphub"), result.Provider)
	assert.True(t, result.Sandbox)
	assert.Equal(t, fulfillment.CredentialStatusConnected, result.Status)

	t.Run("state is single use", func(t *testing.T) {
		_, err := f.connector.CompleteConnect(ctx, "auth-code", state, true)
		assert.ErrorIs(t, err, fulfillment.ErrInvalidOrExpiredState)
	})

	f.client.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestOAuthConnector_CompleteConnectRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("empty state", func(t *testing.T) {
		f := newConnectorFixture(t)
		_, err := f.connector.CompleteConnect(ctx, "code", "", false)
		assert.ErrorIs(t, err, fulfillment.ErrInvalidOrExpiredState)
	})

	t.Run("unknown state", func(t *testing.T) {
		f := newConnectorFixture(t)
		_, err := f.connector.CompleteConnect(ctx, "code", "forged", false)
		assert.ErrorIs(t, err, fulfillment.ErrInvalidOrExpiredState)
	})

	t.Run("expired state", func(t *testing.T) {
		f := newConnectorFixture(t)
		state := f.begin(t, uuid.New(), false)
		f.connector.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err := f.connector.CompleteConnect(ctx, "code", state, false)
		assert.ErrorIs(t, err, fulfillment.ErrInvalidOrExpiredState)
		f.client.AssertNotCalled(t, "ExchangeCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sandbox mismatch", func(t *testing.T) {
		f := newConnectorFixture(t)
		state := f.begin(t, uuid.New(), true)
		_, err := f.connector.CompleteConnect(ctx, "code", state, false)
		assert.ErrorIs(t, err, fulfillment.ErrInvalidOrExpiredState)
	})

	t.Run("missing code", func(t *testing.T) {
		f := newConnectorFixture(t)
		state := f.begin(t, uuid.New(), false)
		_, err := f.connector.CompleteConnect(ctx, "", state, false)
		assert.ErrorIs(t, err, fulfillment.ErrMalformedPayload)
	})

	t.Run("exchange failure writes nothing", func(t *testing.T) {
		f := newConnectorFixture(t)
		state := f.begin(t, uuid.New(), false)
		f.client.On("ExchangeCode", mock.Anything, "code", false, testRedirectURL).
			Return(nil, fulfillment.ErrProviderAuth).Once()

		_, err := f.connector.CompleteConnect(ctx, "code", state, false)
		assert.ErrorIs(t, err, fulfillment.ErrProviderAuth)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

		_, err = f.connector.CompleteConnect(ctx, "code", state, false)
		assert.ErrorIs(t, err, fulfillment.ErrInvalidOrExpiredState)
	})
}

func TestOAuthConnector_BeginConnectUnknownProvider(t *testing.T) {
	f := newConnectorFixture(t)
	_, err := f.connector.BeginConnect(context.Background(), uuid.New(), "nowhere", false)
	assert.True(t, errors.Is(err, fulfillment.ErrUnknownProvider))
}

func TestOAuthConnector_ConnectManual(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	f := newConnectorFixture(t)

	f.repo.On("FindBySellerAndProvider", ctx, seller, fulfillment.ProviderName("shiphub"), false).
		Return(nil, shared.ErrNotFound).Once()
	f.repo.On("Save", ctx, mock.MatchedBy(func(c *fulfillment.ProviderCredential) bool {
		return c.ConnectionType == fulfillment.ConnectionTypeAPIKey
	})).Return(nil).Once()

	result, err := f.connector.ConnectManual(ctx, seller, "shiphub", false, "key", "secret")
	require.NoError(t, err)
	assert.Equal(t, fulfillment.CredentialStatusConnected, result.Status)

	_, err = f.connector.ConnectManual(ctx, seller, "nowhere", false, "key", "secret")
	assert.ErrorIs(t, err, fulfillment.ErrUnknownProvider)
	f.repo.AssertExpectations(t)
}
