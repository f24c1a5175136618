package fulfillment

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/vault"
)

func newTestCipher(t *testing.T) *vault.AESGCMCipher {
	t.Helper()
	c, err := vault.NewAESGCMCipher(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)
	return c
}

func newTestVault(t *testing.T, repo *MockCredentialRepository, now time.Time) *CredentialVault {
	t.Helper()
	v := NewCredentialVault(repo, newTestCipher(t), zap.NewNop())
	v.now = func() time.Time { return now }
	return v
}

func TestCredentialVault_PutAndResolve(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seller := uuid.New()
	repo := new(MockCredentialRepository)
	v := newTestVault(t, repo, now)

	var saved *fulfillment.ProviderCredential
	repo.On("FindBySellerAndProvider", ctx, seller, fulfillment.ProviderName("acme"), false).
		Return(nil, shared.ErrNotFound).Once()
	repo.On("Save", ctx, mock.AnythingOfType("*fulfillment.ProviderCredential")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*fulfillment.ProviderCredential) }).
		Return(nil).Once()

	cred, err := v.Put(ctx, seller, "acme", false, fulfillment.ConnectionTypeOAuth, Secret{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
	})
	require.NoError(t, err)
	assert.Equal(t, fulfillment.CredentialStatusConnected, cred.Status)
	require.NotNil(t, saved)
	assert.NotContains(t, string(saved.EncryptedPayload), "at-1")

	repo.On("FindBySellerAndProvider", ctx, seller, fulfillment.ProviderName("acme"), false).Return(saved, nil)
	creds, err := v.Resolve(ctx, seller, "acme", false)
	require.NoError(t, err)
	assert.Equal(t, "at-1", creds.AccessToken)
	assert.Equal(t, "rt-1", creds.RefreshToken)
	assert.False(t, creds.Sandbox)
	repo.AssertExpectations(t)
}

func TestCredentialVault_PutRejectsEmptySecret(t *testing.T) {
	v := newTestVault(t, new(MockCredentialRepository), time.Now())
	_, err := v.Put(context.Background(), uuid.New(), "acme", false, fulfillment.ConnectionTypeAPIKey, Secret{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCredentialVault_PutReconnectsExistingRow(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	seller := uuid.New()
	existing, err := fulfillment.NewProviderCredential(seller, "acme", true, fulfillment.ConnectionTypeOAuth, []byte("old"), nil, now.Add(-time.Hour))
	require.NoError(t, err)
	existing.Disconnect(now.Add(-time.Minute))

	repo := new(MockCredentialRepository)
	repo.On("FindBySellerAndProvider", ctx, seller, fulfillment.ProviderName("acme"), true).Return(existing, nil)
	repo.On("Save", ctx, existing).Return(nil)

	v := newTestVault(t, repo, now)
	cred, err := v.Put(ctx, seller, "acme", true, fulfillment.ConnectionTypeAPIKey, Secret{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, cred.ID)
	assert.Equal(t, fulfillment.CredentialStatusConnected, cred.Status)
	assert.Equal(t, fulfillment.ConnectionTypeAPIKey, cred.ConnectionType)
}

func TestCredentialVault_Resolve(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	seller := uuid.New()
	cipher := newTestCipher(t)

	sealed := func(t *testing.T, sandbox bool) []byte {
		ct, err := cipher.Encrypt([]byte(`{"api_key":"k"}`), fulfillment.CredentialAssociatedData(seller, "acme", sandbox))
		require.NoError(t, err)
		return ct
	}

	tests := []struct {
		name    string
		setup   func(t *testing.T) (*fulfillment.ProviderCredential, error)
		wantErr error
	}{
		{
			name:    "missing",
			setup:   func(*testing.T) (*fulfillment.ProviderCredential, error) { return nil, shared.ErrNotFound },
			wantErr: fulfillment.ErrCredentialNotFound,
		},
		{
			name: "disconnected",
			setup: func(t *testing.T) (*fulfillment.ProviderCredential, error) {
				c, err := fulfillment.NewProviderCredential(seller, "acme", false, fulfillment.ConnectionTypeAPIKey, sealed(t, false), nil, now)
				require.NoError(t, err)
				c.Disconnect(now)
				return c, nil
			},
			wantErr: fulfillment.ErrCredentialNotFound,
		},
		{
			name: "expired",
			setup: func(t *testing.T) (*fulfillment.ProviderCredential, error) {
				past := now.Add(-time.Minute)
				c, err := fulfillment.NewProviderCredential(seller, "acme", false, fulfillment.ConnectionTypeOAuth, sealed(t, false), &past, now.Add(-time.Hour))
				require.NoError(t, err)
				return c, nil
			},
			wantErr: fulfillment.ErrProviderAuth,
		},
		{
			name: "sealed for another key",
			setup: func(t *testing.T) (*fulfillment.ProviderCredential, error) {
				c, err := fulfillment.NewProviderCredential(seller, "acme", false, fulfillment.ConnectionTypeAPIKey, sealed(t, true), nil, now)
				require.NoError(t, err)
				return c, nil
			},
			wantErr: fulfillment.ErrProviderAuth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCredentialRepository)
			cred, findErr := tt.setup(t)
			repo.On("FindBySellerAndProvider", ctx, seller, fulfillment.ProviderName("acme"), false).Return(cred, findErr)
			v := NewCredentialVault(repo, cipher, zap.NewNop())
			v.now = func() time.Time { return now }

			_, err := v.Resolve(ctx, seller, "acme", false)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCredentialVault_DisconnectAndConnections(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	seller := uuid.New()
	cred, err := fulfillment.NewProviderCredential(seller, "acme", false, fulfillment.ConnectionTypeAPIKey, []byte("sealed"), nil, now)
	require.NoError(t, err)

	repo := new(MockCredentialRepository)
	repo.On("FindBySellerAndProvider", ctx, seller, fulfillment.ProviderName("acme"), false).Return(cred, nil)
	repo.On("Save", ctx, cred).Return(nil)
	repo.On("FindBySeller", ctx, seller).Return([]fulfillment.ProviderCredential{*cred}, nil)

	v := newTestVault(t, repo, now)
	require.NoError(t, v.Disconnect(ctx, seller, "acme", false))
	assert.Empty(t, cred.EncryptedPayload)

	ok, err := v.IsConnected(ctx, seller, "acme", false)
	require.NoError(t, err)
	assert.False(t, ok)

	conns, err := v.Connections(ctx, seller)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, fulfillment.CredentialStatusDisconnected, conns[0].Status)
	assert.Equal(t, fulfillment.ProviderName("acme"), conns[0].Provider)
}
