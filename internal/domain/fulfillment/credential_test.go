package fulfillment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderCredential_Lifecycle(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)

	c, err := NewProviderCredential(uuid.New(), "shiphub", false, ConnectionTypeOAuth, []byte("cipher"), &exp, now)
	require.NoError(t, err)
	assert.True(t, c.IsUsable(now))
	assert.Equal(t, CredentialStatusExpired, c.EffectiveStatus(exp))

	c.Disconnect(now.Add(time.Minute))
	assert.Equal(t, CredentialStatusDisconnected, c.Status)
	assert.Nil(t, c.EncryptedPayload)
	assert.False(t, c.IsUsable(now))

	c.Reconnect(ConnectionTypeAPIKey, []byte("cipher2"), nil, now.Add(2*time.Minute))
	assert.True(t, c.IsUsable(now.Add(48*time.Hour)))
	assert.Nil(t, c.DisconnectedAt)
}

func TestNewProviderCredential_Validation(t *testing.T) {
	seller := uuid.New()
	now := time.Now()

	tests := []struct {
		name     string
		seller   uuid.UUID
		provider ProviderName
		conn     ConnectionType
		payload  []byte
	}{
		{"nil seller", uuid.Nil, "shiphub", ConnectionTypeManual, []byte("x")},
		{"bad provider", seller, "NOPE!", ConnectionTypeManual, []byte("x")},
		{"bad connection type", seller, "shiphub", "carrier-pigeon", []byte("x")},
		{"empty payload", seller, "shiphub", ConnectionTypeManual, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProviderCredential(tt.seller, tt.provider, false, tt.conn, tt.payload, nil, now)
			assert.Error(t, err)
		})
	}
}

func TestCredentialAssociatedData_DiffersPerKey(t *testing.T) {
	seller := uuid.New()
	a := CredentialAssociatedData(seller, "shiphub", false)
	assert.NotEqual(t, a, CredentialAssociatedData(seller, "shiphub", true))
	assert.NotEqual(t, a, CredentialAssociatedData(seller, "marketplace", false))
	assert.NotEqual(t, a, CredentialAssociatedData(uuid.New(), "shiphub", false))
}
