package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIKeyStore(t *testing.T) {
	seller := uuid.New()

	tests := []struct {
		name    string
		entries []string
		wantErr bool
		wantLen int
	}{
		{name: "empty", entries: nil, wantLen: 0},
		{name: "valid entries", entries: []string{seller.String() + ":k1", " " + seller.String() + ":k2 "}, wantLen: 2},
		{name: "missing separator", entries: []string{seller.String()}, wantErr: true},
		{name: "empty key", entries: []string{seller.String() + ":"}, wantErr: true},
		{name: "bad seller id", entries: []string{"seller-1:k1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewAPIKeyStore(tt.entries)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, s.Len())
		})
	}
}

func TestAPIKeyStore_Authenticate(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	s, err := NewAPIKeyStore([]string{alice.String() + ":alice-key", bob.String() + ":bob:key"})
	require.NoError(t, err)

	got, err := s.Authenticate("alice-key")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	got, err = s.Authenticate("bob:key")
	require.NoError(t, err)
	assert.Equal(t, bob, got)

	_, err = s.Authenticate("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = s.Authenticate("alice-key ")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}
