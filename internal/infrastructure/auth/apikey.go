package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrMissingAPIKey = errors.New("auth: missing api key")
	ErrInvalidAPIKey = errors.New("auth: invalid api key")
)

// APIKeyStore resolves API keys to the seller they authenticate. Only key
// digests are kept in memory.
type APIKeyStore struct {
	keys []apiKey
}

type apiKey struct {
	digest   [sha256.Size]byte
	sellerID uuid.UUID
}

// NewAPIKeyStore parses "sellerId:key" entries
func NewAPIKeyStore(entries []string) (*APIKeyStore, error) {
	s := &APIKeyStore{keys: make([]apiKey, 0, len(entries))}
	for i, entry := range entries {
		rawSeller, key, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || key == "" {
			return nil, fmt.Errorf("auth: api key entry %d must look like sellerId:key", i)
		}
		sellerID, err := uuid.Parse(rawSeller)
		if err != nil {
			return nil, fmt.Errorf("auth: api key entry %d: invalid seller id: %w", i, err)
		}
		s.keys = append(s.keys, apiKey{digest: sha256.Sum256([]byte(key)), sellerID: sellerID})
	}
	return s, nil
}

// Len returns the number of configured keys
func (s *APIKeyStore) Len() int {
	return len(s.keys)
}

// Authenticate returns the seller owning key. Every configured key is
// compared so the lookup time does not depend on which one matched.
func (s *APIKeyStore) Authenticate(key string) (uuid.UUID, error) {
	if key == "" {
		return uuid.Nil, ErrMissingAPIKey
	}
	digest := sha256.Sum256([]byte(key))
	found := uuid.Nil
	for _, k := range s.keys {
		if subtle.ConstantTimeCompare(digest[:], k.digest[:]) == 1 {
			found = k.sellerID
		}
	}
	if found == uuid.Nil {
		return uuid.Nil, ErrInvalidAPIKey
	}
	return found, nil
}
