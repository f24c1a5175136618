// Package vault provides the authenticated encryption behind the credential vault.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// keyVersion prefixes every ciphertext so the key can be rotated later
const keyVersion byte = 1

const (
	masterKeySize = 32
	hkdfInfo      = "fulfillsync credential vault v1"
)

// Errors for the cipher
var (
	ErrInvalidMasterKey   = errors.New("vault: master key must be 32 bytes, base64 encoded")
	ErrCiphertextTooShort = errors.New("vault: ciphertext too short")
	ErrUnknownKeyVersion  = errors.New("vault: unknown key version")
	ErrDecryptFailed      = errors.New("vault: decryption failed")
)

// AESGCMCipher is AES-256-GCM with a data key derived from the master key via HKDF-SHA256
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCMCipherFromBase64 decodes a base64 master key and builds the cipher
func NewAESGCMCipherFromBase64(encoded string) (*AESGCMCipher, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKey, err)
	}
	return NewAESGCMCipher(key)
}

// NewAESGCMCipher builds the cipher from a raw 32-byte master key
func NewAESGCMCipher(masterKey []byte) (*AESGCMCipher, error) {
	if len(masterKey) != masterKeySize {
		return nil, ErrInvalidMasterKey
	}
	dataKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey, nil, []byte(hkdfInfo)), dataKey); err != nil {
		return nil, fmt.Errorf("vault: derive key: %w", err)
	}
	block, err := aes.NewCipher(dataKey)
	if err != nil {
		return nil, fmt.Errorf("vault: new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: new gcm: %w", err)
	}
	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext bound to associatedData. Output: version | nonce | sealed.
func (c *AESGCMCipher) Encrypt(plaintext, associatedData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("vault: nonce: %w", err)
	}
	out := make([]byte, 0, 1+len(nonce)+len(plaintext)+c.aead.Overhead())
	out = append(out, keyVersion)
	out = append(out, nonce...)
	return c.aead.Seal(out, nonce, plaintext, associatedData), nil
}

// Decrypt opens a ciphertext produced by Encrypt with the same associatedData
func (c *AESGCMCipher) Decrypt(ciphertext, associatedData []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	if len(ciphertext) < 1+ns+c.aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	if ciphertext[0] != keyVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKeyVersion, ciphertext[0])
	}
	nonce := ciphertext[1 : 1+ns]
	plain, err := c.aead.Open(nil, nonce, ciphertext[1+ns:], associatedData)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}

var _ fulfillment.Cipher = (*AESGCMCipher)(nil)
