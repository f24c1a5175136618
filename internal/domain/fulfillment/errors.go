package fulfillment

import (
	"errors"
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Fulfillment Errors
// ---------------------------------------------------------------------------

var (
	// Provider errors
	ErrUnknownProvider     = errors.New("fulfillment: unknown provider")
	ErrProviderDisabled    = errors.New("fulfillment: provider not enabled")
	ErrProviderUnavailable = errors.New("fulfillment: provider unavailable")
	ErrProviderAuth        = errors.New("fulfillment: provider authentication failed")
	ErrProviderRateLimited = errors.New("fulfillment: provider rate limited")
	ErrProviderTransfer    = errors.New("fulfillment: provider transfer failed")
	ErrProviderResponse    = errors.New("fulfillment: invalid provider response")
	ErrCapabilityMissing   = errors.New("fulfillment: provider does not support operation")

	// Payload errors
	ErrMalformedPayload = errors.New("fulfillment: malformed payload")

	// Security errors
	ErrInvalidSignature      = errors.New("fulfillment: invalid signature")
	ErrInvalidOrExpiredState = errors.New("fulfillment: invalid or expired state")

	// Stock and transfer errors
	ErrInsufficientStock  = errors.New("fulfillment: insufficient stock")
	ErrInvalidWarehouse   = errors.New("fulfillment: invalid warehouse")
	ErrInvalidQuantity    = errors.New("fulfillment: quantity must be positive")
	ErrTransferNotCancel  = errors.New("fulfillment: transfer can only be cancelled while scheduled")
	ErrInvalidTransition  = errors.New("fulfillment: invalid status transition")
	ErrLockHeld           = errors.New("fulfillment: lock held by another holder")
	ErrCredentialNotFound = errors.New("fulfillment: provider not connected")

	// Schedule errors
	ErrInvalidFrequency = errors.New("fulfillment: invalid schedule frequency")
	ErrInvalidTimezone  = errors.New("fulfillment: invalid timezone")
	ErrSyncInProgress   = errors.New("fulfillment: sync already running")
)

// TransferReason is the machine-readable reason a provider rejected a transfer
type TransferReason string

const (
	TransferReasonInsufficientStock TransferReason = "insufficient_stock"
	TransferReasonUnsupportedRoute  TransferReason = "unsupported_route"
	TransferReasonRateLimited       TransferReason = "rate_limited"
	TransferReasonUnknown           TransferReason = "unknown"
)

// RateLimitedError is returned by provider clients for every vendor-specific
// throttle signal (HTTP 429, quota error codes) so callers back off uniformly.
type RateLimitedError struct {
	Provider   ProviderName
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("fulfillment: provider %s rate limited, retry after %s", e.Provider, e.RetryAfter)
}

// Unwrap lets errors.Is match ErrProviderRateLimited
func (e *RateLimitedError) Unwrap() error {
	return ErrProviderRateLimited
}

// RetryAfterSeconds returns the hint rounded up to whole seconds
func (e *RateLimitedError) RetryAfterSeconds() int {
	secs := int(e.RetryAfter / time.Second)
	if e.RetryAfter%time.Second != 0 {
		secs++
	}
	return secs
}

// TransferError is a provider-side transfer rejection
type TransferError struct {
	Provider ProviderName
	Reason   TransferReason
	Message  string
}

func (e *TransferError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fulfillment: provider %s rejected transfer: %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("fulfillment: provider %s rejected transfer: %s: %s", e.Provider, e.Reason, e.Message)
}

// Unwrap lets errors.Is match ErrProviderTransfer
func (e *TransferError) Unwrap() error {
	return ErrProviderTransfer
}

// IsPermanent reports whether retrying the failed operation cannot
// succeed: auth failures, caller errors and malformed payloads.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrProviderAuth) ||
		errors.Is(err, ErrMalformedPayload) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidWarehouse) ||
		errors.Is(err, ErrUnknownProvider) ||
		errors.Is(err, ErrCredentialNotFound)
}

// IsRetryable reports whether the failure is known to be transient
func IsRetryable(err error) bool {
	switch {
	case err == nil, IsPermanent(err):
		return false
	case errors.Is(err, ErrProviderUnavailable),
		errors.Is(err, ErrProviderRateLimited):
		return true
	}
	var te *TransferError
	if errors.As(err, &te) {
		return te.Reason == TransferReasonRateLimited
	}
	return false
}

// RetryAfter extracts a provider retry hint, if any
func RetryAfter(err error) (time.Duration, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter, true
	}
	return 0, false
}

// Classify returns a stable code for logs, metric labels and run summaries
func Classify(err error) string {
	var te *TransferError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProviderRateLimited):
		return "rate_limited"
	case errors.As(err, &te):
		return "transfer_" + string(te.Reason)
	case errors.Is(err, ErrProviderAuth), errors.Is(err, ErrCredentialNotFound):
		return "auth_error"
	case errors.Is(err, ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrInvalidOrExpiredState):
		return "invalid_state"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrInvalidWarehouse):
		return "invalid_warehouse"
	case errors.Is(err, ErrUnknownProvider):
		return "unknown_provider"
	default:
		return "internal"
	}
}

// IsSecurityRejection reports errors that must be logged apart from ordinary failures
func IsSecurityRejection(err error) bool {
	return errors.Is(err, ErrInvalidSignature) || errors.Is(err, ErrInvalidOrExpiredState)
}
