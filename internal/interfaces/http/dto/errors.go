package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when the API key is missing or invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeInvalidSignature is used for inbound webhooks failing HMAC verification
	ErrCodeInvalidSignature = "ERR_INVALID_SIGNATURE"
	// ErrCodeInvalidOAuthState is used for unknown, expired or replayed OAuth states
	ErrCodeInvalidOAuthState = "ERR_INVALID_OAUTH_STATE"
	// ErrCodeForbidden is used when the caller is authenticated but not allowed
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeSyncInProgress is used when a sync for the same seller and provider is running
	ErrCodeSyncInProgress = "ERR_SYNC_IN_PROGRESS"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeInvalidWarehouse  = "ERR_INVALID_WAREHOUSE"
	ErrCodeInvalidQuantity   = "ERR_INVALID_QUANTITY"
	// ErrCodeTransferNotCancellable is used when a transfer already left the scheduled state
	ErrCodeTransferNotCancellable = "ERR_TRANSFER_NOT_CANCELLABLE"
	ErrCodeCapabilityMissing      = "ERR_CAPABILITY_MISSING"
)

// Input error codes
const (
	ErrCodeBadRequest       = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput     = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON      = "ERR_INVALID_JSON"
	ErrCodeMalformedPayload = "ERR_MALFORMED_PAYLOAD"
	ErrCodeUnknownProvider  = "ERR_UNKNOWN_PROVIDER"
	ErrCodeInvalidFrequency = "ERR_INVALID_FREQUENCY"
	ErrCodeInvalidTimezone  = "ERR_INVALID_TIMEZONE"
	ErrCodeRequestTooLarge  = "ERR_REQUEST_TOO_LARGE"
)

// Provider error codes
const (
	// ErrCodeProviderAuth is used when the provider connection must be re-authorized
	ErrCodeProviderAuth = "ERR_PROVIDER_AUTH"
	// ErrCodeProviderNotConnected is used when the seller never connected the provider
	ErrCodeProviderNotConnected = "ERR_PROVIDER_NOT_CONNECTED"
	ErrCodeProviderUnavailable  = "ERR_PROVIDER_UNAVAILABLE"
	ErrCodeProviderRejected     = "ERR_PROVIDER_REJECTED"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when this API's rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeProviderRateLimited is used when a provider throttled the call
	ErrCodeProviderRateLimited = "ERR_PROVIDER_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	ErrCodeUnauthorized:      http.StatusUnauthorized,
	ErrCodeInvalidSignature:  http.StatusUnauthorized,
	ErrCodeInvalidOAuthState: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeSyncInProgress:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:           http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:      http.StatusUnprocessableEntity,
	ErrCodeInvalidWarehouse:       http.StatusUnprocessableEntity,
	ErrCodeInvalidQuantity:        http.StatusUnprocessableEntity,
	ErrCodeTransferNotCancellable: http.StatusConflict,
	ErrCodeCapabilityMissing:      http.StatusUnprocessableEntity,

	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeMalformedPayload: http.StatusBadRequest,
	ErrCodeUnknownProvider:  http.StatusBadRequest,
	ErrCodeInvalidFrequency: http.StatusBadRequest,
	ErrCodeInvalidTimezone:  http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,

	// Provider errors -> 424 Failed Dependency / 502 / 503
	ErrCodeProviderAuth:         http.StatusFailedDependency,
	ErrCodeProviderNotConnected: http.StatusFailedDependency,
	ErrCodeProviderUnavailable:  http.StatusServiceUnavailable,
	ErrCodeProviderRejected:     http.StatusBadGateway,

	ErrCodeRateLimited:         http.StatusTooManyRequests,
	ErrCodeProviderRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps shared.DomainError codes to API codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
