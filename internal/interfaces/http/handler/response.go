package handler

import (
	"time"

	"github.com/fulfillsync/backend/internal/interfaces/http/dto"
)

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success   bool      `json:"success" example:"true"`
	Data      T         `json:"data,omitempty"`
	RequestID string    `json:"request_id,omitempty" example:"c0a8012e-5f1d-4d2b-9b6e-0d1f2a3b4c5d"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success   bool           `json:"success" example:"false"`
	Error     *dto.ErrorInfo `json:"error,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
