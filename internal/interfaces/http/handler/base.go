package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
	"github.com/fulfillsync/backend/internal/interfaces/http/dto"
	"github.com/fulfillsync/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID returns the id set by the RequestID middleware
func getRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// sellerID returns the authenticated seller or writes a 401
func (h *BaseHandler) sellerID(c *gin.Context) (uuid.UUID, bool) {
	id := middleware.GetSellerID(c)
	if id == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses a uuid path parameter or writes a 400
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.ValidationError(c, []dto.ValidationDetail{{Field: name, Message: "Invalid UUID format"}})
		return uuid.Nil, false
	}
	return id, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data, getRequestID(c)))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data, getRequestID(c)))
}

// Accepted sends a 202 accepted response
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data, getRequestID(c)))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// BindError answers a failed ShouldBind* call
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
		return
	}
	middleware.HandleValidationError(c, err)
}

// HandleError maps service errors onto the API error envelope. Provider
// throttling carries Retry-After, security rejections are logged as security
// events and unexpected errors are logged and hidden behind a generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	code, message := classifyError(err)
	status := dto.GetHTTPStatus(code)
	resp := dto.NewErrorResponseWithRequestID(code, message, getRequestID(c))

	var rl *fulfillment.RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		secs := rl.RetryAfterSeconds()
		c.Header("Retry-After", strconv.Itoa(secs))
		resp.Error.RetryAfter = secs
	}

	zl := logger.GetGinLogger(c)
	switch {
	case fulfillment.IsSecurityRejection(err):
		zl.Warn("Request rejected", zap.String("code", code), zap.Error(err), logger.SecurityEventField)
	case status >= http.StatusInternalServerError:
		zl.Error("Request failed", zap.String("code", code), zap.Error(err))
	}
	c.JSON(status, resp)
}

// classifyError returns the API code and a caller-safe message for err
func classifyError(err error) (string, string) {
	var te *fulfillment.TransferError
	if errors.As(err, &te) && te.Reason == fulfillment.TransferReasonInsufficientStock {
		return dto.ErrCodeInsufficientStock, "Provider reported insufficient stock"
	}

	switch {
	case errors.Is(err, fulfillment.ErrInvalidSignature):
		return dto.ErrCodeInvalidSignature, "Webhook signature verification failed"
	case errors.Is(err, fulfillment.ErrInvalidOrExpiredState):
		return dto.ErrCodeInvalidOAuthState, "Authorization state is invalid or expired"
	case errors.Is(err, fulfillment.ErrMalformedPayload):
		return dto.ErrCodeMalformedPayload, "Payload does not match the expected schema"
	case errors.Is(err, fulfillment.ErrUnknownProvider), errors.Is(err, fulfillment.ErrProviderDisabled):
		return dto.ErrCodeUnknownProvider, "Unknown or disabled provider"
	case errors.Is(err, fulfillment.ErrInvalidFrequency):
		return dto.ErrCodeInvalidFrequency, err.Error()
	case errors.Is(err, fulfillment.ErrInvalidTimezone):
		return dto.ErrCodeInvalidTimezone, err.Error()
	case errors.Is(err, fulfillment.ErrInsufficientStock):
		return dto.ErrCodeInsufficientStock, "Insufficient stock in the source warehouse"
	case errors.Is(err, fulfillment.ErrInvalidWarehouse):
		return dto.ErrCodeInvalidWarehouse, err.Error()
	case errors.Is(err, fulfillment.ErrInvalidQuantity):
		return dto.ErrCodeInvalidQuantity, "Quantity must be positive"
	case errors.Is(err, fulfillment.ErrTransferNotCancel):
		return dto.ErrCodeTransferNotCancellable, "Transfer can only be cancelled while scheduled"
	case errors.Is(err, fulfillment.ErrSyncInProgress):
		return dto.ErrCodeSyncInProgress, "A sync for this provider is already running"
	case errors.Is(err, fulfillment.ErrLockHeld):
		return dto.ErrCodeConcurrencyConflict, "Resource is locked by another operation"
	case errors.Is(err, fulfillment.ErrInvalidTransition):
		return dto.ErrCodeInvalidState, "Operation not allowed in current state"
	case errors.Is(err, fulfillment.ErrCapabilityMissing):
		return dto.ErrCodeCapabilityMissing, "Provider does not support this operation"
	case errors.Is(err, fulfillment.ErrCredentialNotFound):
		return dto.ErrCodeProviderNotConnected, "Provider is not connected"
	case errors.Is(err, fulfillment.ErrProviderAuth):
		return dto.ErrCodeProviderAuth, "Provider rejected the stored credentials, reconnect the integration"
	case errors.Is(err, fulfillment.ErrProviderRateLimited):
		return dto.ErrCodeProviderRateLimited, "Provider rate limit reached, retry later"
	case errors.Is(err, fulfillment.ErrProviderUnavailable):
		return dto.ErrCodeProviderUnavailable, "Provider is temporarily unavailable"
	case errors.Is(err, fulfillment.ErrProviderTransfer):
		return dto.ErrCodeProviderRejected, "Provider rejected the transfer"
	case errors.Is(err, fulfillment.ErrProviderResponse):
		return dto.ErrCodeProviderRejected, "Provider returned an invalid response"
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return dto.NormalizeErrorCode(domainErr.Code), domainErr.Message
	}
	return dto.ErrCodeInternal, "An unexpected error occurred"
}
