package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// WebhookHandler serves inbound provider webhooks and outbound subscriptions
type WebhookHandler struct {
	BaseHandler
	inbound       InboundWebhooks
	subscriptions SubscriptionService
}

// NewWebhookHandler creates a WebhookHandler
func NewWebhookHandler(inbound InboundWebhooks, subscriptions SubscriptionService) *WebhookHandler {
	return &WebhookHandler{inbound: inbound, subscriptions: subscriptions}
}

// Receive handles POST /v1/webhooks/fulfillment. The body is read raw so the
// signature is checked over exactly the bytes the provider signed.
//
//	@ID			receiveWebhook
//	@Summary		Receive a provider webhook
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			X-Fulfillment-Provider	header	string	true	"Sending provider"
//	@Param			X-Shiphub-Signature	header	string	false	"HMAC-SHA256 of the body, header named after the provider"
//	@Success		200	{object}	APIResponse[InboundWebhookResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		413	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/v1/webhooks/fulfillment [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	provider := fulfillment.ProviderName(strings.ToLower(strings.TrimSpace(c.GetHeader(ProviderHeader))))
	if provider == "" {
		h.BadRequest(c, ProviderHeader+" header is required")
		return
	}
	if !provider.IsValid() {
		h.HandleError(c, fulfillment.ErrUnknownProvider)
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.BindError(c, err)
			return
		}
		h.BadRequest(c, "Failed to read request body")
		return
	}
	signature := c.GetHeader(fmt.Sprintf(signatureHeaderFormat, provider))

	result, err := h.inbound.Receive(c.Request.Context(), provider, raw, signature)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, InboundWebhookResponse{
		EventID:   result.EventID.String(),
		EventType: result.EventType,
		Duplicate: result.Duplicate,
	})
}

// CreateSubscription handles POST /v1/webhooks/subscriptions
//
//	@ID			createSubscription
//	@Summary		Subscribe to fulfillment events
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			request	body	CreateSubscriptionRequest	true	"Subscription"
//	@Success		201	{object}	APIResponse[SubscriptionResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/webhooks/subscriptions [post]
func (h *WebhookHandler) CreateSubscription(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sub, err := h.subscriptions.CreateSubscription(c.Request.Context(), sellerID, req.URL, req.EventTypes, req.Secret)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSubscriptionResponse(sub, true))
}

// ListSubscriptions handles GET /v1/webhooks/subscriptions
//
//	@ID			listSubscriptions
//	@Summary		List webhook subscriptions
//	@Tags			webhooks
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]SubscriptionResponse]
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/webhooks/subscriptions [get]
func (h *WebhookHandler) ListSubscriptions(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	subs, err := h.subscriptions.ListSubscriptions(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSubscriptionResponses(subs))
}

// DeleteSubscription handles DELETE /v1/webhooks/subscriptions/:id
//
//	@ID			deleteSubscription
//	@Summary		Deactivate a webhook subscription
//	@Tags			webhooks
//	@Produce		json
//	@Param			id	path	string	true	"Subscription ID"	format(uuid)
//	@Success		204	"No Content"
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/webhooks/subscriptions/{id} [delete]
func (h *WebhookHandler) DeleteSubscription(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.subscriptions.DeactivateSubscription(c.Request.Context(), sellerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListDeliveries handles GET /v1/webhooks/deliveries
//
//	@ID			listDeliveries
//	@Summary		List webhook deliveries
//	@Tags			webhooks
//	@Produce		json
//	@Param			status	query	string	false	"Delivery status"	Enums(pending, delivered, dead_lettered)
//	@Param			eventId	query	string	false	"Event ID"	format(uuid)
//	@Param			limit	query	int	false	"Maximum deliveries"	maximum(200)
//	@Success		200	{object}	APIResponse[[]DeliveryResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/webhooks/deliveries [get]
func (h *WebhookHandler) ListDeliveries(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	var q DeliveryListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	filter := fulfillment.DeliveryFilter{SellerID: sellerID, Limit: q.Limit}
	if q.Status != "" {
		status := fulfillment.DeliveryStatus(q.Status)
		filter.Status = &status
	}
	if q.EventID != "" {
		eventID := uuid.MustParse(q.EventID)
		filter.EventID = &eventID
	}
	deliveries, err := h.subscriptions.ListDeliveries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toDeliveryResponses(deliveries))
}

// ReplayDelivery handles POST /v1/webhooks/deliveries/:id/replay
//
//	@ID			replayDelivery
//	@Summary		Replay a webhook delivery
//	@Tags			webhooks
//	@Produce		json
//	@Param			id	path	string	true	"Delivery ID"	format(uuid)
//	@Success		200	{object}	APIResponse[DeliveryResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/webhooks/deliveries/{id}/replay [post]
func (h *WebhookHandler) ReplayDelivery(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.subscriptions.ReplayDelivery(c.Request.Context(), sellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toDeliveryResponse(d))
}
