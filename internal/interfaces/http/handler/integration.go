package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
)

// IntegrationHandler connects and disconnects provider accounts
type IntegrationHandler struct {
	BaseHandler
	connector    Connector
	connections  ConnectionRegistry
	dashboardURL string
}

// NewIntegrationHandler creates an IntegrationHandler. OAuth callbacks
// redirect the browser to dashboardURL.
func NewIntegrationHandler(connector Connector, connections ConnectionRegistry, dashboardURL string) *IntegrationHandler {
	return &IntegrationHandler{
		connector:    connector,
		connections:  connections,
		dashboardURL: dashboardURL,
	}
}

// providerParam validates the :provider path parameter
func (h *IntegrationHandler) providerParam(c *gin.Context) (fulfillment.ProviderName, bool) {
	provider := fulfillment.ProviderName(strings.ToLower(c.Param("provider")))
	if !provider.IsValid() {
		h.HandleError(c, fulfillment.ErrUnknownProvider)
		return "", false
	}
	return provider, true
}

// Connect handles GET /v1/integrations/:provider/connect
//
//	@ID			beginConnect
//	@Summary		Start an OAuth connection
//	@Tags			integrations
//	@Produce		json
//	@Param			provider	path	string	true	"Provider name"
//	@Param			sandbox	query	bool	false	"Connect the sandbox environment"	default(false)
//	@Success		200	{object}	APIResponse[ConnectResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/integrations/{provider}/connect [get]
func (h *IntegrationHandler) Connect(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	provider, ok := h.providerParam(c)
	if !ok {
		return
	}
	var q ConnectQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	authURL, err := h.connector.BeginConnect(c.Request.Context(), sellerID, provider, q.Sandbox)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ConnectResponse{AuthorizationURL: authURL})
}

// ConnectManual handles POST /v1/integrations/:provider/manual
//
//	@ID			connectManual
//	@Summary		Connect a provider with API credentials
//	@Tags			integrations
//	@Accept			json
//	@Produce		json
//	@Param			provider	path	string	true	"Provider name"
//	@Param			request	body	ManualConnectRequest	true	"API credentials"
//	@Success		201	{object}	APIResponse[ConnectionResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/integrations/{provider}/manual [post]
func (h *IntegrationHandler) ConnectManual(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	provider, ok := h.providerParam(c)
	if !ok {
		return
	}
	var req ManualConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.connector.ConnectManual(c.Request.Context(), sellerID, provider, req.Sandbox, req.APIKey, req.APISecret)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toConnectionResultResponse(result))
}

// Disconnect handles DELETE /v1/integrations/:provider
//
//	@ID			disconnectProvider
//	@Summary		Disconnect a provider
//	@Tags			integrations
//	@Produce		json
//	@Param			provider	path	string	true	"Provider name"
//	@Param			sandbox	query	bool	false	"Disconnect the sandbox environment"	default(false)
//	@Success		204	"No Content"
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/integrations/{provider} [delete]
func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	provider, ok := h.providerParam(c)
	if !ok {
		return
	}
	var q ConnectQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.connections.Disconnect(c.Request.Context(), sellerID, provider, q.Sandbox); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /v1/integrations
//
//	@ID			listConnections
//	@Summary		List provider connections
//	@Tags			integrations
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]ConnectionResponse]
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/integrations [get]
func (h *IntegrationHandler) List(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	conns, err := h.connections.Connections(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toConnectionResponses(conns))
}

// OAuthCallback handles GET /oauth/callback. The caller is a browser, so
// every outcome is a redirect to the dashboard rather than a JSON envelope.
//
//	@ID			oauthCallback
//	@Summary		Complete an OAuth connection
//	@Tags			integrations
//	@Param			code	query	string	false	"Authorization code"
//	@Param			state	query	string	true	"State token issued by connect"
//	@Param			sandbox	query	bool	false	"Sandbox environment"	default(false)
//	@Success		302	"Redirect to the seller dashboard"
//	@Router			/oauth/callback [get]
func (h *IntegrationHandler) OAuthCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	sandbox, _ := strconv.ParseBool(c.Query("sandbox"))
	zl := logger.GetGinLogger(c)

	if providerErr := c.Query("error"); providerErr != "" {
		zl.Warn("Provider denied authorization", zap.String("provider_error", providerErr))
		h.redirect(c, url.Values{"status": {"error"}, "error": {"access_denied"}}, sandbox)
		return
	}
	if code == "" || state == "" {
		zl.Warn("OAuth callback missing code or state", logger.SecurityEventField)
		h.redirect(c, url.Values{"status": {"error"}, "error": {"missing_parameters"}}, sandbox)
		return
	}

	result, err := h.connector.CompleteConnect(c.Request.Context(), code, state, sandbox)
	if err != nil {
		errCode, _ := classifyError(err)
		if fulfillment.IsSecurityRejection(err) {
			zl.Warn("OAuth callback rejected", zap.String("code", errCode), zap.Error(err), logger.SecurityEventField)
		} else {
			zl.Error("OAuth callback failed", zap.String("code", errCode), zap.Error(err))
		}
		h.redirect(c, url.Values{"status": {"error"}, "error": {strings.ToLower(errCode)}}, sandbox)
		return
	}

	zl.Info("Provider connected",
		zap.String("provider", string(result.Provider)),
		zap.String("seller_id", result.SellerID.String()),
		zap.Bool("sandbox", result.Sandbox),
	)
	h.redirect(c, url.Values{"status": {"connected"}, "provider": {string(result.Provider)}}, result.Sandbox)
}

func (h *IntegrationHandler) redirect(c *gin.Context, params url.Values, sandbox bool) {
	params.Set("sandbox", strconv.FormatBool(sandbox))
	target := h.dashboardURL
	if strings.Contains(target, "?") {
		target += "&" + params.Encode()
	} else {
		target += "?" + params.Encode()
	}
	c.Redirect(http.StatusFound, target)
}
