package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
)

// maxResponseSize bounds provider response bodies (10MB)
const maxResponseSize = 10 * 1024 * 1024

// defaultRetryAfter is used when a throttle response carries no usable hint
const defaultRetryAfter = time.Second

// statusError is a 4xx response the shared client did not classify. Adapters
// inspect the body for vendor error codes before falling back to it.
type statusError struct {
	StatusCode int
	Body       []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", fulfillment.ErrProviderResponse, e.StatusCode)
}

// Unwrap lets errors.Is match ErrProviderResponse
func (e *statusError) Unwrap() error {
	return fulfillment.ErrProviderResponse
}

// request describes one provider API call
type request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Form    url.Values
	Header  http.Header
	Sandbox bool
}

// apiClient is the HTTP plumbing shared by all adapters: base URL selection,
// outbound rate limiting, bounded reads and status-code classification.
type apiClient struct {
	provider   fulfillment.ProviderName
	config     *Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newAPIClient(name fulfillment.ProviderName, config *Config) *apiClient {
	limit := rate.Inf
	burst := 1
	if config.RateLimitRPS > 0 {
		limit = rate.Limit(config.RateLimitRPS)
		burst = max(1, int(config.RateLimitRPS))
	}
	return &apiClient{
		provider: name,
		config:   config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// baseURL selects the sandbox or production endpoint
func (c *apiClient) baseURL(sandbox bool) string {
	if sandbox && c.config.SandboxBaseURL != "" {
		return strings.TrimRight(c.config.SandboxBaseURL, "/")
	}
	return strings.TrimRight(c.config.BaseURL, "/")
}

// do sends the request and returns the body of any non-error response.
// Network errors and 5xx map to ErrProviderUnavailable, 401/403 to
// ErrProviderAuth and 429 to *RateLimitedError. Other 4xx come back as
// *statusError.
func (c *apiClient) do(ctx context.Context, r request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrProviderUnavailable, err)
	}

	target := c.baseURL(r.Sandbox) + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.Form != nil:
		body = strings.NewReader(r.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.Body != nil:
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request: %w", c.provider, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", c.provider, err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", fulfillment.ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &fulfillment.RateLimitedError{
			Provider:   c.provider,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", fulfillment.ErrProviderAuth, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", fulfillment.ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, &statusError{StatusCode: resp.StatusCode, Body: respBody}
	}
	return respBody, nil
}

// decode unmarshals a provider body, mapping failures to ErrProviderResponse
func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", fulfillment.ErrProviderResponse, err)
	}
	return nil
}

// parseRetryAfter accepts both delta-seconds and HTTP-date forms
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultRetryAfter
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return defaultRetryAfter
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return defaultRetryAfter
}

// tokenResponse is the RFC 6749 token endpoint body
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}

// exchangeCode runs the authorization-code grant against a token endpoint
func (c *apiClient) exchangeCode(ctx context.Context, path, code string, sandbox bool, redirectURL string) (*fulfillment.TokenSet, error) {
	if c.config.ClientID == "" || c.config.ClientSecret == "" {
		return nil, fmt.Errorf("%w: oauth client is not configured for %s", fulfillment.ErrCapabilityMissing, c.provider)
	}
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {redirectURL},
		"client_id":     {c.config.ClientID},
		"client_secret": {c.config.ClientSecret},
	}
	body, err := c.do(ctx, request{Method: http.MethodPost, Path: path, Form: form, Sandbox: sandbox})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			// invalid_grant and friends: the code is unusable, re-auth is required
			return nil, fmt.Errorf("%w: token exchange rejected (HTTP %d)", fulfillment.ErrProviderAuth, se.StatusCode)
		}
		return nil, err
	}

	var tok tokenResponse
	if err := decode(body, &tok); err != nil {
		return nil, err
	}
	if tok.Error != "" {
		return nil, fmt.Errorf("%w: %s: %s", fulfillment.ErrProviderAuth, tok.Error, tok.ErrorDesc)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response without access_token", fulfillment.ErrProviderResponse)
	}
	return &fulfillment.TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Scope:        tok.Scope,
		ExpiresIn:    time.Duration(tok.ExpiresIn) * time.Second,
	}, nil
}

// authorizationURL builds the provider consent screen URL
func (c *apiClient) authorizationURL(path string, params url.Values, sandbox bool) (string, error) {
	if c.config.ClientID == "" {
		return "", fmt.Errorf("%w: oauth client is not configured for %s", fulfillment.ErrCapabilityMissing, c.provider)
	}
	u, err := url.Parse(c.baseURL(sandbox) + path)
	if err != nil {
		return "", fmt.Errorf("%s: invalid authorization url: %w", c.provider, err)
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// requireUsable rejects credentials that cannot authenticate a call
func requireUsable(name fulfillment.ProviderName, creds fulfillment.Credentials) error {
	if creds.IsExpired(time.Now()) {
		return fmt.Errorf("%w: %s token expired", fulfillment.ErrProviderAuth, name)
	}
	if creds.AccessToken == "" && creds.APIKey == "" {
		return fmt.Errorf("%w: %s credentials are empty", fulfillment.ErrProviderAuth, name)
	}
	return nil
}
