package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Outbound delivery headers
const (
	HeaderEvent     = "X-Webhook-Event"
	HeaderDelivery  = "X-Webhook-Delivery"
	HeaderSignature = "X-Webhook-Signature"
)

const (
	defaultDeliveryTimeout = 8 * time.Second
	// subscriber responses are drained up to this size and discarded
	maxResponseDrain = 64 * 1024
	userAgent        = "fulfillsync-webhooks/1.0"
)

// ErrUnexpectedStatus is returned for non-2xx subscriber responses
var ErrUnexpectedStatus = errors.New("webhook: subscriber returned non-2xx status")

// Message is one signed POST to a subscriber
type Message struct {
	URL        string
	EventType  string
	DeliveryID string
	Secret     string
	Body       []byte
}

// HTTPSender posts signed webhook bodies to subscriber endpoints
type HTTPSender struct {
	client *http.Client
}

// NewHTTPSender creates a sender whose requests are bounded by timeout.
// Redirects are not followed.
func NewHTTPSender(timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}
	return &HTTPSender{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Send delivers msg and returns the response status code. A zero code means
// no response was received. Any non-2xx code is returned together with
// ErrUnexpectedStatus.
func (s *HTTPSender) Send(ctx context.Context, msg Message) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, msg.URL, bytes.NewReader(msg.Body))
	if err != nil {
		return 0, fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(HeaderEvent, msg.EventType)
	req.Header.Set(HeaderDelivery, msg.DeliveryID)
	if msg.Secret != "" {
		req.Header.Set(HeaderSignature, SignatureHeader(msg.Secret, msg.Body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("webhook: post %s: %w", msg.URL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseDrain))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return resp.StatusCode, nil
}
