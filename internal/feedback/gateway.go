package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"presizely/internal/config"
	"presizely/internal/logger"

	"github.com/google/uuid"
)

// Submitter forwards validated feedback upstream.
type Submitter interface {
	Submit(ctx context.Context, req Request) (*Response, error)
}

// Gateway posts feedback to the size-chart service.
type Gateway struct {
	endpoint   *url.URL
	httpClient *http.Client
}

var _ Submitter = (*Gateway)(nil)

// NewGateway builds a gateway for the configured feedback endpoint. A zero
// timeout leaves the transport default (none) in place.
func NewGateway(cfg config.UpstreamConfig) (*Gateway, error) {
	raw := cfg.FeedbackURL()
	if raw == "" {
		return nil, fmt.Errorf("upstream.base_url cannot be empty")
	}
	endpoint, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse feedback endpoint: %w", err)
	}
	if endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("feedback endpoint %q must be absolute", raw)
	}
	return &Gateway{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}, nil
}

// SetHTTPClient replaces the HTTP client, e.g. to install a custom transport.
func (g *Gateway) SetHTTPClient(client *http.Client) {
	g.httpClient = client
}

// Endpoint returns the resolved feedback URL.
func (g *Gateway) Endpoint() string {
	if g == nil || g.endpoint == nil {
		return ""
	}
	return g.endpoint.String()
}

// Submit validates req and sends it. Invalid payloads fail with a ValidationFailure
// before any network activity; everything after that fails with a TransportFailure.
func (g *Gateway) Submit(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if g == nil || g.httpClient == nil {
		return nil, transportError(fmt.Errorf("feedback gateway not initialized"))
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, transportError(fmt.Errorf("encode feedback: %w", err))
	}
	requestID := uuid.NewString()
	log := logger.With("component", "feedback", "request_id", requestID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, transportError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	log.Debugf("submitting feedback cluster=%d property=%s %s->%s", req.ClusterLabel, req.PropertyName, req.OriginalSize, req.NewSize)
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		log.Warnf("feedback request failed: %v", err)
		return nil, transportError(unwrapURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Warnf("feedback rejected status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(data)))
		return nil, statusError(resp.StatusCode)
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, transportError(fmt.Errorf("decode feedback response: %w", err))
	}
	log.Infof("feedback accepted: %s", out.Message)
	return &out, nil
}

// unwrapURLError drops the "Post \"url\": " prefix net/http adds so the
// displayed message is the underlying cause.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}
