package charts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"presizely/internal/config"
	"presizely/internal/logger"
)

// Fetcher loads the cluster summaries shown on the dashboard.
type Fetcher interface {
	FetchClusters(ctx context.Context) ([]ClusterSummary, error)
}

// Client reads chart data from the size-chart service.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

func NewClient(cfg config.UpstreamConfig) (*Client, error) {
	raw := cfg.ChartURL()
	if raw == "" {
		return nil, fmt.Errorf("upstream.base_url cannot be empty")
	}
	endpoint, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse chart endpoint: %w", err)
	}
	if endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("chart endpoint %q must be absolute", raw)
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}, nil
}

// SetHTTPClient replaces the HTTP client, e.g. to install a custom transport.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// FetchClusters issues a single GET and decodes the response. Every failure is a *FetchError.
func (c *Client) FetchClusters(ctx context.Context) ([]ClusterSummary, error) {
	if c == nil || c.httpClient == nil {
		return nil, &FetchError{Stage: StageRequest, Err: errors.New("chart client not initialized")}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.String(), nil)
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		fe := &FetchError{Stage: StageStatus, StatusCode: resp.StatusCode}
		if text := strings.TrimSpace(string(data)); text != "" {
			fe.Err = errors.New(text)
		}
		return nil, fe
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, Err: err}
	}
	clusters, err := DecodeClusters(body)
	if err != nil {
		return nil, &FetchError{Stage: StageDecode, Err: err}
	}
	logger.Debugf("fetched %d clusters from %s", len(clusters), c.endpoint)
	return clusters, nil
}
