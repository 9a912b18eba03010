package dashboardhttp

import (
	"errors"

	"presizely/internal/charts"
	"presizely/internal/feedback"
	"presizely/internal/sizing"
	httpserver "presizely/internal/transport/http/server"
)

// ServerConfig lists what the dashboard API depends on.
type ServerConfig struct {
	Addr      string
	Bands     sizing.Bands
	Fetcher   charts.Fetcher
	Submitter feedback.Submitter
}

// NewServer builds the dashboard HTTP server.
func NewServer(cfg ServerConfig) (*httpserver.Server, error) {
	if cfg.Fetcher == nil || cfg.Submitter == nil {
		return nil, errors.New("dashboard server requires a chart fetcher and a feedback submitter")
	}
	if len(cfg.Bands) == 0 {
		return nil, errors.New("dashboard server requires a size table")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	router := httpserver.NewEngine()
	NewRouter(cfg.Bands, cfg.Fetcher, cfg.Submitter).Register(router.Group("/api"))
	return httpserver.New("dashboard", cfg.Addr, router), nil
}
