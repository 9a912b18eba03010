package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"presizely/internal/charts"
	"presizely/internal/config"
	"presizely/internal/feedback"
	"presizely/internal/logger"
	"presizely/internal/sizechart"
	"presizely/internal/sizing"
	"presizely/internal/store"
	"presizely/internal/store/gormstore"
	dashboardhttp "presizely/internal/transport/http/dashboard"
	sizecharthttp "presizely/internal/transport/http/sizechart"
	httpserver "presizely/internal/transport/http/server"
)

type AppBuilder struct {
	cfg *config.Config

	storeFn func(path string) (store.Store, error)
}

type AppBuilderOption func(*AppBuilder)

// WithStore replaces the SQLite store of the reference service.
func WithStore(s store.Store) AppBuilderOption {
	return func(b *AppBuilder) {
		b.storeFn = func(string) (store.Store, error) { return s, nil }
	}
}

func NewAppBuilder(cfg *config.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:     cfg,
		storeFn: openGormStore,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func openGormStore(path string) (store.Store, error) {
	return gormstore.NewGormStore(path)
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b == nil || b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg
	bands, err := cfg.Sizing.Table()
	if err != nil {
		return nil, fmt.Errorf("size table: %w", err)
	}
	a := &App{cfg: cfg}
	a.Summary = newStartupSummary(cfg, bands)

	if cfg.Dashboard.Enabled {
		a.dashboard, err = buildDashboard(cfg, bands)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Reference.Enabled {
		srv, closer, err := b.buildReference(ctx, cfg.Reference, bands)
		if err != nil {
			return nil, err
		}
		a.reference = srv
		a.closers = append(a.closers, closer)
	}
	return a, nil
}

func buildDashboard(cfg *config.Config, bands sizing.Bands) (*httpserver.Server, error) {
	fetcher, err := charts.NewClient(cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("chart client: %w", err)
	}
	gateway, err := feedback.NewGateway(cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("feedback gateway: %w", err)
	}
	return dashboardhttp.NewServer(dashboardhttp.ServerConfig{
		Addr:      cfg.Dashboard.HTTPAddr,
		Bands:     bands,
		Fetcher:   fetcher,
		Submitter: gateway,
	})
}

func (b *AppBuilder) buildReference(ctx context.Context, cfg config.ReferenceConfig, bands sizing.Bands) (*httpserver.Server, func() error, error) {
	st, err := b.storeFn(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open size chart store: %w", err)
	}
	svc := sizechart.NewService(st, bands)
	if err := seedService(ctx, svc, cfg.SeedPath); err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	srv, err := sizecharthttp.NewServer(sizecharthttp.ServerConfig{
		Addr:               cfg.HTTPAddr,
		Service:            svc,
		LegacyDoubleEncode: cfg.LegacyDoubleEncode,
	})
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return srv, st.Close, nil
}

// seedService loads the seed file if one is configured. A missing file only warns so a
// previously seeded database can run on its own.
func seedService(ctx context.Context, svc *sizechart.Service, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	clusters, err := sizechart.LoadSeedFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warnf("seed file %s not found, serving stored clusters only", path)
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := svc.Seed(ctx, clusters); err != nil {
		return fmt.Errorf("seed size chart: %w", err)
	}
	return nil
}
