package app

import (
	"context"
	"fmt"
	"strings"

	"presizely/internal/config"
	"presizely/internal/logger"
	httpserver "presizely/internal/transport/http/server"

	"golang.org/x/sync/errgroup"
)

// App wires configuration to the HTTP servers and runs them.
type App struct {
	cfg        *config.Config
	configPath string
	dashboard  *httpserver.Server
	reference  *httpserver.Server
	closers    []func() error
	Summary    *StartupSummary
}

// NewApp builds the application without starting it. configPath, when set, is watched
// for log level changes while running.
func NewApp(cfg *config.Config, configPath string) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	a, err := buildAppWithWire(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	a.configPath = strings.TrimSpace(configPath)
	return a, nil
}

// Run starts the enabled servers and blocks until ctx is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	defer a.Close()
	if a.dashboard == nil && a.reference == nil {
		return fmt.Errorf("nothing to run: dashboard and reference are both disabled")
	}
	if a.Summary != nil {
		logger.InfoBlock(a.Summary.String())
	}
	if a.configPath != "" {
		if err := config.Watch(a.configPath, func(next *config.Config) {
			logger.SetLevel(next.App.LogLevel)
			logger.Infof("log level now %s", logger.Level())
		}); err != nil {
			logger.Warnf("config watch disabled: %v", err)
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	if a.dashboard != nil {
		group.Go(func() error {
			if err := a.dashboard.Start(ctx); err != nil {
				return fmt.Errorf("dashboard http server error: %w", err)
			}
			return nil
		})
	}
	if a.reference != nil {
		group.Go(func() error {
			if err := a.reference.Start(ctx); err != nil {
				return fmt.Errorf("size chart http server error: %w", err)
			}
			return nil
		})
	}
	return group.Wait()
}

// Close releases resources held by the app. Safe to call more than once.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
