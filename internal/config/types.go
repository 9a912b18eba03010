package config

import (
	"strings"

	"presizely/internal/sizing"
)

// Config is the root configuration of presizely.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Sizing    SizingConfig    `mapstructure:"sizing"`
	Reference ReferenceConfig `mapstructure:"reference"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
}

// DashboardConfig controls the JSON API that replaces the dashboard pages.
type DashboardConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	HTTPAddr string `mapstructure:"http_addr"`
}

// UpstreamConfig locates the size-chart service the dashboard talks to.
type UpstreamConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ChartPath      string `mapstructure:"chart_path"`
	FeedbackPath   string `mapstructure:"feedback_path"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // 0 = no client timeout
}

// ChartURL is the absolute chart-data endpoint.
func (u UpstreamConfig) ChartURL() string {
	return joinURL(u.BaseURL, u.ChartPath)
}

// FeedbackURL is the absolute feedback-update endpoint.
func (u UpstreamConfig) FeedbackURL() string {
	return joinURL(u.BaseURL, u.FeedbackPath)
}

// SizingConfig holds the ordered band table. Order decides overlaps.
type SizingConfig struct {
	Bands []sizing.BandSpec `mapstructure:"bands"`
}

// Table parses the configured bands.
func (s SizingConfig) Table() (sizing.Bands, error) {
	return sizing.NewBands(s.Bands)
}

// ReferenceConfig controls the bundled size-chart service.
type ReferenceConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	HTTPAddr           string `mapstructure:"http_addr"`
	DBPath             string `mapstructure:"db_path"`
	SeedPath           string `mapstructure:"seed_path"`
	LegacyDoubleEncode bool   `mapstructure:"legacy_double_encode"`
}

func joinURL(base, path string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// keySet tracks which dotted keys were explicitly present in the config files.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
