package config

import (
	"strings"

	"presizely/internal/sizing"
)

const (
	defaultAppEnv             = "dev"
	defaultAppLogLevel        = "info"
	defaultDashboardHTTPAddr  = ":8080"
	defaultUpstreamBaseURL    = "http://localhost:8000"
	defaultUpstreamChartPath  = "/size-chart/getalldetailedcharts"
	defaultUpstreamFeedback   = "/size-chart/update_size_chart"
	defaultReferenceHTTPAddr  = ":8000"
	defaultReferenceDBPath    = "data/presizely.db"
	defaultReferenceSeedPath  = "configs/clusters.yaml"
	defaultReferenceLegacyEnc = true
)

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Dashboard.applyDefaults(keys)
	c.Upstream.applyDefaults(keys)
	c.Sizing.applyDefaults(keys)
	c.Reference.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
	)
	a.LogPath = strings.TrimSpace(a.LogPath)
}

func (d *DashboardConfig) applyDefaults(keys keySet) {
	if d == nil {
		return
	}
	applyFieldDefaults(keys,
		boolFieldDefault("dashboard.enabled", &d.Enabled, true),
		stringFieldDefault("dashboard.http_addr", &d.HTTPAddr, defaultDashboardHTTPAddr),
	)
}

func (u *UpstreamConfig) applyDefaults(keys keySet) {
	if u == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("upstream.base_url", &u.BaseURL, defaultUpstreamBaseURL),
		stringFieldDefault("upstream.chart_path", &u.ChartPath, defaultUpstreamChartPath),
		stringFieldDefault("upstream.feedback_path", &u.FeedbackPath, defaultUpstreamFeedback),
	)
	if u.TimeoutSeconds < 0 {
		u.TimeoutSeconds = 0
	}
}

func (s *SizingConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "sizing.bands",
			need:  func() bool { return len(s.Bands) == 0 },
			apply: func() { s.Bands = sizing.DefaultBandSpecs() },
		},
	)
}

func (r *ReferenceConfig) applyDefaults(keys keySet) {
	if r == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("reference.http_addr", &r.HTTPAddr, defaultReferenceHTTPAddr),
		stringFieldDefault("reference.db_path", &r.DBPath, defaultReferenceDBPath),
		stringFieldDefault("reference.seed_path", &r.SeedPath, defaultReferenceSeedPath),
		boolFieldDefault("reference.legacy_double_encode", &r.LegacyDoubleEncode, defaultReferenceLegacyEnc),
	)
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

// boolFieldDefault only applies when the key is absent, since false is a meaningful value.
func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
