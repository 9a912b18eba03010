package config

import (
	"fmt"
	"net/url"
	"strings"
)

func validate(c *Config) error {
	if err := c.Upstream.validate(); err != nil {
		return err
	}
	if err := c.Sizing.validate(); err != nil {
		return err
	}
	if err := c.Dashboard.validate(); err != nil {
		return err
	}
	if err := c.Reference.validate(); err != nil {
		return err
	}
	if c.Dashboard.Enabled && c.Reference.Enabled &&
		strings.TrimSpace(c.Dashboard.HTTPAddr) == strings.TrimSpace(c.Reference.HTTPAddr) {
		return fmt.Errorf("dashboard.http_addr and reference.http_addr must differ (both %s)", c.Dashboard.HTTPAddr)
	}
	return nil
}

func (u *UpstreamConfig) validate() error {
	raw := strings.TrimSpace(u.BaseURL)
	if raw == "" {
		return fmt.Errorf("upstream.base_url cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("upstream.base_url invalid: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("upstream.base_url must be http(s), got %q", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("upstream.base_url missing host")
	}
	if u.TimeoutSeconds < 0 {
		return fmt.Errorf("upstream.timeout_seconds must be >= 0")
	}
	return nil
}

func (s *SizingConfig) validate() error {
	if _, err := s.Table(); err != nil {
		return fmt.Errorf("sizing.bands: %w", err)
	}
	return nil
}

func (d *DashboardConfig) validate() error {
	if d.Enabled && strings.TrimSpace(d.HTTPAddr) == "" {
		return fmt.Errorf("dashboard.http_addr cannot be empty")
	}
	return nil
}

func (r *ReferenceConfig) validate() error {
	if !r.Enabled {
		return nil
	}
	if strings.TrimSpace(r.HTTPAddr) == "" {
		return fmt.Errorf("reference.http_addr cannot be empty")
	}
	if strings.TrimSpace(r.DBPath) == "" {
		return fmt.Errorf("reference.db_path cannot be empty")
	}
	return nil
}
