package app

import (
	"fmt"
	"io"
	"strings"

	"presizely/internal/config"
	"presizely/internal/sizing"
)

type StartupSummary struct {
	Env       string
	Dashboard string
	ChartURL  string
	Feedback  string
	Reference string
	Bands     []sizing.BandSpec
}

func newStartupSummary(cfg *config.Config, bands sizing.Bands) *StartupSummary {
	s := &StartupSummary{
		Env:       cfg.App.Env,
		Dashboard: "disabled",
		Reference: "disabled",
		ChartURL:  cfg.Upstream.ChartURL(),
		Feedback:  cfg.Upstream.FeedbackURL(),
		Bands:     bands.Specs(),
	}
	if cfg.Dashboard.Enabled {
		s.Dashboard = cfg.Dashboard.HTTPAddr
	}
	if cfg.Reference.Enabled {
		s.Reference = fmt.Sprintf("%s (db=%s, double_encode=%t)",
			cfg.Reference.HTTPAddr, cfg.Reference.DBPath, cfg.Reference.LegacyDoubleEncode)
	}
	return s
}

func (s *StartupSummary) Print(w io.Writer) {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "presizely (%s)\n", s.Env)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "  dashboard:  %s\n", s.Dashboard)
	fmt.Fprintf(w, "  chart data: %s\n", s.ChartURL)
	fmt.Fprintf(w, "  feedback:   %s\n", s.Feedback)
	fmt.Fprintf(w, "  size chart: %s\n", s.Reference)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[size table]")
	for _, b := range s.Bands {
		fmt.Fprintf(w, "  %-3s height %-9s cm  weight %-7s kg\n", b.Label, b.Height, b.Weight)
	}
	fmt.Fprintln(w, line)
}

func (s *StartupSummary) String() string {
	var b strings.Builder
	s.Print(&b)
	return b.String()
}
