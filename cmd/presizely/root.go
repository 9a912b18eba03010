package main

import (
	"fmt"
	"os"
	"strings"

	"presizely/internal/config"
	"presizely/internal/logger"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string

	cfg     *config.Config
	logFile *os.File
}

// resolvedPath prefers --config, then $PRESIZELY_CONFIG. Empty means built-in defaults.
func (o *rootOptions) resolvedPath() string {
	if p := strings.TrimSpace(o.configPath); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(config.EnvConfigPath))
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "presizely",
		Short:         "Size classification and size-chart feedback service",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.resolvedPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.cfg = cfg
			if opts.logLevel != "" {
				cfg.App.LogLevel = opts.logLevel
			}
			logger.SetLevel(cfg.App.LogLevel)
			f, err := setupLogOutput(cfg.App.LogPath)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			opts.logFile = f
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logFile != nil {
				return opts.logFile.Close()
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $"+config.EnvConfigPath+", then built-in defaults)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override app.log_level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newClassifyCmd(opts),
		newFeedbackCmd(opts),
		newClustersCmd(opts),
	)
	return cmd
}
