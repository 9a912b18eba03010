package main

import (
	"presizely/internal/app"
	"presizely/internal/logger"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var reference bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API and, if enabled, the size-chart service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("reference") {
				cfg.Reference.Enabled = reference
			}
			logger.Infof("config loaded (env=%s)", cfg.App.Env)
			a, err := app.NewApp(cfg, opts.resolvedPath())
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&reference, "reference", false, "also run the bundled size-chart service (overrides reference.enabled)")
	return cmd
}
