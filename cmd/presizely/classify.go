package main

import (
	"fmt"

	"presizely/internal/sizing"

	"github.com/spf13/cobra"
)

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	var height, weight string
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Look up the size band for a height (cm) and weight (kg)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bands, err := opts.cfg.Sizing.Table()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sizing.ClassifyInput(height, weight, bands))
			return nil
		},
	}
	cmd.Flags().StringVar(&height, "height", "", "height in centimeters")
	cmd.Flags().StringVar(&weight, "weight", "", "weight in kilograms")
	_ = cmd.MarkFlagRequired("height")
	_ = cmd.MarkFlagRequired("weight")
	return cmd
}
