package main

import (
	"fmt"
	"strings"

	"presizely/internal/charts"
	"presizely/internal/feedback"

	"github.com/spf13/cobra"
)

func newClustersCmd(opts *rootOptions) *cobra.Command {
	sel := charts.DefaultSelection()
	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Fetch chart data and list the clusters of one gender and body shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := feedback.ParseGender(sel.Gender)
			if err != nil {
				return err
			}
			sel.Gender = string(g)
			if sel.BodyShape <= 0 {
				return fmt.Errorf("body-shape must be a positive integer")
			}
			client, err := charts.NewClient(opts.cfg.Upstream)
			if err != nil {
				return err
			}
			board := charts.NewBoard(client)
			board.Select(sel)
			if err := board.Load(cmd.Context()); err != nil {
				return err
			}
			printClusters(cmd, board.Visible())
			return nil
		},
	}
	cmd.Flags().StringVar(&sel.Gender, "gender", sel.Gender, "male or female")
	cmd.Flags().IntVar(&sel.BodyShape, "body-shape", sel.BodyShape, "body shape index")
	return cmd
}

func printClusters(cmd *cobra.Command, clusters []charts.ClusterSummary) {
	out := cmd.OutOrStdout()
	if len(clusters) == 0 {
		fmt.Fprintln(out, "no clusters")
		return
	}
	for _, c := range clusters {
		fmt.Fprintf(out, "cluster %d  %s  (%d people)\n", c.ClusterID, c.SizeLabel, c.ClusterCount)
		points := c.CentroidPoints()
		parts := make([]string, 0, len(points))
		for _, p := range points {
			parts = append(parts, fmt.Sprintf("%s=%.1f", p.Axis, p.Value))
		}
		fmt.Fprintf(out, "  centroid: %s\n", strings.Join(parts, " "))
		for _, axis := range charts.CentroidAxes() {
			scores := c.ScoresFor(axis)
			if len(scores) == 0 {
				continue
			}
			parts = parts[:0]
			for _, s := range scores {
				parts = append(parts, fmt.Sprintf("%s=%.2f", s.Size, s.Value))
			}
			fmt.Fprintf(out, "  %-10s %s\n", axis, strings.Join(parts, " "))
		}
	}
}
