package main

import (
	"fmt"

	"presizely/internal/feedback"

	"github.com/spf13/cobra"
)

func newFeedbackCmd(opts *rootOptions) *cobra.Command {
	req := feedback.NewRequest()
	var gender, property, original, updated string
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Submit a size correction to the size-chart service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Gender, err = feedback.ParseGender(gender); err != nil {
				return err
			}
			if req.PropertyName, err = feedback.ParseProperty(property); err != nil {
				return err
			}
			if req.OriginalSize, err = feedback.ParseSize(original); err != nil {
				return fmt.Errorf("original-size: %w", err)
			}
			if req.NewSize, err = feedback.ParseSize(updated); err != nil {
				return fmt.Errorf("new-size: %w", err)
			}

			gw, err := feedback.NewGateway(opts.cfg.Upstream)
			if err != nil {
				return err
			}
			form := feedback.NewForm(gw)
			resp, err := form.Submit(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Message)
			for _, s := range resp.SortedScores() {
				fmt.Fprintf(out, "  %-3s %.4f\n", s.Size, s.Value)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&gender, "gender", string(req.Gender), "male or female")
	f.IntVar(&req.BodyShape, "body-shape", req.BodyShape, "body shape index (positive)")
	f.IntVar(&req.ClusterLabel, "cluster", req.ClusterLabel, "cluster label (non-negative)")
	f.StringVar(&property, "property", string(req.PropertyName), "Height, Weight, Bust/Chest, Waist or Hips")
	f.StringVar(&original, "original-size", string(req.OriginalSize), "size that was assigned (S, M, L, XL)")
	f.StringVar(&updated, "new-size", string(req.NewSize), "size that fits (S, M, L, XL)")
	f.Float64Var(&req.LearningRate, "learning-rate", req.LearningRate, "adjustment step in [0, 1]")
	return cmd
}
