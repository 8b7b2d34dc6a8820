package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/foodops/internal/service/reporting"
)

func newSummaryCmd(opts *options) *cobra.Command {
	var from, to string
	c := &cobra.Command{
		Use:   "summary",
		Short: "Print the operations summary for a date range",
		Example: `  foodopsctl summary --from 2024-03-01 --to 2024-03-31
  foodopsctl summary            # last 7 days`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			end := time.Now()
			if to != "" {
				t, err := time.Parse("2006-01-02", to)
				if err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
				end = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}
			start := end.AddDate(0, 0, -7)
			if from != "" {
				t, err := time.Parse("2006-01-02", from)
				if err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
				start = t
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				sum, err := a.reporting.Summarize(ctx, start, end)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), reporting.FormatSummary(sum))
				return nil
			})
		},
	}
	c.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	c.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	return c
}
