package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/noah-isme/backend-roti/internal/pricing"
)

func newClassifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <profit-percentage>",
		Short: "Show the profitability band for a profit percentage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid percentage %q: %w", args[0], err)
			}
			band := pricing.Classify(pct)
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, map[string]any{"percentage": pct, "band": band, "label": band.Label()})
			}
			fmt.Fprintf(out, "%s (%s)\n", band, band.Label())
			return nil
		},
	}
}
