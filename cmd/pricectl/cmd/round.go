package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/noah-isme/backend-roti/internal/pricing"
)

func newRoundCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "round <amount>...",
		Short: "Round amounts to the nearest 500 Rupiah step",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			type result struct {
				Amount  pricing.Money `json:"amount"`
				Rounded pricing.Money `json:"rounded"`
			}
			results := make([]result, 0, len(args))
			for _, arg := range args {
				amount, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", arg, err)
				}
				results = append(results, result{Amount: amount, Rounded: pricing.RoundToPricingConvention(amount)})
			}
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, results)
			}
			for _, r := range results {
				fmt.Fprintf(out, "%d -> %d\n", r.Amount, r.Rounded)
			}
			return nil
		},
	}
}
