// Package cmd provides the pricectl commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/noah-isme/backend-roti/internal/pricing"
)

// options holds the persistent flags shared by one command tree.
type options struct {
	json bool
}

// NewRootCmd builds the command tree. Each call returns independent commands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pricectl",
		Short: "Bakery pricing calculators for the terminal",
		Long: `pricectl applies the shop's pricing rules without the API server.

Examples:
  pricectl round 25400
  pricectl discount --price 20000 --discount 10% --fee 15% --round --cost 8000
  pricectl classify 93.75`,
		SilenceUsage: true,
	}
	opts := &options{}
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print results as JSON")

	root.AddCommand(newRoundCmd(opts))
	root.AddCommand(newDiscountCmd(opts))
	root.AddCommand(newClassifyCmd(opts))
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// parseAdjustment reads "10%" as a percentage and "2000" as a nominal amount.
func parseAdjustment(raw string) (pricing.Adjustment, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return pricing.Nominal(0), nil
	}
	kind := string(pricing.KindNominal)
	if strings.HasSuffix(raw, "%") {
		kind = string(pricing.KindPercentage)
		raw = strings.TrimSuffix(raw, "%")
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return pricing.Adjustment{}, fmt.Errorf("invalid adjustment %q: %w", raw, err)
	}
	return pricing.ParseAdjustment(kind, value)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
