package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/backend-roti/internal/pricing"
)

func newDiscountCmd(opts *options) *cobra.Command {
	var (
		price    int64
		cost     int64
		quantity int64
		markup   string
		discount string
		fee      string
		rounding bool
	)
	c := &cobra.Command{
		Use:   "discount",
		Short: "Run the markup, discount, channel fee and rounding cascade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if quantity <= 0 {
				return errors.New("--qty must be positive")
			}
			m, err := pricing.ParseMarkup(markup)
			if err != nil {
				return err
			}
			d, err := parseAdjustment(discount)
			if err != nil {
				return err
			}
			in := pricing.Inputs{
				Lines:    []pricing.Line{{Quantity: quantity, UnitPrice: price, UnitCost: cost}},
				Markup:   m,
				Discount: d,
				Rounding: rounding,
			}
			if fee != "" {
				f, err := parseAdjustment(fee)
				if err != nil {
					return err
				}
				in.Fee = &f
			}
			if err := in.Validate(); err != nil {
				return err
			}
			b, p := pricing.Evaluate(in)

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, map[string]any{"breakdown": b, "profit": p})
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "base\t%d\n", b.Base)
			if !m.IsNormal() {
				fmt.Fprintf(tw, "markup\t+%d\n", b.MarkupAmount)
			}
			fmt.Fprintf(tw, "discount\t-%d\n", b.DiscountAmount)
			if in.Fee != nil {
				fmt.Fprintf(tw, "channel fee\t-%d\n", b.FeeAmount)
			}
			if b.Rounded {
				fmt.Fprintf(tw, "rounding\t%+d\n", b.RoundingAdjustment)
			}
			fmt.Fprintf(tw, "final\t%d\n", b.Final)
			if cost > 0 {
				fmt.Fprintf(tw, "profit\t%d (%.2f%%, %s)\n", p.Amount, p.Percentage, p.Label)
			} else {
				fmt.Fprintf(tw, "profit\t%s\n", p.Label)
			}
			return tw.Flush()
		},
	}
	c.Flags().Int64Var(&price, "price", 0, "unit selling price in Rupiah")
	c.Flags().Int64Var(&cost, "cost", 0, "unit cost of goods in Rupiah")
	c.Flags().Int64Var(&quantity, "qty", 1, "quantity")
	c.Flags().StringVar(&markup, "markup", "normal", "markup: normal, 2.5, 5 or 10")
	c.Flags().StringVar(&discount, "discount", "", "discount, e.g. 10% or 2000")
	c.Flags().StringVar(&fee, "fee", "", "channel fee, e.g. 15% or 1000; omitted means disabled")
	c.Flags().BoolVar(&rounding, "round", false, "round the final price to the 500 Rupiah step")
	_ = c.MarkFlagRequired("price")
	return c
}
