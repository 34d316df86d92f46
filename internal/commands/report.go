package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/financier-dev/financier/internal/model"
	"github.com/financier-dev/financier/internal/risk"
)

func newReportCommand() *cobra.Command {
	var dir string
	var last int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the deterministic risk picture from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(dir)
			if err != nil {
				return err
			}
			return runReport(cmd, a, last)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "workspace directory")
	cmd.Flags().IntVar(&last, "last", 5, "how many recent entries to list")

	return cmd
}

func runReport(cmd *cobra.Command, a *app, last int) error {
	out := cmd.OutOrStdout()
	entries := a.ledger.ReadAll()

	fmt.Fprintf(out, "Ledger entries: %d\n", len(entries))
	fmt.Fprintf(out, "Spending volatility score: %.2f\n", risk.Score(entries))
	fmt.Fprintln(out, risk.Projection(entries))

	recent := entries
	if last > 0 && len(recent) > last {
		recent = recent[len(recent)-last:]
	}
	if len(recent) == 0 {
		return nil
	}

	fmt.Fprintf(out, "\nLast %d entries:\n", len(recent))
	for _, e := range recent {
		amount := "n/a"
		if e.Amount.Valid {
			amount = "$" + e.Amount.Decimal.StringFixed(2)
		}
		fmt.Fprintf(out, "  %s  %-7s  %-15s  %8s  %s\n",
			e.Timestamp.Format("2006-01-02"), e.Type, e.Category, amount, necessity(e))
	}
	return nil
}

func necessity(e model.Entry) string {
	if e.IsNecessary {
		return "necessary"
	}
	return "discretionary"
}
