// Package risk holds the deterministic, local half of the advice pipeline:
// a spending-volatility score and a simple burn-rate projection. No network
// dependency.
package risk

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/financier-dev/financier/internal/model"
)

// Score returns the coefficient of variation (population standard deviation
// over mean) of the entry amounts. Entries with an absent or unparsable
// amount are discarded. Higher variance in spending means higher behavioral
// risk. An empty, single-entry, or zero-mean set scores 0: no risk signal
// yet, not an error.
func Score(entries []model.Entry) float64 {
	var amounts []float64
	for _, e := range entries {
		if e.Amount.Valid {
			amounts = append(amounts, e.Amount.Decimal.InexactFloat64())
		}
	}
	if len(amounts) == 0 {
		return 0
	}

	var sum float64
	for _, a := range amounts {
		sum += a
	}
	mean := sum / float64(len(amounts))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, a := range amounts {
		d := a - mean
		variance += d * d
	}
	variance /= float64(len(amounts))

	return math.Sqrt(variance) / math.Abs(mean)
}

// AverageExpense returns the mean amount of Expense entries with a valid
// amount, or zero when there are none.
func AverageExpense(entries []model.Entry) decimal.Decimal {
	var sum decimal.Decimal
	var count int64
	for _, e := range entries {
		if e.Type == model.TypeExpense && e.Amount.Valid {
			sum = sum.Add(e.Amount.Decimal)
			count++
		}
	}
	if count == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(count))
}

// Projection renders the burn-rate line shown in reports.
func Projection(entries []model.Entry) string {
	burn := AverageExpense(entries)
	if burn.IsZero() {
		return "No expense history yet; burn rate unknown."
	}
	return fmt.Sprintf("Based on an average expense of $%s per entry, spending volatility score is %.2f.",
		burn.StringFixed(2), Score(entries))
}
