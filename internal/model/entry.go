// Package model defines the core domain types shared across the application.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry.
type EntryType string

const (
	TypeIncome  EntryType = "Income"
	TypeExpense EntryType = "Expense"
	TypeOther   EntryType = "Other"
)

// ParseEntryType maps free-form model output ("expense", "EXPENSE", ...) to an
// EntryType. Anything unrecognized becomes TypeOther.
func ParseEntryType(s string) EntryType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return TypeIncome
	case "expense":
		return TypeExpense
	default:
		return TypeOther
	}
}

// Entry is a single row in transactions.csv. The ledger is append-only:
// insertion order is chronological order.
type Entry struct {
	Timestamp   time.Time
	Type        EntryType
	Category    string
	Amount      decimal.NullDecimal // invalid when the amount was absent or unparsable
	Description string
	IsNecessary bool
}
