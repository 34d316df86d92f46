package model

import "github.com/shopspring/decimal"

// StructuredData is the financial payload extracted from one user input.
// Amount is invalid when the model omitted it or returned something that is
// not a number.
type StructuredData struct {
	Type     EntryType
	Category string
	Amount   decimal.NullDecimal
}

// BioUpdate carries profile changes reported by the classifier. Exactly one
// of Note or Fields is set.
type BioUpdate struct {
	Note   string
	Fields map[string]any
}

// Classification is the normalized result of classifying one user input.
type Classification struct {
	Structured        *StructuredData // nil when the input held no financial data
	Fluff             bool
	BioUpdate         *BioUpdate // nil when there is nothing to merge
	ImportantDecision bool
}

// FallbackClassification is the safe result substituted when the classifier
// call fails. Fluff is true so downstream stages never record a spurious
// transaction from a failed parse.
func FallbackClassification() Classification {
	return Classification{Fluff: true}
}
