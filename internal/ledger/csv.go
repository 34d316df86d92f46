// Package ledger stores the append-only transaction ledger in
// transactions.csv.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/financier-dev/financier/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "Timestamp,Type,Category,Amount,Description,Is_Necessary"

const (
	numFields    = 6
	timeFormat   = "2006-01-02 15:04:05"
	colTimestamp = 0
	colType      = 1
	colCategory  = 2
	colAmount    = 3
	colDesc      = 4
	colNecessary = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(timeFormat)
	row[colType] = string(e.Type)
	row[colCategory] = e.Category
	if e.Amount.Valid {
		row[colAmount] = e.Amount.Decimal.String()
	}
	row[colDesc] = e.Description
	row[colNecessary] = fmt.Sprintf("%t", e.IsNecessary)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry. An unparsable amount does
// not fail the row: the field is left invalid and the entry survives.
func UnmarshalEntry(record []string) (model.Entry, error) {
	if len(record) != numFields {
		return model.Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(timeFormat, record[colTimestamp])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var amount decimal.NullDecimal
	if raw := strings.TrimSpace(record[colAmount]); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			amount = decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}

	return model.Entry{
		Timestamp:   ts,
		Type:        model.ParseEntryType(record[colType]),
		Category:    record[colCategory],
		Amount:      amount,
		Description: record[colDesc],
		IsNecessary: parseBool(record[colNecessary]),
	}, nil
}

// parseBool accepts both Go and Python spellings ("true", "True").
func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// ReadEntries reads all entries from a transactions.csv reader. Rows that
// fail to parse are skipped: a partially corrupt ledger still yields the
// rows that survive.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []model.Entry
	for _, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// AppendEntries writes entries to a transactions.csv writer (no header).
func AppendEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}
