// Package id formats the timestamp-derived identifiers used by the decision
// audit log.
package id

import (
	"fmt"
	"time"
)

const decisionLayout = "2006-01-02-150405"

// FormatDecisionID returns a decision ID like "2025-01-03-154210".
func FormatDecisionID(t time.Time) string {
	return t.Format(decisionLayout)
}

// ParseDecisionID parses a decision ID back into its timestamp.
func ParseDecisionID(s string) (time.Time, error) {
	t, err := time.Parse(decisionLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid decision ID %q: %w", s, err)
	}
	return t, nil
}
