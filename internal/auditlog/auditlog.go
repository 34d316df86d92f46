// Package auditlog maintains the two append-only audit trails: the
// interaction history and the decision log. It also exposes the read-only
// market context file that an external collaborator keeps up to date.
package auditlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/financier-dev/financier/internal/model"
)

const (
	// InteractionFile records everything said, one line per utterance.
	InteractionFile = "interaction_history.txt"
	// DecisionFile records every piece of advice as a structured text block.
	DecisionFile = "decision_log.txt"
	// MarketFile holds macro-economic context maintained outside this tool.
	MarketFile = "market_context.txt"

	timeFormat = "2006-01-02 15:04:05"

	// NoMarketData is returned when the market context file is absent.
	NoMarketData = "No market data available."
)

// Service appends to the audit trails under a data directory.
type Service struct {
	dir string
}

// NewService creates an audit Service rooted at the given data directory.
func NewService(dataDir string) *Service {
	return &Service{dir: dataDir}
}

// AppendInteraction records one utterance: "[ts] SPEAKER: text".
func (s *Service) AppendInteraction(speaker model.Speaker, text string) error {
	line := fmt.Sprintf("[%s] %s: %s\n",
		timeNow().Format(timeFormat), speaker, strings.TrimSpace(text))
	return s.append(InteractionFile, line)
}

// AppendDecision records one decision block.
func (s *Service) AppendDecision(d model.Decision) error {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", d.ID)
	fmt.Fprintf(&b, "DATE: %s\n", d.Timestamp.Format(timeFormat))
	fmt.Fprintf(&b, "CONTEXT/TRIGGER: %s\n", d.Trigger)
	fmt.Fprintf(&b, "ADVICE: %s\n", d.Advice)
	fmt.Fprintf(&b, "RATIONALE: %s\n", d.Rationale)
	fmt.Fprintf(&b, "PROBABILITY/IMPACT: %s\n", d.Impact)
	b.WriteString(strings.Repeat("=", 40) + "\n")
	return s.append(DecisionFile, b.String())
}

// MarketContext returns the market context text, or a placeholder when the
// file is missing or unreadable.
func (s *Service) MarketContext() string {
	data, err := os.ReadFile(filepath.Join(s.dir, MarketFile))
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return NoMarketData
	}
	return string(data)
}

func (s *Service) append(name, text string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("appending to %s: %w", name, err)
	}
	return nil
}

// timeNow is swapped in tests.
var timeNow = time.Now
