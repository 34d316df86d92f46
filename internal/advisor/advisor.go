// Package advisor produces free-text financial advice from the current state
// snapshot via one language-model call. It deliberately does not parse the
// model's output into structured outcomes: the burden of structuring is
// pushed onto the model through the prompt, and the local risk score is the
// only deterministic check.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/financier-dev/financier/internal/gemini"
	"github.com/financier-dev/financier/internal/model"
)

const promptTemplate = `CONTEXT:
User Bio: %s
Market Trends: %s
Current Financial Stats: %s

QUESTION: %s

TASK:
1. Perform a Monte Carlo-style reasoning: What are the 3 most likely outcomes?
2. Assign a probability (%%) to each outcome.
3. Risk Check: Does this query violate the user's Risk Profile?
4. Strategy: If the user follows this, what is the 12-month future projection?

Explain your reasoning clearly like a Senior Financier.`

const temperature = 0.3

// Snapshot is the read-only state passed into one reasoning call.
type Snapshot struct {
	ProfileJSON string
	Market      string
	Recent      []model.Entry
}

// Advisor asks the model for probabilistic advice.
type Advisor struct {
	client *gemini.Client
}

// New creates an Advisor backed by the given Gemini client.
func New(client *gemini.Client) *Advisor {
	return &Advisor{client: client}
}

// Advise builds the reasoning prompt and returns the model's raw text. On
// failure it returns an error; the orchestrator surfaces the error text as
// the advice so the cycle still completes.
func (a *Advisor) Advise(ctx context.Context, query string, snap Snapshot) (string, error) {
	prompt := fmt.Sprintf(promptTemplate,
		snap.ProfileJSON, snap.Market, formatEntries(snap.Recent), query)

	advice, err := a.client.GenerateContent(ctx, prompt, &gemini.GenerationConfig{Temperature: temperature})
	if err != nil {
		return "", fmt.Errorf("reasoning call: %w", err)
	}
	return advice, nil
}

func formatEntries(entries []model.Entry) string {
	if len(entries) == 0 {
		return "no transactions recorded yet"
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		amount := "n/a"
		if e.Amount.Valid {
			amount = e.Amount.Decimal.String()
		}
		lines = append(lines, fmt.Sprintf("%s %s/%s amount=%s necessary=%t",
			e.Timestamp.Format("2006-01-02"), e.Type, e.Category, amount, e.IsNecessary))
	}
	return strings.Join(lines, "; ")
}
