// Package classifier turns free-form user input into a structured
// Classification via one language-model call.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/financier-dev/financier/internal/gemini"
	"github.com/financier-dev/financier/internal/model"
)

const promptTemplate = `Act as a professional financial clerk. Analyze the following user input:
%q

1. Extract structured financial data (Amount, Type, Category).
2. Identify 'Unnecessary' fluff (emotions, weather, social context).
3. Determine if this affects the 'Risk Profile' or 'Interests'.

Return ONLY a JSON object with keys:
'structured_data', 'fluff', 'updates_to_bio', 'is_important_decision'.`

// Classifier classifies raw input text.
type Classifier struct {
	client *gemini.Client
}

// New creates a Classifier backed by the given Gemini client.
func New(client *gemini.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify sends raw text to the model and normalizes the reply. On any
// failure it returns an error; the orchestrator substitutes
// model.FallbackClassification.
func (c *Classifier) Classify(ctx context.Context, raw string) (model.Classification, error) {
	text, err := c.client.GenerateContent(ctx, fmt.Sprintf(promptTemplate, raw), nil)
	if err != nil {
		return model.Classification{}, err
	}
	return parseClassification(text)
}

// rawClassification is the loose wire shape: the model sometimes capitalizes
// keys, returns null, or uses the wrong type, so both object fields stay raw
// until normalization.
type rawClassification struct {
	StructuredData      json.RawMessage `json:"structured_data"`
	Fluff               bool            `json:"fluff"`
	UpdatesToBio        json.RawMessage `json:"updates_to_bio"`
	IsImportantDecision bool            `json:"is_important_decision"`
}

func parseClassification(text string) (model.Classification, error) {
	var raw rawClassification
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return model.Classification{}, fmt.Errorf("parsing classification: %w", err)
	}

	return model.Classification{
		Structured:        normalizeStructured(raw.StructuredData),
		Fluff:             raw.Fluff,
		BioUpdate:         normalizeBio(raw.UpdatesToBio),
		ImportantDecision: raw.IsImportantDecision,
	}, nil
}

// stripFences removes the markdown code fences models like to wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func normalizeStructured(raw json.RawMessage) *model.StructuredData {
	fields := decodeObject(raw)
	if fields == nil {
		return nil
	}

	sd := &model.StructuredData{
		Type:     model.ParseEntryType(asString(lookup(fields, "type"))),
		Category: asString(lookup(fields, "category")),
		Amount:   asAmount(lookup(fields, "amount")),
	}
	return sd
}

func normalizeBio(raw json.RawMessage) *model.BioUpdate {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	var note string
	if err := json.Unmarshal(raw, &note); err == nil {
		if note == "" {
			return nil
		}
		return &model.BioUpdate{Note: note}
	}

	if fields := decodeObject(raw); len(fields) > 0 {
		lowered := make(map[string]any, len(fields))
		for k, v := range fields {
			lowered[strings.ToLower(k)] = v
		}
		return &model.BioUpdate{Fields: lowered}
	}
	return nil
}

// decodeObject decodes a JSON object, returning nil for null, absent, or
// non-object values.
func decodeObject(raw json.RawMessage) map[string]any {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return fields
}

// lookup finds a key case-insensitively ("Type" vs "type").
func lookup(fields map[string]any, key string) any {
	if v, ok := fields[key]; ok {
		return v
	}
	for k, v := range fields {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asAmount coerces a number or numeric string; anything else stays invalid
// so a bad amount never crashes the pipeline.
func asAmount(v any) decimal.NullDecimal {
	switch n := v.(type) {
	case float64:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat(n), Valid: true}
	case string:
		cleaned := strings.TrimSpace(strings.TrimPrefix(n, "$"))
		if d, err := decimal.NewFromString(cleaned); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	return decimal.NullDecimal{}
}
