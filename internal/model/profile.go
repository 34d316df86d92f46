package model

import (
	"fmt"
	"sort"
)

// RiskProfile is the user's self-reported risk appetite.
type RiskProfile struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// Profile is the persisted user bio. It is created with defaults on first run
// and only ever mutated additively.
type Profile struct {
	Name           string      `json:"name"`
	RiskProfile    RiskProfile `json:"risk_profile"`
	Interests      []string    `json:"interests"`
	FinancialGoals []string    `json:"financial_goals"`
	Notes          []string    `json:"notes,omitempty"`
}

// DefaultProfile returns the profile written on first run.
func DefaultProfile() Profile {
	return Profile{
		Name:           "User",
		RiskProfile:    RiskProfile{Score: 5, Label: "Moderate"},
		Interests:      []string{},
		FinancialGoals: []string{},
	}
}

// Apply merges a bio update into the profile. A plain note is appended to
// Notes; a field mapping overrides or extends the matching fields. Unknown
// keys are preserved as notes so no model output is silently dropped.
func (p *Profile) Apply(u BioUpdate) {
	if u.Note != "" {
		p.Notes = append(p.Notes, u.Note)
	}
	for _, key := range sortedKeys(u.Fields) {
		val := u.Fields[key]
		switch key {
		case "name":
			if s, ok := val.(string); ok && s != "" {
				p.Name = s
			}
		case "interests":
			p.Interests = append(p.Interests, toStrings(val)...)
		case "financial_goals":
			p.FinancialGoals = append(p.FinancialGoals, toStrings(val)...)
		case "risk_profile":
			if m, ok := val.(map[string]any); ok {
				if score, ok := m["score"].(float64); ok {
					p.RiskProfile.Score = score
				}
				if label, ok := m["label"].(string); ok && label != "" {
					p.RiskProfile.Label = label
				}
			}
		case "notes":
			p.Notes = append(p.Notes, toStrings(val)...)
		default:
			p.Notes = append(p.Notes, fmt.Sprintf("%s: %v", key, val))
		}
	}
}

func toStrings(val any) []string {
	switch v := val.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// map iteration order is random; keep merges deterministic
	sort.Strings(keys)
	return keys
}
