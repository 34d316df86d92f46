// Package cycle sequences one user turn: capture, classification, state
// mutation, reasoning, and logging. A failure at any stage produces a
// degraded value and the pipeline proceeds; a cycle never aborts once
// started — a partial, annotated result beats silence.
package cycle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/financier-dev/financier/internal/advisor"
	"github.com/financier-dev/financier/internal/auditlog"
	"github.com/financier-dev/financier/internal/classifier"
	"github.com/financier-dev/financier/internal/id"
	"github.com/financier-dev/financier/internal/ledger"
	"github.com/financier-dev/financier/internal/model"
	"github.com/financier-dev/financier/internal/profile"
	"github.com/financier-dev/financier/internal/voice"
)

// Fixed labels stamped on every decision record.
const (
	RationaleLabel = "Analyzed via probabilistic reasoning engine"
	ImpactLabel    = "Projected 12-month wealth adjustment"
)

// DefaultWindow is how many recent ledger entries the advisor sees.
const DefaultWindow = 5

// Deps wires the orchestrator's collaborators. Every field except Voice is
// required.
type Deps struct {
	Profiles   *profile.Store
	Ledger     *ledger.Service
	Audit      *auditlog.Service
	Classifier *classifier.Classifier
	Advisor    *advisor.Advisor
	Voice      *voice.Bridge // optional; nil or unconfigured skips speech
	DataDir    string
	Window     int
	Log        zerolog.Logger
}

// Orchestrator runs one cycle at a time. It is not safe for concurrent
// cycles: the flat files underneath have no isolation, so callers must
// serialize.
type Orchestrator struct {
	deps Deps
}

// New creates an Orchestrator.
func New(deps Deps) *Orchestrator {
	if deps.Window <= 0 {
		deps.Window = DefaultWindow
	}
	return &Orchestrator{deps: deps}
}

// Run executes one full cycle and returns the advice text — either real
// advice or a clearly-labeled error string, never nothing.
func (o *Orchestrator) Run(ctx context.Context, input string) string {
	d := o.deps
	now := time.Now()

	// Capture: transcribe when the input names an audio file, pass text
	// through otherwise.
	text := input
	if voice.IsAudioPath(input) {
		d.Log.Info().Str("stage", "transcribe").Str("file", input).Msg("transcribing audio input")
		transcribed, err := d.Voice.Transcribe(ctx, input)
		if err != nil {
			d.Log.Warn().Str("stage", "transcribe").Err(err).Msg("transcription failed, continuing with empty input")
			text = ""
		} else {
			text = transcribed
		}
	}

	// The raw text goes to the interaction trail before classification,
	// regardless of what classification makes of it.
	if err := d.Audit.AppendInteraction(model.SpeakerUser, text); err != nil {
		d.Log.Warn().Str("stage", "classify").Err(err).Msg("recording interaction failed")
	}

	cls, err := d.Classifier.Classify(ctx, text)
	if err != nil {
		d.Log.Warn().Str("stage", "classify").Err(err).Msg("classification failed, using fallback")
		cls = model.FallbackClassification()
	} else {
		d.Log.Info().Str("stage", "classify").Bool("fluff", cls.Fluff).
			Bool("structured", cls.Structured != nil).Msg("input classified")
	}

	// Update records.
	if cls.Structured != nil {
		entry := model.Entry{
			Timestamp:   now,
			Type:        cls.Structured.Type,
			Category:    cls.Structured.Category,
			Amount:      cls.Structured.Amount,
			Description: "Extracted from: " + text,
			IsNecessary: !cls.Fluff,
		}
		if err := d.Ledger.Append(entry); err != nil {
			d.Log.Warn().Str("stage", "update").Err(err).Msg("recording transaction failed")
		} else {
			d.Log.Info().Str("stage", "update").Str("category", entry.Category).Msg("transaction recorded")
		}
	}

	if cls.BioUpdate != nil {
		p, err := d.Profiles.Load()
		if err != nil {
			d.Log.Warn().Str("stage", "update").Err(err).Msg("loading profile failed")
		}
		p.Apply(*cls.BioUpdate)
		if err := d.Profiles.Save(p); err != nil {
			d.Log.Warn().Str("stage", "update").Err(err).Msg("saving profile failed")
		} else {
			d.Log.Info().Str("stage", "update").Msg("profile updated")
		}
	}

	// Reason over the recent window plus the stored profile and the market
	// context.
	advice, err := d.Advisor.Advise(ctx, text, o.snapshot())
	if err != nil {
		d.Log.Warn().Str("stage", "reason").Err(err).Msg("reasoning failed, returning error string as advice")
		advice = fmt.Sprintf("Error computing risk logic: %v", err)
	}

	// Log the decision; speech synthesis is fire-and-forget — its failure
	// must not affect the returned advice.
	decision := model.Decision{
		ID:        id.FormatDecisionID(now),
		Timestamp: now,
		Trigger:   text,
		Advice:    advice,
		Rationale: RationaleLabel,
		Impact:    ImpactLabel,
	}
	if err := d.Audit.AppendDecision(decision); err != nil {
		d.Log.Warn().Str("stage", "log").Err(err).Msg("recording decision failed")
	}

	if d.Voice.Enabled() {
		if path, err := d.Voice.Speak(ctx, d.DataDir, advice); err != nil {
			d.Log.Warn().Str("stage", "log").Err(err).Msg("speech synthesis failed")
		} else {
			d.Log.Info().Str("stage", "log").Str("file", path).Msg("advice spoken")
		}
	}

	if err := d.Audit.AppendInteraction(model.SpeakerSystem, advice); err != nil {
		d.Log.Warn().Str("stage", "log").Err(err).Msg("recording advice failed")
	}

	return advice
}

func (o *Orchestrator) snapshot() advisor.Snapshot {
	d := o.deps

	profileJSON := "{}"
	if p, err := d.Profiles.Load(); err == nil {
		if data, err := json.Marshal(p); err == nil {
			profileJSON = string(data)
		}
	}

	return advisor.Snapshot{
		ProfileJSON: profileJSON,
		Market:      d.Audit.MarketContext(),
		Recent:      d.Ledger.ReadRecent(d.Window),
	}
}
