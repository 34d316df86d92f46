package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/financier-dev/financier/internal/advisor"
	"github.com/financier-dev/financier/internal/auditlog"
	"github.com/financier-dev/financier/internal/classifier"
	"github.com/financier-dev/financier/internal/config"
	"github.com/financier-dev/financier/internal/cycle"
	"github.com/financier-dev/financier/internal/gemini"
	"github.com/financier-dev/financier/internal/ledger"
	"github.com/financier-dev/financier/internal/profile"
	"github.com/financier-dev/financier/internal/voice"
)

// app holds everything a command needs after configuration is resolved.
type app struct {
	cfg     *config.Config
	dataDir string
	log     zerolog.Logger
	orch    *cycle.Orchestrator
	ledger  *ledger.Service
}

// newApp loads financier.yaml from dir and wires the pipeline.
func newApp(dir string) (*app, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(absDir, dataDir)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("no Gemini API key configured; set GOOGLE_API_KEY or gemini.api_key in financier.yaml")
	}
	if cfg.Voice.APIKey == "" {
		log.Debug().Msg("no ElevenLabs API key configured; voice features disabled")
	}

	client := gemini.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout())
	bridge := voice.NewBridge(cfg.Voice.BaseURL, cfg.Voice.APIKey, cfg.Voice.VoiceID, cfg.Voice.Timeout())
	ledgerSvc := ledger.NewService(dataDir)

	orch := cycle.New(cycle.Deps{
		Profiles:   profile.NewStore(dataDir),
		Ledger:     ledgerSvc,
		Audit:      auditlog.NewService(dataDir),
		Classifier: classifier.New(client),
		Advisor:    advisor.New(client),
		Voice:      bridge,
		DataDir:    dataDir,
		Window:     cfg.Advisor.Window,
		Log:        log,
	})

	return &app{cfg: cfg, dataDir: dataDir, log: log, orch: orch, ledger: ledgerSvc}, nil
}
