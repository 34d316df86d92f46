// Package config loads the financier.yaml configuration. There is no hidden
// process-wide lookup: a *Config is built once at startup and handed to each
// component's constructor.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name.
const FileName = "financier.yaml"

// Config is the top-level financier.yaml configuration.
type Config struct {
	DataDir string        `yaml:"data_dir"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Voice   VoiceConfig   `yaml:"voice"`
	Advisor AdvisorConfig `yaml:"advisor"`
}

// GeminiConfig selects the language-model endpoint.
type GeminiConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout bounds each language-model call.
func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// VoiceConfig selects the speech bridge. An empty API key disables it.
type VoiceConfig struct {
	APIKey         string `yaml:"api_key"`
	VoiceID        string `yaml:"voice_id"`
	BaseURL        string `yaml:"base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout bounds each speech call.
func (v VoiceConfig) Timeout() time.Duration {
	return time.Duration(v.TimeoutSeconds) * time.Second
}

// AdvisorConfig tunes the reasoning stage.
type AdvisorConfig struct {
	// Window is how many recent ledger entries are passed as context.
	Window int `yaml:"window"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		DataDir: "data",
		Gemini: GeminiConfig{
			Model:          "gemini-1.5-flash",
			TimeoutSeconds: 30,
		},
		Voice: VoiceConfig{
			TimeoutSeconds: 30,
		},
		Advisor: AdvisorConfig{
			Window: 5,
		},
	}
}

// Load reads financier.yaml, falling back to defaults when the file is
// absent. Environment variables GOOGLE_API_KEY, GOOGLE_MODEL, and
// ELEVENLABS_API_KEY override file values so secrets can stay out of the
// file.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(cfg)
	fillDefaults(cfg)
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GOOGLE_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		cfg.Voice.APIKey = v
	}
}

func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = def.Gemini.Model
	}
	if cfg.Gemini.TimeoutSeconds <= 0 {
		cfg.Gemini.TimeoutSeconds = def.Gemini.TimeoutSeconds
	}
	if cfg.Voice.TimeoutSeconds <= 0 {
		cfg.Voice.TimeoutSeconds = def.Voice.TimeoutSeconds
	}
	if cfg.Advisor.Window <= 0 {
		cfg.Advisor.Window = def.Advisor.Window
	}
}
