package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the game reads from the environment.
type Config struct {
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	Model        string `env:"STORYTURN_MODEL" envDefault:"gpt-5-2025-08-07"`
	Debug        bool   `env:"DEBUG"`
	DebugLogPath string `env:"STORYTURN_DEBUG_LOG" envDefault:"debug.log"`
	DBPath       string `env:"STORYTURN_DB_PATH" envDefault:"./storyturn.db"`

	NoteDepth   int  `env:"STORYTURN_NOTE_DEPTH" envDefault:"3"`
	NoteDisplay bool `env:"STORYTURN_NOTE_DISPLAY" envDefault:"true"`
	GaugeLimit  int  `env:"STORYTURN_GAUGE_LIMIT" envDefault:"1000"`
	HistorySize int  `env:"STORYTURN_HISTORY_SIZE" envDefault:"12"`

	Tracing TracingConfig
}

type TracingConfig struct {
	Enabled      bool   `env:"OTEL_TRACES_ENABLED"`
	Environment  string `env:"ENVIRONMENT" envDefault:"development"`
	LangfuseHost string `env:"LANGFUSE_HOST" envDefault:"https://cloud.langfuse.com"`
	PublicKey    string `env:"LANGFUSE_PUBLIC_KEY"`
	SecretKey    string `env:"LANGFUSE_SECRET_KEY"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.NoteDepth < 1 || c.NoteDepth >= 10 {
		return fmt.Errorf("STORYTURN_NOTE_DEPTH must be between 1 and 9, got %d", c.NoteDepth)
	}
	if c.GaugeLimit < 1 {
		return fmt.Errorf("STORYTURN_GAUGE_LIMIT must be positive, got %d", c.GaugeLimit)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("STORYTURN_HISTORY_SIZE must be positive, got %d", c.HistorySize)
	}
	return nil
}

// RequireAPIKey is checked only by commands that talk to the narrator.
func (c Config) RequireAPIKey() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("please set OPENAI_API_KEY environment variable")
	}
	return nil
}
