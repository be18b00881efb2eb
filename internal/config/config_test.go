package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.NoteDepth)
	assert.True(t, cfg.NoteDisplay)
	assert.Equal(t, 1000, cfg.GaugeLimit)
	assert.Equal(t, 12, cfg.HistorySize)
	assert.Equal(t, "./storyturn.db", cfg.DBPath)
	assert.Equal(t, "https://cloud.langfuse.com", cfg.Tracing.LangfuseHost)
	assert.Error(t, cfg.RequireAPIKey())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DEBUG", "true")
	t.Setenv("STORYTURN_NOTE_DEPTH", "7")
	t.Setenv("STORYTURN_NOTE_DISPLAY", "false")
	t.Setenv("OTEL_TRACES_ENABLED", "true")
	t.Setenv("ENVIRONMENT", "staging")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 7, cfg.NoteDepth)
	assert.False(t, cfg.NoteDisplay)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "staging", cfg.Tracing.Environment)
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Run("depth out of range", func(t *testing.T) {
		t.Setenv("STORYTURN_NOTE_DEPTH", "10")
		_, err := Load()
		assert.ErrorContains(t, err, "STORYTURN_NOTE_DEPTH")
	})

	t.Run("not a number", func(t *testing.T) {
		t.Setenv("STORYTURN_GAUGE_LIMIT", "lots")
		_, err := Load()
		assert.ErrorContains(t, err, "parse env")
	})
}
