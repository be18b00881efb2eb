package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_DisabledOnlyReports(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(false, zap.New(core))

	l.Printf("hidden %d", 1)
	l.Println("hidden")
	l.Report("Invalid Author's Note Depth passed: /and 12")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "Invalid Author's Note Depth passed: /and 12", entries[0].Message)
	assert.Equal(t, "directive", entries[0].ContextMap()["component"])
}

func TestLogger_EnabledWritesDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(true, zap.New(core))

	l.Printf("turn %d", 4)
	l.Println("done")

	assert.True(t, l.IsEnabled())
	assert.Equal(t, 2, logs.FilterLevelExact(zapcore.DebugLevel).Len())
	assert.Equal(t, "turn 4", logs.All()[0].Message)
}

func TestLogger_NilIsSafe(t *testing.T) {
	var l *Logger

	assert.False(t, l.IsEnabled())
	l.Printf("ignored")
	l.Report("ignored")
	assert.NoError(t, l.Sync())
}

func TestNewLogger_WritesFile(t *testing.T) {
	path := t.TempDir() + "/debug.log"
	l := NewLogger(true, path)

	l.Printf("hello")
	_ = l.Sync()

	assert.FileExists(t, path)
}
