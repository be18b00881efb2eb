package debug

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const DefaultLogFile = "debug.log"

// Logger writes debug output to a file when enabled. Rejected directives are
// always recorded through Report, even with debug output off.
type Logger struct {
	enabled bool
	zap     *zap.SugaredLogger
}

func NewLogger(enabled bool, path string) *Logger {
	if path == "" {
		path = DefaultLogFile
	}

	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if enabled {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	base, err := config.Build()
	if err != nil {
		base = zap.NewNop()
	}

	l := &Logger{enabled: enabled, zap: base.Sugar()}
	if enabled {
		l.zap.Debug("=== DEBUG MODE ENABLED ===")
	}
	return l
}

// NewWithCore wraps an existing zap logger.
func NewWithCore(enabled bool, base *zap.Logger) *Logger {
	return &Logger{enabled: enabled, zap: base.Sugar()}
}

func (d *Logger) IsEnabled() bool {
	return d != nil && d.enabled
}

func (d *Logger) Printf(format string, args ...interface{}) {
	if d.IsEnabled() {
		d.zap.Debugf(format, args...)
	}
}

func (d *Logger) Println(args ...interface{}) {
	if d.IsEnabled() {
		d.zap.Debug(fmt.Sprint(args...))
	}
}

// Report records a rejected directive.
func (d *Logger) Report(message string) {
	if d == nil {
		return
	}
	d.zap.Warnw(message, "component", "directive")
}

func (d *Logger) Sync() error {
	if d == nil {
		return nil
	}
	return d.zap.Sync()
}
