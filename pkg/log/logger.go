// Package log provides structured logging for goboost, backed by zerolog.
//
// Estimators obtain a named logger and emit training progress as structured
// events:
//
//	logger := log.GetLoggerWithName("gbdt.ensemble")
//	logger.Info("training started", "rounds", 100, "samples", 1000)
package log

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is the minimal structured logging interface used across goboost.
// Fields are alternating key/value pairs, slog style.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	l.zl.Error().Fields(fields).Msg(msg)
}

func (l *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(fields).Logger()}
}

var (
	mu            sync.RWMutex
	defaultLogger Logger
)

func init() {
	zl := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	defaultLogger = &zerologLogger{zl: zl}
}

// GetLogger returns the default logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// GetLoggerWithName returns the default logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With("component", name)
}

// SetLogger replaces the default logger. Useful for tests and for
// applications that want a different backend or level.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// SetLevel sets the level of the default zerolog-backed logger. It has no
// effect if the default logger has been replaced via SetLogger.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	if zl, ok := defaultLogger.(*zerologLogger); ok {
		defaultLogger = &zerologLogger{zl: zl.zl.Level(level)}
	}
}
