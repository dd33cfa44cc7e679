// Package log provides structured logging for machine learning operations,
// backed by github.com/rs/zerolog.
//
// Loggers are obtained per component and carry structured key/value fields
// using the standard attribute keys defined in attributes.go:
//
//	logger := log.GetLoggerWithName("ftrl").With(
//		log.ModelNameKey, "FTRL",
//		log.ComponentKey, "ftrl",
//	)
//	logger.Info("Training started",
//		log.OperationKey, log.OperationFit,
//		log.SamplesKey, nrows,
//	)
//
// Logging is disabled by default so that library users opt in explicitly
// via Init or SetLevel.
package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the structured logging interface used throughout the library.
// Key/value pairs are passed variadically: key1, value1, key2, value2, ...
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})

	// With returns a child logger with the given fields attached to every
	// message.
	With(keysAndValues ...interface{}) Logger
}

var base zerolog.Logger

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	base = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Init enables console logging at the given level. Intended for binaries
// (cmd/ftrl, examples); libraries should leave logging to the caller.
func Init(level zerolog.Level) {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	zerolog.SetGlobalLevel(level)
	base = zerolog.New(output).With().Timestamp().Logger()
}

// SetLevel changes the global log level without touching the output format.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// GetLogger returns the root logger.
func GetLogger() Logger {
	return &zeroLogger{zl: base}
}

// GetLoggerWithName returns a logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return &zeroLogger{zl: base.With().Str("logger", name).Logger()}
}

type zeroLogger struct {
	zl zerolog.Logger
}

func (l *zeroLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.zl.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *zeroLogger) Info(msg string, keysAndValues ...interface{}) {
	l.zl.Info().Fields(keysAndValues).Msg(msg)
}

func (l *zeroLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.zl.Warn().Fields(keysAndValues).Msg(msg)
}

func (l *zeroLogger) Error(msg string, keysAndValues ...interface{}) {
	l.zl.Error().Fields(keysAndValues).Msg(msg)
}

func (l *zeroLogger) With(keysAndValues ...interface{}) Logger {
	return &zeroLogger{zl: l.zl.With().Fields(keysAndValues).Logger()}
}
