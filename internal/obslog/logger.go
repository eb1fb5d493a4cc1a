// Package obslog provides the structured logger used by the run
// entrypoint (cmd/whsim) and the sweep runner (tools/sweep).
package obslog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the narrow logging capability consumed by the rest of the
// module. Components depend on this interface, never on zerolog directly.
type Logger interface {
	Debugf(format string, args ...any)
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// New creates a ZerologLogger scoped to component. verbose selects a
// human-readable console writer (for interactive runs); non-verbose emits
// compact JSON lines suitable for capture by a sweep runner. The core
// never consults environment variables to make this choice — callers
// (cmd/whsim, tools/sweep) decide and pass it explicitly.
func New(component string, verbose bool) Logger {
	var z zerolog.Logger
	if verbose {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		z = zerolog.New(writer).With().Timestamp().Str("component", component).Logger()
		z = z.Level(zerolog.DebugLevel)
	} else {
		z = zerolog.New(os.Stdout).With().Timestamp().Str("component", component).Logger()
		z = z.Level(zerolog.InfoLevel)
	}
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

// NopLogger implements Logger with no-op methods, for tests that don't
// care about log output.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}
