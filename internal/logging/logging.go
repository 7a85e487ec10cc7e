// Package logging sets up the zerolog logger shared across the hub,
// the NATS bridge, and the demo binary.
package logging

import (
	"os"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type Format string

const (
	FormatJSON   Format = "json"
	FormatPretty Format = "pretty"
)

type Config struct {
	Level   Level
	Format  Format
	Service string
}

// New builds a zerolog.Logger per Config. Pretty format uses a
// console writer for local development; anything else falls back to
// JSON on stdout, which is what the demo binary runs with in
// production.
func New(cfg Config) zerolog.Logger {
	var writer = os.Stdout
	var output zerolog.ConsoleWriter
	useConsole := cfg.Format == FormatPretty

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	base := zerolog.New(writer)
	if useConsole {
		output = zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"}
		base = zerolog.New(output)
	}

	service := cfg.Service
	if service == "" {
		service = "multichannel"
	}

	return base.With().Timestamp().Caller().Str("service", service).Logger()
}

func parseLevel(l Level) zerolog.Level {
	switch Level(strings.ToLower(string(l))) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// InitGlobal installs logger as the package-level log.Logger used by
// log.Info()/log.Error() call sites and anything that only has access
// to the global logger (e.g. library code that predates DI).
func InitGlobal(logger zerolog.Logger) {
	log.Logger = logger
}

// Error logs err with the given message and arbitrary structured
// fields, e.g. Error(logger, err, "push failed", map[string]any{"channel": id}).
func Error(logger zerolog.Logger, err error, msg string, fields map[string]interface{}) {
	ev := logger.Error().Err(err)
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// ErrorWithStack is Error plus a captured stack trace, for errors
// surfaced from a recover() or otherwise worth a full trace.
func ErrorWithStack(logger zerolog.Logger, err error, msg string, fields map[string]interface{}) {
	ev := logger.Error().Err(err).Str("stack", string(debug.Stack()))
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Panic logs a recovered panic value with its stack trace.
func Panic(logger zerolog.Logger, recovered interface{}, msg string) {
	logger.Error().
		Interface("panic", recovered).
		Str("stack", string(debug.Stack())).
		Msg(msg)
}
