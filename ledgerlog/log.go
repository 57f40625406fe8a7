// Package ledgerlog provides structured logging for the storage core
// using zerolog. It wraps a package-level logger with configurable level
// and output, context-helper constructors that attach the identifiers
// schema operations care about (which schema ran, which transaction,
// which program), and StoreError, which routes a ledgererr.Error to a log
// level derived from its Kind instead of always logging at Error.
package ledgerlog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/ledgertypes"
)

// Logger is the global logger instance, set by Init.
var Logger zerolog.Logger

// Level is a configured log level, accepted as any name zerolog itself
// understands ("trace".."panic"/"disabled"), not just the four this
// package names constants for.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config holds logging configuration.
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
	// Caller adds the calling file:line to every record, whatever its
	// level, the way a store operator wants when chasing a
	// Corrupt/BackendIO error back to the schema call site.
	Caller bool
}

// Init initializes the global logger. An unrecognized Level falls back to
// Info rather than failing startup, since a store is more useful running
// too loud than not running at all.
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(string(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	if !cfg.JSONOutput {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	Logger = ctx.Logger()
}

// WithSchema creates a child logger tagged with the schema that owns the
// operation (e.g. "deployment", "execution", "txstore").
func WithSchema(name string) zerolog.Logger {
	return Logger.With().Str("schema", name).Logger()
}

// WithTransactionID creates a child logger tagged with a transaction ID.
func WithTransactionID(id ledgertypes.TransactionID) zerolog.Logger {
	return Logger.With().Str("transaction_id", id.String()).Logger()
}

// WithProgramID creates a child logger tagged with a program ID.
func WithProgramID(id ledgertypes.ProgramID) zerolog.Logger {
	return Logger.With().Str("program_id", id.String()).Logger()
}

func Info(msg string) { Logger.Info().Msg(msg) }

func Debug(msg string) { Logger.Debug().Msg(msg) }

func Warn(msg string) { Logger.Warn().Msg(msg) }

func Error(msg string) { Logger.Error().Msg(msg) }

func Errorf(msg string, err error) { Logger.Error().Err(err).Msg(msg) }

func Fatal(msg string) { Logger.Fatal().Msg(msg) }

// StoreError logs err at a severity derived from its ledgererr.Kind
// rather than always at Error: NotFound is routine (Debug), WrongKind and
// MalformedInput are caller mistakes worth a Warn, and anything that
// implies the store itself is in a bad state (Corrupt, BackendIO,
// UsageViolation, PartialCommit) is an Error. Errors that don't carry a
// Kind at all (not a *ledgererr.Error) are logged at Error, since an
// unclassified failure is the one most likely to need attention.
func StoreError(logger zerolog.Logger, msg string, err error) {
	kind, ok := ledgererr.Of(err)
	if !ok {
		logger.Error().Err(err).Msg(msg)
		return
	}
	switch kind {
	case ledgererr.NotFound:
		logger.Debug().Err(err).Str("kind", kind.String()).Msg(msg)
	case ledgererr.WrongKind, ledgererr.MalformedInput:
		logger.Warn().Err(err).Str("kind", kind.String()).Msg(msg)
	default:
		logger.Error().Err(err).Str("kind", kind.String()).Msg(msg)
	}
}
