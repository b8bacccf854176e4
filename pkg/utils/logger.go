package utils

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

// Verbosity is the amount of console logging requested on the command line.
type Verbosity int

const (
	VerbosityNormal Verbosity = iota
	VerbositySilent
	VerbosityVerbose
	VerbosityDebug
)

// VerbosityFromFlags resolves the --silent, --verbose and --debug switches.
// The most talkative switch wins.
func VerbosityFromFlags(silent, verbose, debug bool) Verbosity {
	switch {
	case debug:
		return VerbosityDebug
	case verbose:
		return VerbosityVerbose
	case silent:
		return VerbositySilent
	default:
		return VerbosityNormal
	}
}

// NewLogger builds the structured logger handed to every service.
// Records are rendered by charmbracelet/log so levels get the same colors as the rest of the CLI.
func NewLogger(w io.Writer, v Verbosity) *slog.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           log.InfoLevel,
	}

	switch v {
	case VerbositySilent:
		opts.Level = log.ErrorLevel
	case VerbosityVerbose:
		opts.Level = log.DebugLevel
	case VerbosityDebug:
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}

	return slog.New(log.NewWithOptions(w, opts))
}

// OrDiscard returns logger, or a logger that drops everything when it is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
