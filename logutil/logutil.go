// Package logutil builds the zerolog.Logger used throughout hexsolve.
//
// Grounded on the teacher's cmd/shell/main.go console-writer setup:
// same uppercase-bracketed level formatting, same timestamp-on writer,
// but returned by value to the caller instead of assigned to
// zerolog.DefaultContextLogger / log.Logger — SPEC_FULL.md §9 carries
// the teacher's "no global mutable state" design note into logging
// too, so every constructor in this module (ttable.New, the CLI's
// controller) takes a zerolog.Logger value explicitly rather than reaching
// for a package-level logger.
package logutil

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console-formatted logger writing to w at the given
// level. debug additionally lowers the level floor to zerolog.DebugLevel
// regardless of level, matching the teacher's cfg.GetBool("debug") gate.
func New(w io.Writer, level zerolog.Level, debug bool) zerolog.Logger {
	if debug {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything, for callers (tests,
// library consumers that supply their own sink) that don't want
// hexsolve's own log lines.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
