// Package log builds slog handlers for the CLI.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/muesli/termenv"

	charmlog "github.com/charmbracelet/log"
)

// Format selects the log output encoding.
type Format string

const (
	FormatText   Format = "text"
	FormatLogfmt Format = "logfmt"
	FormatJSON   Format = "json"
)

var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")

	// AllFormats lists the accepted --log-format values.
	AllFormats = []string{string(FormatText), string(FormatLogfmt), string(FormatJSON)}

	// AllLevels lists the accepted --log-level values.
	AllLevels = []string{"error", "warn", "info", "debug"}
)

// NewHandler creates a [slog.Handler] writing to w, from the string forms of
// level and format as passed on the command line.
func NewHandler(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	switch Format(strings.ToLower(format)) {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}), nil

	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}), nil

	case FormatText:
		return newCharmHandler(w, lvl), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ParseLevel converts a level name to a [slog.Level].
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}

func newCharmHandler(w io.Writer, level slog.Level) slog.Handler {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(level),
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.StampMilli,
	})
	logger.SetColorProfile(termenv.ColorProfile())

	return logger
}
