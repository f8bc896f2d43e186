package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
	"github.com/contre95/neteaselyrics/src/features/config"
)

// SetupLogger builds the slog logger used across the app. The returned
// handler can be adjusted at runtime with SetLevel.
func SetupLogger(w io.Writer, cfg config.Logger) (*slog.Logger, *log.Logger) {
	var formatter log.Formatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "text":
		formatter = log.TextFormatter
	default:
		formatter = log.LogfmtFormatter
	}

	if !cfg.Enabled {
		w = io.Discard
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "neteaselyrics",
		Formatter:       formatter,
		Level:           ParseLevel(cfg.Level),
	})

	return slog.New(handler), handler
}

// ParseLevel maps a configured level name to a log level. Unknown names
// fall back to info.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
