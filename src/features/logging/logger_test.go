package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/contre95/neteaselyrics/src/features/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.InfoLevel,
		"verbose": log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupLogger_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, handler := SetupLogger(&buf, config.Logger{Enabled: true, Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("lookup failed", "provider", "netease")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the warning to be logged, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if entry["msg"] != "lookup failed" || entry["provider"] != "netease" {
		t.Errorf("unexpected entry: %v", entry)
	}

	buf.Reset()
	handler.SetLevel(log.DebugLevel)
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("expected level change to apply to the slog logger")
	}
}

func TestSetupLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := SetupLogger(&buf, config.Logger{Enabled: false, Level: "debug"})

	logger.Error("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
