package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger = logger.With(String(FieldComponent, "catalog"))
	logger.Info("placed asset", String("guid", "abc123"), Int("count", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO catalog: placed asset") {
		t.Fatalf("line = %q", line)
	}
	if !strings.Contains(line, "guid=abc123") || !strings.Contains(line, "count=3") {
		t.Fatalf("line = %q", line)
	}
}

func TestConsoleQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Warn("cleanup failed", String("path", "/tmp/with space"))
	if !strings.Contains(buf.String(), `path="/tmp/with space"`) {
		t.Fatalf("line = %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info leaked through warn filter: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warning missing: %q", out)
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("extracted", Int("records", 7))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if payload["msg"] != "extracted" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should disable everything")
	}
	logger.Error("goes nowhere", Error(nil))
}
