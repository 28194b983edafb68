package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output %q: %v", buf.String(), err)
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("json") != FormatJSON {
		t.Error("expected json to parse as FormatJSON")
	}
	if ParseFormat("JSON") != FormatJSON {
		t.Error("expected JSON to parse as FormatJSON")
	}
	if ParseFormat("text") != FormatText || ParseFormat("") != FormatText {
		t.Error("expected text and empty to parse as FormatText")
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelDebug, FormatJSON)

	l.Info("write accepted", "path", "/a/b", "domid", 7, "error", errors.New("boom"))

	entry := decodeEntry(t, &buf)
	if entry["level"] != "info" {
		t.Errorf("expected level=info, got %v", entry["level"])
	}
	if entry["msg"] != "write accepted" {
		t.Errorf("expected msg='write accepted', got %v", entry["msg"])
	}
	if entry["path"] != "/a/b" {
		t.Errorf("expected path=/a/b, got %v", entry["path"])
	}
	if entry["domid"] != float64(7) {
		t.Errorf("expected domid=7, got %v", entry["domid"])
	}
	if entry["error"] != "boom" {
		t.Errorf("expected error rendered as message, got %v", entry["error"])
	}
}

func TestLoggerText(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelDebug, FormatText)

	l.Warn("quota", "zeta", 1, "alpha", 2)

	output := buf.String()
	if !strings.Contains(output, "[warn] quota") {
		t.Errorf("expected level and message in output, got: %s", output)
	}
	alpha := strings.Index(output, "alpha=2")
	zeta := strings.Index(output, "zeta=1")
	if alpha < 0 || zeta < 0 || alpha > zeta {
		t.Errorf("expected sorted fields alpha before zeta, got: %s", output)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelWarn, FormatText)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("messages below warn should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "warn message") || !strings.Contains(output, "error message") {
		t.Errorf("warn and error messages should be present, got: %s", output)
	}
}

func TestLoggerWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelDebug, FormatJSON)

	l.WithRequestID("req-123").Info("test message")

	entry := decodeEntry(t, &buf)
	if entry["request_id"] != "req-123" {
		t.Errorf("expected request_id=req-123, got %v", entry["request_id"])
	}
}

func TestLoggerWithFieldsIsolation(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelDebug, FormatJSON)

	child := l.WithFields("domid", 3)

	l.Info("parent message")
	parent := decodeEntry(t, &buf)
	if _, ok := parent["domid"]; ok {
		t.Error("parent logger should not have child's fields")
	}

	buf.Reset()
	child.Info("child message")
	entry := decodeEntry(t, &buf)
	if entry["domid"] != float64(3) {
		t.Errorf("child logger should carry domid=3, got %v", entry["domid"])
	}
}

func TestLoggerOddArguments(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelDebug, FormatJSON)

	l.Info("odd", "key", "value", "dangling", 42, "also")

	entry := decodeEntry(t, &buf)
	if entry["key"] != "value" {
		t.Errorf("expected key=value, got %v", entry["key"])
	}
	if _, ok := entry["also"]; ok {
		t.Error("trailing key without value should be dropped")
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNop()

	l.Debug("test")
	l.Info("test")
	l.Warn("test")
	l.Error("test")

	if l.WithRequestID("req-123") == nil {
		t.Error("WithRequestID returned nil")
	}
	if l.WithFields("key", "value") == nil {
		t.Error("WithFields returned nil")
	}
}

func TestNewFileOutput(t *testing.T) {
	path := t.TempDir() + "/xenstore.log"
	l := New(Config{Level: "debug", Format: "text", Output: path})
	l.Debug("to file")
}
