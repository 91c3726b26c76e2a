package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger
	return buf.String()
}

// captureLogOutputWithInit captures output by pointing the package output
// at a buffer and reinitializing. This exercises the InitLogger ReplaceAttr logic.
func captureLogOutputWithInit(level Level, format Format, f func()) string {
	var buf bytes.Buffer
	oldOutput := output
	output = &buf

	InitLogger(level, format)
	f()

	output = oldOutput
	InitLogger(LevelInfo, FormatText)
	return buf.String()
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
	}{
		{"Debug level JSON format", LevelDebug, FormatJSON},
		{"Info level JSON format", LevelInfo, FormatJSON},
		{"Warn level JSON format", LevelWarn, FormatJSON},
		{"Error level JSON format", LevelError, FormatJSON},
		{"Info level Text format", LevelInfo, FormatText},
		{"Debug level Text format", LevelDebug, FormatText},
		{"Default level (invalid value)", Level(999), FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level, tt.format)
			if GetLogger() == nil {
				t.Error("Expected logger to be initialized, got nil")
			}
		})
	}
	InitLogger(LevelInfo, FormatText)
}

func TestInitLogger_LevelFilters(t *testing.T) {
	out := captureLogOutputWithInit(LevelWarn, FormatText, func() {
		Info("hidden")
		Warn("shown")
	})
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn record missing")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"text", FormatText, false},
		{"", FormatText, false},
		{"xml", FormatText, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, LevelDebug, FormatJSON)
	log.Debug("private", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"private"`) {
		t.Errorf("NewLogger output = %q", buf.String())
	}
	if GetLogger() == log {
		t.Error("NewLogger replaced the global logger")
	}
}

func TestRunID(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-123")
	if got := GetRunID(ctx); got != "run-123" {
		t.Errorf("GetRunID = %q, want %q", got, "run-123")
	}
	if got := GetRunID(context.Background()); got != "" {
		t.Errorf("GetRunID on empty context = %q", got)
	}
	if got := GetRunID(context.WithValue(context.Background(), RunIDKey, 42)); got != "" {
		t.Errorf("GetRunID with wrong type = %q", got)
	}
}

func TestLoggingFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"Debug", func() { Debug("debug message", "key", "value") }},
		{"Info", func() { Info("info message", "key", "value") }},
		{"Warn", func() { Warn("warning message", "key", "value") }},
		{"Error", func() { Error("error message", "key", "value") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if output := captureLogOutput(tt.fn); output == "" {
				t.Error("Expected log output, got empty string")
			}
		})
	}
}

func TestContextLoggingFunctions(t *testing.T) {
	ctx := WithRunID(context.Background(), "test-run-id")

	tests := []struct {
		name string
		fn   func()
	}{
		{"DebugContext", func() { DebugContext(ctx, "debug message", "key", "value") }},
		{"InfoContext", func() { InfoContext(ctx, "info message", "key", "value") }},
		{"WarnContext", func() { WarnContext(ctx, "warning message", "key", "value") }},
		{"ErrorContext", func() { ErrorContext(ctx, "error message", "key", "value") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput(tt.fn)
			if !strings.Contains(output, "test-run-id") {
				t.Errorf("Expected output to contain run ID, got %q", output)
			}
		})
	}
}

func TestDocumentParsed(t *testing.T) {
	output := captureLogOutput(func() {
		DocumentParsed(context.Background(), "0255Jahiz.Hayawan", 3, 120, 15*time.Millisecond, "rule_misses", 2)
	})
	for _, want := range []string{"document_parsed", "0255Jahiz.Hayawan", `"content":120`, `"duration_ms":15`, "rule_misses"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestParseFailure(t *testing.T) {
	output := captureLogOutput(func() {
		ParseFailure(context.Background(), "bad.txt", errors.New("missing sentinel"))
	})
	if !strings.Contains(output, "parse_failure") || !strings.Contains(output, "missing sentinel") {
		t.Errorf("output = %s", output)
	}
	if !strings.Contains(output, `"level":"ERROR"`) {
		t.Errorf("parse failure not logged at error level: %s", output)
	}
}

func TestBatchItem(t *testing.T) {
	ctx := WithRunID(context.Background(), "r1")
	ok := captureLogOutput(func() {
		BatchItem(ctx, 1, 10, "https://example.org/a.mARkdown", nil)
	})
	if !strings.Contains(ok, `"level":"INFO"`) || !strings.Contains(ok, "r1") {
		t.Errorf("success output = %s", ok)
	}

	failed := captureLogOutput(func() {
		BatchItem(ctx, 2, 10, "https://example.org/b.mARkdown", errors.New("timeout"))
	})
	if !strings.Contains(failed, `"level":"WARN"`) || !strings.Contains(failed, "timeout") {
		t.Errorf("failure output = %s", failed)
	}
}

func TestStoreEvent(t *testing.T) {
	output := captureLogOutput(func() {
		StoreEvent(context.Background(), "save", "doc-1", "nodes", 4)
	})
	for _, want := range []string{"store_event", `"event":"save"`, "doc-1", `"nodes":4`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestReplaceAttrTimestamp(t *testing.T) {
	output := captureLogOutputWithInit(LevelInfo, FormatJSON, func() {
		Info("timestamp test")
	})

	if !strings.Contains(output, "timestamp test") {
		t.Error("Expected output to contain test message")
	}
	// RFC3339 has no fractional seconds.
	start := strings.Index(output, `"time":"`)
	if start < 0 {
		t.Fatalf("no time field in %s", output)
	}
	rest := output[start+len(`"time":"`):]
	ts := rest[:strings.IndexByte(rest, '"')]
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", ts, err)
	}
	if strings.Contains(ts, ".") {
		t.Errorf("timestamp %q carries fractional seconds", ts)
	}
}

func TestReplaceAttrNonTimestamp(t *testing.T) {
	output := captureLogOutputWithInit(LevelInfo, FormatJSON, func() {
		Info("test message", "custom_key", "custom_value", "number", 42)
	})
	if !strings.Contains(output, "custom_key") || !strings.Contains(output, "custom_value") {
		t.Errorf("Expected custom attributes, got %s", output)
	}

	output = captureLogOutputWithInit(LevelInfo, FormatText, func() {
		Info("test message text", "key", "value")
	})
	if !strings.Contains(output, "test message text") {
		t.Error("Expected output to contain test message")
	}
}

func TestInit(t *testing.T) {
	if defaultLogger == nil {
		t.Error("Expected defaultLogger to be initialized by init()")
	}
}

func TestContextKeyType(t *testing.T) {
	if RunIDKey != "run_id" {
		t.Errorf("Expected RunIDKey to be 'run_id', got '%s'", RunIDKey)
	}
}

func TestLevelConstants(t *testing.T) {
	if LevelDebug >= LevelInfo {
		t.Error("Expected LevelDebug < LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("Expected LevelInfo < LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("Expected LevelWarn < LevelError")
	}
}
