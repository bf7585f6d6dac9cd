package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log JSON %q: %v", buf.String(), err)
	}
	return entry
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil || logger.Logger == nil {
		t.Fatal("NewLogger() returned an unusable logger")
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"invalid level", "LOUD", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(LevelEnvVar, tt.envValue)
			if level := getLogLevelFromEnv(); level != tt.expected {
				t.Errorf("getLogLevelFromEnv() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestSessionID(t *testing.T) {
	t.Run("generated IDs are unique and 16 chars", func(t *testing.T) {
		id1 := GenerateSessionID()
		id2 := GenerateSessionID()
		if id1 == id2 {
			t.Error("GenerateSessionID() returned duplicate IDs")
		}
		if len(id1) != 16 {
			t.Errorf("GenerateSessionID() length = %d, want 16", len(id1))
		}
	})

	t.Run("round trip through context", func(t *testing.T) {
		ctx := WithSessionID(context.Background(), "scene-1")
		if got := GetSessionID(ctx); got != "scene-1" {
			t.Errorf("GetSessionID() = %q, want %q", got, "scene-1")
		}
	})

	t.Run("empty ID is generated", func(t *testing.T) {
		ctx := WithSessionID(context.Background(), "")
		if got := GetSessionID(ctx); len(got) != 16 {
			t.Errorf("auto-generated session ID %q has wrong length", got)
		}
	})

	t.Run("missing ID", func(t *testing.T) {
		if got := GetSessionID(context.Background()); got != "" {
			t.Errorf("GetSessionID() = %q, want empty", got)
		}
	})
}

func TestLoggerMethods(t *testing.T) {
	t.Setenv(LevelEnvVar, "DEBUG")
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)
	ctx := WithSessionID(context.Background(), "abc")

	tests := []struct {
		name  string
		log   func()
		level string
	}{
		{"info", func() { logger.Info(ctx, "built", "bodies", 8) }, "INFO"},
		{"warn", func() { logger.Warn(ctx, "texture missing") }, "WARN"},
		{"debug", func() { logger.Debug(ctx, "frame") }, "DEBUG"},
		{"error", func() { logger.Error(ctx, "teardown", errors.New("boom")) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log()
			entry := decodeEntry(t, &buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["session_id"] != "abc" {
				t.Errorf("session_id = %v, want abc", entry["session_id"])
			}
		})
	}

	t.Run("error attribute", func(t *testing.T) {
		buf.Reset()
		logger.Error(ctx, "teardown", errors.New("boom"))
		if entry := decodeEntry(t, &buf); entry["error"] != "boom" {
			t.Errorf("error = %v, want boom", entry["error"])
		}
	})
}

func TestWithAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf).With("component", "scene")
	logger.Info(context.Background(), "hello")

	if entry := decodeEntry(t, &buf); entry["component"] != "scene" {
		t.Errorf("component = %v, want scene", entry["component"])
	}
}

func TestRoundFloats(t *testing.T) {
	a := roundFloats(nil, slog.Float64("dt", 0.016666666666))
	if a.Value.String() != "0.01667" {
		t.Errorf("roundFloats() = %q, want 0.01667", a.Value.String())
	}

	s := roundFloats(nil, slog.String("name", "Earth"))
	if s.Value.String() != "Earth" {
		t.Errorf("non-float attribute changed to %q", s.Value.String())
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	original := errors.New("original error")
	wrapped := WrapError(original, "loading %s", "Earth")
	if wrapped.Error() != "loading Earth: original error" {
		t.Errorf("WrapError() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, original) {
		t.Error("WrapError() should preserve the original error")
	}
}

func TestLogWithoutSessionID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)
	logger.Info(context.Background(), "no session")

	if strings.Contains(buf.String(), "session_id") {
		t.Error("record should not carry session_id when none is set")
	}
}
