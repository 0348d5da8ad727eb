package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestNewWithWriter_TagsService(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter("mailer", "info", &buf).Info("hello")

	out := decodeLine(t, &buf)
	assert.Equal(t, "mailer", out["service"])
	assert.Equal(t, "hello", out["msg"])
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("mailer", "warn", &buf)
	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"ERROR":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestWithContext_RequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("mailer", "info", &buf)

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithUserID(ctx, "google-sub-1")
	WithContext(ctx, l).Info("hello")

	out := decodeLine(t, &buf)
	assert.Equal(t, "req-123", out["request_id"])
	assert.Equal(t, "google-sub-1", out["user_id"])
}

func TestWithContext_NoValues(t *testing.T) {
	var buf bytes.Buffer
	WithContext(context.Background(), NewWithWriter("mailer", "info", &buf)).Info("bare")

	out := decodeLine(t, &buf)
	for _, key := range []string{"request_id", "user_id", "trace_id", "span_id"} {
		assert.NotContains(t, out, key)
	}
}

func TestWithContext_WithValidSpan(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("mailer", "info", &buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	WithContext(ctx, l).Info("with span")

	out := decodeLine(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", out["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", out["span_id"])
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("mailer", "info", &buf)

	assert.Same(t, l, FromContext(NewContext(context.Background(), l)))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
