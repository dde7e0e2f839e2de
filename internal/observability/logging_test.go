package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogContextAccumulates(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithMode(ctx, "proxy")
	ctx = WithTarget(ctx, "gemini://example.org/")

	lc := GetContext(ctx)
	assert.Equal(t, "req-1", lc.RequestID)
	assert.Equal(t, "proxy", lc.Mode)
	assert.Equal(t, "gemini://example.org/", lc.Target)
}

func TestEmptyContext(t *testing.T) {
	assert.Equal(t, LogContext{}, GetContext(context.Background()))
	assert.Empty(t, GetContext(context.Background()).Attrs())
}

func TestInfoContextIncludesFields(t *testing.T) {
	buf := captureLogs(t)

	ctx := WithRequestID(context.Background(), "req-42")
	ctx = WithMode(ctx, "raw")
	InfoContext(ctx, "served", slog.Int("status", 200))

	out := buf.String()
	assert.Contains(t, out, "msg=served")
	assert.Contains(t, out, "request_id=req-42")
	assert.Contains(t, out, "mode=raw")
	assert.Contains(t, out, "status=200")
	assert.NotContains(t, out, "target=")
}

func TestLevels(t *testing.T) {
	buf := captureLogs(t)
	ctx := context.Background()

	DebugContext(ctx, "d")
	WarnContext(ctx, "w")
	ErrorContext(ctx, "e")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
}

func TestSpanMeasuresOnce(t *testing.T) {
	buf := captureLogs(t)

	clock := time.Unix(0, 0)
	now := func() time.Time { return clock }
	span := startSpanAt(WithRequestID(context.Background(), "req-7"), "fetch", now)

	clock = clock.Add(150 * time.Millisecond)
	assert.Equal(t, 150*time.Millisecond, span.Elapsed())

	span.RecordError(errors.New("boom"))
	assert.Equal(t, 150*time.Millisecond, span.End())

	clock = clock.Add(time.Second)
	assert.Equal(t, 150*time.Millisecond, span.End())
	assert.Equal(t, 150*time.Millisecond, span.Elapsed())

	out := buf.String()
	assert.Contains(t, out, "span=fetch")
	assert.Contains(t, out, "duration_ms=150")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "request_id=req-7")
}
