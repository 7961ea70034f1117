package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/codeshift/pkg/observability"
)

func newJSONLogger(buf *bytes.Buffer, env string) *slog.Logger {
	inner := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(observability.NewTracingHandler(inner, "codeshift", env, observability.ModeCLI))
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newJSONLogger(&buf, "test")

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	logger.InfoContext(trace.ContextWithSpanContext(context.Background(), sc), "parsed")

	record := decode(t, &buf)
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, "codeshift", record["service"])
	assert.Equal(t, "test", record["env"])
	assert.Equal(t, "cli", record["mode"])
}

func TestTracingHandler_NoContextAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	newJSONLogger(&buf, "").Info("plain")

	record := decode(t, &buf)
	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "file")
	assert.NotContains(t, record, "env")
}

func TestTracingHandler_ServiceStaysTopLevelInGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := observability.WithFile(context.Background(), "src/index.js")
	newJSONLogger(&buf, "").WithGroup("run").InfoContext(ctx, "done", "matches", 2)

	record := decode(t, &buf)
	assert.Equal(t, "codeshift", record["service"])

	group, ok := record["run"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 2, group["matches"], 0)
	assert.Equal(t, "src/index.js", group["file"])
}

func TestFileFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, observability.FileFromContext(context.Background()))
	assert.Equal(t, "a.ts", observability.FileFromContext(observability.WithFile(context.Background(), "a.ts")))
}
