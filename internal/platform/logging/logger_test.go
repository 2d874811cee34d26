package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    Level
		wantErr bool
	}{
		{raw: "", want: LevelInfo},
		{raw: "DEBUG", want: LevelDebug},
		{raw: "warning", want: LevelWarn},
		{raw: "error", want: LevelError},
		{raw: "loud", want: LevelInfo, wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.raw)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseLevel(%q) err=%v wantErr=%v", tc.raw, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q)=%s want=%s", tc.raw, got, tc.want)
		}
	}
}

func TestLoggerFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Info("squad confirmed", "manager_id", "mgr-1", "cost", 8, "error", errors.New("boom"), "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("unexpected entry count: %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["manager_id"] != "mgr-1" || ctx["cost"] != int64(8) {
		t.Fatalf("unexpected fields: %v", ctx)
	}
	if ctx["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", ctx["error"])
	}
	if _, ok := ctx["dangling"]; !ok {
		t.Fatalf("dangling key should be kept: %v", ctx)
	}
}

func TestLoggerAddsTraceIDs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.WarnContext(ctx, "feed slow")
	fields := logs.All()[0].ContextMap()
	if fields["trace_id"] != traceID.String() || fields["span_id"] != spanID.String() {
		t.Fatalf("missing trace fields: %v", fields)
	}
}

func TestNewWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Service: "rules-engine", Output: &buf})
	logger.Debug("hidden")
	logger.Info("visible", "gameweek", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry should be filtered: %s", out)
	}
	if !strings.Contains(out, `"service":"rules-engine"`) || !strings.Contains(out, `"gameweek":3`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestMirrorReceivesEnabledEntries(t *testing.T) {
	core, _ := observer.New(zap.InfoLevel)
	logger := FromZap(zap.New(core))

	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		if msg == "mirrored" || msg == "filtered" {
			got = append(got, level.String()+":"+msg)
		}
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger.Debug("filtered")
	logger.Warn("mirrored", "gameweek", 2)

	if len(got) != 1 || got[0] != "warn:mirrored" {
		t.Fatalf("unexpected mirrored entries: %v", got)
	}
}
