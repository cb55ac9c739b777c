package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestFrom_AddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithRun(WithRequest(context.Background(), "req-1"), "run-9", 42)
	From(ctx, base).Info().Msg("merge start")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if line["request_id"] != "req-1" || line["run_id"] != "run-9" || line["mission"] != float64(42) {
		t.Fatalf("line = %v", line)
	}
}

func TestWithRun_IgnoresEmpty(t *testing.T) {
	ctx := WithRequest(WithRun(context.Background(), "", 0), "")
	for _, k := range []ctxKey{keyRequestID, keyRunID, keyMission} {
		if ctx.Value(k) != nil {
			t.Fatalf("key %d stored for empty input", k)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "missionsync-sync")
	t.Setenv("LOG_CALLER", "yes-ish")
	t.Setenv("LOG_SAMPLE_EVERY", "3")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "missionsync-sync" {
		t.Fatalf("opt = %+v", opt)
	}
	if opt.WithCaller || opt.SampleEvery != 3 {
		t.Fatalf("caller/sample = %+v", opt)
	}
}

func TestInit_FirstCallWins(t *testing.T) {
	var first, second bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Service: "missionsync-api", Writer: &first})
	Init(Options{Level: "error", Format: "json", Writer: &second})

	Named("http").Debug().Msg("listening")
	if second.Len() != 0 {
		t.Fatalf("second Init took effect: %q", second.String())
	}
	var line map[string]any
	if err := json.Unmarshal(first.Bytes(), &line); err != nil {
		t.Fatalf("decode %q: %v", first.String(), err)
	}
	if line["component"] != "http" || line["service"] != "missionsync-api" || line["level"] != "debug" {
		t.Fatalf("line = %v", line)
	}
}
