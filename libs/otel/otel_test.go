package otelx

import (
	"context"
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.25")
	cfg := ConfigFromEnv("reservation-service")
	if !cfg.Enabled || cfg.OTLPEndpoint != "collector:4317" || cfg.SampleRatio != 0.25 || cfg.ServiceName != "reservation-service" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	t.Setenv("OTEL_ENABLED", "0")
	t.Setenv("OTEL_SAMPLING_RATIO", "7")
	cfg = ConfigFromEnv("reservation-service")
	if cfg.Enabled || cfg.SampleRatio != 1 {
		t.Fatalf("expected disabled with default ratio, got %+v", cfg)
	}

	t.Setenv("OTEL_ENABLED", "maybe")
	cfg = ConfigFromEnv("reservation-service")
	if cfg.Enabled || cfg.OTLPEndpoint != "localhost:4317" {
		t.Fatalf("malformed env must fall back to disabled defaults, got %+v", cfg)
	}
}

func TestTraceContextStringsRoundTrip(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	parent := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	ctx := ContextWithTraceContext(context.Background(), parent, "")
	tp, _ := TraceContextStrings(ctx)
	if tp != parent {
		t.Fatalf("expected %s, got %s", parent, tp)
	}
	if got := ContextWithTraceContext(ctx, "", ""); got != ctx {
		t.Fatal("empty trace context must return ctx unchanged")
	}
}
