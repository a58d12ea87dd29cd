package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
)

func TestSetup_DisabledIsNoop(t *testing.T) {
	prev := otel.GetTracerProvider()

	shutdown, err := Setup(context.Background(), Config{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if otel.GetTracerProvider() != prev {
		t.Fatal("tracer provider must not change when disabled")
	}
}

func TestSetup_ExporterError(t *testing.T) {
	orig := newOTLPExporter
	t.Cleanup(func() { newOTLPExporter = orig })

	newOTLPExporter = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, errors.New("boom")
	}

	_, err := Setup(context.Background(), Config{Enabled: true, Endpoint: "localhost:4317", Insecure: true}, "test")
	if err == nil {
		t.Fatal("expected error")
	}
}
