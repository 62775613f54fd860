package otelx

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInit_Disabled_ReturnsShutdownFunc(t *testing.T) {
	shutdown, err := Init(context.Background(), Options{Enabled: false})
	if err != nil {
		t.Fatalf("Init disabled: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown func is nil")
	}
}

func TestInit_Disabled_ShutdownIsNoop(t *testing.T) {
	shutdown, _ := Init(context.Background(), Options{Enabled: false})

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	// safe to call multiple times
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}

func TestInit_Disabled_SetsTracerProvider(t *testing.T) {
	_, _ = Init(context.Background(), Options{Enabled: false})

	tp := otel.GetTracerProvider()
	if tp == nil {
		t.Fatal("TracerProvider is nil")
	}
	// should be an SDK TracerProvider, not the default noop
	if _, ok := tp.(*sdktrace.TracerProvider); !ok {
		t.Fatalf("TracerProvider type = %T, want *sdktrace.TracerProvider", tp)
	}
}

func TestInit_Disabled_PropagatorConfigured(t *testing.T) {
	_, _ = Init(context.Background(), Options{Enabled: false})

	prop := otel.GetTextMapPropagator()
	fields := prop.Fields()

	var hasTraceparent bool
	for _, f := range fields {
		if f == "traceparent" {
			hasTraceparent = true
		}
	}
	if !hasTraceparent {
		t.Fatalf("propagator fields = %v, want traceparent", fields)
	}
}
