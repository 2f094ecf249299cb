package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNoop(t *testing.T) {
	tel := Noop()
	if tel == nil || tel.Tracer == nil {
		t.Fatal("Noop() should return usable telemetry")
	}

	ctx, span := tel.Tracer.Start(context.Background(), SpanGenerate)
	tel.RecordInvocation(ctx, "gemini-2.5-flash", OutcomeOK, time.Millisecond)
	span.End()

	tel.Shutdown(zerolog.Nop())
}

func TestRecordInvocation(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	tel, err := New(tp, mp)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	ctx := context.Background()
	tel.RecordInvocation(ctx, "m", OutcomeOK, 200*time.Millisecond)
	tel.RecordInvocation(ctx, "m", OutcomeError, 100*time.Millisecond)
	tel.RecordInvocation(ctx, "m", OutcomeOK, 300*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() returned error: %v", err)
	}

	var counterTotal int64
	var histCount uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if m.Name == "netchat.invocations" {
					for _, dp := range data.DataPoints {
						counterTotal += dp.Value
					}
				}
			case metricdata.Histogram[float64]:
				if m.Name == "netchat.invocation.duration" {
					for _, dp := range data.DataPoints {
						histCount += dp.Count
					}
				}
			}
		}
	}

	if counterTotal != 3 {
		t.Errorf("invocation counter = %d, want 3", counterTotal)
	}
	if histCount != 3 {
		t.Errorf("histogram count = %d, want 3", histCount)
	}
}

func TestInit_WritesTraceFile(t *testing.T) {
	dir := t.TempDir()

	tel, err := Init(context.Background(), dir, "test")
	if err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}

	_, span := tel.Tracer.Start(context.Background(), SpanGenerate)
	span.End()
	tel.Shutdown(zerolog.Nop())

	data, err := os.ReadFile(filepath.Join(dir, TraceFile))
	if err != nil {
		t.Fatalf("trace file not written: %v", err)
	}
	if !strings.Contains(string(data), SpanGenerate) {
		t.Errorf("trace file should contain span name, got %q", data)
	}
}

func TestShutdown_NilSafe(t *testing.T) {
	var tel *Telemetry
	tel.Shutdown(zerolog.Nop())
}
