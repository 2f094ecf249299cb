// Package telemetry wires OpenTelemetry tracing and metrics for inference calls.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const (
	instrumentationName = "github.com/diogo/netchat"

	TraceFile  = "netchat_traces.log"
	MetricFile = "netchat_metrics.log"

	// SpanGenerate names the span wrapped around each inference call
	SpanGenerate = "gemini.generate"
)

// Outcome values recorded on the invocation counter
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Telemetry bundles the tracer and the instruments used by the invoker
type Telemetry struct {
	Tracer trace.Tracer

	invocations metric.Int64Counter
	duration    metric.Float64Histogram
	shutdown    func(context.Context) error
}

// Noop returns telemetry that records nothing
func Noop() *Telemetry {
	t, _ := newTelemetry(tracenoop.NewTracerProvider().Tracer(instrumentationName),
		metricnoop.NewMeterProvider().Meter(instrumentationName), nil)
	return t
}

// New builds telemetry from caller-supplied providers. Used by tests with
// in-memory exporters.
func New(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	return newTelemetry(tp.Tracer(instrumentationName), mp.Meter(instrumentationName), nil)
}

func newTelemetry(tracer trace.Tracer, meter metric.Meter, shutdown func(context.Context) error) (*Telemetry, error) {
	invocations, err := meter.Int64Counter(
		"netchat.invocations",
		metric.WithDescription("Number of inference calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invocation counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"netchat.invocation.duration",
		metric.WithDescription("Inference call latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &Telemetry{
		Tracer:      tracer,
		invocations: invocations,
		duration:    duration,
		shutdown:    shutdown,
	}, nil
}

// Init exports spans and metrics as JSON to rotating files in dir.
// Metrics are flushed every 10 seconds and on Shutdown.
func Init(ctx context.Context, dir, version string) (*Telemetry, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", "netchat"),
		attribute.String("service.version", version),
	)

	traceFile := &lumberjack.Logger{
		Filename:   filepath.Join(dir, TraceFile),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(traceFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	metricsFile := &lumberjack.Logger{
		Filename:   filepath.Join(dir, MetricFile),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(metricsFile))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(10*time.Second)),
		),
		sdkmetric.WithResource(res),
	)

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tp.Shutdown(ctx),
			mp.Shutdown(ctx),
			traceFile.Close(),
			metricsFile.Close(),
		)
	}

	return newTelemetry(tp.Tracer(instrumentationName), mp.Meter(instrumentationName), shutdown)
}

// RecordInvocation adds one call to the counter and its latency to the histogram
func (t *Telemetry) RecordInvocation(ctx context.Context, model, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	)
	t.invocations.Add(ctx, 1, attrs)
	t.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// Shutdown flushes pending telemetry, waiting at most five seconds
func (t *Telemetry) Shutdown(logger zerolog.Logger) {
	if t == nil || t.shutdown == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := t.shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown telemetry")
	}
}
