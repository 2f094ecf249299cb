package api

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "github.com/diogo/netchat/internal/errors"
	"github.com/diogo/netchat/internal/models"
	"github.com/diogo/netchat/internal/prompt"
	"github.com/diogo/netchat/internal/telemetry"
)

// ErrorPrefix starts the text shown in place of a reply when a call fails
const ErrorPrefix = "An error occurred: "

// Result is the outcome of one inference call. Text is always displayable:
// it holds either the reply or the converted error. Err is set on failure.
type Result struct {
	Text string
	Err  error
}

// Failed reports whether the call produced an error instead of a reply
func (r Result) Failed() bool { return r.Err != nil }

// FormatError converts an invocation error into transcript text
func FormatError(err error) string {
	return ErrorPrefix + err.Error()
}

// Invoker performs a single inference call and never fails outward
type Invoker struct {
	gen       Generator
	logger    zerolog.Logger
	telemetry *telemetry.Telemetry
}

// InvokerOption configures an Invoker
type InvokerOption func(*Invoker)

// WithInvokerLogger sets the logger used for call outcomes
func WithInvokerLogger(logger zerolog.Logger) InvokerOption {
	return func(i *Invoker) {
		i.logger = logger
	}
}

// WithTelemetry records a span and metrics for every call
func WithTelemetry(t *telemetry.Telemetry) InvokerOption {
	return func(i *Invoker) {
		if t != nil {
			i.telemetry = t
		}
	}
}

// NewInvoker creates an Invoker around gen
func NewInvoker(gen Generator, opts ...InvokerOption) *Invoker {
	i := &Invoker{
		gen:       gen,
		logger:    zerolog.Nop(),
		telemetry: telemetry.Noop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Model returns the model the invoker sends requests to
func (i *Invoker) Model() models.Model {
	return i.gen.GetModel()
}

// Invoke sends request with instruction in a single attempt. Any error,
// including a panic inside the generator, is returned as display text.
func (i *Invoker) Invoke(ctx context.Context, request []models.Turn, instruction prompt.Instruction) Result {
	model := i.gen.GetModel().Name

	ctx, span := i.telemetry.Tracer.Start(ctx, telemetry.SpanGenerate,
		trace.WithAttributes(
			attribute.String("model", model),
			attribute.Int("turns", len(request)),
		),
	)
	defer span.End()

	start := time.Now()
	text, err := i.generate(ctx, request, instruction.Text())
	elapsed := time.Since(start)

	if err != nil {
		err = apierrors.Classify(err)

		span.RecordError(err)
		span.SetStatus(otelcodes.Error, apierrors.Kind(err))
		i.telemetry.RecordInvocation(ctx, model, telemetry.OutcomeError, elapsed)

		i.logger.Error().
			Err(err).
			Str("kind", apierrors.Kind(err)).
			Int("status", apierrors.GetHTTPStatus(err)).
			Str("model", model).
			Dur("elapsed", elapsed).
			Msg("inference failed")

		return Result{Text: FormatError(err), Err: err}
	}

	span.SetStatus(otelcodes.Ok, "")
	i.telemetry.RecordInvocation(ctx, model, telemetry.OutcomeOK, elapsed)

	i.logger.Info().
		Str("model", model).
		Int("turns", len(request)).
		Int("chars", len(text)).
		Dur("elapsed", elapsed).
		Msg("inference complete")

	return Result{Text: text}
}

func (i *Invoker) generate(ctx context.Context, request []models.Turn, instruction string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("inference panicked: %v", r)
		}
	}()
	return i.gen.Generate(ctx, request, instruction)
}
