package consolepresentation

import (
	"context"
	"time"

	"github.com/Zhima-Mochi/marketplace-console/internal/observability"
	"github.com/Zhima-Mochi/marketplace-console/internal/observability/logctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const commandSpanPrefix = "Console."

// WithCommandContext injects a command-scoped logger for one menu selection,
// extending any logger already on ctx before falling back to base.
// Dynamic fields only: command_id (generated if empty), the command name,
// and trace_id/span_id when the context carries a valid span.
func WithCommandContext(
	ctx context.Context,
	base observability.Logger,
	tel observability.Observability,
	command string,
	commandID string,
) context.Context {
	if base == nil && tel != nil {
		base = tel.Logger()
	}
	if base == nil {
		base = observability.NopLogger()
	}

	if commandID == "" {
		commandID = uuid.NewString()
	}
	fields := make([]observability.Field, 0, 4)
	fields = append(fields,
		observability.F("command_id", commandID),
		observability.F("command", command),
	)

	sc := trace.SpanContextFromContext(ctx)
	if sc.TraceID().IsValid() {
		fields = append(fields, observability.F("trace_id", sc.TraceID().String()))
	}
	if sc.SpanID().IsValid() {
		fields = append(fields, observability.F("span_id", sc.SpanID().String()))
	}

	return logctx.Enrich(ctx, base, fields...)
}

// commandRunner wraps a menu handler with a span, a command-scoped logger,
// a single access line and RED metrics keyed by the low-cardinality command name.
type commandRunner struct {
	log      observability.Logger
	tel      observability.Observability
	tracer   observability.Tracer
	counter  observability.Counter
	duration observability.Histogram
}

func newCommandRunner(log observability.Logger, tel observability.Observability) *commandRunner {
	if tel == nil {
		tel = observability.Nop()
	}
	metricsProvider := tel.Metrics()
	return &commandRunner{
		log:      log,
		tel:      tel,
		tracer:   tel.Tracer(),
		counter:  metricsProvider.Counter(observability.MConsoleCommands),
		duration: metricsProvider.Histogram(observability.MConsoleCommandDuration),
	}
}

func (r *commandRunner) run(ctx context.Context, command string, handler func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, commandSpanPrefix+command, attribute.String("console.command", command))
	defer span.End()

	ctx = WithCommandContext(ctx, r.log, r.tel, command, "")
	start := time.Now()

	err := handler(ctx)

	outcome := "success"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
	}
	latency := time.Since(start)

	r.counter.Add(1, observability.L("command", command), observability.L("outcome", outcome))
	r.duration.Observe(latency.Seconds(), observability.L("command", command))

	fields := []observability.Field{
		observability.F("outcome", outcome),
		observability.F("latency_ms", latency.Milliseconds()),
	}
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}
	logctx.FromOr(ctx, r.log).Info("console_command", fields...)
	return err
}
