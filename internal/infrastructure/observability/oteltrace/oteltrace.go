package oteltrace

import (
	"context"

	"github.com/Zhima-Mochi/marketplace-console/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type tracer struct{ t trace.Tracer }

// New returns a tracer bound to the global otel TracerProvider.
// Without an SDK provider registered, spans are non-recording.
func New(name string) observability.Tracer {
	if name == "" {
		name = "marketplace"
	}
	return &tracer{t: otel.Tracer(name)}
}

// NewWithProvider binds the tracer to an explicit provider instead of the global one.
func NewWithProvider(tp trace.TracerProvider, name string) observability.Tracer {
	if tp == nil {
		return New(name)
	}
	return &tracer{t: tp.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
