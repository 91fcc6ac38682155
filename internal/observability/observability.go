package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Observability is what use cases and the console receive at construction.
// Concrete backends live under internal/infrastructure/observability.
type Observability interface {
	Logger() Logger
	Tracer() Tracer
	Metrics() Metrics
}

// Logger takes a snake_case event name plus structured fields.
type Logger interface {
	With(fields ...Field) Logger
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is one structured log attribute. Error values are kept as errors.
type Field struct {
	Key   string
	Value any
}

func F(k string, v any) Field { return Field{Key: k, Value: v} }

// Tracer starts spans; span names follow "UC.<UseCase>" and "Console.<command>".
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span)
}

// MetricKey names an instrument registered at startup.
type MetricKey string

// Metrics hands out instruments by key. Unregistered keys yield no-ops.
type Metrics interface {
	Counter(name MetricKey) Counter
	Histogram(name MetricKey) Histogram
}

type Counter interface {
	Add(delta float64, labels ...Label)
}

type Histogram interface {
	Observe(value float64, labels ...Label)
}

// Label is a metric label pair; keep values low-cardinality.
type Label struct{ Key, Value string }

func L(k, v string) Label { return Label{Key: k, Value: v} }
