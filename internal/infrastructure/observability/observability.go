package observability

import (
	"github.com/Zhima-Mochi/marketplace-console/internal/observability"
)

// Options carries the concrete backends for one process. Zero values are
// replaced with no-ops, so tests can wire only what they assert on.
type Options struct {
	Tracer     observability.Tracer
	Logger     observability.Logger
	Counters   map[observability.MetricKey]observability.Counter
	Histograms map[observability.MetricKey]observability.Histogram
}

type bundle struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics instruments
}

// instruments resolves metric keys to registered instruments; unknown keys
// resolve to no-ops.
type instruments struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func (i instruments) Counter(name observability.MetricKey) observability.Counter {
	if c, ok := i.counters[name]; ok {
		return c
	}
	return observability.NopCounter()
}

func (i instruments) Histogram(name observability.MetricKey) observability.Histogram {
	if h, ok := i.histograms[name]; ok {
		return h
	}
	return observability.NopHistogram()
}

func New(opts Options) observability.Observability {
	b := &bundle{
		tracer: opts.Tracer,
		logger: opts.Logger,
		metrics: instruments{
			counters:   make(map[observability.MetricKey]observability.Counter, len(opts.Counters)),
			histograms: make(map[observability.MetricKey]observability.Histogram, len(opts.Histograms)),
		},
	}
	if b.tracer == nil {
		b.tracer = observability.NopTracer()
	}
	if b.logger == nil {
		b.logger = observability.NopLogger()
	}

	// copy so later edits to the caller's maps do not leak in
	for key, c := range opts.Counters {
		if c != nil {
			b.metrics.counters[key] = c
		}
	}
	for key, h := range opts.Histograms {
		if h != nil {
			b.metrics.histograms[key] = h
		}
	}
	return b
}

func (b *bundle) Tracer() observability.Tracer   { return b.tracer }
func (b *bundle) Logger() observability.Logger   { return b.logger }
func (b *bundle) Metrics() observability.Metrics { return b.metrics }
