package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/tagkit/pkg/element"
)

const defaultTracerName = "tagkit"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "tagkit").
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider

	// Context is the parent of every span. Default: context.Background().
	Context context.Context
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// WithParentContext sets the context spans are started from.
func WithParentContext(ctx context.Context) TracingOption {
	return func(c *TracingConfig) {
		c.Context = ctx
	}
}

// Tracing is an element.Observer that records render and flush spans.
type Tracing struct {
	element.NopObserver

	tracer trace.Tracer
	ctx    context.Context
}

// NewTracing creates a tracing observer. The tracer is resolved once; set
// the global provider before calling it when relying on the default.
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracing{tracer: tracer, ctx: config.Context}
}

// Rendered implements element.Observer.
func (t *Tracing) Rendered(info element.RenderInfo) {
	_, span := t.tracer.Start(t.ctx, "tagkit.render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(info.Start),
		trace.WithAttributes(
			attribute.String("tagkit.tag", info.Tag),
			attribute.String("tagkit.scope", info.Scope),
			attribute.String("tagkit.result", string(info.Result)),
			attribute.Int("tagkit.bindings", info.Bindings),
		),
	)
	if info.Result == element.RenderFailed {
		span.SetStatus(codes.Error, "render failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(info.Start.Add(info.Duration)))
}

// Flushed implements element.Observer.
func (t *Tracing) Flushed(info element.FlushInfo) {
	_, span := t.tracer.Start(t.ctx, "tagkit.flush",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(info.Start),
		trace.WithAttributes(
			attribute.Int("tagkit.passes", info.Passes),
			attribute.Int("tagkit.renders", info.Renders),
			attribute.Int("tagkit.dropped", info.Dropped),
		),
	)
	if info.Dropped > 0 {
		span.SetStatus(codes.Error, "render budget exceeded")
	}
	span.End(trace.WithTimestamp(info.Start.Add(info.Duration)))
}
