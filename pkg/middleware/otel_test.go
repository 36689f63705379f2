package middleware

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordedSpan keeps what the middleware sets on a span.
type recordedSpan struct {
	noop.Span
	name   string
	kind   trace.SpanKind
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	ended  bool
}

func (s *recordedSpan) SetName(name string) { s.name = name }

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordedSpan) SetStatus(code codes.Code, _ string) { s.status = code }

func (s *recordedSpan) End(...trace.SpanEndOption) { s.ended = true }

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer { return p.tracer }

type recordingTracer struct {
	noop.Tracer
	spans []*recordedSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &recordedSpan{name: name, kind: cfg.SpanKind(), attrs: map[attribute.Key]attribute.Value{}}
	span.SetAttributes(cfg.Attributes()...)
	r.spans = append(r.spans, span)
	return trace.ContextWithSpan(ctx, span), span
}

func TestOpenTelemetrySpans(t *testing.T) {
	tracer := &recordingTracer{}
	h := newRouter(OpenTelemetry(
		WithTracerProvider(recordingProvider{tracer: tracer}),
		WithAttributeExtractor(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("tagkit.client", "test")}
		}),
	))

	serve(h, http.MethodGet, "/instances/click-counter")
	serve(h, http.MethodGet, "/fail")

	if len(tracer.spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(tracer.spans))
	}

	ok := tracer.spans[0]
	if ok.name != "GET /instances/{tag}" {
		t.Errorf("name = %q", ok.name)
	}
	if ok.kind != trace.SpanKindServer {
		t.Errorf("kind = %v", ok.kind)
	}
	if got := ok.attrs["http.target"].AsString(); got != "/instances/click-counter" {
		t.Errorf("http.target = %q", got)
	}
	if got := ok.attrs["http.status_code"].AsInt64(); got != 200 {
		t.Errorf("http.status_code = %d", got)
	}
	if got := ok.attrs["tagkit.client"].AsString(); got != "test" {
		t.Errorf("tagkit.client = %q", got)
	}
	if ok.status != codes.Ok || !ok.ended {
		t.Errorf("status = %v, ended = %v", ok.status, ok.ended)
	}

	failed := tracer.spans[1]
	if failed.status != codes.Error {
		t.Errorf("500 should mark the span as an error, got %v", failed.status)
	}
}

func TestOpenTelemetrySpanInContext(t *testing.T) {
	tracer := &recordingTracer{}
	mw := OpenTelemetry(WithTracerProvider(recordingProvider{tracer: tracer}))

	var seen trace.Span
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = trace.SpanFromContext(r.Context())
	}))
	serve(h, http.MethodGet, "/healthz")

	if len(tracer.spans) != 1 || seen != trace.Span(tracer.spans[0]) {
		t.Fatal("handler should see the request span in its context")
	}
	if got := tracer.spans[0].name; got != "GET unmatched" {
		t.Errorf("name without a router = %q", got)
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	tracer := &recordingTracer{}
	h := newRouter(OpenTelemetry(
		WithTracerProvider(recordingProvider{tracer: tracer}),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/fail" }),
	))

	serve(h, http.MethodGet, "/fail")
	serve(h, http.MethodPost, "/dispatch")

	if len(tracer.spans) != 1 || tracer.spans[0].name != "POST /dispatch" {
		t.Fatalf("spans = %+v", tracer.spans)
	}
}

func TestOpenTelemetryDefaultProvider(t *testing.T) {
	h := newRouter(OpenTelemetry(WithTracerName("smoke")))
	if rec := serve(h, http.MethodGet, "/instances/x"); rec.Body.String() != "x" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
