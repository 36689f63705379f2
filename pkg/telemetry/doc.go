// Package telemetry provides element.Observer implementations that export
// runtime activity as Prometheus metrics and OpenTelemetry spans.
//
//	metrics := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	tracing := telemetry.NewTracing(telemetry.WithTracerName("playground"))
//	doc := element.NewDocument(defs, element.WithObserver(element.Observers(metrics, tracing)))
//
// Metrics (namespace "tagkit" by default):
//   - renders_total{tag,result}: render passes by result
//   - render_duration_seconds{tag}: render pass duration
//   - render_requests_total{tag,outcome}: scheduled or coalesced requests
//   - lifecycle_transitions_total{tag,phase}: attach and detach transitions
//   - attached_instances: instances currently attached
//   - diagnostics_total{tag,code}: reported diagnostics
//   - flush_passes: passes per flush
//
// Spans are recorded after the fact with the measured start and end times,
// so the runtime never waits on the tracer.
package telemetry
