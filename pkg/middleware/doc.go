// Package middleware provides HTTP middleware for the playground server.
//
// Both middlewares are plain func(http.Handler) http.Handler values and
// work with any router. Under chi they label requests by route pattern
// ("/dispatch") rather than raw path, which keeps label cardinality bounded.
//
// # Prometheus Metrics
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus(
//	    middleware.WithNamespace("tagkit"),
//	    middleware.WithRegistry(reg),
//	))
//
// Metrics collected:
//   - <ns>_http_requests_total{route,method,status}
//   - <ns>_http_request_duration_seconds{route,method}
//   - <ns>_http_requests_in_flight
//
// # OpenTelemetry Tracing
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("tagkit"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// Each request gets a server span named "<METHOD> <route>". The span is
// stored in the request context, so handlers reach it with
// trace.SpanFromContext(r.Context()).
package middleware
