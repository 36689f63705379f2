// Package playground serves one live document over HTTP.
//
// Routes:
//
//	GET  /           serialised document
//	GET  /instances  attached instances with their state, as JSON
//	POST /dispatch   {"selector", "event", "data"} -> {"html", "diagnostics"}
//	GET  /ws         websocket; every text message is a dispatch request
//	GET  /metrics    Prometheus metrics for the document
//	GET  /healthz    liveness
//
// The document is single-threaded, so every request that touches it holds
// the server mutex for the whole unit of work.
package playground
