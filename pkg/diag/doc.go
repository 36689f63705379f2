// Package diag is the diagnostic channel.
//
// Diagnostics are warnings for developers, never errors for end users. They
// have the stable shape {componentTag, problem, exampleUsage} plus a code
// (TK1xx) and the attribute involved, if any. Nothing that reports a
// diagnostic stops: the runtime substitutes a default, keeps stale output,
// or leaves the component degraded but alive.
//
// Channels:
//   - Recorder collects diagnostics for tests and API responses.
//   - Logger reports through log/slog at Warn level.
//   - Writer prints terminal, compact or JSON lines.
//   - Multi fans out; Func adapts a function; Discard drops.
package diag
