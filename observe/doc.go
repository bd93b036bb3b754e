// Package observe instruments health runs with structured logging,
// OpenTelemetry tracing and metrics.
//
// The Observer owns the providers and the zap logger. ProbeHook plugs into
// health.Executor and records one span, one counter increment and one
// histogram sample per probe check; InstrumentedRunner wraps a
// health.Runner, tags each run with a run id and records the report.
//
// Metrics exported over Prometheus are served by Observer.MetricsHandler.
package observe
