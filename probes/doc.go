// Package probes provides the built-in probe catalogue.
//
//   - Liveness ("application"): GET the service's own health endpoint.
//   - Dependency: ping an injected client capability; skipped when none is
//     configured.
//   - Resources: CPU, memory and disk sampling against thresholds.
//   - Filesystem: every configured path must exist and be readable and
//     writable.
//
// Resource and filesystem probes do blocking work and should be registered
// with health.WithBlocking.
package probes
