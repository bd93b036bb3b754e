// Package auth protects the detailed health endpoints.
//
// Liveness and readiness endpoints stay open for orchestrators; the full
// report and single-probe endpoints are wrapped with Middleware, which
// accepts an HMAC-signed JWT bearer token or a static API key.
package auth
