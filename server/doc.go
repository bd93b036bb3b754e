// Package server exposes a health engine over HTTP.
//
// Routes:
//
//	GET /healthz          liveness, always 200 while the process serves
//	GET /readyz           200 OK or 503 UNHEALTHY from a full run
//	GET /health           full JSON report (auth when configured)
//	GET /health/{probe}   one probe (auth when configured)
//	GET /metrics          Prometheus exposition, when a handler is supplied
//
// The engine behind the routes can be replaced at any time with SetEngine;
// requests already in flight finish against the engine they started with.
package server
