// Package cache coalesces health polls.
//
// ReportCache wraps a health.Runner: concurrent callers share one in-flight
// run, and under a positive TTL the last report is served from a Store
// until it expires. Engine failures are never cached.
package cache
