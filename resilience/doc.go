// Package resilience provides the execution guards used by the probe engine.
//
// # Patterns
//
//   - Timeout: runs an operation under a deadline and abandons it when the
//     deadline passes. Within is the generic form used for probes: it
//     always returns, converting panics into a *PanicError.
//
//   - Bulkhead: bounds how many blocking operations (host sampling,
//     filesystem syscalls) run at once, so they cannot starve network-bound
//     work.
//
//   - Rate Limiter: token bucket guarding the HTTP surface from polling
//     storms. Requests are rejected at once or, with MaxWait, queued
//     briefly for a token.
//
// # Usage
//
//	pool := resilience.NewBulkhead(4)
//
//	lease := pool.NewLease()
//	defer lease.Release() // frees the slot even if the operation is abandoned
//
//	outcome, err := resilience.Within(ctx, 2*time.Second, func(ctx context.Context) string {
//	    if err := lease.Acquire(ctx); err != nil {
//	        return "rejected"
//	    }
//	    defer lease.Release()
//	    return sampleDisk(ctx)
//	})
package resilience
