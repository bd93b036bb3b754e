package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jonwraymond/probekit/health"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// ReportKey is the key under which the full report is stored.
const ReportKey = "report"

// Sentinel errors for cache operations.
var (
	ErrNilRunner  = errors.New("cache: runner is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Store holds reports for reuse.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns (Report{}, false) on miss.
type Store interface {
	// Get retrieves a stored report. Returns false on miss or expiry.
	Get(ctx context.Context, key string) (health.Report, bool)

	// Set stores a report with the given TTL. TTL<=0 stores nothing.
	Set(ctx context.Context, key string, report health.Report, ttl time.Duration) error

	// Delete removes a stored report. Idempotent.
	Delete(ctx context.Context, key string) error
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
