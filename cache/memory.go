package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jonwraymond/probekit/health"
)

// DefaultCleanupInterval is how often expired reports are purged.
const DefaultCleanupInterval = time.Minute

// MemoryStore is an in-process Store backed by go-cache.
type MemoryStore struct {
	items *gocache.Cache
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. A non-positive cleanup interval
// uses DefaultCleanupInterval.
func NewMemoryStore(cleanup time.Duration) *MemoryStore {
	if cleanup <= 0 {
		cleanup = DefaultCleanupInterval
	}
	return &MemoryStore{items: gocache.New(gocache.NoExpiration, cleanup)}
}

// Get returns the report stored under key if it has not expired.
func (s *MemoryStore) Get(_ context.Context, key string) (health.Report, bool) {
	v, ok := s.items.Get(key)
	if !ok {
		return health.Report{}, false
	}
	report, ok := v.(health.Report)
	return report, ok
}

// Set stores report under key for ttl.
func (s *MemoryStore) Set(_ context.Context, key string, report health.Report, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}
	s.items.Set(key, report, ttl)
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.items.Delete(key)
	return nil
}

// Flush removes every stored report.
func (s *MemoryStore) Flush() {
	s.items.Flush()
}

// Len returns the number of stored reports, expired ones included until
// the next cleanup.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}
