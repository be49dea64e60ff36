package scans

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultTTL bounds how long an idle session keeps its scan.
const DefaultTTL = 30 * time.Minute

// MemoryRepo keeps scans in a process-local TTL cache.
type MemoryRepo struct {
	cache *cache.Cache
}

// NewMemoryRepo constructs a MemoryRepo whose entries expire after ttl of inactivity.
func NewMemoryRepo(ttl time.Duration) *MemoryRepo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryRepo{cache: cache.New(ttl, ttl/2)}
}

// Put stores the session's scan, replacing any previous one.
func (r *MemoryRepo) Put(ctx context.Context, scan Scan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.cache.SetDefault(scan.SessionID, scan)
	return nil
}

// Get returns the session's scan and slides its expiry.
func (r *MemoryRepo) Get(ctx context.Context, sessionID string) (Scan, error) {
	if err := ctx.Err(); err != nil {
		return Scan{}, err
	}
	v, ok := r.cache.Get(sessionID)
	if !ok {
		return Scan{}, ErrNotFound
	}
	scan := v.(Scan)
	r.cache.SetDefault(sessionID, scan)
	return scan, nil
}

// Delete drops the session's scan. Missing sessions are not an error.
func (r *MemoryRepo) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.cache.Delete(sessionID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
