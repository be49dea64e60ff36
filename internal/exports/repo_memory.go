package exports

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Append stores an entry. Batch entries are unique per document key.
func (r *MemoryRepo) Append(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.Source == SourceBatch && entry.DocumentKey != "" {
		for _, existing := range r.entries {
			if existing.Source == SourceBatch && existing.DocumentKey == entry.DocumentKey {
				return ErrDuplicate
			}
		}
	}
	r.entries = append(r.entries, entry)
	return nil
}

// List returns entries newest first, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	r.mu.RUnlock()

	if offset >= len(entries) {
		return []Entry{}, nil
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	end := len(entries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return entries[offset:end], nil
}

// Count returns the number of stored entries.
func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), nil
}

var _ Repo = (*MemoryRepo)(nil)
