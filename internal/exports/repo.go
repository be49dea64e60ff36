package exports

import "context"

// Repo persists ledger entries.
type Repo interface {
	Append(ctx context.Context, entry Entry) error
	// List returns entries newest first.
	List(ctx context.Context, limit, offset int) ([]Entry, error)
	Count(ctx context.Context) (int, error)
}
