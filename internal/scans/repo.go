package scans

import "context"

// Repo holds at most one scan per session.
type Repo interface {
	Put(ctx context.Context, scan Scan) error
	Get(ctx context.Context, sessionID string) (Scan, error)
	Delete(ctx context.Context, sessionID string) error
}
