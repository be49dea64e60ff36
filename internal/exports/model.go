package exports

import (
	"time"

	"cv-contacts/internal/contact"
)

// Source records where a ledger entry came from.
type Source string

const (
	// SourceReview marks a record confirmed by an operator after review.
	SourceReview Source = "review"
	// SourceBatch marks a record produced by the batch worker without review.
	SourceBatch Source = "batch"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return s == SourceReview || s == SourceBatch
}

// Entry is one exported contact record.
type Entry struct {
	ID          string         `json:"id"`
	SessionID   string         `json:"sessionId,omitempty"`
	Source      Source         `json:"source"`
	FileName    string         `json:"fileName"`
	DocumentKey string         `json:"documentKey,omitempty"`
	Contact     contact.Record `json:"contact"`
	CreatedAt   time.Time      `json:"createdAt"`
}
