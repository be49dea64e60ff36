package scans

import (
	"time"

	"cv-contacts/internal/contact"
)

// Status tracks where a scan is in the review flow.
type Status string

const (
	StatusReady     Status = "ready"
	StatusEdited    Status = "edited"
	StatusConfirmed Status = "confirmed"
)

// Scan is the current document of a review session. Extracted never changes
// after the scan is created; operator edits are applied to Edited.
type Scan struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId"`
	FileName  string         `json:"fileName"`
	FileType  string         `json:"fileType"`
	Status    Status         `json:"status"`
	Extracted contact.Record `json:"extracted"`
	Edited    contact.Record `json:"edited"`
	TextChars int            `json:"textChars"`
	ExportID  string         `json:"exportId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
