package exports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"cv-contacts/internal/contact"
	"cv-contacts/internal/export"
	"cv-contacts/internal/shared/metrics"
	"cv-contacts/internal/shared/telemetry"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Service coordinates the export ledger.
type Service struct {
	Repo  Repo
	Now   func() time.Time
	NewID func() string
}

// NewService constructs a Service over repo.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Record validates and appends an entry, assigning its ID and timestamp.
func (s *Service) Record(ctx context.Context, entry Entry) (Entry, error) {
	if !entry.Source.Valid() {
		return Entry{}, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, entry.Source)
	}
	entry.FileName = strings.TrimSpace(entry.FileName)
	if entry.ID == "" {
		entry.ID = s.newID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}

	if err := s.Repo.Append(ctx, entry); err != nil {
		if errors.Is(err, ErrDuplicate) {
			telemetry.Info("export.duplicate", map[string]any{
				"source":       string(entry.Source),
				"document_key": entry.DocumentKey,
			})
		}
		return Entry{}, err
	}

	metrics.IncExport(string(entry.Source))
	telemetry.Info("export.recorded", map[string]any{
		"export_id":    entry.ID,
		"source":       string(entry.Source),
		"session_id":   entry.SessionID,
		"file_name":    entry.FileName,
		"fields_found": len(entry.Contact.FieldsFound()),
	})
	return entry, nil
}

// List returns a page of entries, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, limit, offset)
}

// Count returns the ledger size.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.Repo.Count(ctx)
}

// Workbook writes the whole ledger, oldest first, as a spreadsheet.
func (s *Service) Workbook(ctx context.Context, w io.Writer) error {
	var all []Entry
	for offset := 0; ; offset += maxListLimit {
		page, err := s.Repo.List(ctx, maxListLimit, offset)
		if err != nil {
			return err
		}
		all = append(all, page...)
		if len(page) < maxListLimit {
			break
		}
	}

	records := make([]contact.Record, len(all))
	for i, entry := range all {
		records[len(all)-1-i] = entry.Contact
	}
	return export.WriteWorkbook(w, records...)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
