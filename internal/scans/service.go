package scans

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
	"cv-contacts/internal/exports"
	"cv-contacts/internal/extract"
	"cv-contacts/internal/scanner"
	"cv-contacts/internal/shared/telemetry"
)

// DefaultMaxUploadBytes caps uploads when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

// Service coordinates per-session review state.
type Service struct {
	Repo           Repo
	Scanner        *scanner.Scanner
	Exports        *exports.Service
	MaxUploadBytes int64
	Now            func() time.Time
}

// Upload scans a document and makes it the session's current scan,
// replacing any previous one.
func (s *Service) Upload(ctx context.Context, sessionID, fileName, mimeType string, r io.Reader) (Scan, error) {
	sessionID = strings.TrimSpace(sessionID)
	fileName = strings.TrimSpace(fileName)
	if sessionID == "" {
		return Scan{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if fileName == "" {
		return Scan{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	limit := s.maxUploadBytes()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return Scan{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return Scan{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, limit)
	}

	res, err := s.Scanner.Scan(ctx, scanner.Input{FileName: fileName, MimeType: mimeType, Data: data})
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedType), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return Scan{}, err
		case errors.Is(err, extract.ErrEmptyDocument):
			return Scan{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			return Scan{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
	}

	now := s.now()
	scan := Scan{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		FileName:  res.FileName,
		FileType:  res.FileType,
		Status:    StatusReady,
		Extracted: res.Contact,
		Edited:    res.Contact,
		TextChars: res.TextChars,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Put(ctx, scan); err != nil {
		return Scan{}, err
	}

	telemetry.Info("scan.created", map[string]any{
		"scan_id":      scan.ID,
		"session_id":   sessionID,
		"file_type":    scan.FileType,
		"fields_found": len(scan.Extracted.FieldsFound()),
	})
	return scan, nil
}

// Current returns the session's scan.
func (s *Service) Current(ctx context.Context, sessionID string) (Scan, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Scan{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	return s.Repo.Get(ctx, sessionID)
}

// UpdateContact replaces the operator-edited record.
func (s *Service) UpdateContact(ctx context.Context, sessionID string, rec contact.Record) (Scan, error) {
	scan, err := s.Current(ctx, sessionID)
	if err != nil {
		return Scan{}, err
	}
	scan.Edited = rec
	return s.save(ctx, scan)
}

// Revert discards operator edits, restoring the extracted values.
func (s *Service) Revert(ctx context.Context, sessionID string) (Scan, error) {
	scan, err := s.Current(ctx, sessionID)
	if err != nil {
		return Scan{}, err
	}
	scan.Edited = scan.Extracted
	return s.save(ctx, scan)
}

// Reset forgets the session's scan.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	return s.Repo.Delete(ctx, sessionID)
}

// Workbook writes the edited record as a one-row spreadsheet.
func (s *Service) Workbook(ctx context.Context, sessionID string, w io.Writer) error {
	scan, err := s.Current(ctx, sessionID)
	if err != nil {
		return err
	}
	return export.WriteWorkbook(w, scan.Edited)
}

// ClipboardText renders the edited record as clipboard text.
func (s *Service) ClipboardText(ctx context.Context, sessionID string) (string, error) {
	scan, err := s.Current(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return export.ClipboardText(scan.Edited), nil
}

// Confirm appends the edited record to the export ledger.
func (s *Service) Confirm(ctx context.Context, sessionID string) (exports.Entry, error) {
	scan, err := s.Current(ctx, sessionID)
	if err != nil {
		return exports.Entry{}, err
	}
	if s.Exports == nil {
		return exports.Entry{}, errors.New("export ledger not configured")
	}

	entry, err := s.Exports.Record(ctx, exports.Entry{
		SessionID: sessionID,
		Source:    exports.SourceReview,
		FileName:  scan.FileName,
		Contact:   scan.Edited,
	})
	if err != nil {
		return exports.Entry{}, err
	}

	scan.ExportID = entry.ID
	scan.Status = StatusConfirmed
	scan.UpdatedAt = s.now()
	if err := s.Repo.Put(ctx, scan); err != nil {
		return exports.Entry{}, err
	}
	return entry, nil
}

func (s *Service) save(ctx context.Context, scan Scan) (Scan, error) {
	scan.Status = StatusReady
	if scan.Edited != scan.Extracted {
		scan.Status = StatusEdited
	}
	scan.ExportID = ""
	scan.UpdatedAt = s.now()
	if err := s.Repo.Put(ctx, scan); err != nil {
		return Scan{}, err
	}
	return scan, nil
}

func (s *Service) maxUploadBytes() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ExtractText runs contact extraction over raw text without touching session state.
func (s *Service) ExtractText(text string) contact.Record {
	return s.Scanner.ScanText(text).Contact
}
