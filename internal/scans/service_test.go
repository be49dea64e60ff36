package scans

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cv-contacts/internal/contact"
	"cv-contacts/internal/exports"
	"cv-contacts/internal/scanner"
	"cv-contacts/internal/shared/testfixtures"
)

func newTestService(t *testing.T) (*Service, *exports.MemoryRepo) {
	t.Helper()
	ledger := exports.NewMemoryRepo()
	return &Service{
		Repo:           NewMemoryRepo(time.Minute),
		Scanner:        scanner.New(nil, scanner.SourceHTTP),
		Exports:        exports.NewService(ledger),
		MaxUploadBytes: 1 << 20,
		Now:            func() time.Time { return time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC) },
	}, ledger
}

func uploadSample(t *testing.T, svc *Service, sessionID string) Scan {
	t.Helper()
	data := testfixtures.Docx(t, testfixtures.SampleParagraphs...)
	scan, err := svc.Upload(context.Background(), sessionID, "salma.docx", "", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return scan
}

func TestServiceUpload(t *testing.T) {
	svc, _ := newTestService(t)
	scan := uploadSample(t, svc, "session-a")

	if scan.ID == "" || scan.Status != StatusReady || scan.FileType != "DOCX" {
		t.Fatalf("unexpected scan: %+v", scan)
	}
	if scan.Extracted.Email != "salma@mail.com" || scan.Edited != scan.Extracted {
		t.Fatalf("unexpected records: %+v", scan)
	}

	current, err := svc.Current(context.Background(), "session-a")
	if err != nil || current.ID != scan.ID {
		t.Fatalf("current = %+v, %v", current, err)
	}
}

func TestServiceUploadErrors(t *testing.T) {
	svc, _ := newTestService(t)
	svc.MaxUploadBytes = 16

	tests := []struct {
		name      string
		sessionID string
		fileName  string
		body      string
		want      error
	}{
		{name: "missing session", fileName: "cv.pdf", body: "x", want: ErrInvalidInput},
		{name: "missing name", sessionID: "session-a", body: "x", want: ErrInvalidInput},
		{name: "too large", sessionID: "session-a", fileName: "cv.pdf", body: strings.Repeat("x", 17), want: ErrTooLarge},
		{name: "unsupported", sessionID: "session-a", fileName: "cv.txt", body: "hello", want: ErrUnsupportedType},
		{name: "empty", sessionID: "session-a", fileName: "cv.pdf", body: "", want: ErrInvalidInput},
		{name: "corrupt pdf", sessionID: "session-a", fileName: "cv.pdf", body: "%PDF-1.4 junk", want: ErrUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.sessionID, tt.fileName, "", strings.NewReader(tt.body))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if _, err := svc.Current(context.Background(), "session-a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("failed uploads must not create state, got %v", err)
	}
}

func TestServiceEditRevertKeepsExtracted(t *testing.T) {
	svc, _ := newTestService(t)
	original := uploadSample(t, svc, "session-a")

	edited := original.Extracted.With(contact.FieldPhone, "+212 612 345 678 (mobile)")
	scan, err := svc.UpdateContact(context.Background(), "session-a", edited)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if scan.Status != StatusEdited || scan.Edited.Phone != "+212 612 345 678 (mobile)" {
		t.Fatalf("unexpected edited scan: %+v", scan)
	}
	if scan.Extracted != original.Extracted {
		t.Fatalf("extracted record must not change")
	}

	text, err := svc.ClipboardText(context.Background(), "session-a")
	if err != nil {
		t.Fatalf("clipboard: %v", err)
	}
	if !strings.Contains(text, "Téléphone: +212 612 345 678 (mobile)") {
		t.Fatalf("clipboard must use edited values: %q", text)
	}

	scan, err = svc.Revert(context.Background(), "session-a")
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if scan.Status != StatusReady || scan.Edited != original.Extracted {
		t.Fatalf("unexpected reverted scan: %+v", scan)
	}
}

func TestServiceConfirmRecordsEditedValues(t *testing.T) {
	svc, ledger := newTestService(t)
	uploadSample(t, svc, "session-a")
	if _, err := svc.UpdateContact(context.Background(), "session-a", contact.Record{Name: "Salma A. Lahcen"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	entry, err := svc.Confirm(context.Background(), "session-a")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if entry.Source != exports.SourceReview || entry.SessionID != "session-a" || entry.Contact.Name != "Salma A. Lahcen" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if n, _ := ledger.Count(context.Background()); n != 1 {
		t.Fatalf("expected one ledger row, got %d", n)
	}

	scan, _ := svc.Current(context.Background(), "session-a")
	if scan.Status != StatusConfirmed || scan.ExportID != entry.ID {
		t.Fatalf("unexpected scan after confirm: %+v", scan)
	}
}

func TestServiceResetAndWorkbook(t *testing.T) {
	svc, _ := newTestService(t)
	uploadSample(t, svc, "session-a")

	var buf bytes.Buffer
	if err := svc.Workbook(context.Background(), "session-a", &buf); err != nil {
		t.Fatalf("workbook: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected workbook bytes")
	}

	if err := svc.Reset(context.Background(), "session-a"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := svc.Workbook(context.Background(), "session-a", &buf); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after reset, got %v", err)
	}
}

func TestServiceExtractText(t *testing.T) {
	svc, _ := newTestService(t)
	rec := svc.ExtractText("CURRICULUM VITAE\nKarim El Idrissi\nkarim@mail.ma\nRABAT")
	if rec.Name != "Karim El Idrissi" || rec.Email != "karim@mail.ma" || rec.Location != "RABAT" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
