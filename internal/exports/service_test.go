package exports

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"cv-contacts/internal/contact"
	"cv-contacts/internal/export"
)

func newTestService() *Service {
	base := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	n := 0
	return &Service{
		Repo: NewMemoryRepo(),
		Now: func() time.Time {
			n++
			return base.Add(time.Duration(n) * time.Minute)
		},
		NewID: func() string { return "exp-" + string(rune('a'+n)) },
	}
}

func TestServiceRecordAssignsIDAndTime(t *testing.T) {
	svc := newTestService()
	entry, err := svc.Record(context.Background(), Entry{
		Source:   SourceReview,
		FileName: "  cv.pdf ",
		Contact:  contact.Record{Name: "Awa Diop"},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", entry)
	}
	if entry.FileName != "cv.pdf" {
		t.Fatalf("expected trimmed file name, got %q", entry.FileName)
	}
}

func TestServiceRecordRejectsUnknownSource(t *testing.T) {
	_, err := newTestService().Record(context.Background(), Entry{Source: "manual"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestServiceRecordBatchDuplicate(t *testing.T) {
	svc := newTestService()
	entry := Entry{Source: SourceBatch, DocumentKey: "documents/a.pdf"}
	if _, err := svc.Record(context.Background(), entry); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if _, err := svc.Record(context.Background(), entry); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Review confirmations of the same document are never deduplicated.
	review := Entry{Source: SourceReview, DocumentKey: "documents/a.pdf"}
	for i := 0; i < 2; i++ {
		if _, err := svc.Record(context.Background(), review); err != nil {
			t.Fatalf("review record %d: %v", i, err)
		}
	}
}

func TestServiceListNewestFirst(t *testing.T) {
	svc := newTestService()
	for _, name := range []string{"first", "second", "third"} {
		if _, err := svc.Record(context.Background(), Entry{Source: SourceReview, Contact: contact.Record{Name: name}}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	page, err := svc.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].Contact.Name != "third" || page[1].Contact.Name != "second" {
		t.Fatalf("unexpected page: %+v", page)
	}
	rest, _ := svc.List(context.Background(), 2, 2)
	if len(rest) != 1 || rest[0].Contact.Name != "first" {
		t.Fatalf("unexpected second page: %+v", rest)
	}
}

func TestServiceWorkbookOldestFirst(t *testing.T) {
	svc := newTestService()
	for _, name := range []string{"first", "second"} {
		if _, err := svc.Record(context.Background(), Entry{Source: SourceReview, Contact: contact.Record{Name: name, Email: name + "@example.com"}}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := svc.Workbook(context.Background(), &buf); err != nil {
		t.Fatalf("workbook: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 || rows[1][0] != "first" || rows[2][0] != "second" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}
