package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cv-contacts/internal/contact"
	"cv-contacts/internal/extract"
	"cv-contacts/internal/shared/testfixtures"
)

func fixedClock() func() time.Time {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(5 * time.Millisecond)
		return now
	}
}

func TestScanDocx(t *testing.T) {
	s := New(nil, SourceCLI)
	s.now = fixedClock()

	res, err := s.Scan(context.Background(), Input{
		FileName: "salma.docx",
		Data:     testfixtures.Docx(t, testfixtures.SampleParagraphs...),
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	want := contact.Record{
		Name:     "Salma Ait Lahcen",
		Email:    "salma@mail.com",
		Phone:    "+212 612 345 678",
		Location: "Casablanca",
		LinkedIn: "linkedin.com/in/salma",
	}
	if res.Contact != want {
		t.Fatalf("unexpected record:\n%+v\nwant\n%+v", res.Contact, want)
	}
	if res.FileType != "DOCX" || res.FileName != "salma.docx" {
		t.Fatalf("unexpected file info: %q %q", res.FileName, res.FileType)
	}
	if res.TextChars == 0 {
		t.Fatalf("expected text length")
	}
	if res.Duration != 5*time.Millisecond {
		t.Fatalf("expected 5ms duration, got %s", res.Duration)
	}
}

func TestScanPDF(t *testing.T) {
	s := New(nil, SourceHTTP)
	res, err := s.Scan(context.Background(), Input{
		FileName: "cv.pdf",
		MimeType: extract.MimePDF,
		Data:     testfixtures.PDF(t, "Contact: youssef@example.ma"),
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Contact.Email != "youssef@example.ma" {
		t.Fatalf("unexpected email %q", res.Contact.Email)
	}
	if res.FileType != "PDF" {
		t.Fatalf("unexpected file type %q", res.FileType)
	}
}

func TestScanUnsupported(t *testing.T) {
	s := New(nil, SourceHTTP)
	_, err := s.Scan(context.Background(), Input{FileName: "notes.txt", MimeType: "text/plain", Data: []byte("hello")})
	if !errors.Is(err, extract.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if !strings.Contains(err.Error(), "notes.txt") {
		t.Fatalf("expected file name in error, got %v", err)
	}
}

func TestScanTextUsesCustomGazetteer(t *testing.T) {
	g := contact.NewGazetteer([]string{"Dakar"})
	s := New(contact.NewExtractor(g), SourceText)

	res := s.ScanText("Awa Diop\nDakar, Sénégal\nCasablanca")
	if res.Contact.Location != "Dakar" {
		t.Fatalf("expected custom gazetteer match, got %q", res.Contact.Location)
	}
	if res.Contact.Name != "Awa Diop" {
		t.Fatalf("unexpected name %q", res.Contact.Name)
	}
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.docx")
	if err := os.WriteFile(path, testfixtures.Docx(t, "Jean Martin", "jean.martin@example.fr", "Lyon"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := New(nil, SourceCLI).ScanFile(context.Background(), path)
	if err != nil {
		t.Fatalf("scan file: %v", err)
	}
	if res.Contact.Location != "Lyon" || res.FileName != "cv.docx" {
		t.Fatalf("unexpected result: %+v", res)
	}

	if _, err := New(nil, SourceCLI).ScanFile(context.Background(), filepath.Join(dir, "missing.pdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestScanExtractedKeepsFileInfo(t *testing.T) {
	s := New(nil, SourceBatch)
	s.now = fixedClock()

	res := s.ScanExtracted("cv.pdf", "PDF", "Karim Idrissi\nkarim@example.ma\nRabat")
	if res.FileName != "cv.pdf" || res.FileType != "PDF" {
		t.Fatalf("unexpected file info: %+v", res)
	}
	if res.Contact.Email != "karim@example.ma" || res.Contact.Location != "Rabat" {
		t.Fatalf("unexpected record: %+v", res.Contact)
	}
	if res.Duration != 5*time.Millisecond {
		t.Fatalf("expected 5ms duration, got %s", res.Duration)
	}
}
