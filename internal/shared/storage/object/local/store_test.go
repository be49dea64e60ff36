package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"cv-contacts/internal/shared/storage/object"
)

func TestSaveAndOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, mime, err := store.Save(ctx, "session-1", "My CV.pdf", strings.NewReader("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len("%PDF-1.4 body")) {
		t.Fatalf("unexpected size %d", size)
	}
	if mime != "application/pdf" {
		t.Fatalf("unexpected mime %q", mime)
	}
	if !strings.HasSuffix(key, "_My_CV.pdf") {
		t.Fatalf("unexpected key %q", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4 body" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestSaveWithKeyOverwrites(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, body := range []string{"first", "second"} {
		if _, err := store.SaveWithKey(ctx, "docs/a.pdf.extracted.txt", "text/plain", strings.NewReader(body)); err != nil {
			t.Fatalf("save with key: %v", err)
		}
	}
	rc, err := store.Open(ctx, "docs/a.pdf.extracted.txt")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "second" {
		t.Fatalf("expected overwrite, got %q", data)
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"../etc/passwd", "/abs/path", ""} {
		if _, err := store.Open(context.Background(), key); !errors.Is(err, object.ErrInvalidKey) {
			t.Fatalf("Open(%q): expected ErrInvalidKey, got %v", key, err)
		}
	}
}
