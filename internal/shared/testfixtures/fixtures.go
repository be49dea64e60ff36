// Package testfixtures builds small PDF and DOCX documents for tests.
package testfixtures

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`
	relsXML         = `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
)

// SampleParagraphs is a typical résumé header.
var SampleParagraphs = []string{
	"Salma Ait Lahcen",
	"salma@mail.com | +212 612 345 678",
	"Casablanca, Maroc",
	"linkedin.com/in/salma",
}

// Docx returns a minimal .docx package with one paragraph per entry.
func Docx(tb testing.TB, paragraphs ...string) []byte {
	tb.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		if err := xml.EscapeText(&body, []byte(p)); err != nil {
			tb.Fatalf("escape paragraph: %v", err)
		}
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	return Zip(tb, map[string]string{
		"[Content_Types].xml":          contentTypesXML,
		"word/document.xml":            body.String(),
		"word/_rels/document.xml.rels": relsXML,
	})
}

// Zip packs entries into an in-memory zip archive.
func Zip(tb testing.TB, entries map[string]string) []byte {
	tb.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			tb.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			tb.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// PDF renders one uncompressed page with one text line per entry.
func PDF(tb testing.TB, lines ...string) []byte {
	tb.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	for _, line := range lines {
		doc.Cell(120, 10, line)
		doc.Ln(10)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		tb.Fatalf("render pdf: %v", err)
	}
	return buf.Bytes()
}
