package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cv-contacts/internal/shared/testfixtures"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Salma Ait Lahcen</w:t></w:r></w:p>
<w:p><w:r><w:t>salma@mail.com</w:t></w:r><w:r><w:tab/><w:t>+212 612 345 678</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Casablanca, </w:t></w:r><w:r><w:t>Maroc</w:t></w:r><w:r><w:br/><w:t>linkedin.com/in/salma</w:t></w:r></w:p>
</w:body>
</w:document>`

func sampleDocx(t *testing.T) []byte {
	t.Helper()
	return testfixtures.Zip(t, map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	})
}

func TestExtractTextFromBytesDocx(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), sampleDocx(t), "", "cv.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	want := "Salma Ait Lahcen\nsalma@mail.com\t+212 612 345 678\nCasablanca, Maroc\nlinkedin.com/in/salma"
	if text != want {
		t.Fatalf("unexpected text:\n%q\nwant\n%q", text, want)
	}
}

func TestExtractTextFromBytesZipDocxNormalizes(t *testing.T) {
	if _, err := ExtractTextFromBytes(context.Background(), sampleDocx(t), "application/zip", "upload"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestExtractTextFromBytesRealZipRejected(t *testing.T) {
	data := testfixtures.Zip(t, map[string]string{"notes.txt": "hello"})

	_, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextFromBytesDocxMissingBody(t *testing.T) {
	data := testfixtures.Zip(t, map[string]string{"word/styles.xml": "<w:styles/>"})
	if _, err := ExtractTextFromBytes(context.Background(), data, "", "broken.docx"); err == nil {
		t.Fatal("expected error for docx without document.xml")
	}
}

func TestExtractTextFromBytesPDF(t *testing.T) {
	data := testfixtures.PDF(t, "Jane Doe", "jane.doe@example.com")

	text, err := ExtractTextFromBytes(context.Background(), data, "", "cv.pdf")
	if err != nil {
		t.Fatalf("extract pdf: %v", err)
	}
	for _, want := range []string{"Jane Doe", "jane.doe@example.com"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
}

func TestExtractTextFromBytesSniffsPDFWithoutExtension(t *testing.T) {
	data := testfixtures.PDF(t, "Jane Doe")
	if _, err := ExtractTextFromBytes(context.Background(), data, "application/octet-stream", "upload"); err != nil {
		t.Fatalf("expected pdf sniffing, got %v", err)
	}
}

func TestExtractTextFromBytesCorruptPDF(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("%PDF-1.4 garbage"), "", "cv.pdf")
	if err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestExtractTextFromBytesRejects(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		mime     string
		fileName string
		want     error
	}{
		{name: "empty", data: nil, fileName: "cv.pdf", want: ErrEmptyDocument},
		{name: "plain text", data: []byte("hello"), mime: "text/plain", fileName: "cv.txt", want: ErrUnsupportedType},
		{name: "legacy doc", data: []byte{0xd0, 0xcf, 0x11, 0xe0}, mime: "application/msword", fileName: "cv.doc", want: ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractTextFromBytes(context.Background(), tt.data, tt.mime, tt.fileName)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestExtractTextFromBytesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, sampleDocx(t), "", "cv.docx"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractTextNormalizesToNFC(t *testing.T) {
	decomposed := "Jose\u0301 Garci\u0301a"
	body := strings.Replace(documentXML, "Salma Ait Lahcen", decomposed, 1)
	data := testfixtures.Zip(t, map[string]string{
		"word/document.xml":            body,
		"word/_rels/document.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	})
	text, err := ExtractTextFromBytes(context.Background(), data, "", "cv.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.HasPrefix(text, "Jos\u00e9 Garc\u00eda") {
		t.Fatalf("expected composed accents, got %q", text)
	}
}

func TestFileType(t *testing.T) {
	tests := []struct {
		fileName string
		mime     string
		want     string
	}{
		{fileName: "CV.PDF", want: "PDF"},
		{fileName: "cv.docx", want: "DOCX"},
		{fileName: "upload", mime: MimeDOCX + "; charset=binary", want: "DOCX"},
		{fileName: "cv.odt", want: ""},
	}
	for _, tt := range tests {
		if got := FileType(tt.fileName, tt.mime); got != tt.want {
			t.Fatalf("FileType(%q, %q) = %q, want %q", tt.fileName, tt.mime, got, tt.want)
		}
	}
}
