package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/text/unicode/norm"

	"cv-contacts/internal/shared/storage/object"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZIP  = "application/zip"
)

var (
	// ErrUnsupportedType is returned for anything other than PDF or DOCX.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrEmptyDocument is returned for zero-length payloads.
	ErrEmptyDocument = errors.New("empty document")
)

// ExtractText pulls text from a stored object and persists a derived .extracted.txt copy.
func ExtractText(ctx context.Context, store object.ObjectStore, fileKey string, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", fileKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: read: %w", fileKey, err)
	}

	text, err := ExtractTextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", fileKey, err)
	}

	if _, err := store.SaveWithKey(ctx, fileKey+".extracted.txt", "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("extract text key=%s: save: %w", fileKey, err)
	}

	return text, nil
}

// ExtractTextFromBytes extracts text from an in-memory PDF or DOCX payload.
// The file extension decides the format; the MIME type and ZIP contents are
// consulted when the extension is missing or unknown.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	var (
		text string
		err  error
	)
	switch detected := DetectType(fileName, mimeType, data); detected {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	default:
		if detected == "" {
			detected = "unknown"
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, detected)
	}
	if err != nil {
		return "", err
	}
	return norm.NFC.String(text), nil
}

// FileType returns a short display label ("PDF", "DOCX") or "" when unsupported.
func FileType(fileName string, mimeType string) string {
	return TypeLabel(DetectType(fileName, mimeType, nil))
}

// TypeLabel maps a detected MIME type to its display label.
func TypeLabel(mimeType string) string {
	switch mimeType {
	case MimePDF:
		return "PDF"
	case MimeDOCX:
		return "DOCX"
	default:
		return ""
	}
}

// DetectType resolves the document MIME type.
func DetectType(fileName string, mimeType string, data []byte) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	}

	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case MimePDF, MimeDOCX:
		return clean
	case mimeZIP:
		if hasDocumentXML(data) {
			return MimeDOCX
		}
	}
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return MimePDF
	}
	return clean
}

func extractPDF(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("read pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var buf strings.Builder
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		content, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		buf.WriteString(content)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

func hasDocumentXML(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
