// Package scanner runs the load-then-extract pipeline for one document.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"cv-contacts/internal/contact"
	"cv-contacts/internal/extract"
	"cv-contacts/internal/shared/metrics"
	"cv-contacts/internal/shared/telemetry"
)

// Source labels used in telemetry and metrics.
const (
	SourceHTTP  = "http"
	SourceCLI   = "cli"
	SourceBatch = "batch"
	SourceText  = "text"
)

// Input is one document to scan.
type Input struct {
	FileName string
	MimeType string
	Data     []byte
}

// Result is the outcome of a successful scan.
type Result struct {
	FileName  string         `json:"fileName"`
	FileType  string         `json:"fileType"`
	TextChars int            `json:"textChars"`
	Contact   contact.Record `json:"contact"`
	Duration  time.Duration  `json:"-"`
}

// Scanner loads document text and extracts contact fields from it.
type Scanner struct {
	Extractor *contact.Extractor
	Source    string
	now       func() time.Time
}

// New returns a scanner labelled with source. A nil extractor uses the default gazetteer.
func New(extractor *contact.Extractor, source string) *Scanner {
	return &Scanner{Extractor: extractor, Source: source}
}

// Scan loads text from in and extracts its contact record. Load errors are
// returned wrapped; extraction itself cannot fail.
func (s *Scanner) Scan(ctx context.Context, in Input) (Result, error) {
	start := s.clock()()
	source := s.source()
	fileType := extract.TypeLabel(extract.DetectType(in.FileName, in.MimeType, in.Data))

	text, err := extract.ExtractTextFromBytes(ctx, in.Data, in.MimeType, in.FileName)
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, extract.ErrUnsupportedType) {
			outcome = metrics.OutcomeUnsupported
		}
		metrics.IncExtraction(source, outcome)
		telemetry.Warn("scan.failed", map[string]any{
			"source":    source,
			"file_name": in.FileName,
			"file_type": fileType,
			"outcome":   outcome,
			"error":     err.Error(),
		})
		return Result{}, fmt.Errorf("load %s: %w", in.FileName, err)
	}

	result := s.finish(start, source, text)
	result.FileName = in.FileName
	result.FileType = fileType
	telemetry.Info("scan.complete", map[string]any{
		"source":       source,
		"file_name":    in.FileName,
		"file_type":    fileType,
		"text_chars":   result.TextChars,
		"fields_found": len(result.Contact.FieldsFound()),
		"duration_ms":  float64(result.Duration.Microseconds()) / 1000.0,
	})
	return result, nil
}

// ScanText extracts contact fields from already-loaded text.
func (s *Scanner) ScanText(text string) Result {
	return s.finish(s.clock()(), SourceText, text)
}

// ScanExtracted extracts contact fields from text another component already
// loaded, labelled with the scanner's own source.
func (s *Scanner) ScanExtracted(fileName, fileType, text string) Result {
	result := s.finish(s.clock()(), s.source(), text)
	result.FileName = fileName
	result.FileType = fileType
	return result
}

// ScanFile reads a document from disk and scans it.
func (s *Scanner) ScanFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Scan(ctx, Input{
		FileName: filepath.Base(path),
		MimeType: mime.TypeByExtension(filepath.Ext(path)),
		Data:     data,
	})
}

func (s *Scanner) finish(start time.Time, source, text string) Result {
	extractor := s.Extractor
	if extractor == nil {
		extractor = contact.NewExtractor(nil)
	}
	record := extractor.Extract(text)
	elapsed := s.clock()().Sub(start)

	found := record.FieldsFound()
	keys := make([]string, 0, len(found))
	for _, f := range found {
		keys = append(keys, f.Key())
	}
	metrics.IncExtraction(source, metrics.OutcomeOK)
	metrics.AddFieldsFound(keys...)
	metrics.ObserveExtractionDuration(source, elapsed)

	return Result{
		TextChars: utf8.RuneCountInString(text),
		Contact:   record,
		Duration:  elapsed,
	}
}

func (s *Scanner) source() string {
	if s.Source == "" {
		return SourceHTTP
	}
	return s.Source
}

func (s *Scanner) clock() func() time.Time {
	if s.now == nil {
		return time.Now
	}
	return s.now
}
