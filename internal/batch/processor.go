package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"cv-contacts/internal/exports"
	"cv-contacts/internal/extract"
	"cv-contacts/internal/queue"
	"cv-contacts/internal/scanner"
	"cv-contacts/internal/shared/metrics"
	"cv-contacts/internal/shared/storage/object"
	"cv-contacts/internal/shared/telemetry"
)

// Processor extracts contacts from stored documents and appends them to
// the export ledger.
type Processor struct {
	Store   object.ObjectStore
	Scanner *scanner.Scanner
	Exports *exports.Service
}

// NewProcessor wires a processor with a batch-labelled scanner.
func NewProcessor(store object.ObjectStore, scan *scanner.Scanner, ledger *exports.Service) *Processor {
	if scan == nil {
		scan = scanner.New(nil, scanner.SourceBatch)
	}
	return &Processor{Store: store, Scanner: scan, Exports: ledger}
}

// ProcessDocument loads the stored document, extracts its contact fields
// and records a batch ledger entry. A document already in the ledger is
// not recorded twice and is reported as success.
func (p *Processor) ProcessDocument(ctx context.Context, msg queue.Message) (exports.Entry, error) {
	if p == nil || p.Store == nil || p.Exports == nil {
		return exports.Entry{}, errors.New("batch processor not configured")
	}
	start := time.Now()
	fileName := msg.FileName
	if fileName == "" {
		fileName = msg.DocumentKey
	}

	text, err := extract.ExtractText(ctx, p.Store, msg.DocumentKey, msg.MimeType, fileName)
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, extract.ErrUnsupportedType) {
			outcome = metrics.OutcomeUnsupported
		}
		metrics.IncExtraction(scanner.SourceBatch, outcome)
		metrics.IncBatchJob(outcome)
		return exports.Entry{}, err
	}

	fileType := extract.FileType(fileName, msg.MimeType)
	res := p.scanner().ScanExtracted(fileName, fileType, text)

	entry, err := p.Exports.Record(ctx, exports.Entry{
		Source:      exports.SourceBatch,
		FileName:    fileName,
		DocumentKey: msg.DocumentKey,
		Contact:     res.Contact,
	})
	switch {
	case errors.Is(err, exports.ErrDuplicate):
		telemetry.Info("batch.document.duplicate", map[string]any{
			"document_key": msg.DocumentKey,
			"request_id":   msg.RequestID,
		})
		metrics.IncBatchJob(metrics.OutcomeOK)
		return exports.Entry{}, nil
	case err != nil:
		metrics.IncBatchJob(metrics.OutcomeFailed)
		return exports.Entry{}, fmt.Errorf("record export: %w", err)
	}

	telemetry.Info("batch.document.processed", map[string]any{
		"document_key": msg.DocumentKey,
		"request_id":   msg.RequestID,
		"file_type":    fileType,
		"fields_found": len(res.Contact.FieldsFound()),
		"export_id":    entry.ID,
		"duration_ms":  time.Since(start).Milliseconds(),
	})
	metrics.IncBatchJob(metrics.OutcomeOK)
	return entry, nil
}

func (p *Processor) scanner() *scanner.Scanner {
	if p.Scanner == nil {
		return scanner.New(nil, scanner.SourceBatch)
	}
	return p.Scanner
}

// IsPermanent reports whether a processing error will recur on retry.
func IsPermanent(err error) bool {
	return errors.Is(err, extract.ErrUnsupportedType) ||
		errors.Is(err, extract.ErrEmptyDocument) ||
		errors.Is(err, object.ErrInvalidKey) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, exports.ErrInvalidInput)
}

var _ DocumentProcessor = (*Processor)(nil)
