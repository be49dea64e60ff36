package scans

import (
	"time"

	"cv-contacts/internal/contact"
	"cv-contacts/internal/review"
)

type fieldResponse struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	Extracted string `json:"extracted"`
}

type scanResponse struct {
	ScanID    string          `json:"scanId"`
	FileName  string          `json:"fileName"`
	FileType  string          `json:"fileType"`
	Status    Status          `json:"status"`
	TextChars int             `json:"textChars"`
	Contact   contact.Record  `json:"contact"`
	Extracted contact.Record  `json:"extracted"`
	Fields    []fieldResponse `json:"fields"`
	ExportID  string          `json:"exportId,omitempty"`
	StatusBar review.Status   `json:"statusBar"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toResponse(scan Scan) scanResponse {
	fields := make([]fieldResponse, 0, len(contact.Fields()))
	for _, f := range contact.Fields() {
		fields = append(fields, fieldResponse{
			Key:       f.Key(),
			Label:     f.Label(),
			Value:     scan.Edited.Get(f),
			Extracted: scan.Extracted.Get(f),
		})
	}

	bar := review.Done(review.Started(scan.FileName, scan.FileType))
	if scan.Status == StatusConfirmed {
		bar = review.Confirmed(bar)
	}

	return scanResponse{
		ScanID:    scan.ID,
		FileName:  scan.FileName,
		FileType:  scan.FileType,
		Status:    scan.Status,
		TextChars: scan.TextChars,
		Contact:   scan.Edited,
		Extracted: scan.Extracted,
		Fields:    fields,
		ExportID:  scan.ExportID,
		StatusBar: bar,
		CreatedAt: scan.CreatedAt,
		UpdatedAt: scan.UpdatedAt,
	}
}

type extractRequest struct {
	Text *string `json:"text"`
}
