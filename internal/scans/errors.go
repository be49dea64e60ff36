package scans

import (
	"errors"

	"cv-contacts/internal/extract"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("file too large")
	// ErrUnsupportedType is the loader's error for non PDF/DOCX uploads.
	ErrUnsupportedType = extract.ErrUnsupportedType
	// ErrUnreadable wraps loader failures on supported formats.
	ErrUnreadable = errors.New("document could not be read")
)
