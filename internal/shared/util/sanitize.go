package util

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidFileName is returned for empty names or names carrying traversal patterns.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName removes path separators, collapses whitespace runs to a
// single underscore and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.Join(strings.FieldsFunc(s, unicode.IsSpace), "_")
	if s == "" {
		return "", ErrInvalidFileName
	}
	return s, nil
}
