// Package contact isolates contact fields (name, email, phone, location,
// LinkedIn) from the plain text of a résumé.
//
// Extraction is total and pure: any input, including the empty string,
// yields a Record whose missing fields are empty strings. Each field is
// produced by an independent matcher so rules can be replaced one at a time.
package contact

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength is the number of characters kept from the selected name line.
const MaxNameLength = 40

var (
	emailPattern    = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	linkedInPattern = regexp.MustCompile(`(?i)(https?://)?(www\.)?linkedin\.com/[A-Za-z0-9_\-/]+`)

	// Matches far more than phone numbers (dates, postal codes, ids). Kept as is:
	// every field is reviewed by an operator before export.
	phonePattern = regexp.MustCompile(`(\+\d{1,3}[\s-]?)?(\(?\d{2,4}\)?[\s-]?){2,4}\d{2,4}`)
)

// matcher extracts one field. Line-based matchers receive the original text,
// the others receive the normalized single-line form.
type matcher struct {
	field     Field
	lineBased bool
	match     func(text string) string
}

// Extractor composes the per-field matchers.
type Extractor struct {
	matchers []matcher
}

// NewExtractor builds an extractor using g for locations. A nil gazetteer
// selects the default place list.
func NewExtractor(g *Gazetteer) *Extractor {
	if g == nil {
		g = DefaultGazetteer()
	}
	return &Extractor{matchers: []matcher{
		{field: FieldEmail, match: MatchEmail},
		{field: FieldPhone, match: MatchPhone},
		{field: FieldLinkedIn, match: MatchLinkedIn},
		{field: FieldName, lineBased: true, match: MatchName},
		{field: FieldLocation, match: g.Match},
	}}
}

var defaultExtractor = NewExtractor(nil)

// Extract runs the default extractor over text.
func Extract(text string) Record {
	return defaultExtractor.Extract(text)
}

// Extract returns the contact record found in text. It never fails.
func (e *Extractor) Extract(text string) Record {
	normalized := Normalize(text)
	var rec Record
	for _, m := range e.matchers {
		input := normalized
		if m.lineBased {
			input = text
		}
		rec = rec.With(m.field, m.match(input))
	}
	return rec
}

// Normalize collapses every whitespace run, newlines included, into a single
// space and trims both ends.
func Normalize(text string) string {
	return strings.Join(strings.FieldsFunc(text, isSpace), " ")
}

// MatchEmail returns the first email-shaped token.
func MatchEmail(normalized string) string {
	return emailPattern.FindString(normalized)
}

// MatchPhone returns the first phone-shaped digit sequence.
func MatchPhone(normalized string) string {
	return phonePattern.FindString(normalized)
}

// MatchLinkedIn returns the first linkedin.com URL fragment.
func MatchLinkedIn(normalized string) string {
	return linkedInPattern.FindString(normalized)
}

// MatchName returns the first usable line of text: longer than two
// characters, without "curriculum" (any case) and without '@'. The line is
// cut to MaxNameLength characters.
func MatchName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimFunc(line, isSpace)
		if utf8.RuneCountInString(line) <= 2 {
			continue
		}
		if strings.Contains(strings.ToLower(line), "curriculum") || strings.Contains(line, "@") {
			continue
		}
		return truncate(line, MaxNameLength)
	}
	return ""
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}
