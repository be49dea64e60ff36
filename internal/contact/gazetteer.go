package contact

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPlaces is the place list matched when no gazetteer file is configured.
var DefaultPlaces = []string{
	"Casablanca", "Rabat", "Marrakesh", "Fes", "Tanger", "Agadir",
	"Morocco", "Maroc", "France", "Paris", "Lyon", "Marseille",
}

// Gazetteer matches a fixed list of place names. Entries are substrings, not
// words: "Fes" also matches inside "Professeur".
type Gazetteer struct {
	places  []string
	pattern *regexp.Regexp
}

// NewGazetteer compiles places into a single case-insensitive alternation.
// Blank entries are ignored.
func NewGazetteer(places []string) *Gazetteer {
	cleaned := make([]string, 0, len(places))
	quoted := make([]string, 0, len(places))
	for _, p := range places {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		cleaned = append(cleaned, p)
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	g := &Gazetteer{places: cleaned}
	if len(quoted) > 0 {
		g.pattern = regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
	}
	return g
}

var defaultGazetteer = NewGazetteer(DefaultPlaces)

// DefaultGazetteer returns the built-in Moroccan/French place list.
func DefaultGazetteer() *Gazetteer {
	return defaultGazetteer
}

// Places returns a copy of the configured entries.
func (g *Gazetteer) Places() []string {
	out := make([]string, len(g.places))
	copy(out, g.places)
	return out
}

// Match returns the earliest place occurring in normalized, with its casing
// from the text.
func (g *Gazetteer) Match(normalized string) string {
	if g == nil || g.pattern == nil {
		return ""
	}
	return g.pattern.FindString(normalized)
}

type gazetteerFile struct {
	Places []string `yaml:"places"`
}

// ErrEmptyGazetteer is returned when a gazetteer file lists no places.
var ErrEmptyGazetteer = errors.New("gazetteer has no places")

// LoadGazetteerFile reads a YAML document of the form
//
//	places:
//	  - Casablanca
//	  - Paris
func LoadGazetteerFile(path string) (*Gazetteer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer %s: %w", path, err)
	}
	return ParseGazetteer(raw)
}

// ParseGazetteer decodes the YAML gazetteer format.
func ParseGazetteer(raw []byte) (*Gazetteer, error) {
	var doc gazetteerFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode gazetteer: %w", err)
	}
	g := NewGazetteer(doc.Places)
	if len(g.places) == 0 {
		return nil, ErrEmptyGazetteer
	}
	return g, nil
}
