package crontab

import (
	"fmt"
	"path"
	"strings"

	"github.com/wasilibs/go-re2"
	"golang.org/x/text/unicode/norm"
)

// MatchMode selects how a marker token identifies managed entries.
type MatchMode string

const (
	// MatchSubstring matches any line containing the marker.
	MatchSubstring MatchMode = "substring"
	// MatchField matches lines where a whitespace-separated field, or its
	// base name, equals the marker. Comment lines never match.
	MatchField MatchMode = "field"
	// MatchRegexp treats the marker as an RE2 pattern.
	MatchRegexp MatchMode = "regexp"
)

// MatchModes lists the supported modes.
var MatchModes = []MatchMode{MatchSubstring, MatchField, MatchRegexp}

// MatchModeList returns the supported modes as "substring, field, regexp".
func MatchModeList() string {
	names := make([]string, len(MatchModes))
	for i, m := range MatchModes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Matcher decides whether an entry belongs to the managed job.
type Matcher interface {
	Match(e Entry) bool
	Marker() string
}

// NewMatcher builds a matcher for the given mode. An empty mode means substring.
func NewMatcher(mode MatchMode, marker string) (Matcher, error) {
	if strings.TrimSpace(marker) == "" {
		return nil, fmt.Errorf("marker cannot be empty")
	}

	switch mode {
	case "", MatchSubstring:
		return NewSubstringMatcher(marker), nil
	case MatchField:
		return NewFieldMatcher(marker), nil
	case MatchRegexp:
		return NewRegexpMatcher(marker)
	default:
		return nil, fmt.Errorf("invalid match mode: %s (expected: %s)", mode, MatchModeList())
	}
}

// SubstringMatcher matches entries containing the marker. Both sides are
// NFC-normalized, so a composed and a decomposed spelling of the same path match.
type SubstringMatcher struct {
	marker string
}

// NewSubstringMatcher creates a SubstringMatcher.
func NewSubstringMatcher(marker string) *SubstringMatcher {
	return &SubstringMatcher{marker: norm.NFC.String(marker)}
}

func (m *SubstringMatcher) Match(e Entry) bool {
	return strings.Contains(norm.NFC.String(string(e)), m.marker)
}

func (m *SubstringMatcher) Marker() string {
	return m.marker
}

// FieldMatcher matches entries having a field equal to the marker.
type FieldMatcher struct {
	marker string
}

// NewFieldMatcher creates a FieldMatcher.
func NewFieldMatcher(marker string) *FieldMatcher {
	return &FieldMatcher{marker: norm.NFC.String(marker)}
}

func (m *FieldMatcher) Match(e Entry) bool {
	if e.IsComment() {
		return false
	}
	for _, field := range strings.Fields(norm.NFC.String(string(e))) {
		// кавычки от shellQuote не входят в имя
		field = strings.Trim(field, `'"`)
		if field == m.marker || path.Base(field) == m.marker {
			return true
		}
	}
	return false
}

func (m *FieldMatcher) Marker() string {
	return m.marker
}

// RegexpMatcher matches entries against an RE2 expression.
type RegexpMatcher struct {
	pattern string
	re      *re2.Regexp
}

// NewRegexpMatcher compiles pattern.
func NewRegexpMatcher(pattern string) (*RegexpMatcher, error) {
	re, err := re2.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid marker pattern: %w", err)
	}
	return &RegexpMatcher{pattern: pattern, re: re}, nil
}

func (m *RegexpMatcher) Match(e Entry) bool {
	return m.re.MatchString(string(e))
}

func (m *RegexpMatcher) Marker() string {
	return m.pattern
}
