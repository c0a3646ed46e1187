package document

import (
	"regexp"
	"strings"
)

// =============================================================================
// LINE CLASSIFIER - Pluggable heading detection
// =============================================================================

// Dialect selects which heading convention the extractor recognizes.
type Dialect int

const (
	// DialectRoman recognizes Federal Register style markers: roman-numeral
	// top-level headings, letter subsections and a PART regulatory tail.
	DialectRoman Dialect = iota
	// DialectGeneric recognizes uniform markdown headings (#, ##, ...)
	// with arbitrary depth.
	DialectGeneric
)

// Heading is the result of classifying a single line.
type Heading struct {
	Level  int    // 1 = top-level, 2 = subsection, ...
	Number string // "IV", "B", ... empty for generic headings
	Title  string
}

// LineClassifier decides whether a line opens a new section and at what
// level. It isolates "what counts as a heading" from the scan that maintains
// the hierarchy stack, so new document dialects only need a new rule set.
type LineClassifier struct {
	top        []*regexp.Regexp
	sub        []*regexp.Regexp
	regulatory *regexp.Regexp
	generic    *regexp.Regexp
}

// NewLineClassifier creates a classifier for the given dialect.
func NewLineClassifier(dialect Dialect) *LineClassifier {
	if dialect == DialectGeneric {
		return &LineClassifier{
			generic: regexp.MustCompile(`^(#{1,6})\s+(.+)$`),
		}
	}
	return &LineClassifier{
		top: []*regexp.Regexp{
			regexp.MustCompile(`^(?:#{1,3} )?([IVXLCDM]+)\.\s+(.+)$`),
		},
		sub: []*regexp.Regexp{
			regexp.MustCompile(`^(?:#{1,4} )?([A-Z])\.\s+(.+)$`),
		},
		regulatory: regexp.MustCompile(`^# PART \d+--`),
	}
}

// Top matches a top-level (roman numeral) heading. Roman patterns are checked
// before letter patterns, so "# C." classifies as roman; that ambiguity is
// inherent to the marker scheme.
func (c *LineClassifier) Top(line string) (Heading, bool) {
	for _, re := range c.top {
		if m := re.FindStringSubmatch(line); m != nil {
			return Heading{Level: 1, Number: m[1], Title: strings.TrimSpace(m[2])}, true
		}
	}
	return Heading{}, false
}

// Sub matches a second-level (letter) heading. Lines that also match a
// top-level rule are rejected so "# I." is never treated as a subsection.
func (c *LineClassifier) Sub(line string) (Heading, bool) {
	if _, ok := c.Top(line); ok {
		return Heading{}, false
	}
	for _, re := range c.sub {
		if m := re.FindStringSubmatch(line); m != nil {
			return Heading{Level: 2, Number: m[1], Title: strings.TrimSpace(m[2])}, true
		}
	}
	return Heading{}, false
}

// Regulatory matches the marker opening the regulatory text appendix.
func (c *LineClassifier) Regulatory(line string) bool {
	return c.regulatory != nil && c.regulatory.MatchString(line)
}

// Generic matches a uniform markdown heading; the level is the marker depth.
func (c *LineClassifier) Generic(line string) (Heading, bool) {
	if c.generic == nil {
		return Heading{}, false
	}
	m := c.generic.FindStringSubmatch(line)
	if m == nil {
		return Heading{}, false
	}
	return Heading{Level: len(m[1]), Title: strings.TrimSpace(m[2])}, true
}
