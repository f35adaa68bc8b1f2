package extract

import (
	"regexp"
	"strings"
)

// codeShape is the canonical product-code pattern on this document family:
// one to four letters followed by three to five digits (AJ1323, TRB826).
var codeShape = regexp.MustCompile(`\b[A-Z]{1,4}\d{3,5}\b`)

var (
	// Strict: a line led by a product code followed by a color, the usual
	// section header ("AJ1323 - BLACK LEATHER").
	leadCodeColor = regexp.MustCompile(`^\s*(?:\d+\s+)?([A-Z]{1,4}\d{3,5})\s*[-/]\s*([A-Z][A-Z ]{2,})`)
	// Looser: a line led by a product code alone.
	leadCode = regexp.MustCompile(`^\s*(?:\d+\s+)?([A-Z]{1,4}\d{3,5})\b`)
)

// SplitSections cuts document text into per-product spans. Three delimiters
// are tried in order, each widening recall after the stricter one found
// nothing: code-plus-color lead lines, code-only lead lines, then any line
// containing a product-code shape.
func SplitSections(text string) []string {
	lines := strings.Split(text, "\n")

	if s := splitAt(lines, func(l string) bool { return leadCodeColor.MatchString(l) }); len(s) > 0 {
		return s
	}
	if s := splitAt(lines, func(l string) bool { return leadCode.MatchString(l) }); len(s) > 0 {
		return s
	}
	return splitAt(lines, func(l string) bool { return codeShape.MatchString(l) })
}

// splitAt groups lines into sections starting at each delimiter line and
// running until the next one. Text before the first delimiter is header
// material and is not part of any section.
func splitAt(lines []string, isDelim func(string) bool) []string {
	var sections []string
	var current []string

	for _, line := range lines {
		if isDelim(line) {
			if len(current) > 0 {
				sections = append(sections, strings.Join(current, "\n"))
			}
			current = []string{line}
			continue
		}
		if current != nil {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		sections = append(sections, strings.Join(current, "\n"))
	}
	return sections
}
