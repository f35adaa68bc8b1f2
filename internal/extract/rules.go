package extract

import (
	"regexp"
	"strings"
)

// FieldRule recovers one named field through an ordered list of alternative
// patterns. Source documents vary in label phrasing ("PO#:" vs "Purchase
// Order:" vs "Invoice No:") and OCR mangles punctuation, so each rule carries
// strict patterns first and progressively looser fallbacks after.
type FieldRule struct {
	Name     string
	Patterns []*regexp.Regexp
}

// Apply runs the rule's patterns in order and returns the first capture of
// the first matching pattern. Patterns without a capture group yield their
// whole match.
func (r FieldRule) Apply(text string) (string, bool) {
	for _, p := range r.Patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		val := m[0]
		for _, g := range m[1:] {
			if g != "" {
				val = g
				break
			}
		}
		val = strings.TrimSpace(val)
		if val != "" {
			return val, true
		}
	}
	return "", false
}

// RuleSet is an ordered collection of field rules applied independently.
type RuleSet []FieldRule

// Extract applies every rule and collects present fields. It always returns
// a (possibly empty) map and never fails.
func (rs RuleSet) Extract(text string) Fields {
	out := make(Fields)
	for _, rule := range rs {
		if v, ok := rule.Apply(text); ok {
			out[rule.Name] = v
		}
	}
	return out
}

// rule is a construction helper compiling pattern alternatives in order.
func rule(name string, patterns ...string) FieldRule {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return FieldRule{Name: name, Patterns: compiled}
}
