package reconcile

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Sides label one-sided entries in the report.
const (
	SideA = "a"
	SideB = "b"
)

// Key builds the join identity for a line: the canonical product-code
// pattern lowercased, combined with the normalized color when present. Lines
// without a canonical code fall back to their style identifier.
func Key(l Line) string {
	id := canonicalCode.FindString(strings.ToUpper(l.ProductCode))
	if id == "" {
		id = canonicalCode.FindString(strings.ToUpper(l.Style))
	}
	if id == "" {
		id = strings.TrimSpace(l.Style)
	}
	id = strings.ToLower(id)

	color := strings.ToLower(strings.Join(strings.Fields(l.Color), " "))
	if color != "" {
		return id + "/" + color
	}
	return id
}

// FieldDiff is one differing field between the two sides of a key.
type FieldDiff struct {
	Field  string `json:"field"`
	ValueA string `json:"value1"`
	ValueB string `json:"value2"`
}

// Match is a key present and equal on both sides.
type Match struct {
	Key   string `json:"key"`
	LineA group  `json:"record1"`
	LineB group  `json:"record2"`
}

// Mismatch is a key present on both sides with differing fields.
type Mismatch struct {
	Key    string      `json:"key"`
	Fields []FieldDiff `json:"fields"`
}

// Missing is a key present on only one side.
type Missing struct {
	Key    string `json:"key"`
	Side   string `json:"present_on"`
	Reason string `json:"reason"`
}

// Summary aggregates the comparison.
type Summary struct {
	TotalItems      int     `json:"total_items"`
	MatchedCount    int     `json:"matched_count"`
	MismatchedCount int     `json:"mismatched_count"`
	MissingCount    int     `json:"missing_count"`
	MatchPercentage float64 `json:"match_percentage"`
}

// Report is the full reconciliation output, serializable to JSON.
type Report struct {
	Matches    []Match    `json:"matches"`
	Mismatches []Mismatch `json:"mismatches"`
	Missing    []Missing  `json:"missing"`
	Summary    Summary    `json:"summary"`
}

// group collects every line sharing a key: one per size plus derived totals.
type group struct {
	Lines     []Line         `json:"lines"`
	TotalQty  int            `json:"total_quantity"`
	UnitPrice string         `json:"unit_price"`
	PerSize   map[string]int `json:"per_size"`
}

// Compare reconciles two record sets. Both sides are standardized before
// comparison, so callers may pass raw extraction output. Classification is
// symmetric: swapping the arguments flips only the side labels.
func Compare(linesA, linesB []Line) Report {
	groupsA := groupByKey(linesA)
	groupsB := groupByKey(linesB)

	keys := unionKeys(groupsA, groupsB)

	report := Report{
		Matches:    []Match{},
		Mismatches: []Mismatch{},
		Missing:    []Missing{},
	}

	for _, key := range keys {
		ga, inA := groupsA[key]
		gb, inB := groupsB[key]
		switch {
		case inA && !inB:
			report.Missing = append(report.Missing, Missing{
				Key: key, Side: SideA, Reason: "absent from second document",
			})
		case inB && !inA:
			report.Missing = append(report.Missing, Missing{
				Key: key, Side: SideB, Reason: "absent from first document",
			})
		default:
			if diffs := diffGroups(ga, gb); len(diffs) > 0 {
				report.Mismatches = append(report.Mismatches, Mismatch{Key: key, Fields: diffs})
			} else {
				report.Matches = append(report.Matches, Match{Key: key, LineA: ga, LineB: gb})
			}
		}
	}

	total := len(keys)
	report.Summary = Summary{
		TotalItems:      total,
		MatchedCount:    len(report.Matches),
		MismatchedCount: len(report.Mismatches),
		MissingCount:    len(report.Missing),
		MatchPercentage: matchPercentage(len(report.Matches), total),
	}
	return report
}

// matchPercentage is matched/total*100 rounded to two decimals; an empty
// comparison is 0, not a division error.
func matchPercentage(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(matched)/float64(total)*10000) / 100
}

func groupByKey(lines []Line) map[string]group {
	out := make(map[string]group)
	for _, raw := range lines {
		l := Standardize(raw)
		key := Key(l)
		g := out[key]
		if g.PerSize == nil {
			g.PerSize = make(map[string]int)
		}
		g.Lines = append(g.Lines, l)
		qty, _ := strconv.Atoi(l.Quantity)
		g.TotalQty += qty
		g.PerSize[l.Size] += qty
		if g.UnitPrice == "" || g.UnitPrice == "EUR 0.00" {
			g.UnitPrice = l.UnitPrice
		}
		out[key] = g
	}
	return out
}

func unionKeys(a, b map[string]group) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		set[k] = struct{}{}
	}
	for k := range b {
		set[k] = struct{}{}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// diffGroups compares the fixed field set: total quantity, unit price within
// epsilon, and each per-size quantity.
func diffGroups(a, b group) []FieldDiff {
	var diffs []FieldDiff

	if a.TotalQty != b.TotalQty {
		diffs = append(diffs, FieldDiff{
			Field:  "quantity",
			ValueA: strconv.Itoa(a.TotalQty),
			ValueB: strconv.Itoa(b.TotalQty),
		})
	}

	if !priceEqual(a.UnitPrice, b.UnitPrice) {
		diffs = append(diffs, FieldDiff{Field: "unit_price", ValueA: a.UnitPrice, ValueB: b.UnitPrice})
	}

	sizes := make(map[string]struct{})
	for s := range a.PerSize {
		sizes[s] = struct{}{}
	}
	for s := range b.PerSize {
		sizes[s] = struct{}{}
	}
	ordered := make([]string, 0, len(sizes))
	for s := range sizes {
		ordered = append(ordered, s)
	}
	sort.Strings(ordered)
	for _, s := range ordered {
		qa, qb := a.PerSize[s], b.PerSize[s]
		if qa != qb {
			diffs = append(diffs, FieldDiff{
				Field:  fmt.Sprintf("size_%s_quantity", s),
				ValueA: strconv.Itoa(qa),
				ValueB: strconv.Itoa(qb),
			})
		}
	}
	return diffs
}

func priceEqual(a, b string) bool {
	if a == b {
		return true
	}
	curA, amtA := splitPrice(a)
	curB, amtB := splitPrice(b)
	return curA == curB && math.Abs(amtA-amtB) <= priceEpsilon
}

func splitPrice(p string) (string, float64) {
	parts := strings.Fields(p)
	if len(parts) != 2 {
		return p, 0
	}
	v, _ := strconv.ParseFloat(parts[1], 64)
	return parts[0], v
}
