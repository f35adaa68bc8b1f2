// Package sizes reconstructs (size, quantity) pairs from the ambiguous
// numeric rows of a product section. Sizes and quantities are zipped
// positionally; a short quantity row is padded with 1 ("at least one unit,
// count not legible") and a long one truncated. Pairs produced by that
// widening carry the Inferred flag so a confidence layer can be added later
// without re-deriving the heuristic.
package sizes

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/fashionops/ordex/internal/extract"
	"github.com/fashionops/ordex/internal/metrics"
)

// Pair is one size with its ordered quantity. Quantity is never negative and
// zero-quantity pairs are dropped before emission.
type Pair struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
	Inferred bool   `json:"inferred,omitempty"`
}

// Config holds the size-row recognition parameters.
type Config struct {
	MinSize      int `mapstructure:"min_size"      yaml:"min_size"      json:"min_size"`
	MaxSize      int `mapstructure:"max_size"      yaml:"max_size"      json:"max_size"`
	MinRowTokens int `mapstructure:"min_row_tokens" yaml:"min_row_tokens" json:"min_row_tokens"`
	SearchWindow int `mapstructure:"search_window" yaml:"search_window" json:"search_window"`
}

// DefaultConfig returns the footwear defaults: sizes 30-49, at least four
// distinct size tokens per row, quantity row within four lines.
func DefaultConfig() Config {
	return Config{MinSize: 30, MaxSize: 49, MinRowTokens: 4, SearchWindow: 4}
}

// Resolver pairs sizes with quantities and applies misread overrides.
type Resolver struct {
	cfg       Config
	overrides Overrides
	log       *slog.Logger
}

// NewResolver creates a resolver. A nil logger falls back to slog.Default.
func NewResolver(cfg Config, overrides Overrides, log *slog.Logger) *Resolver {
	if cfg.MinRowTokens <= 0 {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{cfg: cfg, overrides: overrides, log: log}
}

var (
	twoDigit = regexp.MustCompile(`\b\d{2}\b`)
	intToken = regexp.MustCompile(`\b\d{1,4}\b`)
	word     = regexp.MustCompile(`[A-Za-z]{3,}`)
)

// Resolve extracts size/quantity pairs from one product section. A section
// without a recognizable size row yields no pairs; that is an expected state
// for sections whose table did not survive OCR.
func (r *Resolver) Resolve(sec extract.ProductSection) []Pair {
	lines := strings.Split(sec.Text, "\n")

	sizeIdx, sizeTokens := r.findSizeRow(lines)
	if sizeIdx < 0 {
		return nil
	}
	qtyTokens, found := r.findQuantityRow(lines, sizeIdx)

	pairs := r.zip(sizeTokens, qtyTokens, found)
	code := sec.Fields.GetOr(extract.FieldProductCode, "")
	pairs = r.applyOverrides(code, pairs)

	out := pairs[:0]
	for _, p := range pairs {
		if p.Quantity > 0 {
			if p.Inferred {
				metrics.PairsInferred.Inc()
			}
			out = append(out, p)
		}
	}
	return out
}

// findSizeRow returns the first line holding at least MinRowTokens distinct
// two-digit tokens inside the configured size range, with the in-range
// tokens in order of appearance.
func (r *Resolver) findSizeRow(lines []string) (int, []string) {
	for i, line := range lines {
		var tokens []string
		distinct := make(map[string]struct{})
		for _, tok := range twoDigit.FindAllString(line, -1) {
			n, err := strconv.Atoi(tok)
			if err != nil || n < r.cfg.MinSize || n > r.cfg.MaxSize {
				continue
			}
			tokens = append(tokens, tok)
			distinct[tok] = struct{}{}
		}
		if len(distinct) >= r.cfg.MinRowTokens {
			return i, tokens
		}
	}
	return -1, nil
}

// findQuantityRow searches at most SearchWindow lines below the size row,
// preferring one carrying a color-repeat marker (the same word at least
// twice), otherwise the line with the most numeric tokens.
func (r *Resolver) findQuantityRow(lines []string, sizeIdx int) ([]int, bool) {
	end := min(len(lines), sizeIdx+1+r.cfg.SearchWindow)

	bestIdx, bestCount := -1, 0
	for i := sizeIdx + 1; i < end; i++ {
		nums := numericTokens(lines[i])
		if len(nums) == 0 {
			continue
		}
		if hasRepeatMarker(lines[i]) {
			return nums, true
		}
		if len(nums) > bestCount {
			bestIdx, bestCount = i, len(nums)
		}
	}
	if bestIdx < 0 {
		return nil, false
	}
	return numericTokens(lines[bestIdx]), true
}

// zip pairs sizes and quantities positionally. Missing quantities pad with 1
// and are flagged Inferred; surplus quantities are discarded. A section with
// no quantity row at all defaults every size to quantity 1, inferred.
func (r *Resolver) zip(sizeTokens []string, qty []int, haveQty bool) []Pair {
	pairs := make([]Pair, 0, len(sizeTokens))
	for i, s := range sizeTokens {
		switch {
		case i < len(qty):
			pairs = append(pairs, Pair{Size: s, Quantity: qty[i]})
		default:
			pairs = append(pairs, Pair{Size: s, Quantity: 1, Inferred: true})
		}
	}
	if haveQty && len(qty) != len(sizeTokens) {
		r.log.Warn("size/quantity count mismatch",
			"sizes", len(sizeTokens), "quantities", len(qty))
	}
	return pairs
}

func (r *Resolver) applyOverrides(code string, pairs []Pair) []Pair {
	if len(r.overrides) == 0 || code == "" {
		return pairs
	}
	for i := range pairs {
		if q, ok := r.overrides[OverrideKey(code, pairs[i].Size)]; ok {
			pairs[i].Quantity = q
			pairs[i].Inferred = false
		}
	}
	return pairs
}

// numericTokens extracts integer tokens from a line, ignoring words.
func numericTokens(line string) []int {
	var out []int
	for _, tok := range intToken.FindAllString(line, -1) {
		if n, err := strconv.Atoi(tok); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// hasRepeatMarker reports whether any word of three or more letters appears
// at least twice, the color-repeat pattern of quantity rows ("BLACK BLACK 2
// 3 1").
func hasRepeatMarker(line string) bool {
	seen := make(map[string]int)
	for _, w := range word.FindAllString(line, -1) {
		w = strings.ToUpper(w)
		seen[w]++
		if seen[w] >= 2 {
			return true
		}
	}
	return false
}
