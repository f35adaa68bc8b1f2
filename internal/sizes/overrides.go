package sizes

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Overrides corrects documented systematic OCR misreads, keyed by product
// code and size. The table is data, not logic: it accumulates known failure
// modes of the OCR engine on this document family and is loaded from
// configuration rather than hard-coded.
type Overrides map[string]int

// OverrideKey builds the lookup key for a (product code, size) combination.
func OverrideKey(code, size string) string {
	return strings.ToUpper(strings.TrimSpace(code)) + "|" + strings.TrimSpace(size)
}

// overrideFile is the on-disk YAML shape:
//
//	overrides:
//	  - product_code: AJ1323
//	    size: "39"
//	    quantity: 12
type overrideFile struct {
	Overrides []overrideEntry `yaml:"overrides"`
}

type overrideEntry struct {
	ProductCode string `yaml:"product_code"`
	Size        string `yaml:"size"`
	Quantity    int    `yaml:"quantity"`
}

// LoadOverrides reads an override table from a YAML file.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-provided override path is expected
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	return ParseOverrides(data)
}

// ParseOverrides parses override YAML. Entries with negative quantities are
// rejected: the quantity invariant holds for corrections too.
func ParseOverrides(data []byte) (Overrides, error) {
	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse overrides: %w", err)
	}
	out := make(Overrides, len(file.Overrides))
	for _, e := range file.Overrides {
		if e.ProductCode == "" || e.Size == "" {
			return nil, fmt.Errorf("override entry missing product_code or size: %+v", e)
		}
		if e.Quantity < 0 {
			return nil, fmt.Errorf("override quantity must be >= 0, got %d for %s/%s",
				e.Quantity, e.ProductCode, e.Size)
		}
		out[OverrideKey(e.ProductCode, e.Size)] = e.Quantity
	}
	return out, nil
}

// Merge overlays other on top of o, with other winning conflicts. Neither
// input is mutated.
func (o Overrides) Merge(other Overrides) Overrides {
	out := make(Overrides, len(o)+len(other))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
