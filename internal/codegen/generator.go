// Package codegen derives the canonical internal product code from extracted
// attributes. Generation is a pure, deterministic function of the section
// fields and size plus a set of fixed organizational constants; every
// component falls back to a documented placeholder when its source attribute
// is missing. A small table of named exceptions replaces the general
// template for specific product/color combinations.
package codegen

import (
	"fmt"
	"strings"

	"github.com/fashionops/ordex/internal/extract"
)

// Placeholders used when a source attribute is missing.
const (
	placeholderLetter = "X"
	placeholderPair   = "XX"
	placeholderYear   = "00"
)

// Constants are the fixed organizational code components.
type Constants struct {
	Batch       string `mapstructure:"batch"        yaml:"batch"        json:"batch"`
	Vendor      string `mapstructure:"vendor"       yaml:"vendor"       json:"vendor"`
	SaleType    string `mapstructure:"sale_type"    yaml:"sale_type"    json:"sale_type"`
	Line        string `mapstructure:"line"         yaml:"line"         json:"line"`
	SubCategory string `mapstructure:"sub_category" yaml:"sub_category" json:"sub_category"`
}

// DefaultConstants returns the organization defaults.
func DefaultConstants() Constants {
	return Constants{Batch: "1", Vendor: "BR", SaleType: "W", Line: "F", SubCategory: "01"}
}

// Generator composes custom codes. The zero value is unusable; construct
// with New.
type Generator struct {
	consts     Constants
	exceptions []Exception
}

// New creates a Generator with the given constants and exception table. The
// built-in exception set is always present; supplied exceptions are checked
// first.
func New(consts Constants, exceptions []Exception) *Generator {
	return &Generator{consts: consts, exceptions: append(exceptions, builtinExceptions...)}
}

// Generate derives the custom code for one (product section, size)
// combination:
//
//	{year}{season}{batch}{vendor}-{category}{brand}{saleType}{line}{subCat}-{item}{size}
//
// Identical input always yields the identical string, and changing only the
// size changes only the trailing size segment.
func (g *Generator) Generate(sec extract.ProductSection, size string) string {
	code := sec.Fields.GetOr(extract.FieldProductCode, "")
	color := sec.Fields.GetOr(extract.FieldColor, "")

	for _, ex := range g.exceptions {
		if ex.matches(code, color) {
			return ex.render(g.consts, sec, size)
		}
	}

	return fmt.Sprintf("%s%s%s%s-%s%s%s%s%s-%s%s",
		yearComponent(sec.Fields.GetOr(extract.FieldStyle, "")),
		seasonLetter(color),
		g.consts.Batch,
		g.consts.Vendor,
		categoryLetter(sec.Fields.GetOr(extract.FieldCategory, "")),
		brandLetter(sec.Fields.GetOr(extract.FieldBrand, "")),
		g.consts.SaleType,
		g.consts.Line,
		g.consts.SubCategory,
		itemComponent(code),
		size,
	)
}

// yearComponent takes the last two characters of the style code, zero-padded
// on the left when only one remains.
func yearComponent(style string) string {
	style = strings.TrimSpace(style)
	switch {
	case len(style) >= 2:
		return style[len(style)-2:]
	case len(style) == 1:
		return "0" + style
	default:
		return placeholderYear
	}
}

// seasonLetter maps the first letter of the color name onto a season code.
// Colors outside the map fall back to their own first letter.
func seasonLetter(color string) string {
	color = strings.ToUpper(strings.TrimSpace(color))
	if color == "" {
		return placeholderLetter
	}
	first := color[:1]
	if mapped, ok := seasonByInitial[first]; ok {
		return mapped
	}
	return first
}

// seasonByInitial is the documented first-letter-of-color season mapping.
var seasonByInitial = map[string]string{
	"B": "W", // black family ships in the winter program
	"W": "S",
	"N": "W",
	"C": "S",
}

func categoryLetter(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return placeholderLetter
	}
	return strings.ToUpper(category[:1])
}

func brandLetter(brand string) string {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return placeholderLetter
	}
	return strings.ToUpper(brand[:1])
}

// itemComponent is the digit tail of the product code, or XX when absent.
func itemComponent(code string) string {
	code = strings.TrimSpace(code)
	digits := strings.TrimLeftFunc(code, func(r rune) bool { return r < '0' || r > '9' })
	if digits == "" {
		return placeholderPair
	}
	return digits
}
