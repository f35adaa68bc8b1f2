package codegen

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fashionops/ordex/internal/extract"
)

// Exception replaces the general code template for one named product/color
// combination. Templates use a reduced component set:
//
//	{year} {season} {batch} {vendor} {item} {size}
//
// rendered in the fixed order below; the template string selects which
// shape applies.
type Exception struct {
	ProductCode string `yaml:"product_code"`
	Color       string `yaml:"color"`
	Template    string `yaml:"template"`
}

// builtinExceptions is the accumulated exception knowledge for this document
// family. AJ826 in BLACK POLIDO predates the structured code scheme and
// keeps its legacy shape.
var builtinExceptions = []Exception{
	{ProductCode: "AJ826", Color: "BLACK POLIDO", Template: "legacy"},
}

func (e Exception) matches(code, color string) bool {
	return strings.EqualFold(strings.TrimSpace(code), e.ProductCode) &&
		strings.EqualFold(strings.TrimSpace(color), e.Color)
}

func (e Exception) render(consts Constants, sec extract.ProductSection, size string) string {
	switch e.Template {
	case "legacy":
		// {batch}{vendor}-SP-{item}-{size}: flat legacy shape without
		// year/season/brand segments.
		return fmt.Sprintf("%s%s-SP-%s-%s",
			consts.Batch, consts.Vendor,
			itemComponent(sec.Fields.GetOr(extract.FieldProductCode, "")), size)
	default:
		// Unknown template names degrade to the legacy shape rather
		// than silently using the general formula, so a typo in an
		// exception file is visible in output.
		return fmt.Sprintf("%s%s-SP-%s-%s",
			consts.Batch, consts.Vendor,
			itemComponent(sec.Fields.GetOr(extract.FieldProductCode, "")), size)
	}
}

type exceptionFile struct {
	Exceptions []Exception `yaml:"exceptions"`
}

// LoadExceptions reads additional code-template exceptions from YAML.
func LoadExceptions(path string) ([]Exception, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-provided exception path is expected
	if err != nil {
		return nil, fmt.Errorf("read exceptions: %w", err)
	}
	var file exceptionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse exceptions: %w", err)
	}
	for _, e := range file.Exceptions {
		if e.ProductCode == "" {
			return nil, fmt.Errorf("exception entry missing product_code: %+v", e)
		}
	}
	return file.Exceptions, nil
}
