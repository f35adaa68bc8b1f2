package codegen

import (
	"strings"
	"testing"

	"github.com/fashionops/ordex/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSection() extract.ProductSection {
	return extract.ProductSection{Fields: extract.Fields{
		extract.FieldProductCode: "AJ1323",
		extract.FieldStyle:       "AJ1323",
		extract.FieldColor:       "BLACK LEATHER",
		extract.FieldBrand:       "Aria Firenze",
		extract.FieldCategory:    "Sneakers",
	}}
}

func TestGenerateFullAttributes(t *testing.T) {
	g := New(DefaultConstants(), nil)
	got := g.Generate(fullSection(), "39")
	// year=23 (style tail), season=W (B maps to winter), batch=1,
	// vendor=BR, category=S, brand=A, saleType=W, line=F, subCat=01,
	// item=1323, size=39.
	assert.Equal(t, "23W1BR-SAWF01-132339", got)
}

func TestGenerateDeterministic(t *testing.T) {
	g := New(DefaultConstants(), nil)
	sec := fullSection()
	first := g.Generate(sec, "40")
	for range 10 {
		assert.Equal(t, first, g.Generate(sec, "40"))
	}
}

func TestGenerateSizeChangesOnlyTail(t *testing.T) {
	g := New(DefaultConstants(), nil)
	sec := fullSection()
	a := g.Generate(sec, "39")
	b := g.Generate(sec, "44")
	require.True(t, strings.HasSuffix(a, "39"))
	require.True(t, strings.HasSuffix(b, "44"))
	assert.Equal(t, strings.TrimSuffix(a, "39"), strings.TrimSuffix(b, "44"))
}

func TestGeneratePlaceholders(t *testing.T) {
	g := New(DefaultConstants(), nil)
	sec := extract.ProductSection{Fields: extract.Fields{}}
	got := g.Generate(sec, "41")
	assert.Equal(t, "00X1BR-XXWF01-XX41", got)
}

func TestGenerateShortStyleZeroPads(t *testing.T) {
	g := New(DefaultConstants(), nil)
	sec := extract.ProductSection{Fields: extract.Fields{
		extract.FieldStyle:       "7",
		extract.FieldProductCode: "A700",
	}}
	got := g.Generate(sec, "38")
	assert.True(t, strings.HasPrefix(got, "07"), "single-char style is zero-padded, got %s", got)
}

func TestGenerateLegacyException(t *testing.T) {
	g := New(DefaultConstants(), nil)
	sec := extract.ProductSection{Fields: extract.Fields{
		extract.FieldProductCode: "AJ826",
		extract.FieldColor:       "BLACK POLIDO",
		extract.FieldStyle:       "AJ826",
		extract.FieldBrand:       "Aria Firenze",
	}}
	// The named special case keeps its structurally different legacy
	// shape; this asserts the exact output, not a property.
	assert.Equal(t, "1BR-SP-826-45", g.Generate(sec, "45"))
}

func TestGenerateExceptionRequiresBothCodeAndColor(t *testing.T) {
	g := New(DefaultConstants(), nil)
	sec := extract.ProductSection{Fields: extract.Fields{
		extract.FieldProductCode: "AJ826",
		extract.FieldColor:       "RED",
		extract.FieldStyle:       "AJ826",
	}}
	got := g.Generate(sec, "45")
	assert.NotContains(t, got, "-SP-", "general formula applies when color differs")
}

func TestCallerSuppliedExceptionsWin(t *testing.T) {
	g := New(DefaultConstants(), []Exception{
		{ProductCode: "TB100", Color: "WHITE", Template: "legacy"},
	})
	sec := extract.ProductSection{Fields: extract.Fields{
		extract.FieldProductCode: "TB100",
		extract.FieldColor:       "WHITE",
	}}
	assert.Equal(t, "1BR-SP-100-40", g.Generate(sec, "40"))
}

func TestSeasonLetterFallsBackToInitial(t *testing.T) {
	assert.Equal(t, "R", seasonLetter("RED SUEDE"))
	assert.Equal(t, "W", seasonLetter("black"))
	assert.Equal(t, "X", seasonLetter(""))
}

func TestYearComponent(t *testing.T) {
	assert.Equal(t, "23", yearComponent("AJ1323"))
	assert.Equal(t, "07", yearComponent("7"))
	assert.Equal(t, "00", yearComponent(""))
}
