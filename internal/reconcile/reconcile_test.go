package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blackPolido(size, qty string) Line {
	return Line{
		ProductCode: "AJ826",
		Style:       "AJ826",
		Color:       "BLACK POLIDO",
		Size:        size,
		Quantity:    qty,
		UnitPrice:   "310",
		Currency:    "EUR",
	}
}

func TestStandardizeIdempotent(t *testing.T) {
	lines := []Line{
		blackPolido("45", "6"),
		{ProductCode: "AJ1323", Quantity: "not-a-number", UnitPrice: "1.234,56", Date: "2024-03-15"},
		{Style: "TB99", Quantity: "6 prs", UnitPrice: "EUR 280", Date: "3/5/24"},
	}
	for _, l := range lines {
		once := Standardize(l)
		assert.Equal(t, once, Standardize(once))
	}
}

func TestStandardizeCoercions(t *testing.T) {
	l := Standardize(Line{Quantity: "junk", UnitPrice: "1.234,56", Currency: "eur", Date: "3/5/24"})
	assert.Equal(t, "0", l.Quantity, "unparseable quantity defaults to 0")
	assert.Equal(t, "EUR 1234.56", l.UnitPrice)
	assert.Equal(t, "03/05/2024", l.Date)

	l = Standardize(Line{Quantity: "6", UnitPrice: "USD 1,280.5", Date: "2024-03-15"})
	assert.Equal(t, "USD 1280.50", l.UnitPrice)
	assert.Equal(t, "03/15/2024", l.Date)
}

func TestKeyGeneration(t *testing.T) {
	assert.Equal(t, "aj826/black polido", Key(blackPolido("45", "6")))
	assert.Equal(t, "aj1323", Key(Line{ProductCode: "AJ1323"}))
	// No canonical pattern anywhere: the style identifier is the fallback.
	assert.Equal(t, "custom-style", Key(Line{Style: "custom-style"}))
	// The canonical pattern is pulled out of surrounding noise.
	assert.Equal(t, "aj1323", Key(Line{ProductCode: "ref AJ1323 (reorder)"}))
}

func TestCompareSelfIsFullMatch(t *testing.T) {
	doc := []Line{
		blackPolido("45", "6"),
		blackPolido("44", "2"),
		{ProductCode: "AJ1323", Color: "BLACK LEATHER", Size: "39", Quantity: "2", UnitPrice: "280", Currency: "EUR"},
	}
	report := Compare(doc, doc)
	assert.InDelta(t, 100.0, report.Summary.MatchPercentage, 0.001)
	assert.Empty(t, report.Mismatches)
	assert.Empty(t, report.Missing)
	assert.Equal(t, report.Summary.TotalItems, report.Summary.MatchedCount)
}

func TestCompareQuantityMismatch(t *testing.T) {
	a := []Line{blackPolido("45", "6")}
	b := []Line{blackPolido("45", "5")}

	report := Compare(a, b)
	require.Len(t, report.Mismatches, 1)
	m := report.Mismatches[0]
	assert.Equal(t, "aj826/black polido", m.Key)

	require.NotEmpty(t, m.Fields)
	assert.Equal(t, "quantity", m.Fields[0].Field)
	assert.Equal(t, "6", m.Fields[0].ValueA)
	assert.Equal(t, "5", m.Fields[0].ValueB)
}

func TestCompareOneSidedSymmetry(t *testing.T) {
	a := []Line{blackPolido("45", "6")}
	var b []Line

	r1 := Compare(a, b)
	require.Len(t, r1.Missing, 1)
	assert.Equal(t, SideA, r1.Missing[0].Side)

	r2 := Compare(b, a)
	require.Len(t, r2.Missing, 1)
	assert.Equal(t, SideB, r2.Missing[0].Side, "side label flips with argument order")
	assert.Equal(t, r1.Missing[0].Key, r2.Missing[0].Key)
}

func TestComparePriceEpsilon(t *testing.T) {
	a := []Line{blackPolido("45", "6")}
	b := []Line{blackPolido("45", "6")}
	b[0].UnitPrice = "310.01"

	report := Compare(a, b)
	assert.Len(t, report.Matches, 1, "price within 0.01 epsilon matches")

	b[0].UnitPrice = "310.50"
	report = Compare(a, b)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, "unit_price", report.Mismatches[0].Fields[0].Field)
}

func TestComparePerSizeQuantities(t *testing.T) {
	a := []Line{blackPolido("44", "2"), blackPolido("45", "3")}
	b := []Line{blackPolido("44", "3"), blackPolido("45", "2")}

	report := Compare(a, b)
	require.Len(t, report.Mismatches, 1)
	fields := report.Mismatches[0].Fields
	// Totals agree, per-size quantities do not.
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.NotContains(t, names, "quantity")
	assert.Contains(t, names, "size_44_quantity")
	assert.Contains(t, names, "size_45_quantity")
}

func TestCompareEmptyInputs(t *testing.T) {
	report := Compare(nil, nil)
	assert.Zero(t, report.Summary.TotalItems)
	assert.Zero(t, report.Summary.MatchPercentage, "empty comparison is 0, not NaN")
	assert.NotNil(t, report.Matches)
	assert.NotNil(t, report.Missing)
}

func TestMatchPercentageRounding(t *testing.T) {
	assert.InDelta(t, 33.33, matchPercentage(1, 3), 0.001)
	assert.InDelta(t, 66.67, matchPercentage(2, 3), 0.001)
}
