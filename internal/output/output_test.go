package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashionops/ordex/internal/extract"
	"github.com/fashionops/ordex/internal/pipeline"
	"github.com/fashionops/ordex/internal/reconcile"
)

func sampleResult() *pipeline.ExtractionResult {
	return &pipeline.ExtractionResult{
		OrderInfo: extract.Fields{
			extract.FieldOrderNumber: "4521/AB",
			extract.FieldCurrency:    "EUR",
		},
		Records: []pipeline.ProductRecord{
			{
				ProductCode: "AJ1323", Style: "AJ1323", Color: "BLACK LEATHER",
				Size: "39", Quantity: 2, Wholesale: "280.00",
				CustomCode: "23W1BR-SAWF01-132339",
			},
			{
				ProductCode: "AJ1323", Style: "AJ1323", Color: "BLACK LEATHER",
				Size: "40", Quantity: 3, Inferred: true, Wholesale: "280.00",
				CustomCode: "23W1BR-SAWF01-132340",
			},
		},
		Rollup: pipeline.Rollup{Pages: 1, Sections: 1, Records: 2, InferredPairs: 1},
	}
}

func TestFormatExtractionJSON(t *testing.T) {
	out, err := FormatExtraction(sampleResult(), FormatJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "order_info")
	assert.Contains(t, decoded, "records")
	assert.Contains(t, out, "23W1BR-SAWF01-132339")
}

func TestFormatExtractionCSV(t *testing.T) {
	out, err := FormatExtraction(sampleResult(), FormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "product_code,style,color,size,quantity"))
	assert.Contains(t, lines[1], "AJ1323,AJ1323,BLACK LEATHER,39,2,false")
	assert.Contains(t, lines[2], "40,3,true")
}

func TestFormatExtractionText(t *testing.T) {
	out, err := FormatExtraction(sampleResult(), FormatText)
	require.NoError(t, err)
	assert.Contains(t, out, "4521/AB")
	assert.Contains(t, out, "AJ1323")
	assert.Contains(t, out, "1 pages, 1 sections, 2 records")
	assert.Contains(t, out, "1 inferred quantities")
}

func TestFormatExtractionEmptyDefaultsToText(t *testing.T) {
	out, err := FormatExtraction(&pipeline.ExtractionResult{}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "No product records recovered")
}

func TestFormatExtractionUnknownFormat(t *testing.T) {
	_, err := FormatExtraction(sampleResult(), "yaml")
	assert.Error(t, err)
}

func sampleReport() *reconcile.Report {
	a := []reconcile.Line{
		{ProductCode: "AJ1323", Color: "BLACK LEATHER", Size: "39", Quantity: "2", UnitPrice: "EUR 280.00"},
	}
	b := []reconcile.Line{
		{ProductCode: "AJ1323", Color: "BLACK LEATHER", Size: "39", Quantity: "3", UnitPrice: "EUR 280.00"},
		{ProductCode: "AJ826", Color: "BLACK POLIDO", Size: "41", Quantity: "1", UnitPrice: "EUR 310.00"},
	}
	rep := reconcile.Compare(a, b)
	return &rep
}

func TestFormatReportJSON(t *testing.T) {
	out, err := FormatReport(sampleReport(), FormatJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "summary")
}

func TestFormatReportCSVAndText(t *testing.T) {
	rep := sampleReport()

	csvOut, err := FormatReport(rep, FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, csvOut, "mismatch,aj1323/black leather")
	assert.Contains(t, csvOut, "missing,aj826/black polido")

	textOut, err := FormatReport(rep, FormatText)
	require.NoError(t, err)
	assert.Contains(t, textOut, "Matched 0 of 2 items")
	assert.Contains(t, textOut, "aj826/black polido")
}
