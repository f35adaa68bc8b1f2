package pipeline

import (
	"github.com/fashionops/ordex/internal/extract"
	"github.com/fashionops/ordex/internal/reconcile"
)

// ProductRecord is the unit of output: one (product, size) combination with
// its generated custom code. Finalized once by code generation, immutable
// afterwards.
type ProductRecord struct {
	ProductCode string `json:"product_code"`
	Style       string `json:"style"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	Inferred    bool   `json:"inferred,omitempty"`
	Wholesale   string `json:"wholesale_price"`
	Retail      string `json:"retail_price"`
	Brand       string `json:"brand"`
	Season      string `json:"season"`
	Category    string `json:"category"`
	Origin      string `json:"origin"`
	CustomCode  string `json:"custom_code"`
}

// Rollup describes what one document run found, for callers that want a
// processing summary alongside the records.
type Rollup struct {
	Pages         int `json:"pages"`
	DegradedPages int `json:"degraded_pages"`
	Sections      int `json:"sections"`
	Records       int `json:"records"`
	InferredPairs int `json:"inferred_pairs"`
	OCRFailures   int `json:"ocr_failures"`
	TableRegions  int `json:"table_regions"`
}

// ExtractionResult is the complete structured output for one document.
// Created once per run and never mutated afterwards.
type ExtractionResult struct {
	OrderInfo extract.Fields  `json:"order_info"`
	Records   []ProductRecord `json:"records"`
	Rollup    Rollup          `json:"rollup"`
}

// ReconcileLines maps the result's records into the reconciler's line shape.
func (r *ExtractionResult) ReconcileLines() []reconcile.Line {
	currency := r.OrderInfo.GetOr(extract.FieldCurrency, "")
	date := r.OrderInfo.GetOr(extract.FieldOrderDate, "")
	lines := make([]reconcile.Line, 0, len(r.Records))
	for _, rec := range r.Records {
		lines = append(lines, reconcile.Line{
			ProductCode: rec.ProductCode,
			Style:       rec.Style,
			Color:       rec.Color,
			Size:        rec.Size,
			Quantity:    itoa(rec.Quantity),
			UnitPrice:   rec.Wholesale,
			Currency:    currency,
			Date:        date,
			CustomCode:  rec.CustomCode,
		})
	}
	return lines
}
