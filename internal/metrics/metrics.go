// Package metrics exposes prometheus instrumentation for the extraction
// pipeline. Collectors are registered once at package init; callers that do
// not scrape them pay only counter increments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesProcessed counts document pages run through the pipeline.
	PagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordex_pages_processed_total",
			Help: "Total number of document pages processed",
		},
		[]string{"status"}, // ok, degraded
	)

	// OCRAttempts counts OCR backend calls by mode and outcome.
	OCRAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordex_ocr_attempts_total",
			Help: "Total number of OCR backend calls",
		},
		[]string{"mode", "status"}, // status: ok, retry, failed
	)

	// OCRDuration observes OCR backend call latency in seconds.
	OCRDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ordex_ocr_duration_seconds",
			Help:    "OCR backend call duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"mode"},
	)

	// SectionsFound observes product sections recovered per document.
	SectionsFound = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ordex_product_sections_found",
			Help:    "Number of product sections recovered per document",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// PairsInferred counts size/quantity pairs produced by the pad/truncate
	// widening policy rather than read directly.
	PairsInferred = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ordex_size_pairs_inferred_total",
			Help: "Size/quantity pairs whose quantity was inferred, not read",
		},
	)
)
