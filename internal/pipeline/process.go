package pipeline

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fashionops/ordex/internal/extract"
	"github.com/fashionops/ordex/internal/metrics"
	"github.com/fashionops/ordex/internal/preprocess"
	"github.com/fashionops/ordex/internal/tabledet"
)

// pageText is the per-page OCR outcome gathered before field extraction.
type pageText struct {
	index     int
	text      string
	degraded  bool
	ocrFailed bool
	hadTable  bool
}

// ProcessPages runs the full extraction pipeline over a document's pages.
// Pages are independent and may be processed in parallel; header extraction
// is pinned to the first page so repeated headers cannot conflict. The call
// always produces an ExtractionResult, possibly with an empty record list:
// within-document trouble degrades, it does not abort.
func (p *Pipeline) ProcessPages(ctx context.Context, pages []preprocess.PageImage) *ExtractionResult {
	texts := p.collectPageTexts(ctx, pages)

	sort.Slice(texts, func(i, j int) bool { return texts[i].index < texts[j].index })

	var rollup Rollup
	rollup.Pages = len(texts)
	var all []string
	firstPage := ""
	for _, t := range texts {
		if t.degraded {
			rollup.DegradedPages++
			metrics.PagesProcessed.WithLabelValues("degraded").Inc()
		} else {
			metrics.PagesProcessed.WithLabelValues("ok").Inc()
		}
		if t.ocrFailed {
			rollup.OCRFailures++
		}
		if t.hadTable {
			rollup.TableRegions++
		}
		if t.text != "" {
			all = append(all, t.text)
		}
		if t.index == 0 {
			firstPage = t.text
		}
	}
	fullText := strings.Join(all, "\n")

	info := extract.ExtractOrderInfo(firstPage)
	records := p.buildRecords(fullText, &rollup)

	rollup.Records = len(records)
	metrics.SectionsFound.Observe(float64(rollup.Sections))

	return &ExtractionResult{OrderInfo: info.Fields, Records: records, Rollup: rollup}
}

// collectPageTexts OCRs every page through a bounded worker pool.
// Cancellation is cooperative at page granularity: abandoning an in-flight
// page leaves other pages' results intact.
func (p *Pipeline) collectPageTexts(ctx context.Context, pages []preprocess.PageImage) []pageText {
	workers := p.cfg.Workers
	if workers <= 0 || workers > len(pages) {
		workers = len(pages)
	}
	if workers <= 1 {
		out := make([]pageText, 0, len(pages))
		for _, page := range pages {
			if ctx.Err() != nil {
				break
			}
			out = append(out, p.processPage(ctx, page))
		}
		return out
	}

	jobs := make(chan preprocess.PageImage, len(pages))
	results := make(chan pageText, len(pages))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				if ctx.Err() != nil {
					return
				}
				results <- p.processPage(ctx, page)
			}
		}()
	}
	for _, page := range pages {
		jobs <- page
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]pageText, 0, len(pages))
	for t := range results {
		out = append(out, t)
	}
	return out
}

// processPage normalizes one page, runs full-page OCR and, when a grid is
// detected, per-cell OCR whose rows are appended to widen recall.
func (p *Pipeline) processPage(ctx context.Context, page preprocess.PageImage) pageText {
	out := pageText{index: page.Index}

	norm, err := preprocess.Normalize(page, p.cfg.Preprocess)
	if err != nil {
		out.degraded = true
		p.log.Warn("page normalization degraded", "page", page.Index, "error", err)
	}
	if norm.Empty() {
		return out
	}

	raw, ocrErr := p.ocr.FullPage(ctx, norm.Img)
	if ocrErr != nil {
		out.ocrFailed = true
	}
	var parts []string
	if raw.Text != "" {
		parts = append(parts, raw.Text)
	}

	if table, ok := p.detector.Detect(norm); ok {
		out.hadTable = true
		if grid := p.detector.Cells(table); grid != nil {
			if gridText := p.ocrGrid(ctx, norm, grid); gridText != "" {
				parts = append(parts, gridText)
			}
		}
	}

	out.text = strings.Join(parts, "\n")
	return out
}

// ocrGrid reads each cell and reassembles rows as whitespace-joined lines.
func (p *Pipeline) ocrGrid(ctx context.Context, page preprocess.PageImage, grid [][]tabledet.Cell) string {
	var rows []string
	for _, row := range grid {
		var cells []string
		for _, cell := range row {
			text, err := p.ocr.Cell(ctx, page.Img, cell.Rect)
			if err != nil {
				continue
			}
			if text != "" {
				cells = append(cells, text)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " "))
		}
	}
	return strings.Join(rows, "\n")
}

// buildRecords splits the document text into product sections and expands
// each into per-size records with generated codes.
func (p *Pipeline) buildRecords(text string, rollup *Rollup) []ProductRecord {
	sections := extract.SplitSections(text)
	rollup.Sections = len(sections)

	var records []ProductRecord
	for _, span := range sections {
		sec := extract.ExtractProductInfo(span)
		pairs := p.resolver.Resolve(sec)
		for _, pair := range pairs {
			if pair.Inferred {
				rollup.InferredPairs++
			}
			records = append(records, ProductRecord{
				ProductCode: sec.Fields.GetOr(extract.FieldProductCode, ""),
				Style:       sec.Fields.GetOr(extract.FieldStyle, ""),
				Color:       sec.Fields.GetOr(extract.FieldColor, ""),
				Size:        pair.Size,
				Quantity:    pair.Quantity,
				Inferred:    pair.Inferred,
				Wholesale:   sec.Fields.GetOr(extract.FieldWholesale, ""),
				Retail:      sec.Fields.GetOr(extract.FieldRetail, ""),
				Brand:       sec.Fields.GetOr(extract.FieldBrand, ""),
				Season:      sec.Fields.GetOr(extract.FieldSeason, ""),
				Category:    sec.Fields.GetOr(extract.FieldCategory, ""),
				Origin:      sec.Fields.GetOr(extract.FieldOrigin, ""),
				CustomCode:  p.codes.Generate(sec, pair.Size),
			})
		}
	}
	return records
}

// ProcessText runs field extraction, size resolution and code generation on
// already-recovered OCR text, bypassing imaging. Used for pre-extracted
// text and in tests.
func (p *Pipeline) ProcessText(text string) *ExtractionResult {
	var rollup Rollup
	info := extract.ExtractOrderInfo(text)
	records := p.buildRecords(text, &rollup)
	rollup.Records = len(records)
	return &ExtractionResult{OrderInfo: info.Fields, Records: records, Rollup: rollup}
}
