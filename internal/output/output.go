// Package output renders extraction and reconciliation results for the CLI:
// pretty JSON for downstream tooling, CSV rows for spreadsheets, aligned
// text for terminals.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fashionops/ordex/internal/pipeline"
	"github.com/fashionops/ordex/internal/reconcile"
)

// Supported format names.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatText = "text"
)

// FormatExtraction renders one document's extraction result.
func FormatExtraction(res *pipeline.ExtractionResult, format string) (string, error) {
	switch format {
	case FormatJSON:
		return marshalJSON(res)
	case FormatCSV:
		return extractionCSV(res)
	case FormatText, "":
		return extractionText(res), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// FormatReport renders a reconciliation report.
func FormatReport(rep *reconcile.Report, format string) (string, error) {
	switch format {
	case FormatJSON:
		return marshalJSON(rep)
	case FormatCSV:
		return reportCSV(rep)
	case FormatText, "":
		return reportText(rep), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

func marshalJSON(v any) (string, error) {
	bts, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bts), nil
}

var extractionHeader = []string{
	"product_code", "style", "color", "size", "quantity", "inferred",
	"wholesale_price", "retail_price", "brand", "season", "category",
	"origin", "custom_code",
}

func extractionCSV(res *pipeline.ExtractionResult) (string, error) {
	rows := [][]string{extractionHeader}
	for _, rec := range res.Records {
		rows = append(rows, []string{
			rec.ProductCode,
			rec.Style,
			rec.Color,
			rec.Size,
			strconv.Itoa(rec.Quantity),
			strconv.FormatBool(rec.Inferred),
			rec.Wholesale,
			rec.Retail,
			rec.Brand,
			rec.Season,
			rec.Category,
			rec.Origin,
			rec.CustomCode,
		})
	}
	return writeCSV(rows)
}

func reportCSV(rep *reconcile.Report) (string, error) {
	rows := [][]string{{"status", "key", "side", "field", "value1", "value2"}}
	for _, m := range rep.Matches {
		rows = append(rows, []string{"match", m.Key, "", "", "", ""})
	}
	for _, mm := range rep.Mismatches {
		for _, d := range mm.Fields {
			rows = append(rows, []string{"mismatch", mm.Key, "", d.Field, d.ValueA, d.ValueB})
		}
	}
	for _, ms := range rep.Missing {
		rows = append(rows, []string{"missing", ms.Key, ms.Side, "", "", ""})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func extractionText(res *pipeline.ExtractionResult) string {
	var sb strings.Builder

	if len(res.OrderInfo) > 0 {
		sb.WriteString("Order\n")
		for _, key := range sortedKeys(res.OrderInfo) {
			fmt.Fprintf(&sb, "  %-16s %s\n", key+":", res.OrderInfo[key])
		}
		sb.WriteString("\n")
	}

	if len(res.Records) == 0 {
		sb.WriteString("No product records recovered.\n")
	}
	for _, rec := range res.Records {
		fmt.Fprintf(&sb, "%-8s %-20s size %-3s qty %-4d %s\n",
			rec.ProductCode, rec.Color, rec.Size, rec.Quantity, rec.CustomCode)
	}

	fmt.Fprintf(&sb, "\n%d pages, %d sections, %d records",
		res.Rollup.Pages, res.Rollup.Sections, res.Rollup.Records)
	if res.Rollup.DegradedPages > 0 {
		fmt.Fprintf(&sb, ", %d degraded pages", res.Rollup.DegradedPages)
	}
	if res.Rollup.InferredPairs > 0 {
		fmt.Fprintf(&sb, ", %d inferred quantities", res.Rollup.InferredPairs)
	}
	sb.WriteString("\n")
	return sb.String()
}

func reportText(rep *reconcile.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Matched %d of %d items (%.2f%%)\n",
		rep.Summary.MatchedCount, rep.Summary.TotalItems, rep.Summary.MatchPercentage)

	if len(rep.Mismatches) > 0 {
		sb.WriteString("\nMismatches\n")
		for _, mm := range rep.Mismatches {
			fmt.Fprintf(&sb, "  %s\n", mm.Key)
			for _, d := range mm.Fields {
				fmt.Fprintf(&sb, "    %-20s %s != %s\n", d.Field, d.ValueA, d.ValueB)
			}
		}
	}
	if len(rep.Missing) > 0 {
		sb.WriteString("\nMissing\n")
		for _, ms := range rep.Missing {
			fmt.Fprintf(&sb, "  %s (only on side %s)\n", ms.Key, ms.Side)
		}
	}
	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
