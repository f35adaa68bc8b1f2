package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fashionops/ordex/internal/output"
	"github.com/fashionops/ordex/internal/pdf"
	"github.com/fashionops/ordex/internal/pipeline"
	"github.com/fashionops/ordex/internal/reconcile"
)

var compareCmd = &cobra.Command{
	Use:   "compare [first] [second]",
	Short: "Reconcile two order documents line by line",
	Long: `Compare extracts both inputs and reconciles their product lines: matched
items, field-level mismatches and one-sided entries, with a match-rate
summary.

Inputs may be scanned documents (PDF or image) or extraction results
previously saved with "ordex extract --format json".`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().String("pages", "", "page selection applied to scanned inputs")
	compareCmd.Flags().String("backend", "", "OCR backend: local or cloud (default from config)")
	compareCmd.Flags().StringP("output", "o", "", "write report to file instead of stdout")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// The pipeline is built lazily: comparing two saved JSON results needs
	// no OCR backend at all.
	var p *pipeline.Pipeline
	defer func() {
		if p != nil {
			_ = p.Close()
		}
	}()

	sides := make([][]reconcile.Line, 2)
	for i, path := range args {
		lines, err := loadSide(ctx, cmd, &p, path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		sides[i] = lines
	}

	report := reconcile.Compare(sides[0], sides[1])

	format, _ := cmd.Flags().GetString("format")
	rendered, err := output.FormatReport(&report, format)
	if err != nil {
		return err
	}
	return writeOutput(cmd, rendered)
}

func loadSide(ctx context.Context, cmd *cobra.Command, p **pipeline.Pipeline, path string) ([]reconcile.Line, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadSavedResult(path)
	}

	if *p == nil {
		built, err := buildRunPipeline(ctx, cmd)
		if err != nil {
			return nil, err
		}
		*p = built
	}

	pagesFlag, _ := cmd.Flags().GetString("pages")
	pages, err := pdf.Load(path, pagesFlag, (*p).Config().DPI)
	if err != nil {
		return nil, err
	}
	return (*p).ProcessPages(ctx, pages).ReconcileLines(), nil
}

func loadSavedResult(path string) ([]reconcile.Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var res pipeline.ExtractionResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parse extraction result: %w", err)
	}
	return res.ReconcileLines(), nil
}
