package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fashionops/ordex/internal/codegen"
	"github.com/fashionops/ordex/internal/config"
	"github.com/fashionops/ordex/internal/ocrclient"
	"github.com/fashionops/ordex/internal/output"
	"github.com/fashionops/ordex/internal/pdf"
	"github.com/fashionops/ordex/internal/pipeline"
	"github.com/fashionops/ordex/internal/sizes"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract structured order data from a scanned document",
	Long: `Extract reads a scanned PDF or image, runs the OCR extraction pipeline
and prints the recovered order header and per-size product records.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("pages", "", "page selection, e.g. \"1-3,5\" (default all)")
	extractCmd.Flags().Int("dpi", 0, "rasterization DPI (default from config)")
	extractCmd.Flags().String("backend", "", "OCR backend: local or cloud (default from config)")
	extractCmd.Flags().String("overrides", "", "YAML file with quantity overrides")
	extractCmd.Flags().String("exceptions", "", "YAML file with code template exceptions")
	extractCmd.Flags().Int("workers", 0, "parallel page workers (default NumCPU)")
	extractCmd.Flags().StringP("output", "o", "", "write result to file instead of stdout")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := buildRunPipeline(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	pagesFlag, _ := cmd.Flags().GetString("pages")
	pages, err := pdf.Load(args[0], pagesFlag, p.Config().DPI)
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	res := p.ProcessPages(ctx, pages)

	format, _ := cmd.Flags().GetString("format")
	rendered, err := output.FormatExtraction(res, format)
	if err != nil {
		return err
	}
	return writeOutput(cmd, rendered)
}

// buildRunPipeline assembles a pipeline from config plus command flags.
func buildRunPipeline(ctx context.Context, cmd *cobra.Command) (*pipeline.Pipeline, error) {
	cfg, err := globalConfig.PipelineSettings()
	if err != nil {
		return nil, err
	}
	if dpi, _ := cmd.Flags().GetInt("dpi"); dpi > 0 {
		cfg.DPI = dpi
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}

	if path, _ := cmd.Flags().GetString("overrides"); path != "" {
		o, err := sizes.LoadOverrides(path)
		if err != nil {
			return nil, fmt.Errorf("load quantity overrides: %w", err)
		}
		cfg.Overrides = cfg.Overrides.Merge(o)
	}
	if path, _ := cmd.Flags().GetString("exceptions"); path != "" {
		ex, err := codegen.LoadExceptions(path)
		if err != nil {
			return nil, fmt.Errorf("load code exceptions: %w", err)
		}
		cfg.Exceptions = append(cfg.Exceptions, ex...)
	}

	engine, err := buildEngine(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return pipeline.NewBuilder(engine).
		WithConfig(cfg).
		WithLogger(slog.Default()).
		Build()
}

func buildEngine(ctx context.Context, cmd *cobra.Command) (ocrclient.Engine, error) {
	backend := globalConfig.OCR.Backend
	if flag, _ := cmd.Flags().GetString("backend"); flag != "" {
		backend = flag
	}

	switch backend {
	case config.BackendLocal:
		return ocrclient.NewTesseractEngine(globalConfig.OCR.Languages...), nil
	case config.BackendCloud:
		return ocrclient.NewCloudEngine(ctx, globalConfig.OCR.Cloud)
	default:
		return nil, fmt.Errorf("unknown OCR backend %q", backend)
	}
}

func writeOutput(cmd *cobra.Command, rendered string) error {
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		return os.WriteFile(path, []byte(rendered), 0o644)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
