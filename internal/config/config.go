// Package config defines the application configuration and its loading from
// files, environment variables and defaults.
package config

import (
	"fmt"

	"github.com/fashionops/ordex/internal/codegen"
	"github.com/fashionops/ordex/internal/ocrclient"
	"github.com/fashionops/ordex/internal/pipeline"
	"github.com/fashionops/ordex/internal/preprocess"
	"github.com/fashionops/ordex/internal/sizes"
	"github.com/fashionops/ordex/internal/tabledet"
)

// OCR backend selection.
const (
	BackendLocal = "local"
	BackendCloud = "cloud"
)

// Config is the full application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"      yaml:"log"`
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
	OCR      OCRConfig      `mapstructure:"ocr"      yaml:"ocr"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// OCRConfig selects and tunes the recognition backend.
type OCRConfig struct {
	Backend   string                `mapstructure:"backend"   yaml:"backend"`
	Languages []string              `mapstructure:"languages" yaml:"languages"`
	Retry     ocrclient.RetryConfig `mapstructure:"retry"     yaml:"retry"`
	Cloud     ocrclient.CloudConfig `mapstructure:"cloud"     yaml:"cloud"`
}

// PipelineConfig tunes the extraction stages.
type PipelineConfig struct {
	DPI            int               `mapstructure:"dpi"             yaml:"dpi"`
	Workers        int               `mapstructure:"workers"         yaml:"workers"`
	PageRange      string            `mapstructure:"page_range"      yaml:"page_range"`
	OverridesFile  string            `mapstructure:"overrides_file"  yaml:"overrides_file"`
	ExceptionsFile string            `mapstructure:"exceptions_file" yaml:"exceptions_file"`
	Preprocess     preprocess.Config `mapstructure:"preprocess"      yaml:"preprocess"`
	Table          tabledet.Config   `mapstructure:"table"           yaml:"table"`
	Sizes          sizes.Config      `mapstructure:"sizes"           yaml:"sizes"`
	Codegen        codegen.Constants `mapstructure:"codegen"         yaml:"codegen"`
}

// Default returns the built-in configuration.
func Default() *Config {
	pipeDefaults := pipeline.DefaultConfig()
	return &Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Output: OutputConfig{Format: "text"},
		OCR: OCRConfig{
			Backend:   BackendLocal,
			Languages: []string{"eng"},
			Retry:     ocrclient.DefaultRetryConfig(),
		},
		Pipeline: PipelineConfig{
			DPI:        pipeDefaults.DPI,
			Preprocess: pipeDefaults.Preprocess,
			Table:      pipeDefaults.Table,
			Sizes:      pipeDefaults.Sizes,
			Codegen:    pipeDefaults.Codegen,
		},
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.OCR.Backend {
	case BackendLocal, BackendCloud:
	default:
		return fmt.Errorf("unknown OCR backend %q", c.OCR.Backend)
	}
	if c.OCR.Backend == BackendCloud {
		if c.OCR.Cloud.ProjectID == "" || c.OCR.Cloud.ProcessorID == "" {
			return fmt.Errorf("cloud backend requires project_id and processor_id")
		}
	}
	if c.Pipeline.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.Pipeline.DPI)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Pipeline.Workers)
	}
	switch c.Output.Format {
	case "json", "csv", "text", "":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	return nil
}

// PipelineSettings assembles the stage configuration for a run, loading the
// override and exception tables when configured.
func (c *Config) PipelineSettings() (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	cfg.DPI = c.Pipeline.DPI
	cfg.Workers = c.Pipeline.Workers
	cfg.Retry = c.OCR.Retry
	cfg.Preprocess = c.Pipeline.Preprocess
	cfg.Table = c.Pipeline.Table
	cfg.Sizes = c.Pipeline.Sizes
	cfg.Codegen = c.Pipeline.Codegen

	if c.Pipeline.OverridesFile != "" {
		o, err := sizes.LoadOverrides(c.Pipeline.OverridesFile)
		if err != nil {
			return cfg, fmt.Errorf("load quantity overrides: %w", err)
		}
		cfg.Overrides = o
	}
	if c.Pipeline.ExceptionsFile != "" {
		ex, err := codegen.LoadExceptions(c.Pipeline.ExceptionsFile)
		if err != nil {
			return cfg, fmt.Errorf("load code exceptions: %w", err)
		}
		cfg.Exceptions = ex
	}
	return cfg, nil
}
