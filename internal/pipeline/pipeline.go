// Package pipeline wires the extraction stages into a per-document run:
// rasterize, normalize, detect tables, OCR, extract fields, resolve sizes,
// generate codes. All run state lives in the Pipeline instance; there are no
// package-level singletons, so concurrent runs do not interact.
package pipeline

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/fashionops/ordex/internal/codegen"
	"github.com/fashionops/ordex/internal/ocrclient"
	"github.com/fashionops/ordex/internal/preprocess"
	"github.com/fashionops/ordex/internal/sizes"
	"github.com/fashionops/ordex/internal/tabledet"
)

var errNoEngine = errors.New("pipeline: OCR engine is required")

// Config holds configuration for the extraction pipeline and its stages.
type Config struct {
	DPI        int
	Preprocess preprocess.Config
	Table      tabledet.Config
	Retry      ocrclient.RetryConfig
	Sizes      sizes.Config
	Codegen    codegen.Constants
	Overrides  sizes.Overrides
	Exceptions []codegen.Exception
	Workers    int // parallel page workers; 0 means up to NumCPU
}

// DefaultConfig returns pipeline defaults for 300 DPI documents.
func DefaultConfig() Config {
	return Config{
		DPI:        300,
		Preprocess: preprocess.DefaultConfig(),
		Table:      tabledet.DefaultConfig(),
		Retry:      ocrclient.DefaultRetryConfig(),
		Sizes:      sizes.DefaultConfig(),
		Codegen:    codegen.DefaultConstants(),
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg    Config
	engine ocrclient.Engine
	log    *slog.Logger
}

// NewBuilder creates a pipeline builder with defaults and the given OCR
// engine. The engine is required; everything else has defaults.
func NewBuilder(engine ocrclient.Engine) *Builder {
	return &Builder{cfg: DefaultConfig(), engine: engine}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithDPI sets the rasterization resolution.
func (b *Builder) WithDPI(dpi int) *Builder {
	if dpi > 0 {
		b.cfg.DPI = dpi
	}
	return b
}

// WithOverrides merges caller-supplied quantity overrides over the
// configured table.
func (b *Builder) WithOverrides(o sizes.Overrides) *Builder {
	b.cfg.Overrides = b.cfg.Overrides.Merge(o)
	return b
}

// WithExceptions appends caller-supplied code template exceptions.
func (b *Builder) WithExceptions(ex []codegen.Exception) *Builder {
	b.cfg.Exceptions = append(b.cfg.Exceptions, ex...)
	return b
}

// WithWorkers bounds page-level parallelism.
func (b *Builder) WithWorkers(n int) *Builder {
	if n > 0 {
		b.cfg.Workers = n
	}
	return b
}

// WithLogger sets the run logger; nil falls back to slog.Default.
func (b *Builder) WithLogger(log *slog.Logger) *Builder {
	b.log = log
	return b
}

// Pipeline is the assembled per-run context. It owns its stage instances
// and is discarded after the run; Close releases the OCR engine.
type Pipeline struct {
	cfg      Config
	ocr      *ocrclient.Adapter
	detector *tabledet.Detector
	resolver *sizes.Resolver
	codes    *codegen.Generator
	log      *slog.Logger
}

// Build assembles the pipeline stages.
func (b *Builder) Build() (*Pipeline, error) {
	if b.engine == nil {
		return nil, errNoEngine
	}
	log := b.log
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		cfg:      b.cfg,
		ocr:      ocrclient.NewAdapter(b.engine, b.cfg.Retry, log),
		detector: tabledet.New(b.cfg.Table),
		resolver: sizes.NewResolver(b.cfg.Sizes, b.cfg.Overrides, log),
		codes:    codegen.New(b.cfg.Codegen, b.cfg.Exceptions),
		log:      log,
	}, nil
}

// Close releases the OCR backend.
func (p *Pipeline) Close() error { return p.ocr.Close() }

// Config returns a copy of the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

func itoa(n int) string { return strconv.Itoa(n) }
