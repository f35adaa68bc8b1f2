package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendLocal, cfg.OCR.Backend)
	assert.Equal(t, 300, cfg.Pipeline.DPI)
	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.OCR.Backend = "remote" }},
		{"cloud without project", func(c *Config) { c.OCR.Backend = BackendCloud }},
		{"zero dpi", func(c *Config) { c.Pipeline.DPI = 0 }},
		{"negative workers", func(c *Config) { c.Pipeline.Workers = -1 }},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateCloudBackendComplete(t *testing.T) {
	cfg := Default()
	cfg.OCR.Backend = BackendCloud
	cfg.OCR.Cloud.ProjectID = "acme-ocr"
	cfg.OCR.Cloud.ProcessorID = "proc-1"
	assert.NoError(t, cfg.Validate())
}

func TestLoaderDefaultsWithoutFile(t *testing.T) {
	loader := NewLoaderWith(viper.New())
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, cfg.OCR.Backend)
	assert.Equal(t, 300, cfg.Pipeline.DPI)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoaderReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ordex.yaml")
	body := `
log:
  level: debug
ocr:
  backend: local
pipeline:
  dpi: 400
  workers: 2
  sizes:
    min_size: 34
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := NewLoaderWith(viper.New()).LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 400, cfg.Pipeline.DPI)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, 34, cfg.Pipeline.Sizes.MinSize)
	// Untouched keys keep their defaults.
	assert.Equal(t, 49, cfg.Pipeline.Sizes.MaxSize)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoaderMissingExplicitFile(t *testing.T) {
	_, err := NewLoaderWith(viper.New()).LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoaderEnvOverride(t *testing.T) {
	t.Setenv("ORDEX_PIPELINE_DPI", "600")
	t.Setenv("ORDEX_LOG_LEVEL", "warn")

	cfg, err := NewLoaderWith(viper.New()).Load()
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Pipeline.DPI)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoaderInvalidFileFailsValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ordex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ocr:\n  backend: carrier-pigeon\n"), 0o644))

	_, err := NewLoaderWith(viper.New()).LoadWithFile(path)
	assert.Error(t, err)
}

func TestPipelineSettingsLoadsTables(t *testing.T) {
	dir := t.TempDir()
	overrides := filepath.Join(dir, "overrides.yaml")
	require.NoError(t, os.WriteFile(overrides, []byte(
		"overrides:\n  - product_code: AJ826\n    size: \"41\"\n    quantity: 6\n"), 0o644))

	cfg := Default()
	cfg.Pipeline.OverridesFile = overrides

	pc, err := cfg.PipelineSettings()
	require.NoError(t, err)
	assert.Equal(t, 6, pc.Overrides["AJ826|41"])
	assert.Equal(t, cfg.Pipeline.DPI, pc.DPI)
}

func TestPipelineSettingsMissingTableFile(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.OverridesFile = filepath.Join(t.TempDir(), "absent.yaml")
	_, err := cfg.PipelineSettings()
	assert.Error(t, err)
}
