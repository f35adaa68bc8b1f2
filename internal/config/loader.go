package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name of configuration files, without
	// extension.
	ConfigFileName = "ordex"

	// EnvPrefix is the environment variable prefix (ORDEX_OCR_BACKEND,
	// ORDEX_PIPELINE_DPI and so on).
	EnvPrefix = "ORDEX"
)

// Loader reads configuration from files, the environment and defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the shared viper instance so cobra flag
// bindings participate in precedence.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// NewLoaderWith creates a loader on a private viper instance, used by tests.
func NewLoaderWith(v *viper.Viper) *Loader {
	return &Loader{v: v}
}

// Load reads configuration from the search paths and environment. A missing
// config file is not an error; defaults apply.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironment()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadWithFile reads configuration from an explicit file path. Unlike Load,
// the file must exist.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironment()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configFile, err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the config file actually read.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}
	l.v.AddConfigPath("/etc/ordex")
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "ordex"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "ordex"))
	}
}

func (l *Loader) setupEnvironment() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	def := Default()

	l.v.SetDefault("log.level", def.Log.Level)
	l.v.SetDefault("log.format", def.Log.Format)
	l.v.SetDefault("output.format", def.Output.Format)

	l.v.SetDefault("ocr.backend", def.OCR.Backend)
	l.v.SetDefault("ocr.languages", def.OCR.Languages)
	l.v.SetDefault("ocr.retry.max_attempts", def.OCR.Retry.MaxAttempts)
	l.v.SetDefault("ocr.retry.backoff", def.OCR.Retry.Backoff)
	l.v.SetDefault("ocr.retry.timeout", def.OCR.Retry.Timeout)
	l.v.SetDefault("ocr.cloud.location", "eu")

	l.v.SetDefault("pipeline.dpi", def.Pipeline.DPI)
	l.v.SetDefault("pipeline.workers", def.Pipeline.Workers)
	l.v.SetDefault("pipeline.preprocess.scale_factor", def.Pipeline.Preprocess.ScaleFactor)
	l.v.SetDefault("pipeline.preprocess.denoise_sigma", def.Pipeline.Preprocess.DenoiseSigma)
	l.v.SetDefault("pipeline.preprocess.block_size", def.Pipeline.Preprocess.BlockSize)
	l.v.SetDefault("pipeline.preprocess.constant", def.Pipeline.Preprocess.Constant)
	l.v.SetDefault("pipeline.preprocess.opening_kernel", def.Pipeline.Preprocess.OpeningKernel)
	l.v.SetDefault("pipeline.preprocess.sharpen_sigma", def.Pipeline.Preprocess.SharpenSigma)
	l.v.SetDefault("pipeline.table.min_line_length", def.Pipeline.Table.MinLineLength)
	l.v.SetDefault("pipeline.table.min_area_ratio", def.Pipeline.Table.MinAreaRatio)
	l.v.SetDefault("pipeline.table.boundary_merge", def.Pipeline.Table.BoundaryMerge)
	l.v.SetDefault("pipeline.table.block_size", def.Pipeline.Table.BlockSize)
	l.v.SetDefault("pipeline.table.constant", def.Pipeline.Table.Constant)
	l.v.SetDefault("pipeline.sizes.min_size", def.Pipeline.Sizes.MinSize)
	l.v.SetDefault("pipeline.sizes.max_size", def.Pipeline.Sizes.MaxSize)
	l.v.SetDefault("pipeline.sizes.min_row_tokens", def.Pipeline.Sizes.MinRowTokens)
	l.v.SetDefault("pipeline.sizes.search_window", def.Pipeline.Sizes.SearchWindow)
	l.v.SetDefault("pipeline.codegen.batch", def.Pipeline.Codegen.Batch)
	l.v.SetDefault("pipeline.codegen.vendor", def.Pipeline.Codegen.Vendor)
	l.v.SetDefault("pipeline.codegen.sale_type", def.Pipeline.Codegen.SaleType)
	l.v.SetDefault("pipeline.codegen.line", def.Pipeline.Codegen.Line)
	l.v.SetDefault("pipeline.codegen.sub_category", def.Pipeline.Codegen.SubCategory)
}
