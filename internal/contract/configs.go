package contract

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/afero"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	MaxPrecision     = 4
	DefaultPlotDir   = "."
	DefaultWidth     = 0
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for one scoring run.
// This struct remains the "final, validated" config.
type Config struct {
	RootPath       string // capture folder holding the testcase folders
	ConfigPath     string // scoring configuration file
	FormulaVersion schema.FormulaVersion
	Workers        int
	Detail         bool // include the per-file metric rows in the output
	Precision      int
	Output         schema.OutputMode
	OutputFile     string
	Width          int // Terminal width override (0 = auto-detect)

	PlotFunctions bool
	PlotDir       string

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RootPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Config         string `mapstructure:"config"`
	FormulaVersion string `mapstructure:"formula-version"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Detail         bool   `mapstructure:"detail"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`

	// --- Fields from rootCmd.Flags() ---
	PlotFunctions bool   `mapstructure:"plotfunctions"`
	PlotDir       string `mapstructure:"plot-dir"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(fs afero.Fs, cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := resolveRootPath(fs, cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.PlotFunctions = input.PlotFunctions

	cfg.PlotDir = input.PlotDir
	if cfg.PlotDir == "" {
		cfg.PlotDir = DefaultPlotDir
	}

	cfg.ConfigPath = input.Config
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = schema.DefaultConfigFile
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Formula Version Validation ---
	cfg.FormulaVersion = schema.FormulaVersion(strings.ToLower(input.FormulaVersion))
	if cfg.FormulaVersion == "" {
		cfg.FormulaVersion = schema.FormulaV15
	}
	if _, ok := schema.ValidFormulaVersions[cfg.FormulaVersion]; !ok {
		return fmt.Errorf("invalid formula version '%s'. must be v1.5, v2.0", input.FormulaVersion)
	}

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}
	return nil
}

// resolveRootPath resolves the capture folder and makes sure it is a directory.
func resolveRootPath(fs afero.Fs, cfg *Config, input *ConfigRawInput) error {
	root := input.RootPathStr
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve capture folder %s: %w", root, err)
	}
	info, err := fs.Stat(abs)
	if err != nil {
		return fmt.Errorf("capture folder %s does not exist: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("capture folder %s is not a directory", abs)
	}
	cfg.RootPath = abs
	return nil
}

// RevalidateScore re-resolves the capture folder and formula version of a
// cloned config. It serves callers that bypass the command line, like the MCP tools.
func RevalidateScore(fs afero.Fs, cfg *Config, root, version string) error {
	if root == "" {
		return fmt.Errorf("folder is required")
	}
	if version != "" {
		v := schema.FormulaVersion(strings.ToLower(version))
		if _, ok := schema.ValidFormulaVersions[v]; !ok {
			return fmt.Errorf("invalid formula version '%s'. must be v1.5, v2.0", version)
		}
		cfg.FormulaVersion = v
	}
	return resolveRootPath(fs, cfg, &ConfigRawInput{RootPathStr: root})
}
