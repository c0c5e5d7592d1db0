package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/vcxscore/core"
	"github.com/huangsam/vcxscore/internal/contract"
	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd scores a capture folder and is the entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "vcx [folder]",
	Short: "Compute the VCX image quality score of a camera capture.",
	Long: `VCX turns the results of an IQ analyzer into one image quality score.

The capture folder holds one testcase folder per sub-score. Every analyzer
XML file in a testcase folder is scored against the sub-score's metrics and
the best file becomes the sub-score. Sub-scores and performance metrics are
then combined into the final VCX score.

Examples:
  # Score the current folder with vcx1.5_config.json
  vcx

  # Score a capture with the revised formulas
  vcx ./captures/phone-a --config vcx2.0_config.json --formula-version v2.0

  # Keep the per-file metrics and export them
  vcx ./captures/phone-a --detail --output csv --output-file phone-a.csv

  # Plot the scoring curve of every metric
  vcx ./captures/phone-a --plotfunctions --plot-dir plots`,
	Version:            version,
	Args:               cobra.MaximumNArgs(1),
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	PreRunE:            sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScore(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot compute VCX score", err)
		}
	},
}

// initConfig reads in the runtime config file and ENV variables if set.
// The scoring configuration given by --config is loaded separately.
func initConfig() {
	viper.SetConfigName(".vcx") // Name of config file (without extension)
	viper.SetConfigType("yaml") // We'll use YAML format
	viper.AddConfigPath(".")    // Look in the current directory
	viper.AddConfigPath("$HOME")

	// Set environment variable prefix
	viper.SetEnvPrefix("VCX")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("config", schema.DefaultConfigFile)
	viper.SetDefault("formula-version", schema.FormulaV15)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("plot-dir", contract.DefaultPlotDir)
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.RootPathStr = args[0]
	} else {
		input.RootPathStr = "."
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	return contract.ProcessAndValidate(afero.NewOsFs(), cfg, input)
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
