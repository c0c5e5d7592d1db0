// Package cmd defines the command-line interface for vcx.
package cmd

import (
	"github.com/huangsam/vcxscore/internal/contract"
	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(metricsCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", schema.DefaultConfigFile, "Path to the JSON scoring configuration")
	rootCmd.PersistentFlags().String("formula-version", string(schema.FormulaV15), "Formula family: v1.5 or v2.0")
	rootCmd.PersistentFlags().Bool("detail", false, "Print the per-file metric results")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of analyzer files scored concurrently")
	rootCmd.PersistentFlags().Int("width", contract.DefaultWidth, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of rootCmd to Viper
	rootCmd.Flags().Bool("plotfunctions", false, "Write a PNG of every metric's scoring curve")
	rootCmd.Flags().String("plot-dir", contract.DefaultPlotDir, "Folder the scoring curve plots are written to")
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		contract.LogFatal("Error binding score flags", err)
	}
}
