package cmd

import (
	"github.com/huangsam/vcxscore/core"
	"github.com/huangsam/vcxscore/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the metric definitions of a scoring configuration.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the metrics, formulas and weights of a scoring configuration",
	Long: `Show every configured metric with its value type, analyzer fields,
scoring formula or control points, and weights.

The configuration is fully validated against the selected formula family,
so unknown value types or formulas are reported here before any scoring run.

No analyzer output is read - this is purely informational.

Examples:
  # Show the metrics of the default configuration
  vcx metrics

  # Validate a configuration against the revised formulas
  vcx metrics --config vcx2.0_config.json --formula-version v2.0`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
