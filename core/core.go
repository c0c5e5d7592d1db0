// Package core has the scoring pipeline: it locates the testcase folders,
// scores every analyzer file and aggregates the sub-scores into a VCX score.
package core

import (
	"context"
	"os"
	"time"

	"github.com/huangsam/vcxscore/core/algo"
	"github.com/huangsam/vcxscore/internal/contract"
	"github.com/huangsam/vcxscore/internal/curves"
	"github.com/huangsam/vcxscore/internal/outwriter"
	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/afero"
)

// ExecutorFunc defines the function signature for executing the commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteScore runs a full scoring pass over cfg.RootPath and prints the report.
// It serves as the main entry point of the root command.
func ExecuteScore(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	runner := NewRunner()
	report, scoring, err := GetScoreReport(ctx, cfg, runner)
	if err != nil {
		return err
	}
	if cfg.PlotFunctions {
		if err := PlotScoringCurves(runner.Fs, cfg, scoring); err != nil {
			contract.LogWarn("Failed to plot scoring curves", err)
		}
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteReport(report, cfg, duration)
}

// ExecuteMetrics prints the metric definitions of the scoring configuration.
func ExecuteMetrics(_ context.Context, cfg *contract.Config) error {
	scoring, err := contract.LoadScoringConfig(afero.NewOsFs(), cfg.ConfigPath, cfg.FormulaVersion)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteMetrics(scoring, cfg)
}

// GetScoreReport loads the scoring configuration through the runner's
// filesystem and runs it. It returns the report together with the config
// it was computed from.
func GetScoreReport(ctx context.Context, cfg *contract.Config, runner *Runner) (*schema.Report, *schema.ScoringConfig, error) {
	scoring, err := contract.LoadScoringConfig(runner.Fs, cfg.ConfigPath, cfg.FormulaVersion)
	if err != nil {
		return nil, nil, err
	}
	if shouldSuppressProgress(ctx) {
		quiet := *runner
		quiet.Progress = nil
		runner = &quiet
	}
	report, err := runner.Run(ctx, cfg, scoring)
	if err != nil {
		return nil, scoring, err
	}
	return report, scoring, nil
}

// GetMetricDefinitions loads the scoring configuration and lists its metrics.
func GetMetricDefinitions(fs afero.Fs, cfg *contract.Config) (*schema.MetricsRenderModel, error) {
	scoring, err := contract.LoadScoringConfig(fs, cfg.ConfigPath, cfg.FormulaVersion)
	if err != nil {
		return nil, err
	}
	return schema.BuildMetricsRenderModel(scoring, cfg.FormulaVersion), nil
}

// PlotScoringCurves writes one PNG per configured metric into cfg.PlotDir.
func PlotScoringCurves(fs afero.Fs, cfg *contract.Config, scoring *schema.ScoringConfig) error {
	formulas, err := algo.ForVersion(cfg.FormulaVersion)
	if err != nil {
		return err
	}
	paths, err := curves.NewPlotter(fs, cfg.PlotDir, formulas).PlotAll(scoring)
	if len(paths) > 0 {
		contract.LogProgress(os.Stderr, "🖼️  Wrote %d scoring curves to %s", len(paths), cfg.PlotDir)
	}
	return err
}
