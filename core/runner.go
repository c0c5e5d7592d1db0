package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/vcxscore/core/algo"
	"github.com/huangsam/vcxscore/core/perf"
	"github.com/huangsam/vcxscore/internal/contract"
	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// performanceName labels the performance block in the final score.
const performanceName = "Performance"

// Runner executes one scoring pass over a capture folder.
type Runner struct {
	Workspace contract.Workspace
	Fs        afero.Fs  // read by performance metrics
	Progress  io.Writer // progress lines, nil to silence
}

// NewRunner returns a Runner over the local disk reporting progress to stderr.
func NewRunner() *Runner {
	ws := contract.NewOSWorkspace()
	return &Runner{Workspace: ws, Fs: ws.Fs, Progress: os.Stderr}
}

// NewFsRunner returns a Runner reading captures from fs. A nil progress
// writer silences the progress lines.
func NewFsRunner(fs afero.Fs, progress io.Writer) *Runner {
	return &Runner{Workspace: contract.NewFSWorkspace(fs), Fs: fs, Progress: progress}
}

// Run scores every sub-score of scoring below cfg.RootPath, evaluates the
// performance block and computes the final score.
func (r *Runner) Run(ctx context.Context, cfg *contract.Config, scoring *schema.ScoringConfig) (*schema.Report, error) {
	formulas, err := algo.ForVersion(cfg.FormulaVersion)
	if err != nil {
		return nil, err
	}
	report := &schema.Report{FormulaVersion: formulas.Version(), Root: cfg.RootPath}

	// Sub-scores run sequentially in configuration order.
	for i := range scoring.SubScores {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := r.scoreSubScore(ctx, cfg, formulas, &scoring.SubScores[i])
		if err != nil {
			return nil, err
		}
		report.SubScores = append(report.SubScores, result)
	}

	if len(scoring.Performance.Metrics) > 0 {
		contract.LogProgress(r.Progress, "⚡ Evaluating %d performance metrics", len(scoring.Performance.Metrics))
		evaluator := perf.NewEvaluator(r.Fs, cfg.RootPath, scoring.Performance, formulas)
		results, score, ok := evaluator.EvaluateAll(scoring.Performance.Metrics)
		for _, p := range results {
			if p.Error != "" {
				contract.LogWarn(fmt.Sprintf("performance metric %s", p.Name), errors.New(p.Error))
			}
		}
		report.Performance = results
		report.PerformanceScore = score
		report.PerformanceValid = ok
	}

	items := make([]algo.WeightedScore, 0, len(report.SubScores)+1)
	for _, s := range report.EvaluatedSubScores() {
		items = append(items, algo.WeightedScore{Name: s.Name, Score: s.Score, Weight: s.Weight})
	}
	if report.PerformanceValid && scoring.Performance.Weight > 0 {
		items = append(items, algo.WeightedScore{Name: performanceName, Score: report.PerformanceScore, Weight: scoring.Performance.Weight})
	}
	final, err := algo.FinalScore(items)
	if err != nil {
		contract.LogWarn("Final score unavailable", err)
		return report, nil
	}
	report.FinalScore = final
	report.FinalScoreValid = true
	contract.LogProgress(r.Progress, "✅ VCX score: %.2f", final)
	return report, nil
}

// scoreSubScore locates the testcase folder of spec and keeps the best file score.
func (r *Runner) scoreSubScore(ctx context.Context, cfg *contract.Config, formulas algo.FormulaSet, spec *schema.SubScoreSpec) (schema.SubScoreResult, error) {
	result := schema.SubScoreResult{Name: spec.Name, Weight: spec.SubScoreWeight}
	contract.LogProgress(r.Progress, "🔍 %s", spec.Name)

	folder, err := r.Workspace.Locate(cfg.RootPath, spec.Name)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Skipping %s", spec.Name), err)
		return skipped(result, err), nil
	}
	result.Folder = folder

	files, err := r.Workspace.ListXML(folder)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Skipping %s", spec.Name), err)
		return skipped(result, err), nil
	}
	if len(files) == 0 {
		err := fmt.Errorf("%w: %s", schema.ErrNoXMLFiles, folder)
		contract.LogWarn(fmt.Sprintf("Skipping %s", spec.Name), err)
		return skipped(result, err), nil
	}

	scores, err := r.scoreFiles(ctx, cfg.Workers, formulas, spec, files)
	if err != nil {
		return result, err
	}
	result.Files = scores

	valid := make([]schema.FileScore, 0, len(scores))
	for _, f := range scores {
		contract.LogProgress(r.Progress, "  📄 %s: %.2f", f.Path, f.Score)
		if f.Error == "" {
			valid = append(valid, f)
		}
	}
	best, ok := algo.MaxFileScore(valid)
	if !ok {
		err := fmt.Errorf("%w: no readable XML file in %s", schema.ErrNoXMLFiles, folder)
		contract.LogWarn(fmt.Sprintf("Skipping %s", spec.Name), err)
		return skipped(result, err), nil
	}
	result.Score = best.Score
	result.BestFile = best.Path
	contract.LogProgress(r.Progress, "  🏆 max %s: %.2f", spec.Name, best.Score)
	return result, nil
}

// scoreFiles scores files concurrently. Every file writes its own slot so
// the output keeps the input order.
func (r *Runner) scoreFiles(ctx context.Context, workers int, formulas algo.FormulaSet, spec *schema.SubScoreSpec, files []string) ([]schema.FileScore, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]schema.FileScore, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fs, err := NewFileScoreBuilder(r.Workspace, formulas, spec, path).
				OpenDocument().
				ScoreMetrics().
				Aggregate().
				Build()
			results[i] = fs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func skipped(result schema.SubScoreResult, err error) schema.SubScoreResult {
	result.Skipped = true
	result.Reason = err.Error()
	return result
}
