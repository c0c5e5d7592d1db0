package core

import (
	"errors"
	"fmt"

	"github.com/huangsam/vcxscore/core/algo"
	"github.com/huangsam/vcxscore/core/extract"
	"github.com/huangsam/vcxscore/internal/contract"
	"github.com/huangsam/vcxscore/schema"
)

// FileScoreBuilder scores one analyzer XML file against one sub-score.
type FileScoreBuilder struct {
	ws       contract.Workspace
	formulas algo.FormulaSet
	spec     *schema.SubScoreSpec
	result   *schema.FileScore

	// Internal data collected during the build process
	doc    extract.Document
	scores map[string]schema.ScoredMetric
	fatal  error
}

// NewFileScoreBuilder is the starting point for scoring one file.
func NewFileScoreBuilder(ws contract.Workspace, formulas algo.FormulaSet, spec *schema.SubScoreSpec, path string) *FileScoreBuilder {
	return &FileScoreBuilder{
		ws:       ws,
		formulas: formulas,
		spec:     spec,
		result:   &schema.FileScore{Path: path},
		scores:   make(map[string]schema.ScoredMetric),
	}
}

// OpenDocument parses the XML file. A broken file is recorded and scores nothing.
func (b *FileScoreBuilder) OpenDocument() *FileScoreBuilder {
	doc, err := b.ws.OpenXML(b.result.Path)
	if err != nil {
		contract.LogWarn("Failed to read analyzer file", err)
		b.result.Error = err.Error()
		return b
	}
	b.doc = doc
	return b
}

// ScoreMetrics extracts and scores every metric of every group.
func (b *FileScoreBuilder) ScoreMetrics() *FileScoreBuilder {
	if b.doc == nil {
		return b
	}
	for gi, g := range b.spec.Groups {
		for _, m := range g.Metrics {
			r, err := b.scoreMetric(m, g.GroupWeight)
			if err != nil {
				b.fatal = fmt.Errorf("%s/%s: %w", b.spec.Name, m.Name, err)
				return b
			}
			b.result.Metrics = append(b.result.Metrics, r)
			if !r.Dropped {
				// Keyed by group so equal metric names in two groups both count.
				b.scores[fmt.Sprintf("%d/%s", gi, m.Name)] = schema.ScoredMetric{Score: r.Score, Weight: r.Weight}
			}
		}
	}
	return b
}

// scoreMetric runs extract -> score for one metric. Only errors that stop the
// whole run are returned; everything else is recorded in the result.
func (b *FileScoreBuilder) scoreMetric(m schema.MetricSpec, groupWeight float64) (schema.MetricResult, error) {
	r := schema.MetricResult{Name: m.Name, Formula: m.Formula.Label(), Weight: m.Weight * groupWeight}

	value, err := extract.Extract(b.doc, m.XMLEntry, m.ValueType)
	switch {
	case err == nil:
		r.Value = value
	case schema.IsFatal(err):
		return r, err
	case schema.IsFieldError(err):
		contract.LogWarn(fmt.Sprintf("%s in %s", m.Name, b.result.Path), err)
		r.Error = err.Error()
		r.Dropped = true
		return r, nil
	case errors.Is(err, schema.ErrDegenerateGuard):
		r.Error = err.Error()
		return r, nil
	default:
		return r, err
	}

	if m.Formula.IsInterpolated() {
		r.Score = algo.InterpolatedScore(value, *m.Formula.Points, r.Weight)
		return r, nil
	}
	score, err := b.formulas.Score(value, m.Formula.Tag, m.LGC, m.HGC, r.Weight)
	if err != nil {
		if errors.Is(err, schema.ErrDegenerateGuard) {
			r.Error = err.Error()
			return r, nil
		}
		return r, err
	}
	r.Score = score
	return r, nil
}

// Aggregate computes the file score. A file without any weight scores 0.
func (b *FileScoreBuilder) Aggregate() *FileScoreBuilder {
	if b.doc == nil || b.fatal != nil {
		return b
	}
	score, err := algo.AggregateSubScore(b.scores)
	if err != nil {
		b.result.Score = 0
		return b
	}
	b.result.Score = score
	return b
}

// Build returns the file score, or the error that has to stop the run.
func (b *FileScoreBuilder) Build() (schema.FileScore, error) {
	return *b.result, b.fatal
}
