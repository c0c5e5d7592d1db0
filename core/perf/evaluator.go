// Package perf evaluates performance metrics from CSV logs, JPEG captures
// and groups of analyzer XML files.
package perf

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/vcxscore/core/algo"
	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/afero"
)

// Evaluator measures and scores performance metrics below one capture root.
type Evaluator struct {
	FS       afero.Fs
	Root     string
	Folders  map[string][]string // lower-cased key -> folders relative to Root
	Formulas algo.FormulaSet
}

// NewEvaluator returns an Evaluator for the performance block of cfg.
func NewEvaluator(fs afero.Fs, root string, perf schema.PerformanceSpec, formulas algo.FormulaSet) *Evaluator {
	folders := make(map[string][]string, len(perf.Folders))
	for k, v := range perf.Folders {
		folders[strings.ToLower(k)] = v
	}
	return &Evaluator{FS: fs, Root: root, Folders: folders, Formulas: formulas}
}

// measureFunc computes the raw value of one performance metric.
type measureFunc func(e *Evaluator, spec schema.PerformanceMetricSpec) (float64, error)

var measures = map[schema.PerfValueType]measureFunc{
	schema.FPSPerf:                  (*Evaluator).measureFPS,
	schema.MeanPerf:                 (*Evaluator).measureMean,
	schema.MeanScaledPerf:           (*Evaluator).measureMeanScaled,
	schema.DeltaPerf:                (*Evaluator).measureDelta,
	schema.CompressionLossPerf:      (*Evaluator).measureCompressionLoss,
	schema.AFFailurePerf:            (*Evaluator).measureAFFailure,
	schema.MultipleXMLMeanPerf:      (*Evaluator).measureXMLMean,
	schema.MultipleXMLMeanDeltaPerf: (*Evaluator).measureXMLDelta,
	schema.MultipleXMLMeanPctPerf:   (*Evaluator).measureXMLDelta,
	schema.MultipleXMLMeanAbsPerf:   (*Evaluator).measureXMLDelta,
}

// Validate checks the static shape of spec against folderKeys.
func Validate(spec schema.PerformanceMetricSpec, folderKeys map[string][]string) error {
	if _, ok := measures[spec.ValueType]; !ok {
		return fmt.Errorf("%w: performance value type %q", schema.ErrUnsupportedValueType, spec.ValueType)
	}
	for _, key := range spec.Folders {
		if _, ok := lookupFolder(folderKeys, key); !ok {
			return fmt.Errorf("%w: performance metric %s uses unknown folder key %q", schema.ErrInvalidConfig, spec.Name, key)
		}
	}
	switch spec.ValueType {
	case schema.FPSPerf, schema.MeanPerf, schema.MeanScaledPerf:
		if len(spec.Column) < 1 || spec.FileTag == "" {
			return fmt.Errorf("%w: %s needs fileTag and one column", schema.ErrInvalidConfig, spec.ValueType)
		}
	case schema.DeltaPerf:
		if len(spec.Column) < 2 || spec.FileTag == "" {
			return fmt.Errorf("%w: %s needs fileTag and two columns", schema.ErrInvalidConfig, spec.ValueType)
		}
	case schema.CompressionLossPerf:
		if len(spec.Folders) == 0 {
			return fmt.Errorf("%w: %s needs a folder key", schema.ErrInvalidConfig, spec.ValueType)
		}
	case schema.AFFailurePerf:
		if len(spec.Folders) == 0 || len(spec.XMLEntry) < 2 {
			return fmt.Errorf("%w: %s needs a folder key and at least two xml entries", schema.ErrInvalidConfig, spec.ValueType)
		}
	case schema.MultipleXMLMeanPerf:
		if len(spec.Folders) == 0 || len(spec.XMLEntry) == 0 {
			return fmt.Errorf("%w: %s needs a folder key and xml entries", schema.ErrInvalidConfig, spec.ValueType)
		}
	default:
		if len(spec.Folders) != 2 || len(spec.XMLEntry) == 0 {
			return fmt.Errorf("%w: %s needs folder keys [base, compare] and xml entries", schema.ErrInvalidConfig, spec.ValueType)
		}
	}
	return nil
}

// Measure computes the raw value of spec.
func (e *Evaluator) Measure(spec schema.PerformanceMetricSpec) (float64, error) {
	if err := Validate(spec, e.Folders); err != nil {
		return 0, err
	}
	return measures[spec.ValueType](e, spec)
}

// Evaluate measures and scores spec. Failures are recorded in the result.
func (e *Evaluator) Evaluate(spec schema.PerformanceMetricSpec) schema.PerformanceResult {
	result := schema.PerformanceResult{Name: spec.Name, ValueType: spec.ValueType, Weight: spec.Weight}
	value, err := e.Measure(spec)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Value = value

	if spec.Formula.IsInterpolated() {
		result.Score = algo.InterpolatedScore(value, *spec.Formula.Points, spec.Weight)
		return result
	}
	score, err := e.Formulas.Score(value, spec.Formula.Tag, spec.LGC, spec.HGC, spec.Weight)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Score = score
	return result
}

// EvaluateAll evaluates specs in order and aggregates the successful ones.
// The returned flag is false when no metric could be aggregated.
func (e *Evaluator) EvaluateAll(specs []schema.PerformanceMetricSpec) ([]schema.PerformanceResult, float64, bool) {
	results := make([]schema.PerformanceResult, 0, len(specs))
	scores := make(map[string]schema.ScoredMetric, len(specs))
	for _, spec := range specs {
		r := e.Evaluate(spec)
		results = append(results, r)
		if r.Error == "" {
			scores[r.Name] = schema.ScoredMetric{Score: r.Score, Weight: r.Weight}
		}
	}
	score, err := algo.AggregateSubScore(scores)
	if err != nil {
		return results, 0, false
	}
	return results, score, true
}

func lookupFolder(folders map[string][]string, key string) ([]string, bool) {
	v, ok := folders[strings.ToLower(key)]
	return v, ok
}

// dirs resolves folder keys to absolute directories. Without keys the root is used.
func (e *Evaluator) dirs(keys ...string) []string {
	if len(keys) == 0 {
		return []string{e.Root}
	}
	var out []string
	for _, key := range keys {
		rel, _ := lookupFolder(e.Folders, key)
		for _, r := range rel {
			out = append(out, filepath.Join(e.Root, r))
		}
	}
	return out
}

// glob returns the sorted files of dirs matching any pattern and accepted by keep.
func (e *Evaluator) glob(dirs []string, patterns []string, keep func(base string) bool) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		for _, pattern := range patterns {
			matches, err := afero.Glob(e.FS, filepath.Join(dir, pattern))
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				if keep == nil || keep(filepath.Base(m)) {
					files = append(files, m)
				}
			}
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
