package algo

import (
	"fmt"
	"slices"

	"github.com/huangsam/vcxscore/schema"
)

// AggregateSubScore returns 100 * sum(score) / sum(weight) over the named scores.
func AggregateSubScore(scores map[string]schema.ScoredMetric) (float64, error) {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	// Sorted summation keeps results reproducible across runs.
	slices.Sort(names)

	var scoreSum, weightSum float64
	for _, name := range names {
		scoreSum += scores[name].Score
		weightSum += scores[name].Weight
	}
	if weightSum == 0 {
		return 0, fmt.Errorf("%w: weight sum of %d metrics is 0", schema.ErrDegenerateGuard, len(scores))
	}
	return scoreSum / weightSum * 100, nil
}

// MaxFileScore returns the best-scoring file. Repeated captures of a testcase
// are judged by their best attempt.
func MaxFileScore(files []schema.FileScore) (schema.FileScore, bool) {
	if len(files) == 0 {
		return schema.FileScore{}, false
	}
	best := files[0]
	for _, f := range files[1:] {
		if f.Score > best.Score {
			best = f
		}
	}
	return best, true
}

// WeightedScore is one input of the final score.
type WeightedScore struct {
	Name   string
	Score  float64
	Weight float64
}

// FinalScore returns the weighted mean of the given scores.
func FinalScore(items []WeightedScore) (float64, error) {
	var sum, weightSum float64
	for _, it := range items {
		sum += it.Score * it.Weight
		weightSum += it.Weight
	}
	if weightSum == 0 {
		return 0, fmt.Errorf("%w: sub-score weight sum is 0", schema.ErrDegenerateGuard)
	}
	return sum / weightSum, nil
}
