package schema

// ScoredMetric is a weighted metric score fed into one aggregation.
// Score already includes Weight.
type ScoredMetric struct {
	Score  float64
	Weight float64
}

// MetricResult is the outcome of one metric on one XML file.
type MetricResult struct {
	Name    string  `json:"name"`
	Formula Formula `json:"formula"`
	Value   float64 `json:"value"`
	Score   float64 `json:"score"`
	Weight  float64 `json:"weight"`
	Error   string  `json:"error,omitempty"`
	Dropped bool    `json:"dropped,omitempty"` // left out of the file aggregation
}

// FileScore is the aggregated score of one XML file in a sub-score folder.
type FileScore struct {
	Path    string         `json:"path"`
	Score   float64        `json:"score"`
	Metrics []MetricResult `json:"metrics"`
	Error   string         `json:"error,omitempty"`
}

// SubScoreResult is the best-of-repeats result of one sub-score.
type SubScoreResult struct {
	Name     string      `json:"name"`
	Folder   string      `json:"folder,omitempty"`
	Weight   float64     `json:"weight"`
	Files    []FileScore `json:"files,omitempty"`
	Score    float64     `json:"score"`
	BestFile string      `json:"best_file,omitempty"`
	Skipped  bool        `json:"skipped,omitempty"`
	Reason   string      `json:"reason,omitempty"`
}

// PerformanceResult is the outcome of one performance metric.
type PerformanceResult struct {
	Name      string        `json:"name"`
	ValueType PerfValueType `json:"valueType"`
	Value     float64       `json:"value"`
	Score     float64       `json:"score"`
	Weight    float64       `json:"weight"`
	Error     string        `json:"error,omitempty"`
}

// Report is the result of one full pipeline pass.
type Report struct {
	FormulaVersion   FormulaVersion      `json:"formula_version"`
	Root             string              `json:"root"`
	SubScores        []SubScoreResult    `json:"sub_scores"`
	Performance      []PerformanceResult `json:"performance,omitempty"`
	PerformanceScore float64             `json:"performance_score"`
	PerformanceValid bool                `json:"performance_valid"`
	FinalScore       float64             `json:"final_score"`
	FinalScoreValid  bool                `json:"final_score_valid"`
}

// EvaluatedSubScores returns the sub-scores that were not skipped.
func (r *Report) EvaluatedSubScores() []SubScoreResult {
	var out []SubScoreResult
	for _, s := range r.SubScores {
		if !s.Skipped {
			out = append(out, s)
		}
	}
	return out
}
