// Package schema has configs, models and errors for all parts of the VCX score calculator.
package schema

// XMLEntry is an ordered list of analyzer field paths. A single path is
// stored as a one-element list.
type XMLEntry []string

// ControlPoints define a piecewise-linear scoring curve.
type ControlPoints struct {
	XP []float64 `mapstructure:"xp" json:"xp"`
	YP []float64 `mapstructure:"yp" json:"yp"`
}

// FormulaSpec is either a formula tag or a set of control points.
type FormulaSpec struct {
	Tag    Formula        `json:"tag,omitempty"`
	Points *ControlPoints `json:"points,omitempty"`
}

// IsInterpolated reports whether the metric is scored through control points.
func (f FormulaSpec) IsInterpolated() bool {
	return f.Points != nil
}

// Label returns the formula tag, or "interpolated" for control point curves.
func (f FormulaSpec) Label() Formula {
	if f.IsInterpolated() {
		return InterpolatedFormulaLabel
	}
	return f.Tag
}

// MetricSpec is one configured measurement + scoring rule within a sub-score.
type MetricSpec struct {
	Name      string      `mapstructure:"name" json:"name"`
	XMLEntry  XMLEntry    `mapstructure:"xml_entry" json:"xml_entry"`
	ValueType ValueType   `mapstructure:"valueType" json:"valueType"`
	Formula   FormulaSpec `mapstructure:"formula" json:"formula"`
	LGC       float64     `mapstructure:"LGC" json:"LGC"`
	HGC       float64     `mapstructure:"HGC" json:"HGC"`
	Weight    float64     `mapstructure:"weight" json:"weight"`
}

// GroupSpec bundles metrics that share a group weight.
type GroupSpec struct {
	GroupWeight float64      `mapstructure:"groupWeight" json:"groupWeight"`
	Metrics     []MetricSpec `mapstructure:"Metrics" json:"Metrics"`
}

// SubScoreSpec is one named quality dimension. The name also selects the
// testcase folder by substring match.
type SubScoreSpec struct {
	Name           string      `mapstructure:"name" json:"name"`
	SubScoreWeight float64     `mapstructure:"subScoreWeight" json:"subScoreWeight"`
	Groups         []GroupSpec `mapstructure:"Groups" json:"Groups"`
}

// PerformanceMetricSpec is one performance measurement computed from CSV logs,
// image statistics or groups of XML files.
type PerformanceMetricSpec struct {
	Name      string        `mapstructure:"name" json:"name"`
	FileTag   string        `mapstructure:"fileTag" json:"fileTag,omitempty"`
	Column    []int         `mapstructure:"column" json:"column,omitempty"`
	ValueType PerfValueType `mapstructure:"valueType" json:"valueType"`
	Folders   []string      `mapstructure:"folders" json:"folders,omitempty"`
	XMLEntry  XMLEntry      `mapstructure:"xml_entry" json:"xml_entry,omitempty"`
	Scale     float64       `mapstructure:"scale" json:"scale,omitempty"`
	Formula   FormulaSpec   `mapstructure:"formula" json:"formula"`
	LGC       float64       `mapstructure:"LGC" json:"LGC"`
	HGC       float64       `mapstructure:"HGC" json:"HGC"`
	Weight    float64       `mapstructure:"weight" json:"weight"`
}

// PerformanceSpec holds the performance block of the scoring config.
// Folders maps a lower-cased key to folders relative to the capture root.
type PerformanceSpec struct {
	Folders map[string][]string     `mapstructure:"Folders" json:"Folders"`
	Metrics []PerformanceMetricSpec `mapstructure:"Metrics" json:"Metrics"`
	Weight  float64                 `mapstructure:"weight" json:"weight"`
}

// ScoringConfig is the validated, read-only scoring configuration.
type ScoringConfig struct {
	SubScores   []SubScoreSpec  `json:"IQ_SubScores"`
	Performance PerformanceSpec `json:"Performance"`
}

// MetricCount returns the number of IQ metrics across all sub-scores.
func (c *ScoringConfig) MetricCount() int {
	n := 0
	for _, s := range c.SubScores {
		for _, g := range s.Groups {
			n += len(g.Metrics)
		}
	}
	return n
}
