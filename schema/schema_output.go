package schema

// Quality label constants.
const (
	ExcellentValue = "Excellent"
	GoodValue      = "Good"
	FairValue      = "Fair"
	PoorValue      = "Poor"
)

// GetPlainLabel returns a plain text quality label for a score in [0,100].
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return ExcellentValue
	case score >= 60:
		return GoodValue
	case score >= 40:
		return FairValue
	default:
		return PoorValue
	}
}

// EnrichedSubScore adds presentation data to a SubScoreResult.
type EnrichedSubScore struct {
	Label string `json:"label"`
	SubScoreResult
}

// EnrichedReport adds presentation data to a Report.
type EnrichedReport struct {
	FinalLabel string             `json:"final_label"`
	SubScores  []EnrichedSubScore `json:"sub_scores"`
	*Report
}

// EnrichReport adds labels to the final score and every evaluated sub-score.
func EnrichReport(r *Report) EnrichedReport {
	out := EnrichedReport{Report: r, FinalLabel: GetPlainLabel(r.FinalScore)}
	out.SubScores = make([]EnrichedSubScore, len(r.SubScores))
	for i, s := range r.SubScores {
		label := GetPlainLabel(s.Score)
		if s.Skipped {
			label = ""
		}
		out.SubScores[i] = EnrichedSubScore{Label: label, SubScoreResult: s}
	}
	return out
}

// MetricDefinition describes one configured metric for the metrics listing.
type MetricDefinition struct {
	SubScore        string         `json:"sub_score"`
	Metric          string         `json:"metric"`
	ValueType       string         `json:"valueType"`
	XMLEntry        []string       `json:"xml_entry,omitempty"`
	Formula         Formula        `json:"formula"`
	Points          *ControlPoints `json:"points,omitempty"`
	LGC             float64        `json:"LGC"`
	HGC             float64        `json:"HGC"`
	Weight          float64        `json:"weight"`
	EffectiveWeight float64        `json:"effective_weight"`
}

// MetricsRenderModel is the complete listing of a scoring configuration.
type MetricsRenderModel struct {
	FormulaVersion    FormulaVersion     `json:"formula_version"`
	Metrics           []MetricDefinition `json:"metrics"`
	Performance       []MetricDefinition `json:"performance,omitempty"`
	PerformanceWeight float64            `json:"performance_weight"`
}

// BuildMetricsRenderModel lists every metric of cfg in configuration order.
func BuildMetricsRenderModel(cfg *ScoringConfig, version FormulaVersion) *MetricsRenderModel {
	model := &MetricsRenderModel{FormulaVersion: version, PerformanceWeight: cfg.Performance.Weight}
	for _, s := range cfg.SubScores {
		for _, g := range s.Groups {
			for _, m := range g.Metrics {
				model.Metrics = append(model.Metrics, MetricDefinition{
					SubScore:        s.Name,
					Metric:          m.Name,
					ValueType:       string(m.ValueType),
					XMLEntry:        m.XMLEntry,
					Formula:         m.Formula.Label(),
					Points:          m.Formula.Points,
					LGC:             m.LGC,
					HGC:             m.HGC,
					Weight:          m.Weight,
					EffectiveWeight: m.Weight * g.GroupWeight,
				})
			}
		}
	}
	for _, m := range cfg.Performance.Metrics {
		model.Performance = append(model.Performance, MetricDefinition{
			SubScore:        "Performance",
			Metric:          m.Name,
			ValueType:       string(m.ValueType),
			XMLEntry:        m.XMLEntry,
			Formula:         m.Formula.Label(),
			Points:          m.Formula.Points,
			LGC:             m.LGC,
			HGC:             m.HGC,
			Weight:          m.Weight,
			EffectiveWeight: m.Weight,
		})
	}
	return model
}
