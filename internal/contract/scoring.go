package contract

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/huangsam/vcxscore/core/algo"
	"github.com/huangsam/vcxscore/core/extract"
	"github.com/huangsam/vcxscore/core/perf"
	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// metricRawInput accepts control points both under "formula" and next to it.
type metricRawInput struct {
	schema.MetricSpec `mapstructure:",squash"`
	XP                []float64 `mapstructure:"xp"`
	YP                []float64 `mapstructure:"yp"`
}

type groupRawInput struct {
	GroupWeight float64          `mapstructure:"groupWeight"`
	Metrics     []metricRawInput `mapstructure:"Metrics"`
}

// subScoreRawInput allows Metrics directly under a sub-score, read as one group.
type subScoreRawInput struct {
	Name           string           `mapstructure:"name"`
	SubScoreWeight float64          `mapstructure:"subScoreWeight"`
	Groups         []groupRawInput  `mapstructure:"Groups"`
	Metrics        []metricRawInput `mapstructure:"Metrics"`
}

type perfMetricRawInput struct {
	schema.PerformanceMetricSpec `mapstructure:",squash"`
	XP                           []float64 `mapstructure:"xp"`
	YP                           []float64 `mapstructure:"yp"`
}

type performanceRawInput struct {
	Folders map[string][]string  `mapstructure:"Folders"`
	Metrics []perfMetricRawInput `mapstructure:"Metrics"`
	Weight  float64              `mapstructure:"weight"`
}

// ScoringRawInput is the scoring configuration file as decoded by Viper.
type ScoringRawInput struct {
	SubScores   []subScoreRawInput  `mapstructure:"IQ_SubScores"`
	Performance performanceRawInput `mapstructure:"Performance"`
}

var formulaSpecType = reflect.TypeOf(schema.FormulaSpec{})

// FormulaSpecHookFunc decodes a formula given as a tag string or as an
// {"xp": [...], "yp": [...]} object.
func FormulaSpecHookFunc() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != formulaSpecType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return schema.FormulaSpec{Tag: schema.Formula(v)}, nil
		case map[string]any:
			var cp schema.ControlPoints
			if err := mapstructure.WeakDecode(v, &cp); err != nil {
				return nil, fmt.Errorf("%w: %v", schema.ErrInvalidControlPoints, err)
			}
			return schema.FormulaSpec{Points: &cp}, nil
		default:
			return data, nil
		}
	}
}

// LoadScoringConfig reads, decodes and validates the scoring configuration
// at path for the given formula version.
func LoadScoringConfig(fs afero.Fs, path string, version schema.FormulaVersion) (*schema.ScoringConfig, error) {
	if _, err := fs.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", schema.ErrConfigNotFound, path)
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", schema.ErrInvalidConfig, path, err)
	}

	var raw ScoringRawInput
	err := v.Unmarshal(&raw, viper.DecodeHook(FormulaSpecHookFunc()), func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	})
	if err != nil {
		if errors.Is(err, schema.ErrInvalidControlPoints) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to decode %s: %v", schema.ErrInvalidConfig, path, err)
	}

	formulas, err := algo.ForVersion(version)
	if err != nil {
		return nil, err
	}
	cfg := raw.build()
	if err := ValidateScoringConfig(cfg, formulas); err != nil {
		return nil, err
	}
	return cfg, nil
}

// build converts the raw input into the read-only ScoringConfig.
func (raw *ScoringRawInput) build() *schema.ScoringConfig {
	cfg := &schema.ScoringConfig{}
	for _, s := range raw.SubScores {
		sub := schema.SubScoreSpec{Name: s.Name, SubScoreWeight: s.SubScoreWeight}
		for _, g := range s.Groups {
			sub.Groups = append(sub.Groups, schema.GroupSpec{GroupWeight: g.GroupWeight, Metrics: buildMetrics(g.Metrics)})
		}
		if len(s.Metrics) > 0 {
			sub.Groups = append(sub.Groups, schema.GroupSpec{GroupWeight: 1, Metrics: buildMetrics(s.Metrics)})
		}
		cfg.SubScores = append(cfg.SubScores, sub)
	}

	cfg.Performance.Weight = raw.Performance.Weight
	cfg.Performance.Folders = make(map[string][]string, len(raw.Performance.Folders))
	for k, v := range raw.Performance.Folders {
		cfg.Performance.Folders[strings.ToLower(k)] = v
	}
	for _, m := range raw.Performance.Metrics {
		spec := m.PerformanceMetricSpec
		spec.Formula = withPoints(spec.Formula, m.XP, m.YP)
		cfg.Performance.Metrics = append(cfg.Performance.Metrics, spec)
	}
	return cfg
}

func buildMetrics(raw []metricRawInput) []schema.MetricSpec {
	out := make([]schema.MetricSpec, 0, len(raw))
	for _, m := range raw {
		spec := m.MetricSpec
		spec.Formula = withPoints(spec.Formula, m.XP, m.YP)
		out = append(out, spec)
	}
	return out
}

// withPoints lifts metric level xp/yp into the formula when no formula is given.
func withPoints(f schema.FormulaSpec, xp, yp []float64) schema.FormulaSpec {
	if f.Tag == "" && f.Points == nil && (len(xp) > 0 || len(yp) > 0) {
		return schema.FormulaSpec{Points: &schema.ControlPoints{XP: xp, YP: yp}}
	}
	return f
}

// ValidateScoringConfig checks every tag and curve of cfg against formulas.
func ValidateScoringConfig(cfg *schema.ScoringConfig, formulas algo.FormulaSet) error {
	if len(cfg.SubScores) == 0 {
		return fmt.Errorf("%w: no IQ_SubScores defined", schema.ErrInvalidConfig)
	}
	for _, s := range cfg.SubScores {
		if s.Name == "" {
			return fmt.Errorf("%w: sub-score without name", schema.ErrInvalidConfig)
		}
		if s.SubScoreWeight < 0 {
			return fmt.Errorf("%w: sub-score %s has negative weight", schema.ErrInvalidConfig, s.Name)
		}
		for _, g := range s.Groups {
			for _, m := range g.Metrics {
				if err := extract.Validate(m.ValueType, m.XMLEntry); err != nil {
					return fmt.Errorf("%s/%s: %w", s.Name, m.Name, err)
				}
				if err := validateScoring(m.Formula, m.Weight, formulas); err != nil {
					return fmt.Errorf("%s/%s: %w", s.Name, m.Name, err)
				}
			}
		}
	}
	for _, m := range cfg.Performance.Metrics {
		if err := perf.Validate(m, cfg.Performance.Folders); err != nil {
			return fmt.Errorf("Performance/%s: %w", m.Name, err)
		}
		if err := validateScoring(m.Formula, m.Weight, formulas); err != nil {
			return fmt.Errorf("Performance/%s: %w", m.Name, err)
		}
	}
	return nil
}

func validateScoring(f schema.FormulaSpec, weight float64, formulas algo.FormulaSet) error {
	if weight < 0 {
		return fmt.Errorf("%w: negative weight %g", schema.ErrInvalidConfig, weight)
	}
	if f.IsInterpolated() {
		return algo.ValidateControlPoints(*f.Points)
	}
	if !formulas.Supports(f.Tag) {
		return fmt.Errorf("%w: %q in %s", schema.ErrUnsupportedFormula, f.Tag, formulas.Version())
	}
	return nil
}
