// Package algo has the scoring formulas, interpolation and aggregation of VCX scores.
package algo

import (
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/vcxscore/schema"
)

// FormulaSet scores a measurement with one historical formula family.
type FormulaSet interface {
	// Version returns the formula family implemented by the set.
	Version() schema.FormulaVersion

	// Supports reports whether the formula tag exists in this family.
	Supports(formula schema.Formula) bool

	// Formulas returns every supported tag in sorted order.
	Formulas() []schema.Formula

	// Score maps value through formula bounded by the guards lgc and hgc and
	// applies weight. Some v2.0 out-of-band branches return unweighted.
	Score(value float64, formula schema.Formula, lgc, hgc, weight float64) (float64, error)
}

// formulaFunc returns the raw score and whether weight still has to be applied.
type formulaFunc func(v, lgc, hgc float64) (result float64, weighted bool)

// formulaTable is a FormulaSet backed by a tag -> function table.
type formulaTable struct {
	version schema.FormulaVersion
	funcs   map[schema.Formula]formulaFunc
}

var _ FormulaSet = &formulaTable{} // Compile-time check

// LegacyFormulas is the v1.5 formula family.
var LegacyFormulas FormulaSet = &formulaTable{
	version: schema.FormulaV15,
	funcs: map[schema.Formula]formulaFunc{
		schema.LogarithmicFormula:    logarithmic,
		schema.FlatRoofFormula:       flatRoofV15,
		schema.LinearFormula:         linearV15,
		schema.RoofHLFormula:         roofHLV15,
		schema.LogNegLinearFormula:   logarithmicNegLinear,
		schema.RoofNegativeLLFormula: roofNegativeLL,
	},
}

// RevisedFormulas is the v2.0 formula family.
var RevisedFormulas FormulaSet = &formulaTable{
	version: schema.FormulaV20,
	funcs: map[schema.Formula]formulaFunc{
		schema.LogarithmicFormula:     logarithmic,
		schema.FlatRoofFormula:        flatRoofV20,
		schema.LinearFormula:          linearV20,
		schema.RoofHLFormula:          roofHLV20,
		schema.LogNegLinearFormula:    logarithmicNegLinear,
		schema.RoofNegativeLLFormula:  roofNegativeLL,
		schema.LogarithmicRoofFormula: logarithmicRoof,
		schema.RoofIIFormula:          roofII,
	},
}

// ForVersion returns the formula family for version.
func ForVersion(version schema.FormulaVersion) (FormulaSet, error) {
	switch version {
	case schema.FormulaV15, "":
		return LegacyFormulas, nil
	case schema.FormulaV20:
		return RevisedFormulas, nil
	default:
		return nil, fmt.Errorf("%w: unknown formula version %q", schema.ErrInvalidConfig, version)
	}
}

func (t *formulaTable) Version() schema.FormulaVersion {
	return t.version
}

func (t *formulaTable) Supports(formula schema.Formula) bool {
	_, ok := t.funcs[formula]
	return ok
}

func (t *formulaTable) Formulas() []schema.Formula {
	out := make([]schema.Formula, 0, len(t.funcs))
	for f := range t.funcs {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

func (t *formulaTable) Score(value float64, formula schema.Formula, lgc, hgc, weight float64) (float64, error) {
	fn, ok := t.funcs[formula]
	if !ok {
		return 0, fmt.Errorf("%w: %q in %s", schema.ErrUnsupportedFormula, formula, t.version)
	}
	if lgc == hgc {
		return 0, fmt.Errorf("%w: LGC == HGC == %g", schema.ErrDegenerateGuard, lgc)
	}
	result, weighted := fn(value, lgc, hgc)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: %s(%g) with LGC=%g HGC=%g is not finite", schema.ErrDegenerateGuard, formula, value, lgc, hgc)
	}
	if weighted {
		result *= weight
	}
	return result, nil
}

// logBase returns the logarithm of x in base b.
func logBase(x, b float64) float64 {
	return math.Log(x) / math.Log(b)
}

func logarithmic(v, lgc, hgc float64) (float64, bool) {
	switch {
	case v < lgc:
		return 0, true
	case v > hgc:
		return 1, true
	default:
		return logBase(v-lgc+1, hgc-lgc+1), true
	}
}

func flatRoofV15(v, lgc, hgc float64) (float64, bool) {
	switch {
	case v > lgc:
		return 0, true
	case v < hgc:
		return 1, true
	default:
		return (lgc - math.Abs(v)) / (lgc - hgc), true
	}
}

func flatRoofV20(v, lgc, hgc float64) (float64, bool) {
	switch {
	case math.Abs(v) > lgc:
		return -2 * logBase(math.Abs(v-lgc), lgc), false
	case math.Abs(v) < hgc:
		return 1, true
	default:
		return (lgc - math.Abs(v)) / (lgc - hgc), true
	}
}

func linearV15(v, lgc, hgc float64) (float64, bool) {
	switch {
	case v < lgc:
		return 0, true
	case v > hgc:
		return 1, true
	default:
		return (lgc - v) / (lgc - hgc), true
	}
}

func linearV20(v, lgc, hgc float64) (float64, bool) {
	if v < lgc {
		return -1 * logBase(math.Abs(v-lgc), lgc), false
	}
	return linearV15(v, lgc, hgc)
}

func roofHLV15(v, lgc, hgc float64) (float64, bool) {
	if v < 2*hgc-lgc || v > lgc {
		return 0, true
	}
	return 1 - math.Abs(v-hgc)/(lgc-hgc), true
}

func roofHLV20(v, lgc, hgc float64) (float64, bool) {
	if v < 2*hgc-lgc || v > lgc {
		return -1 * logBase(math.Abs(v-lgc), lgc), false
	}
	return roofHLV15(v, lgc, hgc)
}

func logarithmicNegLinear(v, lgc, hgc float64) (float64, bool) {
	switch {
	case v < 2*lgc-hgc:
		return -1, true
	case v < lgc:
		return (lgc - v) / (lgc - hgc), true
	case v > hgc:
		return 1, true
	default:
		return logBase(v-lgc+1, hgc-lgc+1), true
	}
}

func roofNegativeLL(v, lgc, hgc float64) (float64, bool) {
	if v < 2*lgc-hgc || v > 3*hgc-2*lgc {
		return -1, true
	}
	return 1 - math.Abs(v-hgc)/(hgc-lgc), true
}

// logarithmicRoof peaks at hgc with logarithmic tails mirrored around it.
func logarithmicRoof(v, lgc, hgc float64) (float64, bool) {
	upper := 2*hgc - lgc
	switch {
	case v < lgc || v > upper:
		return 0, true
	case v <= hgc:
		return logBase(v-lgc+1, hgc-lgc+1), true
	default:
		return logBase(upper-v+1, hgc-lgc+1), true
	}
}

func roofII(v, lgc, hgc float64) (float64, bool) {
	if v < lgc || v > 2*hgc-lgc {
		return -2 * math.Abs(v-lgc), false
	}
	return 1 - math.Abs(v-hgc)/(hgc-lgc), true
}
