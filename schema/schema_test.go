package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"config not found", fmt.Errorf("load: %w", ErrConfigNotFound), true},
		{"unknown value type", fmt.Errorf("metric x: %w", ErrUnsupportedValueType), true},
		{"unknown formula", ErrUnsupportedFormula, true},
		{"bad control points", ErrInvalidControlPoints, true},
		{"missing field", &FieldError{Path: "a/b", Err: ErrMissingField}, false},
		{"parse error", &FieldError{Path: "a/b", Err: ErrParse}, false},
		{"degenerate guard", ErrDegenerateGuard, false},
		{"folder not found", ErrFolderNotFound, false},
		{"no xml files", ErrNoXMLFiles, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}

func TestFieldError(t *testing.T) {
	err := fmt.Errorf("sharpness: %w", &FieldError{Path: "MTF/MTF50", Err: ErrMissingField})
	assert.True(t, IsFieldError(err))
	assert.True(t, errors.Is(err, ErrMissingField))

	var fe *FieldError
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, "MTF/MTF50", fe.Path)
	assert.Contains(t, err.Error(), "XML entry not found")
}

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, ExcellentValue, GetPlainLabel(80))
	assert.Equal(t, GoodValue, GetPlainLabel(79.9))
	assert.Equal(t, FairValue, GetPlainLabel(40))
	assert.Equal(t, PoorValue, GetPlainLabel(-3))
}

func TestEnrichReport(t *testing.T) {
	r := &Report{
		FinalScore: 85,
		SubScores: []SubScoreResult{
			{Name: "Sharpness", Score: 88},
			{Name: "Color", Skipped: true, Reason: "not found"},
		},
	}
	e := EnrichReport(r)
	assert.Equal(t, ExcellentValue, e.FinalLabel)
	assert.Equal(t, ExcellentValue, e.SubScores[0].Label)
	assert.Empty(t, e.SubScores[1].Label)
	assert.Len(t, r.EvaluatedSubScores(), 1)
}

func TestFormulaSpecLabel(t *testing.T) {
	assert.Equal(t, LinearFormula, FormulaSpec{Tag: LinearFormula}.Label())
	f := FormulaSpec{Points: &ControlPoints{XP: []float64{0, 1}, YP: []float64{0, 1}}}
	assert.True(t, f.IsInterpolated())
	assert.Equal(t, InterpolatedFormulaLabel, f.Label())
}
