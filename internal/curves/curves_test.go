package curves

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/huangsam/vcxscore/core/algo"
	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		subScore, metric string
		expected         string
	}{
		{"Texture", "MTF50", "Texture MTF50.png"},
		{"Noise", "SNR a/b", "Noise SNR a_b.png"},
		{"Color", `dE\x:y`, "Color dE_x_y.png"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileName(tt.subScore, tt.metric))
		})
	}
}

func TestSample(t *testing.T) {
	t.Run("formula", func(t *testing.T) {
		pts, err := Sample(schema.FormulaSpec{Tag: schema.LogarithmicFormula}, 0, 1, algo.LegacyFormulas, 5)
		require.NoError(t, err)
		require.Len(t, pts, 5)

		assert.InDelta(t, -0.5, pts[0].X, 1e-9)
		assert.InDelta(t, 0.0, pts[0].Y, 1e-9)
		assert.InDelta(t, math.Log2(1.5), pts[2].Y, 1e-9)
		assert.InDelta(t, 1.5, pts[4].X, 1e-9)
		assert.InDelta(t, 1.0, pts[4].Y, 1e-9)
	})

	t.Run("interpolated", func(t *testing.T) {
		cp := &schema.ControlPoints{XP: []float64{0, 10}, YP: []float64{0, 1}}
		pts, err := Sample(schema.FormulaSpec{Points: cp}, 0, 0, algo.LegacyFormulas, 11)
		require.NoError(t, err)
		require.Len(t, pts, 11)
		for _, pt := range pts {
			assert.InDelta(t, pt.X/10, pt.Y, 1e-9)
		}
	})

	t.Run("revised only formula", func(t *testing.T) {
		f := schema.FormulaSpec{Tag: schema.RoofIIFormula}
		_, err := Sample(f, 1, 2, algo.LegacyFormulas, 10)
		assert.True(t, errors.Is(err, schema.ErrUnsupportedFormula))

		pts, err := Sample(f, 1, 2, algo.RevisedFormulas, 10)
		require.NoError(t, err)
		assert.Len(t, pts, 10)
	})

	t.Run("degenerate band", func(t *testing.T) {
		_, err := Sample(schema.FormulaSpec{Tag: schema.LinearFormula}, 3, 3, algo.LegacyFormulas, 10)
		assert.True(t, errors.Is(err, schema.ErrDegenerateGuard))
	})

	t.Run("invalid control points", func(t *testing.T) {
		cp := &schema.ControlPoints{XP: []float64{2, 1}, YP: []float64{0, 1}}
		_, err := Sample(schema.FormulaSpec{Points: cp}, 0, 0, algo.LegacyFormulas, 10)
		assert.True(t, errors.Is(err, schema.ErrInvalidControlPoints))
	})
}

func TestPlotAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := NewPlotter(fs, "/plots", algo.LegacyFormulas)
	p.Samples = 21

	cfg := &schema.ScoringConfig{
		SubScores: []schema.SubScoreSpec{
			{Name: "Texture", SubScoreWeight: 1, Groups: []schema.GroupSpec{
				{GroupWeight: 1, Metrics: []schema.MetricSpec{
					{Name: "MTF50", Formula: schema.FormulaSpec{Tag: schema.LogarithmicFormula}, LGC: 0.1, HGC: 0.5, Weight: 1},
					{Name: "Acutance", Formula: schema.FormulaSpec{Points: &schema.ControlPoints{XP: []float64{0, 1}, YP: []float64{0, 1}}}, Weight: 1},
				}},
			}},
		},
		Performance: schema.PerformanceSpec{
			Weight: 1,
			Metrics: []schema.PerformanceMetricSpec{
				{Name: "fps", ValueType: schema.FPSPerf, Formula: schema.FormulaSpec{Tag: schema.LinearFormula}, LGC: 15, HGC: 30, Weight: 1},
			},
		},
	}

	paths, err := p.PlotAll(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("/plots", "Texture MTF50.png"),
		filepath.Join("/plots", "Texture Acutance.png"),
		filepath.Join("/plots", "Performance fps.png"),
	}, paths)

	for _, path := range paths {
		data, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		require.Greater(t, len(data), 8)
		assert.Equal(t, "\x89PNG", string(data[:4]), "%s should be a PNG", path)
	}
}

func TestPlotAll_SkipsBadCurve(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := NewPlotter(fs, "/plots", algo.LegacyFormulas)

	cfg := &schema.ScoringConfig{
		SubScores: []schema.SubScoreSpec{
			{Name: "Texture", Groups: []schema.GroupSpec{
				{GroupWeight: 1, Metrics: []schema.MetricSpec{
					{Name: "flat", Formula: schema.FormulaSpec{Tag: schema.LinearFormula}, LGC: 1, HGC: 1, Weight: 1},
					{Name: "MTF", Formula: schema.FormulaSpec{Tag: schema.LinearFormula}, LGC: 0, HGC: 1, Weight: 1},
				}},
			}},
		},
	}

	paths, err := p.PlotAll(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Texture flat")
	require.Len(t, paths, 1, "curves after a bad one are still drawn")
	assert.Equal(t, filepath.Join("/plots", FileName("Texture", "MTF")), paths[0])

	ok, err := afero.Exists(fs, paths[0])
	require.NoError(t, err)
	assert.True(t, ok)
}
