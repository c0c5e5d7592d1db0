package contract

import (
	"testing"

	"github.com/huangsam/vcxscore/core/algo"
	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoringJSON = `{
  "IQ_SubScores": [
    {
      "name": "Texture",
      "subScoreWeight": 2,
      "Metrics": [
        {"name": "MTF50", "xml_entry": "Sharpness/MTF50", "valueType": "float",
         "formula": "logarithmic", "LGC": 0.1, "HGC": 0.5, "weight": 1},
        {"name": "Acutance", "xml_entry": ["Acutance/Center"], "valueType": "max",
         "formula": {"xp": [0, 50, 100], "yp": [0, 0.8, 1]}, "weight": 2}
      ]
    },
    {
      "name": "Noise",
      "subScoreWeight": 1,
      "Groups": [
        {"groupWeight": 0.5, "Metrics": [
          {"name": "VN", "xml_entry": "Noise/VN", "valueType": "float",
           "xp": [0, 4], "yp": [1, 0], "weight": 1}
        ]}
      ]
    }
  ],
  "Performance": {
    "Folders": {"Scenes": ["scene1", "scene2"]},
    "weight": 1,
    "Metrics": [
      {"name": "Compression", "valueType": "compressionLoss", "folders": ["scenes"],
       "formula": "linear", "LGC": 0.5, "HGC": 0.1, "weight": 1},
      {"name": "Frame rate", "valueType": "fps", "fileTag": "timing", "column": 0,
       "formula": "logarithmic", "LGC": 5, "HGC": 30, "weight": 1}
    ]
  }
}`

func writeScoringConfig(t *testing.T, fs afero.Fs, content string) string {
	t.Helper()
	path := "/configs/vcx_config.json"
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	return path
}

func TestLoadScoringConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := writeScoringConfig(t, fs, scoringJSON)

	cfg, err := LoadScoringConfig(fs, path, schema.FormulaV15)
	require.NoError(t, err)
	require.Len(t, cfg.SubScores, 2)
	assert.Equal(t, 3, cfg.MetricCount())

	texture := cfg.SubScores[0]
	assert.Equal(t, "Texture", texture.Name)
	assert.Equal(t, 2.0, texture.SubScoreWeight)
	require.Len(t, texture.Groups, 1)
	assert.Equal(t, 1.0, texture.Groups[0].GroupWeight)

	mtf := texture.Groups[0].Metrics[0]
	assert.Equal(t, schema.XMLEntry{"Sharpness/MTF50"}, mtf.XMLEntry)
	assert.Equal(t, schema.FloatValue, mtf.ValueType)
	assert.Equal(t, schema.LogarithmicFormula, mtf.Formula.Tag)
	assert.Equal(t, 0.1, mtf.LGC)
	assert.Equal(t, 0.5, mtf.HGC)

	acutance := texture.Groups[0].Metrics[1]
	require.True(t, acutance.Formula.IsInterpolated())
	assert.Equal(t, []float64{0, 50, 100}, acutance.Formula.Points.XP)
	assert.Equal(t, []float64{0, 0.8, 1}, acutance.Formula.Points.YP)

	noise := cfg.SubScores[1]
	require.Len(t, noise.Groups, 1)
	assert.Equal(t, 0.5, noise.Groups[0].GroupWeight)
	vn := noise.Groups[0].Metrics[0]
	require.True(t, vn.Formula.IsInterpolated())
	assert.Equal(t, []float64{1, 0}, vn.Formula.Points.YP)

	assert.Equal(t, 1.0, cfg.Performance.Weight)
	assert.Equal(t, []string{"scene1", "scene2"}, cfg.Performance.Folders["scenes"])
	require.Len(t, cfg.Performance.Metrics, 2)
	assert.Equal(t, []int{0}, cfg.Performance.Metrics[1].Column)
	assert.Equal(t, schema.FPSPerf, cfg.Performance.Metrics[1].ValueType)
}

func TestLoadScoringConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		version schema.FormulaVersion
		target  error
	}{
		{
			name:    "no sub-scores",
			content: `{"IQ_SubScores": []}`,
			version: schema.FormulaV15,
			target:  schema.ErrInvalidConfig,
		},
		{
			name:    "not json",
			content: `{"IQ_SubScores": [`,
			version: schema.FormulaV15,
			target:  schema.ErrInvalidConfig,
		},
		{
			name: "unknown value type",
			content: `{"IQ_SubScores": [{"name": "Texture", "subScoreWeight": 1, "Metrics": [
				{"name": "m", "xml_entry": "a", "valueType": "median", "formula": "linear", "LGC": 0, "HGC": 1, "weight": 1}]}]}`,
			version: schema.FormulaV15,
			target:  schema.ErrUnsupportedValueType,
		},
		{
			name: "v2.0 formula under v1.5",
			content: `{"IQ_SubScores": [{"name": "Texture", "subScoreWeight": 1, "Metrics": [
				{"name": "m", "xml_entry": "a", "valueType": "float", "formula": "roof_II", "LGC": 0, "HGC": 1, "weight": 1}]}]}`,
			version: schema.FormulaV15,
			target:  schema.ErrUnsupportedFormula,
		},
		{
			name: "decreasing control points",
			content: `{"IQ_SubScores": [{"name": "Texture", "subScoreWeight": 1, "Metrics": [
				{"name": "m", "xml_entry": "a", "valueType": "float", "formula": {"xp": [2, 1], "yp": [0, 1]}, "weight": 1}]}]}`,
			version: schema.FormulaV15,
			target:  schema.ErrInvalidControlPoints,
		},
		{
			name: "unknown performance folder key",
			content: `{"IQ_SubScores": [{"name": "Texture", "subScoreWeight": 1, "Metrics": []}],
				"Performance": {"Folders": {}, "Metrics": [
				{"name": "p", "valueType": "compressionLoss", "folders": ["scenes"], "formula": "linear", "LGC": 0, "HGC": 1, "weight": 1}]}}`,
			version: schema.FormulaV15,
			target:  schema.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			path := writeScoringConfig(t, fs, tt.content)
			_, err := LoadScoringConfig(fs, path, tt.version)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.True(t, schema.IsFatal(err))
		})
	}

	_, err := LoadScoringConfig(afero.NewMemMapFs(), "/configs/missing.json", schema.FormulaV15)
	assert.ErrorIs(t, err, schema.ErrConfigNotFound)
}

func TestLoadScoringConfigRevised(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := writeScoringConfig(t, fs, `{"IQ_SubScores": [{"name": "Color", "subScoreWeight": 1, "Metrics": [
		{"name": "dE", "xml_entry": "Color/DeltaE", "valueType": "float", "formula": "roof_II", "LGC": 0, "HGC": 5, "weight": 1}]}]}`)

	cfg, err := LoadScoringConfig(fs, path, schema.FormulaV20)
	require.NoError(t, err)
	assert.Equal(t, schema.RoofIIFormula, cfg.SubScores[0].Groups[0].Metrics[0].Formula.Tag)
	assert.NoError(t, ValidateScoringConfig(cfg, algo.RevisedFormulas))
	assert.ErrorIs(t, ValidateScoringConfig(cfg, algo.LegacyFormulas), schema.ErrUnsupportedFormula)
}
