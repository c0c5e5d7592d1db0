package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/vcxscore/internal/contract"
	"github.com/huangsam/vcxscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *schema.Report {
	return &schema.Report{
		FormulaVersion: schema.FormulaV15,
		Root:           "/captures",
		SubScores: []schema.SubScoreResult{
			{
				Name:     "Texture",
				Weight:   2,
				Score:    88,
				BestFile: "/captures/Texture/b.xml",
				Files: []schema.FileScore{
					{Path: "/captures/Texture/a.xml", Score: 72, Metrics: []schema.MetricResult{
						{Name: "MTF50", Formula: schema.LogarithmicFormula, Value: 0.3, Score: 0.72, Weight: 1},
					}},
					{Path: "/captures/Texture/b.xml", Score: 88, Metrics: []schema.MetricResult{
						{Name: "MTF50", Formula: schema.LogarithmicFormula, Value: 0.4, Score: 0.88, Weight: 1},
						{Name: "Acutance", Formula: schema.InterpolatedFormulaLabel, Error: "XML entry not found", Dropped: true},
					}},
				},
			},
			{Name: "Noise", Weight: 1, Skipped: true, Reason: "cannot find IQ analyzer folder"},
		},
		Performance: []schema.PerformanceResult{
			{Name: "fps", ValueType: schema.FPSPerf, Value: 29.9, Score: 0.9, Weight: 1},
			{Name: "shutter", ValueType: schema.MeanPerf, Weight: 1, Error: "no performance data"},
		},
		PerformanceScore: 90,
		PerformanceValid: true,
		FinalScore:       88.7,
		FinalScoreValid:  true,
	}
}

func sampleScoring() *schema.ScoringConfig {
	return &schema.ScoringConfig{
		SubScores: []schema.SubScoreSpec{
			{Name: "Texture", SubScoreWeight: 2, Groups: []schema.GroupSpec{
				{GroupWeight: 0.5, Metrics: []schema.MetricSpec{
					{Name: "MTF50", XMLEntry: schema.XMLEntry{"mtf/mtf50"}, ValueType: schema.FloatValue,
						Formula: schema.FormulaSpec{Tag: schema.LogarithmicFormula}, LGC: 0.1, HGC: 0.5, Weight: 2},
					{Name: "Acutance", XMLEntry: schema.XMLEntry{"acutance"}, ValueType: schema.FloatValue,
						Formula: schema.FormulaSpec{Points: &schema.ControlPoints{XP: []float64{0, 1}, YP: []float64{0, 1}}}, Weight: 1},
				}},
			}},
		},
		Performance: schema.PerformanceSpec{
			Weight: 1,
			Metrics: []schema.PerformanceMetricSpec{
				{Name: "fps", FileTag: "preview", Column: []int{0}, ValueType: schema.FPSPerf,
					Formula: schema.FormulaSpec{Tag: schema.LinearFormula}, LGC: 15, HGC: 30, Weight: 1},
			},
		},
	}
}

func TestWriteReportTable(t *testing.T) {
	report := sampleReport()
	cfg := &contract.Config{Output: schema.TextOut, Precision: 1, Width: 200, Workers: 4}
	fmtFloat, fmtOptional := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeReportTable(&buf, report, cfg, fmtFloat, fmtOptional, time.Second))
	output := buf.String()

	assert.Contains(t, output, "VCX v1.5 report for /captures")
	assert.Contains(t, output, "Texture")
	assert.Contains(t, output, "Excellent")
	assert.Contains(t, output, "skipped")
	assert.Contains(t, output, "cannot find IQ analyzer folder")
	assert.Contains(t, output, "VCX score: 88.7 (Excellent)")
	assert.Contains(t, output, "Scored 1 of 2 sub-scores in 1s with 4 workers")
	assert.Contains(t, output, "Performance score: 90.0")
	assert.NotContains(t, output, "MTF50", "metric rows are only shown in detail mode")

	t.Run("detail", func(t *testing.T) {
		buf.Reset()
		detailCfg := cfg.Clone()
		detailCfg.Detail = true
		require.NoError(t, writeReportTable(&buf, report, detailCfg, fmtFloat, fmtOptional, time.Second))
		assert.Contains(t, buf.String(), "MTF50")
		assert.Contains(t, buf.String(), "dropped: XML entry not found")
	})

	t.Run("unavailable", func(t *testing.T) {
		buf.Reset()
		empty := &schema.Report{FormulaVersion: schema.FormulaV20, Root: "/x"}
		require.NoError(t, writeReportTable(&buf, empty, cfg, fmtFloat, fmtOptional, time.Second))
		assert.Contains(t, buf.String(), "VCX score: unavailable")
	})
}

func TestWriteReportCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	tests := []struct {
		name     string
		detail   bool
		expected int // records without header
	}{
		{name: "summary", detail: false, expected: 5},
		{name: "detail", detail: true, expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeReportCSV(&buf, sampleReport(), tt.detail, fmtFloat))

			records, err := csv.NewReader(&buf).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, tt.expected+1)
			assert.Equal(t, "level", records[0][0])

			last := records[len(records)-1]
			assert.Equal(t, "final", last[0])
			assert.Equal(t, "88.70", last[6])
			assert.Equal(t, "Excellent", last[8])
		})
	}
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReportJSON(&buf, sampleReport(), false))

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))

	assert.Equal(t, "Excellent", result["final_label"])
	assert.InDelta(t, 88.7, result["final_score"], 1e-9)
	subScores, ok := result["sub_scores"].([]any)
	require.True(t, ok)
	require.Len(t, subScores, 2)

	texture := subScores[0].(map[string]any)
	assert.Equal(t, "Excellent", texture["label"])
	assert.NotContains(t, texture, "files")

	noise := subScores[1].(map[string]any)
	assert.Equal(t, "", noise["label"])
	assert.Equal(t, true, noise["skipped"])
}

func TestWriteReportResults_Files(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name   string
		output schema.OutputMode
		check  func(t *testing.T, data []byte)
	}{
		{
			name:   "json",
			output: schema.JSONOut,
			check: func(t *testing.T, data []byte) {
				assert.True(t, json.Valid(data))
			},
		},
		{
			name:   "csv",
			output: schema.CSVOut,
			check: func(t *testing.T, data []byte) {
				assert.True(t, strings.HasPrefix(string(data), "level,sub_score"))
			},
		},
		{
			name:   "parquet",
			output: schema.ParquetOut,
			check: func(t *testing.T, data []byte) {
				require.GreaterOrEqual(t, len(data), 4)
				assert.Equal(t, "PAR1", string(data[:4]))
			},
		},
		{
			name:   "text",
			output: schema.TextOut,
			check: func(t *testing.T, data []byte) {
				assert.Contains(t, string(data), "VCX score")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, "report."+string(tt.output))
			cfg := &contract.Config{Output: tt.output, OutputFile: path, Precision: 1, Width: 120, Workers: 1}
			require.NoError(t, NewOutWriter().WriteReport(sampleReport(), cfg, time.Millisecond))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			tt.check(t, data)
		})
	}
}

func TestWriteMetricsText(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	model := schema.BuildMetricsRenderModel(sampleScoring(), schema.FormulaV15)

	var buf bytes.Buffer
	require.NoError(t, writeMetricsText(&buf, model, fmtFloat))
	output := buf.String()

	assert.Contains(t, output, "VCX v1.5 metric definitions")
	assert.Contains(t, output, "logarithmic LGC=0.1 HGC=0.5")
	assert.Contains(t, output, "interpolated (0.0,0.0) (1.0,1.0)")
	assert.Contains(t, output, "Performance (weight 1.0)")
	assert.Contains(t, output, "2 metrics, 1 performance metrics")
}

func TestWriteMetricsCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	model := schema.BuildMetricsRenderModel(sampleScoring(), schema.FormulaV15)

	var buf bytes.Buffer
	require.NoError(t, writeMetricsCSV(&buf, model, fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	mtf := records[1]
	assert.Equal(t, "Texture", mtf[0])
	assert.Equal(t, "MTF50", mtf[1])
	assert.Equal(t, "logarithmic", mtf[4])
	assert.Equal(t, "2.00", mtf[7])
	assert.Equal(t, "1.00", mtf[8], "effective weight multiplies the group weight")

	acutance := records[2]
	assert.Equal(t, "interpolated", acutance[4])
	assert.Equal(t, "2", acutance[9])

	assert.Equal(t, "Performance", records[3][0])
}

func TestWriteMetricsDefinitions_Parquet(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: filepath.Join(t.TempDir(), "m.parquet"), Precision: 1}
	assert.Error(t, NewOutWriter().WriteMetrics(sampleScoring(), cfg))
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *contract.Config
		expected int
	}{
		{name: "narrow override", cfg: &contract.Config{Width: 40}, expected: 15},
		{name: "medium override", cfg: &contract.Config{Width: 100}, expected: 55},
		{name: "detail override", cfg: &contract.Config{Width: 100, Detail: true}, expected: 25},
		{name: "wide override", cfg: &contract.Config{Width: 300}, expected: 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetMaxTablePathWidth(tt.cfg))
		})
	}
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, fmtOptional := createFormatters(3)
	assert.Equal(t, "1.235", fmtFloat(1.23456))
	assert.Equal(t, "-", fmtOptional(1, false))
	assert.Equal(t, "2.000", fmtOptional(2, true))
}
