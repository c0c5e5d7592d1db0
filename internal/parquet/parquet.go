// Package parquet provides data structures and functions for exporting VCX
// score reports to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/vcxscore/schema"
	"github.com/parquet-go/parquet-go"
)

// Result levels of a MetricRow.
const (
	MetricLevel      = "metric"
	FileLevel        = "file"
	SubScoreLevel    = "subscore"
	PerformanceLevel = "performance"
	FinalLevel       = "final"
)

// MetricRow is one flattened row of a report. Every metric of every file is
// one row, followed by the file, sub-score, performance and final rows.
type MetricRow struct {
	// FormulaVersion is the formula family the run used
	FormulaVersion string `parquet:"formula_version,snappy,dict"`

	// Level is one of metric, file, subscore, performance or final
	Level string `parquet:"level,snappy,dict"`

	// SubScore is the sub-score name (empty for performance and final rows)
	SubScore string `parquet:"sub_score,snappy,dict"`

	// FilePath is the analyzer XML file (nullable)
	FilePath *string `parquet:"file_path,optional,snappy"`

	// Metric is the metric name (nullable)
	Metric *string `parquet:"metric,optional,snappy"`

	// Formula is the formula tag or "interpolated" (nullable)
	Formula *string `parquet:"formula,optional,snappy,dict"`

	// Value is the extracted measurement (nullable)
	Value *float64 `parquet:"value,optional,snappy"`

	// Score is the weighted score of metrics, or the 0-100 score of aggregates
	Score float64 `parquet:"score,snappy"`

	// Weight is the effective weight
	Weight float64 `parquet:"weight,snappy"`

	// Error is the recorded diagnostic (nullable)
	Error *string `parquet:"error,optional,snappy"`
}

func optional[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// RowsFromReport flattens r into MetricRows.
func RowsFromReport(r *schema.Report) []MetricRow {
	version := string(r.FormulaVersion)
	var rows []MetricRow
	for _, s := range r.SubScores {
		for _, f := range s.Files {
			for _, m := range f.Metrics {
				value := m.Value
				rows = append(rows, MetricRow{
					FormulaVersion: version,
					Level:          MetricLevel,
					SubScore:       s.Name,
					FilePath:       optional(f.Path),
					Metric:         optional(m.Name),
					Formula:        optional(string(m.Formula)),
					Value:          &value,
					Score:          m.Score,
					Weight:         m.Weight,
					Error:          optional(m.Error),
				})
			}
			rows = append(rows, MetricRow{
				FormulaVersion: version,
				Level:          FileLevel,
				SubScore:       s.Name,
				FilePath:       optional(f.Path),
				Score:          f.Score,
				Error:          optional(f.Error),
			})
		}
		rows = append(rows, MetricRow{
			FormulaVersion: version,
			Level:          SubScoreLevel,
			SubScore:       s.Name,
			FilePath:       optional(s.BestFile),
			Score:          s.Score,
			Weight:         s.Weight,
			Error:          optional(s.Reason),
		})
	}
	for _, p := range r.Performance {
		value := p.Value
		rows = append(rows, MetricRow{
			FormulaVersion: version,
			Level:          PerformanceLevel,
			Metric:         optional(p.Name),
			Formula:        optional(string(p.ValueType)),
			Value:          &value,
			Score:          p.Score,
			Weight:         p.Weight,
			Error:          optional(p.Error),
		})
	}
	final := MetricRow{FormulaVersion: version, Level: FinalLevel, Score: r.FinalScore}
	if !r.FinalScoreValid {
		final.Error = optional("final score unavailable")
	}
	return append(rows, final)
}

// WriteMetricRows writes rows to w as one Parquet file.
func WriteMetricRows(w io.Writer, rows []MetricRow) error {
	// The schema is automatically derived from the MetricRow struct tags
	writer := parquet.NewGenericWriter[MetricRow](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteMetricRowsParquet writes rows to a Parquet file at outputPath.
func WriteMetricRowsParquet(rows []MetricRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return WriteMetricRows(file, rows)
}
