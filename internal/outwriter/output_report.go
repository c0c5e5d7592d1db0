package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/vcxscore/internal/contract"
	"github.com/huangsam/vcxscore/internal/parquet"
	"github.com/huangsam/vcxscore/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteReportResults outputs a scoring report, dispatching based on the output format configured.
func WriteReportResults(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtOptional := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportJSON(w, report, cfg.Detail)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, report, cfg.Detail, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteMetricRows(w, parquet.RowsFromReport(report))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(w, report, cfg, fmtFloat, fmtOptional, duration)
		}, "Wrote table")
	}
	return nil
}

// writeReportTable generates and writes the human-readable tables.
func writeReportTable(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat func(float64) string, fmtOptional func(float64, bool) string, duration time.Duration) error {
	pathWidth := GetMaxTablePathWidth(cfg)
	if _, err := fmt.Fprintf(w, "📷 VCX %s report for %s\n", report.FormulaVersion, report.Root); err != nil {
		return err
	}

	// 1. Sub-scores
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Sub-score", "Weight", "Score", "Label", "Best file"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for i, s := range report.SubScores {
		row := []string{strconv.Itoa(i + 1), s.Name, fmtFloat(s.Weight)}
		if s.Skipped {
			row = append(row, "-", "skipped", contract.TruncatePath(s.Reason, pathWidth))
		} else {
			row = append(row, fmtFloat(s.Score), labelFor(s.Score, cfg.UseColors), contract.TruncatePath(s.BestFile, pathWidth))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// 2. Per-file metrics
	if cfg.Detail {
		if err := writeMetricTable(w, report, pathWidth, fmtFloat); err != nil {
			return err
		}
	}

	// 3. Performance
	if len(report.Performance) > 0 {
		if err := writePerformanceTable(w, report, fmtFloat, fmtOptional); err != nil {
			return err
		}
	}

	// 4. Summary
	if report.FinalScoreValid {
		if _, err := fmt.Fprintf(w, "VCX score: %s (%s)\n", fmtFloat(report.FinalScore), labelFor(report.FinalScore, cfg.UseColors)); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintln(w, "VCX score: unavailable (no sub-score could be evaluated)"); err != nil {
		return err
	}
	evaluated := len(report.EvaluatedSubScores())
	_, err := fmt.Fprintf(w, "Scored %d of %d sub-scores in %v with %d workers\n", evaluated, len(report.SubScores), duration, cfg.Workers)
	return err
}

func writeMetricTable(w io.Writer, report *schema.Report, pathWidth int, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Sub-score", "File", "Metric", "Formula", "Value", "Score", "Weight", "Note"})
	var data [][]string
	for _, s := range report.SubScores {
		for _, f := range s.Files {
			if f.Error != "" {
				data = append(data, []string{s.Name, contract.TruncatePath(f.Path, pathWidth), "-", "-", "-", "-", "-", f.Error})
				continue
			}
			for _, m := range f.Metrics {
				note := m.Error
				if m.Dropped {
					note = "dropped: " + note
				}
				data = append(data, []string{
					s.Name,
					contract.TruncatePath(f.Path, pathWidth),
					m.Name,
					string(m.Formula),
					fmtFloat(m.Value),
					fmtFloat(m.Score),
					fmtFloat(m.Weight),
					note,
				})
			}
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writePerformanceTable(w io.Writer, report *schema.Report, fmtFloat func(float64) string, fmtOptional func(float64, bool) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Performance", "Type", "Value", "Score", "Weight", "Note"})
	var data [][]string
	for _, p := range report.Performance {
		ok := p.Error == ""
		data = append(data, []string{
			p.Name,
			string(p.ValueType),
			fmtOptional(p.Value, ok),
			fmtOptional(p.Score, ok),
			fmtFloat(p.Weight),
			p.Error,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Performance score: %s\n", fmtOptional(report.PerformanceScore, report.PerformanceValid))
	return err
}

// writeReportCSV writes one row per result. Metric and file rows are only
// written in detail mode.
func writeReportCSV(w io.Writer, report *schema.Report, detail bool, fmtFloat func(float64) string) error {
	header := []string{"level", "sub_score", "file", "metric", "formula", "value", "score", "weight", "label", "error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range parquet.RowsFromReport(report) {
			if !detail && (row.Level == parquet.MetricLevel || row.Level == parquet.FileLevel) {
				continue
			}
			label := ""
			if row.Level != parquet.MetricLevel && row.Level != parquet.PerformanceLevel && row.Error == nil {
				label = schema.GetPlainLabel(row.Score)
			}
			value := ""
			if row.Value != nil {
				value = fmtFloat(*row.Value)
			}
			rec := []string{
				row.Level,
				row.SubScore,
				deref(row.FilePath),
				deref(row.Metric),
				deref(row.Formula),
				value,
				fmtFloat(row.Score),
				fmtFloat(row.Weight),
				label,
				deref(row.Error),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeReportJSON writes the labelled report. Files are only kept in detail mode.
func writeReportJSON(w io.Writer, report *schema.Report, detail bool) error {
	enriched := schema.EnrichReport(report)
	if !detail {
		for i := range enriched.SubScores {
			enriched.SubScores[i].Files = nil
		}
	}
	if !report.FinalScoreValid {
		enriched.FinalLabel = ""
	}
	return writeJSON(w, enriched)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
