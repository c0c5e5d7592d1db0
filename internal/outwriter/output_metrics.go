package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/vcxscore/internal/contract"
	"github.com/huangsam/vcxscore/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteMetricsDefinitions displays every configured metric and its scoring rule.
// This is a static display that does not read any analyzer output.
func WriteMetricsDefinitions(scoring *schema.ScoringConfig, cfg *contract.Config) error {
	model := schema.BuildMetricsRenderModel(scoring, cfg.FormulaVersion)
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsCSV(w, model, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("metrics listing does not support %s output", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsText(w, model, fmtFloat)
		}, "Wrote table")
	}
}

func definitionRows(defs []schema.MetricDefinition, fmtFloat func(float64) string) [][]string {
	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, []string{
			d.SubScore,
			d.Metric,
			d.ValueType,
			strings.Join(d.XMLEntry, " | "),
			describeFormula(d, fmtFloat),
			fmtFloat(d.Weight),
			fmtFloat(d.EffectiveWeight),
		})
	}
	return rows
}

// describeFormula renders the scoring rule of a metric on one line.
func describeFormula(d schema.MetricDefinition, fmtFloat func(float64) string) string {
	if d.Points != nil {
		pairs := make([]string, 0, len(d.Points.XP))
		for i := range d.Points.XP {
			if i < len(d.Points.YP) {
				pairs = append(pairs, fmt.Sprintf("(%s,%s)", fmtFloat(d.Points.XP[i]), fmtFloat(d.Points.YP[i])))
			}
		}
		return "interpolated " + strings.Join(pairs, " ")
	}
	return fmt.Sprintf("%s LGC=%s HGC=%s", d.Formula, fmtFloat(d.LGC), fmtFloat(d.HGC))
}

func writeMetricsText(w io.Writer, model *schema.MetricsRenderModel, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "📐 VCX %s metric definitions\n", model.FormulaVersion); err != nil {
		return err
	}
	header := []string{"Sub-score", "Metric", "Value type", "XML entry", "Formula", "Weight", "Effective"}

	table := tablewriter.NewWriter(w)
	table.Header(header)
	if err := table.Bulk(definitionRows(model.Metrics, fmtFloat)); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(model.Performance) > 0 {
		if _, err := fmt.Fprintf(w, "⚡ Performance (weight %s)\n", fmtFloat(model.PerformanceWeight)); err != nil {
			return err
		}
		perf := tablewriter.NewWriter(w)
		perf.Header(header)
		if err := perf.Bulk(definitionRows(model.Performance, fmtFloat)); err != nil {
			return err
		}
		if err := perf.Render(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d metrics, %d performance metrics\n", len(model.Metrics), len(model.Performance))
	return err
}

func writeMetricsCSV(w io.Writer, model *schema.MetricsRenderModel, fmtFloat func(float64) string) error {
	header := []string{"sub_score", "metric", "value_type", "xml_entry", "formula", "lgc", "hgc", "weight", "effective_weight", "points"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		all := append(append([]schema.MetricDefinition{}, model.Metrics...), model.Performance...)
		for _, d := range all {
			points := ""
			if d.Points != nil {
				points = strconv.Itoa(len(d.Points.XP))
			}
			rec := []string{
				d.SubScore,
				d.Metric,
				d.ValueType,
				strings.Join(d.XMLEntry, ";"),
				string(d.Formula),
				fmtFloat(d.LGC),
				fmtFloat(d.HGC),
				fmtFloat(d.Weight),
				fmtFloat(d.EffectiveWeight),
				points,
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
