package perf

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/vcxscore/schema"
)

// csvFiles returns the CSV logs of spec, matched by fileTag in the base name.
func (e *Evaluator) csvFiles(spec schema.PerformanceMetricSpec) ([]string, error) {
	files, err := e.glob(e.dirs(spec.Folders...), []string{"*.csv"}, func(base string) bool {
		return strings.Contains(base, spec.FileTag)
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no CSV file tagged %q", schema.ErrNoPerformanceData, spec.FileTag)
	}
	return files, nil
}

// readColumns returns the numeric cells of the given columns across all
// rows of the file. Rows with a missing or non-numeric cell are skipped.
func (e *Evaluator) readColumns(path string, columns []int) ([][]float64, error) {
	f, err := e.FS.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	out := make([][]float64, len(columns))
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV %s: %w", path, err)
		}
		row, ok := numericCells(record, columns)
		if !ok {
			continue
		}
		for i, v := range row {
			out[i] = append(out[i], v)
		}
	}
	return out, nil
}

func numericCells(record []string, columns []int) ([]float64, bool) {
	row := make([]float64, len(columns))
	for i, c := range columns {
		if c < 0 || c >= len(record) {
			return nil, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[c]), 64)
		if err != nil {
			return nil, false
		}
		row[i] = v
	}
	return row, true
}

// perFile applies fn to the requested columns of every CSV log of spec and
// returns the mean of the per-file results.
func (e *Evaluator) perFile(spec schema.PerformanceMetricSpec, columns []int, fn func(cols [][]float64) (float64, error)) (float64, error) {
	files, err := e.csvFiles(spec)
	if err != nil {
		return 0, err
	}
	values := make([]float64, 0, len(files))
	for _, path := range files {
		cols, err := e.readColumns(path, columns)
		if err != nil {
			return 0, err
		}
		if len(cols[0]) == 0 {
			return 0, fmt.Errorf("%w: %s has no numeric rows in column %d", schema.ErrNoPerformanceData, path, columns[0])
		}
		v, err := fn(cols)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		values = append(values, v)
	}
	return mean(values), nil
}

// measureFPS derives frames per second from millisecond frame timestamps.
func (e *Evaluator) measureFPS(spec schema.PerformanceMetricSpec) (float64, error) {
	return e.perFile(spec, spec.Column[:1], func(cols [][]float64) (float64, error) {
		stamps := cols[0]
		span := slices.Max(stamps) - slices.Min(stamps)
		if span <= 0 {
			return 0, fmt.Errorf("%w: %d timestamps span no time", schema.ErrDegenerateGuard, len(stamps))
		}
		return float64(len(stamps)-1) * 1000 / span, nil
	})
}

func (e *Evaluator) measureMean(spec schema.PerformanceMetricSpec) (float64, error) {
	return e.perFile(spec, spec.Column[:1], func(cols [][]float64) (float64, error) {
		return mean(cols[0]), nil
	})
}

func (e *Evaluator) measureMeanScaled(spec schema.PerformanceMetricSpec) (float64, error) {
	scale := spec.Scale
	if scale == 0 {
		scale = 1
	}
	v, err := e.measureMean(spec)
	if err != nil {
		return 0, err
	}
	return v * scale, nil
}

// measureDelta is mean(column[1]) - mean(column[0]) over rows valid in both.
func (e *Evaluator) measureDelta(spec schema.PerformanceMetricSpec) (float64, error) {
	return e.perFile(spec, spec.Column[:2], func(cols [][]float64) (float64, error) {
		return mean(cols[1]) - mean(cols[0]), nil
	})
}
