package perf

import (
	"fmt"

	"github.com/huangsam/vcxscore/core/extract"
	"github.com/huangsam/vcxscore/schema"
)

// xmlFiles returns the analyzer XML files below the given folder keys.
func (e *Evaluator) xmlFiles(keys ...string) ([]string, error) {
	files, err := e.glob(e.dirs(keys...), []string{"*.xml"}, nil)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: folder keys %v", schema.ErrNoXMLFiles, keys)
	}
	return files, nil
}

// fieldMean returns the mean over every value of entry. Each field may hold
// a ";"-delimited list.
func fieldMean(doc extract.Document, entry schema.XMLEntry) (float64, error) {
	var all []float64
	for _, path := range entry {
		values, err := extract.ReadFloatList(doc, path)
		if err != nil {
			return 0, err
		}
		all = append(all, values...)
	}
	if len(all) == 0 {
		return 0, fmt.Errorf("%w: %v holds no values", schema.ErrParse, entry)
	}
	return mean(all), nil
}

// meanOverFiles returns the mean of the per-file field mean.
func (e *Evaluator) meanOverFiles(entry schema.XMLEntry, keys ...string) (float64, error) {
	files, err := e.xmlFiles(keys...)
	if err != nil {
		return 0, err
	}
	values := make([]float64, 0, len(files))
	for _, path := range files {
		doc, err := extract.ParseFile(e.FS, path)
		if err != nil {
			return 0, err
		}
		v, err := fieldMean(doc, entry)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		values = append(values, v)
	}
	return mean(values), nil
}

// measureAFFailure returns the fraction of captures whose mean edge MTF50
// stays below half the nyquist frequency. The last entry is the nyquist field.
func (e *Evaluator) measureAFFailure(spec schema.PerformanceMetricSpec) (float64, error) {
	files, err := e.xmlFiles(spec.Folders...)
	if err != nil {
		return 0, err
	}
	edges, nyquistPath := spec.XMLEntry[:len(spec.XMLEntry)-1], spec.XMLEntry[len(spec.XMLEntry)-1]

	failures := 0
	for _, path := range files {
		doc, err := extract.ParseFile(e.FS, path)
		if err != nil {
			return 0, err
		}
		mtf, err := fieldMean(doc, edges)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		nyquist, err := extract.ReadFloat(doc, nyquistPath)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		if mtf < 0.5*nyquist {
			failures++
		}
	}
	return float64(failures) / float64(len(files)), nil
}

func (e *Evaluator) measureXMLMean(spec schema.PerformanceMetricSpec) (float64, error) {
	return e.meanOverFiles(spec.XMLEntry, spec.Folders...)
}

// measureXMLDelta compares the compare folder (second key) against the base
// folder (first key).
func (e *Evaluator) measureXMLDelta(spec schema.PerformanceMetricSpec) (float64, error) {
	a, err := e.meanOverFiles(spec.XMLEntry, spec.Folders[0])
	if err != nil {
		return 0, err
	}
	b, err := e.meanOverFiles(spec.XMLEntry, spec.Folders[1])
	if err != nil {
		return 0, err
	}
	switch spec.ValueType {
	case schema.MultipleXMLMeanPctPerf:
		if a == 0 {
			return 0, fmt.Errorf("%w: base mean is 0", schema.ErrDegenerateGuard)
		}
		return 100 * (b - a) / a, nil
	case schema.MultipleXMLMeanAbsPerf:
		if b < a {
			return a - b, nil
		}
		return b - a, nil
	default:
		return b - a, nil
	}
}
