package extract

import (
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/vcxscore/schema"
)

// Extractor produces one measurement from a document.
type Extractor func(doc Document, entry schema.XMLEntry) (float64, error)

// strategy pairs an extractor with the number of paths it consumes.
type strategy struct {
	extract   Extractor
	minFields int
}

// Diagonal sectors of a Siemens star resolve up to 1.4 times the nyquist frequency.
const diagonalNyquistFactor = 1.4

// debugValue is returned by the debug value type.
const debugValue = 2.2

// skinPatches are the color checker patches holding skin tones.
var skinPatches = []int{4, 9, 62, 63, 64, 65, 66, 67, 68, 74, 75, 76, 77, 78, 79, 80, 92}

// strategies maps every supported value type to its extractor.
var strategies = map[schema.ValueType]strategy{
	schema.FloatValue:             {extractFloat, 1},
	schema.MaxValue:               {extractMax, 1},
	schema.MultiXMLEntryMeanValue: {extractMean, 1},
	schema.OvershootValue:         {extractOvershoot, 2},
	schema.ArtifactsValue:         {extractArtifacts, 2},
	schema.EPCValue:               {extractEPC, epcMinFields},
	schema.NormalizeNyquistValue:  {extractNormalizeNyquist, 2},
	schema.SkinMeanValue:          {extractSkinMean, 1},
	schema.DebugValue:             {extractDebug, 0},
}

// Extract produces the measurement for valueType from doc.
func Extract(doc Document, entry schema.XMLEntry, valueType schema.ValueType) (float64, error) {
	if err := Validate(valueType, entry); err != nil {
		return 0, err
	}
	return strategies[valueType].extract(doc, entry)
}

// Validate checks that valueType is known and entry has enough paths for it.
func Validate(valueType schema.ValueType, entry schema.XMLEntry) error {
	s, ok := strategies[valueType]
	if !ok {
		return fmt.Errorf("%w: %q", schema.ErrUnsupportedValueType, valueType)
	}
	if len(entry) < s.minFields {
		return fmt.Errorf("%w: value type %s needs %d xml entries, got %d", schema.ErrInvalidConfig, valueType, s.minFields, len(entry))
	}
	return nil
}

// ValueTypes returns every supported value type in sorted order.
func ValueTypes() []schema.ValueType {
	out := make([]schema.ValueType, 0, len(strategies))
	for vt := range strategies {
		out = append(out, vt)
	}
	slices.Sort(out)
	return out
}

func extractFloat(doc Document, entry schema.XMLEntry) (float64, error) {
	return ReadFloat(doc, entry[0])
}

func extractMax(doc Document, entry schema.XMLEntry) (float64, error) {
	values, err := ReadFloatList(doc, entry[0])
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, &schema.FieldError{Path: entry[0], Err: fmt.Errorf("%w: empty list", schema.ErrParse)}
	}
	return slices.Max(values), nil
}

func extractMean(doc Document, entry schema.XMLEntry) (float64, error) {
	values, err := ReadFloats(doc, entry)
	if err != nil {
		return 0, err
	}
	return mean(values), nil
}

// extractOvershoot expresses the mean of all fields but the last as a
// percentage of the last one.
func extractOvershoot(doc Document, entry schema.XMLEntry) (float64, error) {
	values, err := ReadFloats(doc, entry)
	if err != nil {
		return 0, err
	}
	last := values[len(values)-1]
	if last == 0 {
		return 0, fmt.Errorf("%w: overshoot reference %s is 0", schema.ErrDegenerateGuard, entry[len(entry)-1])
	}
	return 100 * mean(values[:len(values)-1]) / last, nil
}

// extractArtifacts compares cross and direct detail loss. The formula is kept
// exactly as the analyzer reports were calibrated against.
func extractArtifacts(doc Document, entry schema.XMLEntry) (float64, error) {
	values, err := ReadFloats(doc, entry[:2])
	if err != nil {
		return 0, err
	}
	cross := values[0] / 100
	direct := values[1] / 100
	if direct == 0 {
		return 0, fmt.Errorf("%w: direct detail loss %s is 0", schema.ErrDegenerateGuard, entry[1])
	}
	result := 100 - (cross/100)/(direct/100/100)
	return math.Max(result, 0), nil
}

// EPC layout: 8 center sectors, 4 corner triples, then nyquist and pixel count.
const (
	epcCenterSectors = 8
	epcCornerGroups  = 4
	epcCornerSectors = 3
	epcMinFields     = 21
)

// extractEPC computes the effective pixel count from Siemens star MTF10 readings.
func extractEPC(doc Document, entry schema.XMLEntry) (float64, error) {
	nyquist, err := ReadFloat(doc, entry[len(entry)-2])
	if err != nil {
		return 0, err
	}
	pixelCount, err := ReadFloat(doc, entry[len(entry)-1])
	if err != nil {
		return 0, err
	}
	if nyquist == 0 {
		return 0, fmt.Errorf("%w: nyquist %s is 0", schema.ErrDegenerateGuard, entry[len(entry)-2])
	}

	center := make([]float64, 0, epcCenterSectors)
	for i := range epcCenterSectors {
		v, err := ReadFloat(doc, entry[i])
		if err != nil {
			return 0, err
		}
		center = append(center, normalizeSector(v, nyquist, i))
	}

	corner := make([]float64, 0, epcCornerGroups*epcCornerSectors)
	for g := range epcCornerGroups {
		offset := epcCenterSectors + g*epcCornerSectors
		for i := range epcCornerSectors {
			v, err := ReadFloat(doc, entry[offset+i])
			if err != nil {
				return 0, err
			}
			corner = append(corner, normalizeSector(v, nyquist, i))
		}
	}

	ratio := (mean(center) + mean(corner)) / (2 * nyquist)
	return ratio * ratio * pixelCount, nil
}

// normalizeSector clamps orthogonal (even) sectors to nyquist and diagonal
// (odd) sectors to 1.4 * nyquist.
func normalizeSector(v, nyquist float64, position int) float64 {
	if position%2 == 0 {
		return NormalizeToNyquist(v, nyquist)
	}
	return NormalizeToNyquist(v, nyquist*diagonalNyquistFactor)
}

// NormalizeToNyquist caps v at limit. Negative readings are failed
// measurements and are replaced by the limit, not by 0.
func NormalizeToNyquist(v, limit float64) float64 {
	if v > limit || v < 0 {
		return limit
	}
	return v
}

func extractNormalizeNyquist(doc Document, entry schema.XMLEntry) (float64, error) {
	values, err := ReadFloats(doc, entry[:2])
	if err != nil {
		return 0, err
	}
	return NormalizeToNyquist(values[0], values[1]), nil
}

func extractSkinMean(doc Document, entry schema.XMLEntry) (float64, error) {
	tokens, err := ReadTokens(doc, entry[0])
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, idx := range skinPatches {
		if idx >= len(tokens) {
			return 0, &schema.FieldError{Path: entry[0], Err: fmt.Errorf("%w: patch %d of %d", schema.ErrMissingField, idx, len(tokens))}
		}
		v, err := parseFloat(entry[0], tokens[idx])
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(skinPatches)), nil
}

func extractDebug(Document, schema.XMLEntry) (float64, error) {
	return debugValue, nil
}

// mean returns the arithmetic mean of values, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
