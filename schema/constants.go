package schema

// Custom string types for type safety.
type (
	// ValueType selects how a metric value is extracted from an analyzer XML document.
	ValueType string

	// Formula selects the scoring curve applied to an extracted value.
	Formula string

	// FormulaVersion selects one of the historical formula families.
	FormulaVersion string

	// PerfValueType selects how a performance measurement is computed.
	PerfValueType string

	// OutputMode represents the format of the output.
	OutputMode string
)

// All value types supported by the extractor.
const (
	FloatValue             ValueType = "float"
	MaxValue               ValueType = "max"
	MultiXMLEntryMeanValue ValueType = "multiXMLEntryMean"
	OvershootValue         ValueType = "overshoot"
	ArtifactsValue         ValueType = "artifacts"
	EPCValue               ValueType = "EPC"
	NormalizeNyquistValue  ValueType = "normalizeNyquist"
	SkinMeanValue          ValueType = "skinMean"
	DebugValue             ValueType = "debug"
)

// All scoring formulas across both formula families.
const (
	LogarithmicFormula       Formula = "logarithmic"
	FlatRoofFormula          Formula = "flat_roof"
	LinearFormula            Formula = "linear"
	RoofHLFormula            Formula = "roof_hl"
	LogNegLinearFormula      Formula = "logarithmic_neg.linear"
	RoofNegativeLLFormula    Formula = "roof_negative_ll"
	LogarithmicRoofFormula   Formula = "logarithmic_roof" // v2.0 only
	RoofIIFormula            Formula = "roof_II"          // v2.0 only
	InterpolatedFormulaLabel Formula = "interpolated"     // display only, never dispatched
)

// All formula versions supported.
const (
	FormulaV15 FormulaVersion = "v1.5" // default
	FormulaV20 FormulaVersion = "v2.0"
)

// All performance value types supported.
const (
	CompressionLossPerf      PerfValueType = "compressionLoss"
	AFFailurePerf            PerfValueType = "afFailure"
	DeltaPerf                PerfValueType = "delta"
	MultipleXMLMeanPerf      PerfValueType = "MultipleXMLMean"
	MultipleXMLMeanDeltaPerf PerfValueType = "MultipleXMLMeanDelta"
	MultipleXMLMeanPctPerf   PerfValueType = "MultipleXMLMeanDeltaPercent"
	MultipleXMLMeanAbsPerf   PerfValueType = "MultipleXMLMeanDeltaAbsolute"
	FPSPerf                  PerfValueType = "fps"
	MeanScaledPerf           PerfValueType = "meanScaled"
	MeanPerf                 PerfValueType = "mean"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// DefaultConfigFile is the scoring configuration looked up when none is given.
const DefaultConfigFile = "vcx1.5_config.json"

// ValidFormulaVersions lists all valid formula versions.
var ValidFormulaVersions = map[FormulaVersion]struct{}{
	FormulaV15: {},
	FormulaV20: {},
}

// ValidPerfValueTypes lists all valid performance value types.
var ValidPerfValueTypes = map[PerfValueType]struct{}{
	CompressionLossPerf:      {},
	AFFailurePerf:            {},
	DeltaPerf:                {},
	MultipleXMLMeanPerf:      {},
	MultipleXMLMeanDeltaPerf: {},
	MultipleXMLMeanPctPerf:   {},
	MultipleXMLMeanAbsPerf:   {},
	FPSPerf:                  {},
	MeanScaledPerf:           {},
	MeanPerf:                 {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// AnalyzerInternalKeywords mark files written by the analyzer itself; they are
// never treated as captured images.
var AnalyzerInternalKeywords = []string{"check", "calc", "test", "analysis"}
