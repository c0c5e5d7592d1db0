package schema

import (
	"errors"
	"fmt"
)

// Error taxonomy of the scoring pipeline. Callers wrap these with %w and
// match them with errors.Is.
var (
	ErrConfigNotFound       = errors.New("config file does not exist")
	ErrInvalidConfig        = errors.New("invalid scoring config")
	ErrMissingField         = errors.New("XML entry not found")
	ErrParse                = errors.New("cannot parse value")
	ErrUnsupportedValueType = errors.New("unknown value type")
	ErrUnsupportedFormula   = errors.New("formula not supported")
	ErrInvalidControlPoints = errors.New("invalid control points")
	ErrDegenerateGuard      = errors.New("degenerate guard")
	ErrFolderNotFound       = errors.New("cannot find IQ analyzer folder")
	ErrNoXMLFiles           = errors.New("no XML files in folder")
	ErrNoPerformanceData    = errors.New("no performance data")
)

// FieldError reports an extraction failure for one analyzer field.
type FieldError struct {
	Path string
	Err  error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err means the configuration and the implementation
// disagree, in which case the whole run has to stop.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrUnsupportedValueType) ||
		errors.Is(err, ErrUnsupportedFormula) ||
		errors.Is(err, ErrInvalidControlPoints)
}

// IsFieldError reports whether err is a recoverable field lookup or parse failure.
func IsFieldError(err error) bool {
	return errors.Is(err, ErrMissingField) || errors.Is(err, ErrParse)
}
