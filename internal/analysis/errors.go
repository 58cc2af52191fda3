package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoNumericFields reports that correlation or outlier analysis has no
// numeric column to work on. It is not fatal to the pipeline.
var ErrNoNumericFields = errors.New("no numeric fields")

// ErrFieldMismatch reports that a Normalizer and the pipeline options name
// different date or calendar columns.
var ErrFieldMismatch = errors.New("calendar field names disagree")

// SchemaError lists required columns missing from the input table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// WarningCode classifies non-fatal conditions.
type WarningCode string

const (
	// WarnParse marks date values that could not be parsed.
	WarnParse WarningCode = "parse"
	// WarnEmptyNumeric marks that correlation/outliers were not computable.
	WarnEmptyNumeric WarningCode = "empty_numeric"
)

// Warning is a data-level signal carried in the result instead of an error.
type Warning struct {
	Code    WarningCode `json:"code" yaml:"code"`
	Message string      `json:"message" yaml:"message"`
	// Rows are original 0-based row positions, when the warning is row-scoped.
	Rows []int `json:"rows,omitempty" yaml:"rows,omitempty"`
}

func (w Warning) String() string {
	if len(w.Rows) == 0 {
		return w.Message
	}
	return fmt.Sprintf("%s (%d rows)", w.Message, len(w.Rows))
}
