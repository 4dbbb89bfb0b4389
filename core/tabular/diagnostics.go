package tabular

import (
	"errors"
	"fmt"
)

// Stage names the normalization step that failed on a column.
type Stage string

// All normalization stages.
const (
	StageCoerce Stage = "coerce"
	StageExpand Stage = "expand"
)

// CoercionFailure reports a column that was left unmodified because it could
// not be coerced to numbers or expanded into fixed columns.
type CoercionFailure struct {
	Column string
	Stage  Stage
	Err    error
}

func (f *CoercionFailure) Error() string {
	return fmt.Sprintf("column %q left unchanged (%s): %v", f.Column, f.Stage, f.Err)
}

func (f *CoercionFailure) Unwrap() error { return f.Err }

// Diagnostics collects the recoverable failures of one normalization pass.
type Diagnostics []*CoercionFailure

// Columns returns the names of the affected columns in report order.
func (d Diagnostics) Columns() []string {
	names := make([]string, len(d))
	for i, f := range d {
		names[i] = f.Column
	}
	return names
}

// Err joins the failures into one error, or returns nil when there are none.
func (d Diagnostics) Err() error {
	if len(d) == 0 {
		return nil
	}
	errs := make([]error, len(d))
	for i, f := range d {
		errs[i] = f
	}
	return errors.Join(errs...)
}
