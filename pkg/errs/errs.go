// Package errs defines the typed errors shared by the dataset build and
// report pipeline. Callers branch on these with errors.Is / errors.As.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySelection signals that a filter combination matched zero rows.
// It is an expected user outcome, not a fault; the HTTP layer renders it
// as 404 and the MCP layer as an EMPTY_SELECTION tool error.
var ErrEmptySelection = errors.New("selection contains no rows")

// SchemaDetectionError reports which required columns could not be resolved
// on a sheet. It aborts the build; a partial dataset is never produced.
type SchemaDetectionError struct {
	Sheet   string
	Missing []string
}

func (e *SchemaDetectionError) Error() string {
	return fmt.Sprintf("sheet %q: could not detect required column(s): %s",
		e.Sheet, strings.Join(e.Missing, ", "))
}

// UnsupportedFormatError reports a path whose extension maps to neither the
// delimited-text nor the columnar-binary codec.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported dataset format: %s (want .csv or .parquet)", e.Path)
}

// ConsistencyValidationError reports a mismatch between the loaded snapshot
// and the known CNPV-2018 reference totals.
type ConsistencyValidationError struct {
	Check    string
	Expected int
	Got      int
}

func (e *ConsistencyValidationError) Error() string {
	return fmt.Sprintf("consistency check %q failed: expected %d, got %d", e.Check, e.Expected, e.Got)
}
