package dataset

import "errors"

var (
	// ErrMissingColumn marks an input table lacking a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyInput marks an input file without a header row.
	ErrEmptyInput = errors.New("empty input")
)
