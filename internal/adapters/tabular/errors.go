package tabular

import "errors"

// Sentinel errors for table and mapping files.
var (
	ErrEmptyTable       = errors.New("table has no header row")
	ErrMalformedRow     = errors.New("malformed row")
	ErrInvalidMapping   = errors.New("invalid field mapping")
	ErrInvalidDelimiter = errors.New("invalid delimiter")
)
