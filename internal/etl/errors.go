package etl

import "errors"

// Fatal ingestion errors. Cell-level coercion failures are never errors;
// those cells are read as null.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrSchemaMismatch    = errors.New("schema mismatch")
)
