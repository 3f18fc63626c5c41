// Package errors defines all exported error sentinels for the aismmf library.
//
// This is the single source of truth for error values. The top-level aismmf
// package, the span package and the internal mapping package all wrap these
// sentinels, so errors.Is checks work across package boundaries.
//
// Parse failures are reported as ErrFormat joined with the specific cause,
// so a caller can match either the aggregate or the precise kind:
//
//	_, err := aismmf.Open(path)
//	errors.Is(err, aismerrors.ErrFormat) // true
//	errors.Is(err, aismerrors.ErrRange)  // true when a region ran off the end
package errors

import "errors"

// Mapping errors
var (
	ErrOpen   = errors.New("aismmf: cannot open file")
	ErrMap    = errors.New("aismmf: cannot memory-map file")
	ErrClosed = errors.New("aismmf: reader is closed")
)

// Span errors
var (
	ErrAlignment    = errors.New("aismmf: pointer not aligned for element type")
	ErrRange        = errors.New("aismmf: range outside span")
	ErrSizeMismatch = errors.New("aismmf: byte length not a multiple of element size")
)

// Format errors
var (
	ErrFormat       = errors.New("aismmf: invalid file structure")
	ErrDuplicateKey = errors.New("aismmf: duplicate track key in header table")
	ErrKeyMismatch  = errors.New("aismmf: record key differs from its header entry")
	ErrUnordered    = errors.New("aismmf: track timestamps go backwards")
)

// Query errors
var (
	ErrNotFound = errors.New("aismmf: track key not found")
)
