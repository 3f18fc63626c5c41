package aismmf

import (
	"fmt"
	"unsafe"

	aismerrors "github.com/tamirms/aismmf/errors"
)

const (
	// countSize is the size of the leading key count (int64).
	countSize = 8

	// headerEntrySize is the stride of the header table.
	headerEntrySize = 16

	// recordSize is the stride of the record body.
	recordSize = 32
)

// headerEntry is one row of the header table.
//
// Layout (native endian):
//
//	Offset  Size  Field     Type
//	0       4     Key       int32 (track key, e.g. MMSI)
//	4       4     Offset    int32 (first record, counted in records)
//	8       4     Length    int32 (number of records)
//	12      4     Reserved  int32 (ignored)
//
// Offset and Length index the record body, not the file.
type headerEntry struct {
	Key    int32
	Offset int32
	Length int32
	_      int32
}

// The reader reinterprets mapped bytes as these types, so their sizes and
// field offsets are part of the file format.
var (
	_ [headerEntrySize]byte = [unsafe.Sizeof(headerEntry{})]byte{}
	_ [recordSize]byte      = [unsafe.Sizeof(Record{})]byte{}
	_ [16]byte              = [unsafe.Offsetof(Record{}.Key)]byte{}
	_ [20]byte              = [unsafe.Offsetof(Record{}.Timestamp)]byte{}
	_ [24]byte              = [unsafe.Offsetof(Record{}.Course)]byte{}
	_ [28]byte              = [unsafe.Offsetof(Record{}.Speed)]byte{}
)

// formatError reports a structural problem found while parsing region.
// Both ErrFormat and cause match with errors.Is.
func formatError(region string, cause error) error {
	return fmt.Errorf("%w: %s: %w", aismerrors.ErrFormat, region, cause)
}
