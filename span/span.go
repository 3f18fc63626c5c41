// Package span provides Span, a read-only, non-owning view over a contiguous
// run of fixed-size elements.
//
// Spans are how the aismmf reader turns raw mapped bytes into typed records
// without copying. Every way of producing a span is checked: construction from
// a pointer validates alignment, Subspan validates bounds and Reinterpret
// validates that the byte length divides evenly into the target element size
// (and then re-validates alignment for the target type).
//
// A span never owns its memory. Spans handed out by aismmf.Reader borrow the
// reader's memory mapping and must not be used after the reader is closed.
// The backing memory must not be written through Slice.
package span

import (
	"fmt"
	"iter"
	"unsafe"

	aismerrors "github.com/tamirms/aismmf/errors"
)

// Span is an immutable view of Len() contiguous values of type T.
// The zero value is an empty span.
type Span[T any] struct {
	data []T
}

// sizeOf returns the size in bytes of one T.
func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// alignOf returns the natural alignment of T.
func alignOf[T any]() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

// IsAligned reports whether ptr satisfies the natural alignment of T.
func IsAligned[T any](ptr unsafe.Pointer) bool {
	return uintptr(ptr)%alignOf[T]() == 0
}

// New returns a span of n elements starting at ptr.
//
// Returns ErrAlignment if ptr is not naturally aligned for T, and ErrRange if
// n is negative or ptr is nil with n > 0.
func New[T any](ptr *T, n int) (Span[T], error) {
	if n < 0 {
		return Span[T]{}, fmt.Errorf("%w: negative length %d", aismerrors.ErrRange, n)
	}
	if ptr == nil {
		if n > 0 {
			return Span[T]{}, fmt.Errorf("%w: nil pointer with length %d", aismerrors.ErrRange, n)
		}
		return Span[T]{}, nil
	}
	if !IsAligned[T](unsafe.Pointer(ptr)) {
		var zero T
		return Span[T]{}, fmt.Errorf("%w: address %#x, %T needs %d-byte alignment",
			aismerrors.ErrAlignment, uintptr(unsafe.Pointer(ptr)), zero, alignOf[T]())
	}
	return Span[T]{data: unsafe.Slice(ptr, n)}, nil
}

// OfBytes wraps b. Bytes have no alignment requirement so this cannot fail.
func OfBytes(b []byte) Span[byte] {
	return Span[byte]{data: b[:len(b):len(b)]}
}

// Of wraps an existing typed slice, which Go already guarantees is aligned.
func Of[T any](s []T) Span[T] {
	return Span[T]{data: s[:len(s):len(s)]}
}

// Len returns the number of elements in the span.
func (s Span[T]) Len() int {
	return len(s.data)
}

// ByteLen returns the number of bytes covered by the span.
func (s Span[T]) ByteLen() int {
	return len(s.data) * sizeOf[T]()
}

// At returns element i. It panics if i is out of range, like a slice index.
func (s Span[T]) At(i int) T {
	return s.data[i]
}

// Slice returns the span as a Go slice sharing the same memory.
//
// The result must only be read. Spans from aismmf.Reader alias a read-only
// mapping: writing through the slice faults with SIGSEGV rather than
// returning an error. Its capacity is clipped to Len, so append always
// copies instead of writing past the span. Use slices.Clone for a mutable
// copy, or At/Values to avoid exposing a slice at all.
func (s Span[T]) Slice() []T {
	return s.data
}

// Subspan returns the span of length elements starting at offset.
//
// Returns ErrRange if offset >= Len() or offset+length > Len(). The result
// shares memory with s and its capacity is clipped to the sub-range.
func (s Span[T]) Subspan(offset, length int) (Span[T], error) {
	n := len(s.data)
	if offset < 0 || offset >= n {
		return Span[T]{}, fmt.Errorf("%w: subspan starts at %d, span length %d", aismerrors.ErrRange, offset, n)
	}
	// written as a subtraction so offset+length cannot overflow
	if length < 0 || length > n-offset {
		return Span[T]{}, fmt.Errorf("%w: subspan [%d, %d+%d) ends outside span length %d",
			aismerrors.ErrRange, offset, offset, length, n)
	}
	end := offset + length
	return Span[T]{data: s.data[offset:end:end]}, nil
}

// Bytes returns the raw bytes underlying the span.
func (s Span[T]) Bytes() Span[byte] {
	if len(s.data) == 0 {
		return Span[byte]{}
	}
	return Span[byte]{data: unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s.data))), s.ByteLen())}
}

// All iterates over index/value pairs in order.
func (s Span[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.data {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values iterates over the elements in order.
func (s Span[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.data {
			if !yield(v) {
				return
			}
		}
	}
}

// Reinterpret views the bytes of s as a span of U.
//
// Returns ErrSizeMismatch if s.ByteLen() is not a multiple of sizeof(U) and
// ErrAlignment if the first element is not aligned for U. No bytes are
// copied.
func Reinterpret[U, T any](s Span[T]) (Span[U], error) {
	size := sizeOf[U]()
	byteLen := s.ByteLen()
	if size == 0 {
		return Span[U]{}, fmt.Errorf("%w: zero-sized target type", aismerrors.ErrSizeMismatch)
	}
	if byteLen%size != 0 {
		return Span[U]{}, fmt.Errorf("%w: %d bytes into %d-byte elements", aismerrors.ErrSizeMismatch, byteLen, size)
	}
	if byteLen == 0 {
		return Span[U]{}, nil
	}
	return New((*U)(unsafe.Pointer(unsafe.SliceData(s.data))), byteLen/size)
}
