// Package mmfile owns a read-only memory mapping of a whole file.
//
// A File is created once per opened path and released exactly once by Close.
// Everything derived from Bytes borrows the mapping: it is valid only until
// Close returns. The file must not be modified by anyone while it is mapped;
// that is a caller contract which this package cannot check.
package mmfile

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"

	aismerrors "github.com/tamirms/aismmf/errors"
)

// AccessPattern is a hint to the kernel about how mapped pages will be read.
type AccessPattern int

const (
	// AccessDefault leaves the kernel's read-ahead policy alone.
	AccessDefault AccessPattern = iota
	// AccessSequential suits full scans, e.g. Verify or listing every track.
	AccessSequential
	// AccessRandom suits point lookups of individual tracks.
	AccessRandom
	// AccessWillNeed asks the kernel to start paging the mapping in now.
	AccessWillNeed
)

func (p AccessPattern) String() string {
	switch p {
	case AccessDefault:
		return "default"
	case AccessSequential:
		return "sequential"
	case AccessRandom:
		return "random"
	case AccessWillNeed:
		return "willneed"
	default:
		return fmt.Sprintf("AccessPattern(%d)", int(p))
	}
}

// File is a read-only mapping of an entire file.
type File struct {
	file   *os.File // nil when the caller owns the descriptor
	mmap   mmap.MMap
	data   []byte
	size   int64
	closed atomic.Bool
}

// Open opens path read-only and maps its full contents.
//
// Returns an error wrapping ErrOpen if the file cannot be opened or stat'd,
// and ErrMap if mapping fails. The descriptor stays open until Close.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", aismerrors.ErrOpen, err)
	}
	m, err := mapFile(f)
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}
	m.file = f
	return m, nil
}

// Map maps the caller's file. Close unmaps but leaves f open; per POSIX
// mmap(2), f may be closed as soon as Map returns.
func Map(f *os.File) (*File, error) {
	return mapFile(f)
}

func mapFile(f *os.File) (*File, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", aismerrors.ErrOpen, f.Name(), err)
	}
	if !stat.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", aismerrors.ErrOpen, f.Name())
	}
	size := stat.Size()
	if size == 0 {
		// mmap(2) rejects zero-length mappings; an empty region is enough for
		// the format layer to report the file as too short.
		return &File{size: 0}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("%w: %s is too large to map (%d bytes)", aismerrors.ErrMap, f.Name(), size)
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", aismerrors.ErrMap, f.Name(), err)
	}
	return &File{
		mmap: mm,
		data: []byte(mm),
		size: size,
	}, nil
}

// Bytes returns the mapped region. It is empty after Close.
func (m *File) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Len returns the file size in bytes at open time.
func (m *File) Len() int {
	return int(m.size)
}

// Advise passes an access-pattern hint for the whole mapping to the kernel.
// It is a no-op on platforms without madvise(2).
func (m *File) Advise(p AccessPattern) error {
	if m.closed.Load() {
		return aismerrors.ErrClosed
	}
	if len(m.data) == 0 {
		return nil
	}
	if err := adviseRegion(m.data, p); err != nil {
		return fmt.Errorf("madvise(%s): %w", p, err)
	}
	if m.file != nil {
		fadviseFile(int(m.file.Fd()), p)
	}
	return nil
}

// Populate faults the whole mapping in so later reads do not block on disk.
func (m *File) Populate() error {
	if m.closed.Load() {
		return aismerrors.ErrClosed
	}
	if len(m.data) == 0 {
		return nil
	}
	if err := populateRegion(m.data); err != nil {
		return fmt.Errorf("populate: %w", err)
	}
	return nil
}

// Close unmaps the region and closes the descriptor if File owns it.
// Idempotent: only the first call releases anything.
func (m *File) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.data = nil

	var unmapErr error
	if m.mmap != nil {
		if err := m.mmap.Unmap(); err != nil {
			unmapErr = fmt.Errorf("munmap: %w", err)
		}
		m.mmap = nil
	}
	var closeErr error
	if m.file != nil {
		closeErr = m.file.Close()
		m.file = nil
	}
	return errors.Join(unmapErr, closeErr)
}
