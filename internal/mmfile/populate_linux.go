//go:build linux

package mmfile

import (
	"errors"

	"golang.org/x/sys/unix"
)

// MADV_POPULATE_READ was added in Linux 5.14.
const madvPopulateRead = 22

// populateRegion faults data in for reading before returning. Kernels older
// than 5.14 reject MADV_POPULATE_READ with EINVAL; those get an asynchronous
// MADV_WILLNEED instead.
func populateRegion(data []byte) error {
	err := unix.Madvise(data, madvPopulateRead)
	if errors.Is(err, unix.EINVAL) {
		return unix.Madvise(data, unix.MADV_WILLNEED)
	}
	return err
}
