//go:build linux

package mmfile

import "golang.org/x/sys/unix"

// fadviseFile mirrors a sequential or random hint onto the page cache of the
// whole file, so read-ahead for the descriptor agrees with the mapping.
// Best-effort: errors are silently ignored.
func fadviseFile(fd int, p AccessPattern) {
	switch p {
	case AccessSequential:
		_ = unix.Fadvise(fd, 0, 0, unix.FADV_SEQUENTIAL)
	case AccessRandom:
		_ = unix.Fadvise(fd, 0, 0, unix.FADV_RANDOM)
	}
}
