//go:build linux || darwin || freebsd

package mmfile

import "golang.org/x/sys/unix"

// adviseRegion applies p to data with madvise(2).
func adviseRegion(data []byte, p AccessPattern) error {
	var advice int
	switch p {
	case AccessSequential:
		advice = unix.MADV_SEQUENTIAL
	case AccessRandom:
		advice = unix.MADV_RANDOM
	case AccessWillNeed:
		advice = unix.MADV_WILLNEED
	default:
		advice = unix.MADV_NORMAL
	}
	return unix.Madvise(data, advice)
}
