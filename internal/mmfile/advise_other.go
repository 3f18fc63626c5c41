//go:build !linux && !darwin && !freebsd

package mmfile

// adviseRegion is a no-op on platforms without madvise(2).
func adviseRegion(data []byte, p AccessPattern) error {
	return nil
}
