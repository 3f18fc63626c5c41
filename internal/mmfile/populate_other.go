//go:build !linux

package mmfile

// populateRegion falls back to a read-ahead hint where MADV_POPULATE_READ is
// not available.
func populateRegion(data []byte) error {
	return adviseRegion(data, AccessWillNeed)
}
