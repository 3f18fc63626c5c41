//go:build !linux

package mmfile

// fadviseFile is a no-op on non-Linux platforms.
func fadviseFile(fd int, p AccessPattern) {}
