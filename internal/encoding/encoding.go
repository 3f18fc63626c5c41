// Package encoding lays out track files in the reader's native format.
//
// It exists for tests and cmd/bench, which need well-formed and deliberately
// broken files; the aismmf package itself never writes. Values are stored
// with binary.NativeEndian so the output matches what a producer on the same
// machine would write.
package encoding

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Sizes of the three regions' elements, in bytes.
const (
	CountSize  = 8
	EntrySize  = 16
	RecordSize = 32
)

// Fix is one positional report. The track key is supplied by the Track.
type Fix struct {
	Lat       float64
	Lon       float64
	Timestamp int32
	Course    float32
	Speed     float32
}

// Track is the ordered fixes for one key.
type Track struct {
	Key   int32
	Fixes []Fix
}

// Size returns the encoded length of tracks.
func Size(tracks []Track) int {
	n := CountSize + len(tracks)*EntrySize
	for _, tr := range tracks {
		n += len(tr.Fixes) * RecordSize
	}
	return n
}

// AlignedBuffer returns a zeroed n-byte buffer whose first byte is 8-byte
// aligned, so in-memory files satisfy the same alignment as a mapping.
func AlignedBuffer(n int) []byte {
	if n == 0 {
		return []byte{}
	}
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n)
}

// Encode writes tracks as a complete file: count, one header entry per track
// in the given order, then every track's records back to back.
func Encode(tracks []Track) []byte {
	buf := AlignedBuffer(Size(tracks))
	PutCount(buf, int64(len(tracks)))

	bodyStart := BodyOffset(len(tracks))
	var offset int
	for i, tr := range tracks {
		PutEntry(buf, i, tr.Key, int32(offset), int32(len(tr.Fixes)))
		for _, f := range tr.Fixes {
			PutRecord(buf, bodyStart, offset, tr.Key, f)
			offset++
		}
	}
	return buf
}

// BodyOffset returns the byte offset of the first record for numKeys entries.
func BodyOffset(numKeys int) int {
	return CountSize + numKeys*EntrySize
}

// PutCount stores the header entry count at the start of buf.
func PutCount(buf []byte, n int64) {
	binary.NativeEndian.PutUint64(buf[0:CountSize], uint64(n))
}

// PutEntry stores header entry i. The reserved fourth field is zeroed.
func PutEntry(buf []byte, i int, key, offset, length int32) {
	e := buf[CountSize+i*EntrySize : CountSize+(i+1)*EntrySize]
	binary.NativeEndian.PutUint32(e[0:4], uint32(key))
	binary.NativeEndian.PutUint32(e[4:8], uint32(offset))
	binary.NativeEndian.PutUint32(e[8:12], uint32(length))
	binary.NativeEndian.PutUint32(e[12:16], 0)
}

// PutRecord stores record i of the body that starts at bodyStart.
func PutRecord(buf []byte, bodyStart, i int, key int32, f Fix) {
	r := buf[bodyStart+i*RecordSize : bodyStart+(i+1)*RecordSize]
	binary.NativeEndian.PutUint64(r[0:8], math.Float64bits(f.Lat))
	binary.NativeEndian.PutUint64(r[8:16], math.Float64bits(f.Lon))
	binary.NativeEndian.PutUint32(r[16:20], uint32(key))
	binary.NativeEndian.PutUint32(r[20:24], uint32(f.Timestamp))
	binary.NativeEndian.PutUint32(r[24:28], math.Float32bits(f.Course))
	binary.NativeEndian.PutUint32(r[28:32], math.Float32bits(f.Speed))
}

// ReadCount returns the header entry count stored in buf.
func ReadCount(buf []byte) int64 {
	return int64(binary.NativeEndian.Uint64(buf[0:CountSize]))
}

// ReadEntry returns header entry i.
func ReadEntry(buf []byte, i int) (key, offset, length int32) {
	e := buf[CountSize+i*EntrySize : CountSize+(i+1)*EntrySize]
	key = int32(binary.NativeEndian.Uint32(e[0:4]))
	offset = int32(binary.NativeEndian.Uint32(e[4:8]))
	length = int32(binary.NativeEndian.Uint32(e[8:12]))
	return key, offset, length
}
