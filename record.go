package aismmf

import "fmt"

// Record is one positional report as stored in the file body.
//
// Layout (32 bytes, native endian, 8-byte aligned):
//
//	Offset  Size  Field      Type
//	0       8     Lat        float64
//	8       8     Lon        float64
//	16      4     Key        int32 (track key, e.g. MMSI)
//	20      4     Timestamp  int32 (epoch seconds; not interpreted by the reader)
//	24      4     Course     float32
//	28      4     Speed      float32
//
// Records handed out by Reader live in the memory mapping; copy them (a
// plain assignment does) if they must outlive the Reader.
type Record struct {
	Lat       float64
	Lon       float64
	Key       int32
	Timestamp int32
	Course    float32
	Speed     float32
}

func (r Record) String() string {
	return fmt.Sprintf("Record{Key: %d, Timestamp: %d, Lat: %f, Lon: %f, Course: %f, Speed: %f}",
		r.Key, r.Timestamp, r.Lat, r.Lon, r.Course, r.Speed)
}
