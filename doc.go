// Package aismmf reads memory-mapped AIS track files without copying.
//
// A track file groups positional reports (timestamp, position, course and
// speed) by a 32-bit track key such as a vessel's MMSI. Each track is stored
// contiguously in increasing timestamp order, so a track is handed out as a
// typed view straight into the mapping.
//
// # Basic Usage
//
//	r, err := aismmf.Open("tracks.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for _, key := range r.Keys() {
//	    track, err := r.Track(key)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for rec := range track.Values() {
//	        fmt.Println(rec.Timestamp, rec.Lat, rec.Lon)
//	    }
//	}
//
// Spans returned by Track and All borrow the mapping. They are valid until
// Close; copy the records out if they must live longer.
//
// # File Layout
//
// All values are native endian and naturally aligned:
//
//	┌──────────────────────────────────┐ 0
//	│ numKeys               int64      │
//	├──────────────────────────────────┤ 8
//	│ header table                     │
//	│   numKeys × {key, offset,        │
//	│              length, reserved}   │ 16 bytes each
//	├──────────────────────────────────┤ 8 + 16·numKeys
//	│ record body                      │
//	│   Record × N                     │ 32 bytes each
//	└──────────────────────────────────┘
//
// A header entry's offset and length count records within the body. Entries
// are resolved lazily: Open checks only that the three regions add up to the
// file size, Track checks the entry it resolves, and Verify checks everything.
//
// # Package Structure
//
//   - Public API: reader.go (Open, Track, Keys, Close), verify.go (Verify)
//   - Configuration: options.go (OpenOption, With* functions)
//   - File format: header.go (headerEntry), record.go (Record)
//   - Typed views: span/ (Span, Subspan, Reinterpret)
//   - Mapping: internal/mmfile/ (mmap, madvise)
//   - Fixtures: internal/encoding/ (used by tests and cmd/bench)
package aismmf
