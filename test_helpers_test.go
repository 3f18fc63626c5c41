package aismmf

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/tamirms/aismmf/internal/encoding"
)

// Fixed seeds for deterministic test randomness; mixed with the test name
// so each test draws a different stream.
const (
	testSeed1 = 0x243F6A8885A308D3
	testSeed2 = 0x13198A2E03707344
)

// newTestRNG returns a deterministic RNG seeded from the test name.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// fixtureTracks is the two-vessel file used by the round-trip tests.
func fixtureTracks() []encoding.Track {
	return []encoding.Track{
		{Key: 999, Fixes: []encoding.Fix{
			{Lat: 1.1, Lon: 2.2, Timestamp: 1234, Course: 5.5, Speed: 6.6},
			{Lat: 2.1, Lon: 3.2, Timestamp: 1294, Course: 6.5, Speed: 7.6},
		}},
		{Key: 90909, Fixes: []encoding.Fix{
			{Lat: 3.1, Lon: 4.1, Timestamp: 10123, Course: 1.1, Speed: 2.1},
			{Lat: 4.1, Lon: 5.1, Timestamp: 10193, Course: 2.1, Speed: 3.1},
		}},
	}
}

// randomTracks returns numKeys distinct-key tracks with up to maxFixes
// time-ordered fixes each. Some tracks are empty.
func randomTracks(rng *rand.Rand, numKeys, maxFixes int) []encoding.Track {
	tracks := make([]encoding.Track, numKeys)
	seen := make(map[int32]bool, numKeys)
	for i := range tracks {
		key := rng.Int32N(1_000_000_000)
		for seen[key] {
			key = rng.Int32N(1_000_000_000)
		}
		seen[key] = true

		fixes := make([]encoding.Fix, rng.IntN(maxFixes+1))
		ts := rng.Int32N(1 << 20)
		for j := range fixes {
			ts += rng.Int32N(600)
			fixes[j] = encoding.Fix{
				Lat:       rng.Float64()*180 - 90,
				Lon:       rng.Float64()*360 - 180,
				Timestamp: ts,
				Course:    rng.Float32() * 360,
				Speed:     rng.Float32() * 30,
			}
		}
		tracks[i] = encoding.Track{Key: key, Fixes: fixes}
	}
	return tracks
}

// writeTestFile encodes tracks into a file under t.TempDir and returns its path.
func writeTestFile(t testing.TB, tracks []encoding.Track) string {
	t.Helper()
	return writeRawFile(t, encoding.Encode(tracks))
}

// writeRawFile writes data verbatim, for corrupted layouts.
func writeRawFile(t testing.TB, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracks.bin")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

// openTestFile opens path and closes the reader when the test ends.
func openTestFile(t testing.TB, path string, opts ...OpenOption) *Reader {
	t.Helper()
	r, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return r
}

// expectTrack checks that got holds exactly the fixes of want, tagged with
// want.Key, in order.
func expectTrack(t *testing.T, r *Reader, want encoding.Track) {
	t.Helper()
	got, err := r.Track(want.Key)
	if err != nil {
		t.Fatalf("Track(%d): %v", want.Key, err)
	}
	if got.Len() != len(want.Fixes) {
		t.Fatalf("Track(%d) has %d records, want %d", want.Key, got.Len(), len(want.Fixes))
	}
	for i, rec := range got.All() {
		f := want.Fixes[i]
		wantRec := Record{
			Lat:       f.Lat,
			Lon:       f.Lon,
			Key:       want.Key,
			Timestamp: f.Timestamp,
			Course:    f.Course,
			Speed:     f.Speed,
		}
		if rec != wantRec {
			t.Errorf("Track(%d)[%d] = %v, want %v", want.Key, i, rec, wantRec)
		}
	}
}

// corruptEntry rewrites header entry i of an encoded file.
func corruptEntry(data []byte, i int, key, offset, length int32) {
	encoding.PutEntry(data, i, key, offset, length)
}
