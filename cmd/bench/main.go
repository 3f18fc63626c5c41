// Bench is a benchmarking tool for measuring aismmf open cost, track lookup
// throughput, full-file verification and track digest speed.
//
// Usage:
//
//	go run ./cmd/bench -keys 100000 -records 200
//
// Flags:
//
//	-keys      Number of tracks in the synthesised file (default: 100,000)
//	-records   Maximum records per track (default: 200)
//	-queries   Number of Track lookups to time (default: 100,000)
//	-access    Access pattern hint: default, sequential or random (default: random)
//	-populate  Prefault the mapping at open
//	-file      Benchmark an existing file instead of synthesising one
package main

import (
	"flag"
	"fmt"
	mrand "math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	"github.com/tamirms/aismmf"
	"github.com/tamirms/aismmf/internal/encoding"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

// synthesise writes a file of numKeys random tracks and returns its path.
func synthesise(dir string, numKeys, maxRecords int) (string, error) {
	tracks := make([]encoding.Track, numKeys)
	for i := range tracks {
		fixes := make([]encoding.Fix, mrand.IntN(maxRecords+1))
		ts := mrand.Int32N(1 << 20)
		for j := range fixes {
			ts += mrand.Int32N(600)
			fixes[j] = encoding.Fix{
				Lat:       mrand.Float64()*180 - 90,
				Lon:       mrand.Float64()*360 - 180,
				Timestamp: ts,
				Course:    mrand.Float32() * 360,
				Speed:     mrand.Float32() * 30,
			}
		}
		// MMSIs are nine digits; offsetting by index keeps them unique.
		tracks[i] = encoding.Track{Key: int32(200_000_000 + i), Fixes: fixes}
	}
	path := filepath.Join(dir, "bench.aismmf")
	return path, os.WriteFile(path, encoding.Encode(tracks), 0644)
}

func parseAccess(s string) (aismmf.AccessPattern, error) {
	switch s {
	case "default":
		return aismmf.AccessDefault, nil
	case "sequential":
		return aismmf.AccessSequential, nil
	case "random":
		return aismmf.AccessRandom, nil
	}
	return 0, fmt.Errorf("unknown access pattern %q (use default, sequential or random)", s)
}

func main() {
	keysFlag := flag.Int("keys", 100_000, "number of tracks")
	recordsFlag := flag.Int("records", 200, "maximum records per track")
	queriesFlag := flag.Int("queries", 100_000, "number of Track lookups to time")
	accessFlag := flag.String("access", "random", "access pattern hint: default, sequential or random")
	populateFlag := flag.Bool("populate", false, "prefault the mapping at open")
	fileFlag := flag.String("file", "", "benchmark an existing file instead of synthesising one")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (query phase only)")
	flag.Parse()

	access, err := parseAccess(*accessFlag)
	if err != nil {
		fmt.Println(err)
		return
	}

	path := *fileFlag
	if path == "" {
		tmpDir, err := os.MkdirTemp("", "bench-")
		if err != nil {
			fmt.Printf("Failed to create temp dir: %v\n", err)
			return
		}
		defer func() { _ = os.RemoveAll(tmpDir) }()

		fmt.Println("Synthesising tracks...")
		if path, err = synthesise(tmpDir, *keysFlag, *recordsFlag); err != nil {
			fmt.Printf("Synthesise failed: %v\n", err)
			return
		}
	}

	opts := []aismmf.OpenOption{aismmf.WithAccessPattern(access)}
	if *populateFlag {
		opts = append(opts, aismmf.WithPopulate())
	}

	baselineRSS := getMaxRSS()

	openStart := time.Now()
	r, err := aismmf.Open(path, opts...)
	if err != nil {
		fmt.Printf("Open failed: %v\n", err)
		return
	}
	openDuration := time.Since(openStart)
	defer func() { _ = r.Close() }()

	keysStart := time.Now()
	keys := r.Keys()
	keysDuration := time.Since(keysStart)
	if len(keys) == 0 {
		fmt.Println("File has no tracks")
		return
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			return
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			return
		}
	}

	fmt.Println("Benchmarking lookups...")
	numQueries := *queriesFlag
	var touched int
	queryStart := time.Now()
	for i := 0; i < numQueries; i++ {
		track, err := r.Track(keys[mrand.IntN(len(keys))])
		if err != nil {
			fmt.Printf("Track failed: %v\n", err)
			return
		}
		touched += track.Len()
	}
	queryDuration := time.Since(queryStart)
	avgLatency := float64(queryDuration.Nanoseconds()) / float64(numQueries) / 1000

	if *cpuprofile != "" {
		pprof.StopCPUProfile()
	}

	fmt.Println("Verifying...")
	verifyStart := time.Now()
	if err := r.Verify(); err != nil {
		fmt.Printf("Verify failed: %v\n", err)
		return
	}
	verifyDuration := time.Since(verifyStart)

	// Digest throughput: xxhash is what TrackDigest uses; xxh3 and murmur3
	// are baselines over the same bytes.
	fmt.Println("Hashing tracks...")
	body := r.All().Bytes().Slice()
	hashers := []struct {
		name string
		sum  func([]byte) uint64
	}{
		{"xxhash64", xxhash.Sum64},
		{"xxh3", xxh3.Hash},
		{"murmur3", murmur3.Sum64},
	}
	hashDurations := make([]time.Duration, len(hashers))
	for i, h := range hashers {
		start := time.Now()
		h.sum(body)
		hashDurations[i] = time.Since(start)
	}

	stats := r.Stats()
	peakRSSMem := getMaxRSS() - baselineRSS
	mb := float64(stats.BodySize) / 1_000_000

	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦════════════════╗\n")
	fmt.Printf("║ Metric              ║ Value          ║\n")
	fmt.Printf("╠═════════════════════╬════════════════╣\n")
	fmt.Printf("║ Tracks              ║ %14d ║\n", stats.NumKeys)
	fmt.Printf("║ Records             ║ %14d ║\n", stats.NumRecords)
	fmt.Printf("║ File size           ║ %11.1f MB ║\n", float64(stats.FileSize)/1_000_000)
	fmt.Printf("║ Open time           ║ %11.2f μs ║\n", float64(openDuration.Nanoseconds())/1000)
	fmt.Printf("║ Keys() time         ║ %11.2f μs ║\n", float64(keysDuration.Nanoseconds())/1000)
	fmt.Printf("║ Lookup latency      ║ %11.2f μs ║\n", avgLatency)
	fmt.Printf("║ Records touched     ║ %14d ║\n", touched)
	fmt.Printf("║ Verify time         ║ %10.2f sec ║\n", verifyDuration.Seconds())
	fmt.Printf("║ Verify throughput   ║ %9.1f MB/s ║\n", mb/verifyDuration.Seconds())
	for i, h := range hashers {
		fmt.Printf("║ %-8s throughput ║ %9.1f MB/s ║\n", h.name, mb/hashDurations[i].Seconds())
	}
	fmt.Printf("║ Peak RSS growth     ║ %11.1f MB ║\n", float64(peakRSSMem)/1_000_000)
	fmt.Printf("╚═════════════════════╩════════════════╝\n")
}
