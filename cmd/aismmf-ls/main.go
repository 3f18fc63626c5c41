// Aismmf-ls lists the track keys in a track file.
//
// Usage:
//
//	aismmf-ls [flags] FILE
//
// Prints a CSV of the MMSIs and per-MMSI message counts to stdout, in file
// order, and the total number of MMSIs and messages to stderr.
//
// Flags:
//
//	-digest   Add an xxhash64 column per track
//	-verify   Check the whole file before listing
//	-v        Log diagnostics to stderr
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tamirms/aismmf"
)

const usage = `USAGE:
  aismmf-ls [flags] FILE
Prints a CSV of the MMSIs and per-MMSI counts in the file to stdout.
Also writes the total number of messages and MMSIs to stderr.

`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("aismmf-ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	digestFlag := fs.Bool("digest", false, "add an xxhash64 column per track")
	verifyFlag := fs.Bool("verify", false, "check the whole file before listing")
	verboseFlag := fs.Bool("v", false, "log diagnostics to stderr")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		if err == nil {
			fs.Usage()
		}
		return 1
	}

	opts := []aismmf.OpenOption{aismmf.WithAccessPattern(aismmf.AccessSequential)}
	if *verboseFlag {
		opts = append(opts, aismmf.WithLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	if err := list(fs.Arg(0), *digestFlag, *verifyFlag, stdout, stderr, opts); err != nil {
		fmt.Fprintf(stderr, "Died with error: %v\n", err)
		fs.Usage()
		return 1
	}
	return 0
}

func list(path string, digest, verify bool, stdout, stderr io.Writer, opts []aismmf.OpenOption) (err error) {
	r, err := aismmf.Open(path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := r.Close(); err == nil {
			err = closeErr
		}
	}()

	if verify {
		if err := r.Verify(); err != nil {
			return err
		}
	}

	w := bufio.NewWriter(stdout)
	if digest {
		fmt.Fprintln(w, "mmsi,count,xxhash64")
	} else {
		fmt.Fprintln(w, "mmsi,count")
	}

	keys := r.Keys()
	for _, key := range keys {
		track, err := r.Track(key)
		if err != nil {
			return err
		}
		if digest {
			sum, err := r.TrackDigest(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d,%d,%016x\n", key, track.Len(), sum)
		} else {
			fmt.Fprintf(w, "%d,%d\n", key, track.Len())
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "Count MMSIs:    %d\n", len(keys))
	fmt.Fprintf(stderr, "Count messages: %d\n", r.NumRecords())
	return nil
}
