// Aismmf-track prints one vessel's track from a track file.
//
// Usage:
//
//	aismmf-track [flags] FILE MMSI
//
// Prints a CSV of every message stored for MMSI to stdout and the message
// count to stderr.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/tamirms/aismmf"
	aismerrors "github.com/tamirms/aismmf/errors"
)

const usage = `USAGE:
  aismmf-track [flags] FILE MMSI
Prints a CSV containing all the messages stored for MMSI
in FILE to stdout.
Also prints the total number of messages to stderr.

`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("aismmf-track", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verboseFlag := fs.Bool("v", false, "log diagnostics to stderr")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		if err == nil {
			fs.Usage()
		}
		return 1
	}

	mmsi, err := strconv.ParseInt(fs.Arg(1), 10, 32)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid MMSI %q: %v\n", fs.Arg(1), err)
		fs.Usage()
		return 1
	}

	var opts []aismmf.OpenOption
	if *verboseFlag {
		opts = append(opts, aismmf.WithLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	err = printTrack(fs.Arg(0), int32(mmsi), stdout, stderr, opts)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, aismerrors.ErrNotFound):
		fmt.Fprintf(stderr, "MMSI %d not found in file\n", mmsi)
		return 1
	default:
		fmt.Fprintf(stderr, "Died with error: %v\n", err)
		fs.Usage()
		return 1
	}
}

func printTrack(path string, mmsi int32, stdout, stderr io.Writer, opts []aismmf.OpenOption) (err error) {
	r, err := aismmf.Open(path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := r.Close(); err == nil {
			err = closeErr
		}
	}()

	track, err := r.Track(mmsi)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(stdout)
	fmt.Fprintln(w, "mmsi,timestamp,lat,lon,course,speed")
	for rec := range track.Values() {
		fmt.Fprintf(w, "%d,%d,%f,%f,%f,%f\n",
			rec.Key, rec.Timestamp, rec.Lat, rec.Lon, rec.Course, rec.Speed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "Count messages: %d\n", track.Len())
	return nil
}
