package aismmf

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	aismerrors "github.com/tamirms/aismmf/errors"
)

// Verify checks the integrity of the whole file. It touches every record, so
// unlike Open it is O(file size). For each header entry it checks:
// 1. the entry's records lie inside the body
// 2. every record carries the entry's key
// 3. timestamps never decrease within the track
//
// Tracks are checked in parallel; the first failure is returned, wrapped in
// ErrFormat together with ErrRange, ErrKeyMismatch or ErrUnordered.
func (r *Reader) Verify() error {
	if r.closed.Load() {
		return aismerrors.ErrClosed
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for he := range r.header.Values() {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return r.verifyTrack(ctx, he)
		})
	}
	return g.Wait()
}

func (r *Reader) verifyTrack(ctx context.Context, he headerEntry) error {
	track, err := r.trackFor(he)
	if err != nil {
		return err
	}

	region := fmt.Sprintf("track %d", he.Key)
	var prev int32
	for i, rec := range track.All() {
		// Poll for a sibling failure every 4096 records.
		if i&4095 == 4095 && ctx.Err() != nil {
			return nil
		}
		if rec.Key != he.Key {
			return formatError(region, fmt.Errorf("%w: record %d has key %d",
				aismerrors.ErrKeyMismatch, int(he.Offset)+i, rec.Key))
		}
		if i > 0 && rec.Timestamp < prev {
			return formatError(region, fmt.Errorf("%w: record %d at %d follows %d",
				aismerrors.ErrUnordered, int(he.Offset)+i, rec.Timestamp, prev))
		}
		prev = rec.Timestamp
	}
	return nil
}
