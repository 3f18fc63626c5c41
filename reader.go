package aismmf

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	aismerrors "github.com/tamirms/aismmf/errors"
	"github.com/tamirms/aismmf/internal/mmfile"
	"github.com/tamirms/aismmf/span"
)

// Reader is a read-only view of one track file.
//
// Thread Safety:
// - HasKey, Keys, Track, All, TrackDigest, Stats and Verify are safe for concurrent use
// - Close is NOT safe to call concurrently with queries
// - Spans returned by Track and All borrow the memory mapping and must not be
//   used after Close
type Reader struct {
	// Memory map; nil for OpenBytes
	file *mmfile.File
	data []byte

	// Regions carved out of data at open time
	header span.Span[headerEntry]
	body   span.Span[Record]

	logger *slog.Logger
	closed atomic.Bool
}

// Stats holds file statistics.
type Stats struct {
	NumKeys    int
	NumRecords int
	FileSize   int64
	HeaderSize int64 // count field plus header table, in bytes
	BodySize   int64
}

// Open opens the track file at path for querying.
//
// The whole file is memory-mapped read-only and parsed without copying.
// Errors wrap ErrOpen or ErrMap when the file cannot be mapped, and ErrFormat
// (joined with ErrRange, ErrSizeMismatch or ErrAlignment) when its structure
// is invalid. On failure nothing stays mapped.
func Open(path string, opts ...OpenOption) (*Reader, error) {
	cfg := newOpenConfig(opts)
	m, err := mmfile.Open(path)
	if err != nil {
		return nil, err
	}
	return newMappedReader(m, path, cfg)
}

// OpenFile opens a track file by memory-mapping the given file.
// The caller is responsible for closing f. Per POSIX mmap(2), f may be
// closed immediately after OpenFile returns.
func OpenFile(f *os.File, opts ...OpenOption) (*Reader, error) {
	cfg := newOpenConfig(opts)
	m, err := mmfile.Map(f)
	if err != nil {
		return nil, err
	}
	return newMappedReader(m, f.Name(), cfg)
}

// OpenBytes parses a track file held in memory. No file is opened or
// memory-mapped; Close is a no-op. The caller must not modify data while the
// Reader is in use, and data must be 8-byte aligned.
func OpenBytes(data []byte, opts ...OpenOption) (*Reader, error) {
	cfg := newOpenConfig(opts)
	r := &Reader{logger: cfg.logger}
	if err := r.initFromData(data, cfg); err != nil {
		return nil, err
	}
	return r, nil
}

func newMappedReader(m *mmfile.File, name string, cfg *openConfig) (*Reader, error) {
	r := &Reader{
		file:   m,
		logger: cfg.logger,
	}
	if err := r.initFromData(m.Bytes(), cfg); err != nil {
		if closeErr := m.Close(); closeErr != nil {
			cfg.logger.Warn("release mapping after failed open", "path", name, "error", closeErr)
			return nil, errors.Join(err, closeErr)
		}
		return nil, err
	}

	// Paging hints are best effort: a rejected madvise never fails Open.
	if cfg.access != AccessDefault {
		if err := m.Advise(cfg.access); err != nil {
			cfg.logger.Warn("access hint rejected", "path", name, "pattern", cfg.access, "error", err)
		}
	}
	if cfg.populate {
		if err := m.Populate(); err != nil {
			cfg.logger.Warn("populate hint rejected", "path", name, "error", err)
		}
	}

	cfg.logger.Debug("opened track file",
		"path", name,
		"keys", r.header.Len(),
		"records", r.body.Len(),
		"bytes", m.Len(),
	)
	return r, nil
}

// initFromData carves the count field, header table and record body out of
// data using checked span operations only.
// Layout: [numKeys int64][numKeys × headerEntry][Record...]
//
// Empty regions are not carved: a file with zero keys, or with no records
// after its header, is valid and yields an empty header or body.
func (r *Reader) initFromData(data []byte, cfg *openConfig) error {
	bytes := span.OfBytes(data)

	countBytes, err := bytes.Subspan(0, countSize)
	if err != nil {
		return formatError("key count", err)
	}
	count, err := span.Reinterpret[int64](countBytes)
	if err != nil {
		return formatError("key count", err)
	}
	numKeys := count.At(0)
	if numKeys < 0 || numKeys > math.MaxInt/headerEntrySize {
		return formatError("key count", fmt.Errorf("%w: %d header entries", aismerrors.ErrRange, numKeys))
	}

	if numKeys > 0 {
		headerBytes, err := bytes.Subspan(countSize, int(numKeys)*headerEntrySize)
		if err != nil {
			return formatError("header table", err)
		}
		if r.header, err = span.Reinterpret[headerEntry](headerBytes); err != nil {
			return formatError("header table", err)
		}
	}

	// The body is every byte after the header, so a truncated or padded file
	// surfaces here as ErrSizeMismatch: it cannot hold a whole number of records.
	consumed := countSize + r.header.ByteLen()
	if rest := bytes.Len() - consumed; rest > 0 {
		bodyBytes, err := bytes.Subspan(consumed, rest)
		if err != nil {
			return formatError("record body", err)
		}
		if r.body, err = span.Reinterpret[Record](bodyBytes); err != nil {
			return formatError("record body", err)
		}
	}

	if cfg.uniqueKeys {
		seen := make(map[int32]struct{}, r.header.Len())
		for he := range r.header.Values() {
			if _, dup := seen[he.Key]; dup {
				return formatError("header table", fmt.Errorf("%w: key %d", aismerrors.ErrDuplicateKey, he.Key))
			}
			seen[he.Key] = struct{}{}
		}
	}

	r.data = data
	return nil
}

// Close releases the memory mapping. Spans obtained from the Reader become
// invalid. Idempotent: only the first call releases anything.
func (r *Reader) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	if r.file == nil {
		return nil
	}
	if err := r.file.Close(); err != nil {
		r.logger.Warn("release track file mapping", "error", err)
		return err
	}
	return nil
}

// lookup returns the first header entry for key.
func (r *Reader) lookup(key int32) (headerEntry, bool) {
	for he := range r.header.Values() {
		if he.Key == key {
			return he, true
		}
	}
	return headerEntry{}, false
}

// HasKey reports whether the header table lists key. It scans the table
// linearly and returns false once the Reader is closed.
func (r *Reader) HasKey(key int32) bool {
	if r.closed.Load() {
		return false
	}
	_, ok := r.lookup(key)
	return ok
}

// Keys returns a freshly allocated slice of every key in header-table order.
// The order is the producer's, not necessarily sorted. Duplicate entries are
// reported as many times as they appear. Returns nil once the Reader is closed.
func (r *Reader) Keys() []int32 {
	if r.closed.Load() {
		return nil
	}
	keys := make([]int32, 0, r.header.Len())
	for he := range r.header.Values() {
		keys = append(keys, he.Key)
	}
	return keys
}

// Track returns the records stored for key, in file order (increasing
// timestamp by the producer's contract), without copying.
//
// If the table lists key more than once, the first entry wins.
// Returns ErrNotFound if key is absent, and ErrFormat joined with ErrRange if
// the key's header entry points outside the record body.
func (r *Reader) Track(key int32) (span.Span[Record], error) {
	if r.closed.Load() {
		return span.Span[Record]{}, aismerrors.ErrClosed
	}
	he, ok := r.lookup(key)
	if !ok {
		return span.Span[Record]{}, fmt.Errorf("%w: %d", aismerrors.ErrNotFound, key)
	}
	return r.trackFor(he)
}

// trackFor resolves a header entry against the body, checking its bounds.
func (r *Reader) trackFor(he headerEntry) (span.Span[Record], error) {
	offset, length := int(he.Offset), int(he.Length)
	// An empty track may sit at the very end of the body, where Subspan
	// (which requires offset < Len) would reject it.
	if length == 0 && offset >= 0 && offset <= r.body.Len() {
		return span.Span[Record]{}, nil
	}
	track, err := r.body.Subspan(offset, length)
	if err != nil {
		return span.Span[Record]{}, formatError(fmt.Sprintf("header entry for key %d", he.Key), err)
	}
	return track, nil
}

// All returns every record in the body as one span. Empty once closed.
func (r *Reader) All() span.Span[Record] {
	if r.closed.Load() {
		return span.Span[Record]{}
	}
	return r.body
}

// TrackDigest returns the xxHash64 of key's raw record bytes. Identical
// tracks produce identical digests, so tracks can be compared across files
// written on the same architecture without copying either.
func (r *Reader) TrackDigest(key int32) (uint64, error) {
	track, err := r.Track(key)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(track.Bytes().Slice()), nil
}

// NumKeys returns the number of header entries.
func (r *Reader) NumKeys() int {
	return r.header.Len()
}

// NumRecords returns the number of records in the body.
func (r *Reader) NumRecords() int {
	return r.body.Len()
}

// GetStats returns statistics for a track file.
func GetStats(path string) (*Stats, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	stats := r.Stats()
	return &stats, r.Close()
}

// Stats returns statistics for the file.
func (r *Reader) Stats() Stats {
	return Stats{
		NumKeys:    r.header.Len(),
		NumRecords: r.body.Len(),
		FileSize:   int64(len(r.data)),
		HeaderSize: int64(countSize + r.header.ByteLen()),
		BodySize:   int64(r.body.ByteLen()),
	}
}
