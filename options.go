package aismmf

import (
	"io"
	"log/slog"

	"github.com/tamirms/aismmf/internal/mmfile"
)

// AccessPattern is a paging hint applied to the mapping after Open.
type AccessPattern = mmfile.AccessPattern

// Access patterns accepted by WithAccessPattern.
const (
	AccessDefault    = mmfile.AccessDefault
	AccessSequential = mmfile.AccessSequential
	AccessRandom     = mmfile.AccessRandom
)

// OpenOption is a functional option for configuring Open, OpenFile and OpenBytes.
type OpenOption func(*openConfig)

type openConfig struct {
	logger     *slog.Logger
	access     AccessPattern
	populate   bool // fault the whole mapping in at open
	uniqueKeys bool // reject header tables that repeat a key
}

func defaultOpenConfig() *openConfig {
	return &openConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		access: AccessDefault,
	}
}

func newOpenConfig(opts []OpenOption) *openConfig {
	cfg := defaultOpenConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the logger used for open diagnostics and best-effort
// release failures. By default nothing is logged.
func WithLogger(logger *slog.Logger) OpenOption {
	return func(c *openConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAccessPattern passes a madvise(2) hint for the whole mapping.
// Use AccessRandom for scattered Track lookups and AccessSequential when
// every track will be scanned. Ignored by OpenBytes.
func WithAccessPattern(p AccessPattern) OpenOption {
	return func(c *openConfig) {
		c.access = p
	}
}

// WithPopulate faults the whole mapping in at open time instead of on first
// access. Kernels without MADV_POPULATE_READ only get a read-ahead hint.
// Ignored by OpenBytes.
func WithPopulate() OpenOption {
	return func(c *openConfig) {
		c.populate = true
	}
}

// WithUniqueKeys makes Open fail with ErrDuplicateKey when the header table
// lists a key more than once. Without it, duplicates are accepted and every
// lookup resolves to the first matching entry.
func WithUniqueKeys() OpenOption {
	return func(c *openConfig) {
		c.uniqueKeys = true
	}
}
