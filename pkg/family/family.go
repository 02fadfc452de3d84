// Package family describes marker families and owns their decode tables.
package family

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/ssargent/tagdecode/pkg/codeword"
	"github.com/ssargent/tagdecode/pkg/quickdecode"
)

// Errors
var (
	ErrInvalidFamily      = errors.New("invalid family")
	ErrNotInitialized     = errors.New("family decode table not initialized")
	ErrAlreadyInitialized = errors.New("family decode table already initialized")
	ErrClosed             = errors.New("family closed")
)

// Family is a set of reference codewords. The index of a codeword in Codes
// is its ID. A Family owns the decode table built by Init and releases it on
// Close; always pass it by pointer.
type Family struct {
	Name        string `yaml:"name" json:"name"`
	Bits        uint32 `yaml:"bits" json:"bits"`               // grid side length d
	MinHamming  uint32 `yaml:"min_hamming" json:"min_hamming"` // h
	BlackBorder uint32 `yaml:"black_border" json:"black_border"`
	Codes       Codes  `yaml:"codes" json:"codes"`

	mu        sync.RWMutex
	table     *quickdecode.Table
	buildTime time.Duration
	closed    bool
}

// Validate checks the family definition.
func (f *Family) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidFamily)
	}
	if err := codeword.ValidateDimension(f.Bits); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidFamily, f.Name, err)
	}
	if len(f.Codes) > quickdecode.MaxCodes {
		return fmt.Errorf("%w %q: %d codes, limit %d", ErrInvalidFamily, f.Name, len(f.Codes), quickdecode.MaxCodes)
	}

	mask := codeword.Mask(f.Bits)
	seen := roaring64.New()
	for i, c := range f.Codes {
		if c&^mask != 0 {
			return fmt.Errorf("%w %q: code %d (%s) does not fit a %dx%d grid",
				ErrInvalidFamily, f.Name, i, FormatCode(c), f.Bits, f.Bits)
		}
		if !seen.CheckedAdd(c) {
			return fmt.Errorf("%w %q: duplicate code %s at index %d", ErrInvalidFamily, f.Name, FormatCode(c), i)
		}
	}
	return nil
}

type initOptions struct {
	logger      *slog.Logger
	diagnostics bool
}

// Option configures Init.
type Option func(*initOptions)

// WithLogger sets the logger for build warnings and diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *initOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDiagnostics logs decode table run statistics after each build.
func WithDiagnostics(enabled bool) Option {
	return func(o *initOptions) {
		o.diagnostics = enabled
	}
}

// Init validates the family and builds its decode table.
func (f *Family) Init(maxHamming int, opts ...Option) error {
	o := initOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := f.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if f.table != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, f.Name)
	}

	logger := o.logger.With("family", f.Name)
	if maxHamming > 0 && f.MinHamming > 0 && uint32(2*maxHamming) >= f.MinHamming {
		logger.Warn("correction radius allows ambiguous decodes",
			"max_hamming", maxHamming,
			"min_hamming", f.MinHamming,
		)
	}

	start := time.Now()
	table, err := quickdecode.New(f.Codes, f.Bits, maxHamming,
		quickdecode.WithLogger(logger),
		quickdecode.WithDiagnostics(o.diagnostics),
	)
	if err != nil {
		return fmt.Errorf("failed to build decode table for %s: %w", f.Name, err)
	}

	f.table = table
	f.buildTime = time.Since(start)
	return nil
}

// BuildTime reports how long Init spent building the decode table.
func (f *Family) BuildTime() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.buildTime
}

// Initialized reports whether Init has built a table that is still held.
func (f *Family) Initialized() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.table != nil
}

// Decode identifies an observed codeword. A miss is reported as
// quickdecode.NoMatch with a nil error; errors only signal lifecycle misuse.
func (f *Family) Decode(code uint64) (quickdecode.Entry, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return quickdecode.NoMatch, ErrClosed
	}
	if f.table == nil {
		return quickdecode.NoMatch, ErrNotInitialized
	}
	return f.table.Decode(code), nil
}

// Stats returns the decode table statistics.
func (f *Family) Stats() (quickdecode.Stats, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.table == nil {
		return quickdecode.Stats{}, ErrNotInitialized
	}
	return f.table.Stats(), nil
}

// Table returns the decode table, or nil before Init and after Close.
func (f *Family) Table() *quickdecode.Table {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.table
}

// Close releases the decode table. Further calls are no-ops.
func (f *Family) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.table = nil
	f.closed = true
}
