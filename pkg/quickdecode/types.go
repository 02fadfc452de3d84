package quickdecode

import (
	"errors"
	"log/slog"
)

// MaxSupportedHamming is the deepest correction radius the table builds.
const MaxSupportedHamming = 3

// MaxCodes is the largest family the table accepts. ID 65535 is reserved.
const MaxCodes = 65534

// NoMatchID is the ID reported when no rotation of a word is in the table.
const NoMatchID uint16 = 65535

// NoMatchHamming is the Hamming value reported together with NoMatchID.
const NoMatchHamming uint8 = 255

// Entry is the result of a lookup.
type Entry struct {
	Code     uint64 `json:"code"`     // stored word that matched
	ID       uint16 `json:"id"`       // index of the reference codeword
	Hamming  uint8  `json:"hamming"`  // bit errors corrected
	Rotation uint8  `json:"rotation"` // quarter turns applied, 0..3
}

// NoMatch is returned by Decode when nothing matches.
var NoMatch = Entry{Code: 0, ID: NoMatchID, Hamming: NoMatchHamming, Rotation: 0}

// Found reports whether e identifies a reference codeword.
func (e Entry) Found() bool {
	return e.ID != NoMatchID
}

// slot is an optional entry; used == false marks an empty slot, so every
// uint64 including all-ones is a valid key. Rotation is not stored since it
// is only known at lookup time.
type slot struct {
	code    uint64
	id      uint16
	hamming uint8
	used    bool
}

// Stats describes slot occupancy. Runs are maximal stretches of occupied
// slots; a run that wraps around the end of the table is not counted.
type Stats struct {
	Slots      int     `json:"slots"`
	Entries    int     `json:"entries"`
	LongestRun int     `json:"longest_run"`
	AverageRun float64 `json:"average_run"`
	LoadFactor float64 `json:"load_factor"`
}

// Errors
var (
	ErrMaxHamming   = errors.New("quickdecode: negative max hamming")
	ErrTooManyCodes = errors.New("quickdecode: too many codes")
	ErrTableSize    = errors.New("quickdecode: table size overflows")
)

type options struct {
	logger      *slog.Logger
	diagnostics bool
}

// Option configures table construction.
type Option func(*options)

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDiagnostics logs slot run statistics after the build.
func WithDiagnostics(enabled bool) Option {
	return func(o *options) {
		o.diagnostics = enabled
	}
}
