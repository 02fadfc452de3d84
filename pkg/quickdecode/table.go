package quickdecode

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/ssargent/tagdecode/pkg/codeword"
)

// Table is an immutable error-correcting decode table for one family.
type Table struct {
	slots      []slot
	entries    int
	d          uint32
	maxHamming int
}

// Capacity returns the upper bound on inserted words used to size a table.
// The pair and triple terms count ordered tuples, so the bound is loose.
func Capacity(ncodes, nbits, maxHamming int) int {
	c := capacity(uint64(ncodes), uint64(nbits), maxHamming)
	if c > math.MaxInt {
		return math.MaxInt
	}
	return int(c)
}

func capacity(ncodes, nbits uint64, maxHamming int) uint64 {
	c := ncodes
	if maxHamming >= 1 {
		c += ncodes * nbits
	}
	if maxHamming >= 2 {
		c += ncodes * nbits * (nbits - 1)
	}
	if maxHamming >= 3 {
		c += ncodes * nbits * (nbits - 1) * (nbits - 2)
	}
	return c
}

// New builds a decode table for codes, interpreted as d×d grids, correcting
// up to maxHamming bit errors. Radii above 3 are not supported; the table is
// built with radius 3 and a warning is logged.
//
// The allocation is sized up front. If it cannot be satisfied the Go runtime
// aborts the process; callers that need to degrade gracefully should check
// Capacity before calling New.
func New(codes []uint64, d uint32, maxHamming int, opts ...Option) (*Table, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := codeword.ValidateDimension(d); err != nil {
		return nil, err
	}
	if maxHamming < 0 {
		return nil, fmt.Errorf("%w: %d", ErrMaxHamming, maxHamming)
	}
	if len(codes) > MaxCodes {
		return nil, fmt.Errorf("%w: %d codes, limit %d", ErrTooManyCodes, len(codes), MaxCodes)
	}

	nbits := uint64(d) * uint64(d)
	c := capacity(uint64(len(codes)), nbits, maxHamming)
	if c > math.MaxInt/3 {
		return nil, fmt.Errorf("%w: capacity %d", ErrTableSize, c)
	}

	if maxHamming > MaxSupportedHamming {
		o.logger.Warn("max hamming beyond 3 not supported, building with 3",
			"requested", maxHamming,
			"supported", MaxSupportedHamming,
		)
	}

	t := &Table{
		slots:      make([]slot, 3*c),
		d:          d,
		maxHamming: min(maxHamming, MaxSupportedHamming),
	}

	n := int(nbits)
	for i, code := range codes {
		id := uint16(i)

		t.add(code, id, 0)

		if maxHamming >= 1 {
			for j := 0; j < n; j++ {
				t.add(code^(1<<j), id, 1)
			}
		}

		if maxHamming >= 2 {
			for j := 0; j < n; j++ {
				for k := 0; k < j; k++ {
					t.add(code^(1<<j)^(1<<k), id, 2)
				}
			}
		}

		if maxHamming >= 3 {
			for j := 0; j < n; j++ {
				for k := 0; k < j; k++ {
					for m := 0; m < k; m++ {
						t.add(code^(1<<j)^(1<<k)^(1<<m), id, 3)
					}
				}
			}
		}
	}

	o.logger.Debug("quick decode table built",
		"codes", len(codes),
		"bits", n,
		"max_hamming", t.maxHamming,
		"slots", len(t.slots),
		"entries", t.entries,
	)

	if o.diagnostics {
		s := t.Stats()
		o.logger.Debug("quick decode runs",
			"longest_run", s.LongestRun,
			"average_run", s.AverageRun,
			"load_factor", s.LoadFactor,
		)
	}

	return t, nil
}

// add inserts with linear probing. Duplicate keys are not detected.
func (t *Table) add(code uint64, id uint16, hamming uint8) {
	size := uint64(len(t.slots))
	bucket := code % size

	for t.slots[bucket].used {
		bucket = (bucket + 1) % size
	}

	t.slots[bucket] = slot{code: code, id: id, hamming: hamming, used: true}
	t.entries++
}

// Decode looks up code and its three further rotations, in that order, and
// returns the first stored match. It returns NoMatch if no rotation is found.
func (t *Table) Decode(code uint64) Entry {
	size := uint64(len(t.slots))
	if size == 0 {
		return NoMatch
	}

	for ridx := 0; ridx < 4; ridx++ {
		for bucket := code % size; t.slots[bucket].used; bucket = (bucket + 1) % size {
			s := t.slots[bucket]
			if s.code == code {
				return Entry{
					Code:     s.code,
					ID:       s.id,
					Hamming:  s.hamming,
					Rotation: uint8(ridx),
				}
			}
		}

		code = codeword.Rotate90(code, t.d)
	}

	return NoMatch
}

// Len returns the number of inserted words.
func (t *Table) Len() int {
	return t.entries
}

// Slots returns the number of slots in the table.
func (t *Table) Slots() int {
	return len(t.slots)
}

// Dimension returns the grid side length d.
func (t *Table) Dimension() uint32 {
	return t.d
}

// MaxHamming returns the correction radius the table was built with.
func (t *Table) MaxHamming() int {
	return t.maxHamming
}

// Stats walks the slots and reports occupancy runs.
func (t *Table) Stats() Stats {
	s := Stats{
		Slots:   len(t.slots),
		Entries: t.entries,
	}

	var run, runSum, runCount int
	for i := range t.slots {
		if !t.slots[i].used {
			if run > 0 {
				runSum += run
				runCount++
			}
			run = 0
			continue
		}
		run++
		s.LongestRun = max(s.LongestRun, run)
	}

	if runCount > 0 {
		s.AverageRun = float64(runSum) / float64(runCount)
	}
	if s.Slots > 0 {
		s.LoadFactor = float64(s.Entries) / float64(s.Slots)
	}
	return s
}
