// Package grid is a small integer matrix used to turn a sampled marker image
// into a packed codeword.
//
// Data is stored in row-major order (index = row*cols + col). Out of range
// access panics: it indicates a caller bug, not a runtime condition.
package grid

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrTooManyCells is returned when a matrix has more cells than a uint64 holds.
var ErrTooManyCells = errors.New("grid: more than 64 cells")

// Matrix is a rows×cols matrix of ints.
type Matrix struct {
	rows, cols int
	data       []int
}

// New returns a zeroed rows×cols matrix.
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("grid: negative size %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]int, rows*cols)}
}

// FromBytes returns a matrix initialised from row-major bytes, such as an
// 8-bit grayscale image. data must hold at least rows*cols bytes.
func FromBytes(rows, cols int, data []byte) *Matrix {
	m := New(rows, cols)
	if len(data) < rows*cols {
		panic(fmt.Sprintf("grid: %d bytes for %dx%d matrix", len(data), rows, cols))
	}
	for i := range m.data {
		m.data[i] = int(data[i])
	}
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("grid: index (%d,%d) out of range %dx%d", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

// Get returns the value at row, col.
func (m *Matrix) Get(row, col int) int {
	return m.data[m.index(row, col)]
}

// Put sets the value at row, col.
func (m *Matrix) Put(row, col, v int) {
	m.data[m.index(row, col)] = v
}

// Select copies rows r0..r1 and columns c0..c1, both inclusive.
func (m *Matrix) Select(r0, r1, c0, c1 int) *Matrix {
	if r1 < r0 || c1 < c0 {
		panic(fmt.Sprintf("grid: empty selection rows %d..%d cols %d..%d", r0, r1, c0, c1))
	}
	// Check both corners so the copy below cannot go out of range.
	m.index(r0, c0)
	m.index(r1, c1)

	out := New(r1-r0+1, c1-c0+1)
	for r := r0; r <= r1; r++ {
		copy(out.data[(r-r0)*out.cols:(r-r0+1)*out.cols], m.data[r*m.cols+c0:r*m.cols+c1+1])
	}
	return out
}

// Max returns the largest value, or 0 for an empty matrix.
func (m *Matrix) Max() int {
	if len(m.data) == 0 {
		return 0
	}
	best := m.data[0]
	for _, v := range m.data[1:] {
		best = max(best, v)
	}
	return best
}

// Nonzero counts the non-zero cells.
func (m *Matrix) Nonzero() int {
	n := 0
	for _, v := range m.data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Reduce splits m into dim×dim windows and counts, per window, the cells
// whose value is at least thresh. A window becomes 1 when its count is at
// least num and 0 otherwise. Partial windows at the right and bottom edges
// are dropped.
func (m *Matrix) Reduce(dim, thresh, num int) *Matrix {
	if dim <= 0 {
		panic(fmt.Sprintf("grid: window size %d", dim))
	}

	out := New(m.rows/dim, m.cols/dim)
	for x := 0; x < out.rows*dim; x++ {
		for y := 0; y < out.cols*dim; y++ {
			if m.data[x*m.cols+y] >= thresh {
				out.data[(x/dim)*out.cols+y/dim]++
			}
		}
	}

	for i, v := range out.data {
		if v >= num {
			out.data[i] = 1
		} else {
			out.data[i] = 0
		}
	}
	return out
}

// Value packs the cells in row-major order, first cell in the most
// significant position. A cell equal to 1 sets its bit.
func (m *Matrix) Value() (uint64, error) {
	if len(m.data) > 64 {
		return 0, fmt.Errorf("%w: %dx%d", ErrTooManyCells, m.rows, m.cols)
	}
	var v uint64
	for _, c := range m.data {
		v <<= 1
		if c == 1 {
			v |= 1
		}
	}
	return v, nil
}

// ReduceValue is Reduce followed by Value.
func (m *Matrix) ReduceValue(dim, thresh, num int) (uint64, error) {
	return m.Reduce(dim, thresh, num).Value()
}

// Print writes the matrix one row per line using format for every cell.
func (m *Matrix) Print(w io.Writer, format string) error {
	var sb strings.Builder
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			fmt.Fprintf(&sb, format, m.data[r*m.cols+c])
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
