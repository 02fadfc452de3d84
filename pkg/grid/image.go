package grid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrImageTooSmall is returned when an image has fewer pixels than cells.
var ErrImageTooSmall = errors.New("grid: image too small for cell layout")

// FromImage returns the 8-bit gray level of every pixel of img.
func FromImage(img image.Image) *Matrix {
	b := img.Bounds()
	m := New(b.Dy(), b.Dx())
	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < m.rows; y++ {
			row := g.Pix[y*g.Stride : y*g.Stride+m.cols]
			for x, v := range row {
				m.data[y*m.cols+x] = int(v)
			}
		}
		return m
	}
	for y := 0; y < m.rows; y++ {
		for x := 0; x < m.cols; x++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			m.data[y*m.cols+x] = int(c.Y)
		}
	}
	return m
}

// Sampler reads a codeword from a cropped, axis-aligned marker image. The
// image width is split into Cells square windows. A window is set when at
// least Fill of its pixels reach Threshold. Border windows on each side are
// dropped and the remaining (Cells-2*Border)² windows are packed with Value.
type Sampler struct {
	Cells     int
	Border    int
	Threshold int
	Fill      float64
}

// DataCells is the side length of the packed data grid.
func (s Sampler) DataCells() int {
	return s.Cells - 2*s.Border
}

// Sample returns the packed codeword and the reduced cell matrix.
func (s Sampler) Sample(m *Matrix) (uint64, *Matrix, error) {
	if s.Cells <= 0 || s.Border < 0 || s.DataCells() <= 0 {
		return 0, nil, fmt.Errorf("grid: invalid sampler %d cells, border %d", s.Cells, s.Border)
	}

	quad := m.cols / s.Cells
	if quad == 0 || m.rows/quad < s.Cells {
		return 0, nil, fmt.Errorf("%w: %dx%d for %d cells", ErrImageTooSmall, m.rows, m.cols, s.Cells)
	}

	count := int(float64(quad*quad) * s.Fill)
	if count == 0 {
		count = 1
	}

	cells := m.Reduce(quad, s.Threshold, count)
	last := s.Cells - s.Border - 1
	v, err := cells.Select(s.Border, last, s.Border, last).Value()
	if err != nil {
		return 0, cells, err
	}
	return v, cells, nil
}
