package codeword

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotate90_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		w    uint64
		d    uint32
		want uint64
	}{
		{"2x2 first turn", 0b1010, 2, 0b1100},
		{"2x2 second turn", 0b1100, 2, 0b0101},
		{"2x2 third turn", 0b0101, 2, 0b0011},
		{"2x2 fourth turn", 0b0011, 2, 0b1010},
		{"3x3 corner bit", 0b000000001, 3, 0b000000100},
		{"3x3 centre is fixed", 0b000010000, 3, 0b000010000},
		{"1x1 identity", 1, 1, 1},
		{"empty grid", 0, 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rotate90(tt.w, tt.d))
		})
	}
}

func TestRotate90_GroupOfOrderFour(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for d := uint32(1); d <= 8; d++ {
		mask := Mask(d)
		for i := 0; i < 200; i++ {
			w := rng.Uint64() & mask

			r1 := Rotate90(w, d)
			r2 := Rotate90(r1, d)
			r4 := Rotate90(Rotate90(r2, d), d)

			require.Equal(t, w, r4, "d=%d w=%#x", d, w)
			assert.Equal(t, r2, Rotate(w, d, 2))
			assert.Zero(t, r1&^mask, "rotation leaked bits outside the grid")
		}
	}
}

func TestRotate90_HalfTurnIsNotIdentity(t *testing.T) {
	for d := uint32(2); d <= 8; d++ {
		// A single corner bit always moves to the opposite corner.
		w := uint64(1)
		half := Rotate(w, d, 2)

		assert.NotEqual(t, w, half, "d=%d", d)
		assert.Equal(t, w, Rotate(half, d, 2), "d=%d", d)
		assert.Equal(t, uint64(1)<<(d*d-1), half, "d=%d", d)
	}
}

func TestRotate_NegativeAndLargeTurns(t *testing.T) {
	w := uint64(0b1010)
	assert.Equal(t, Rotate(w, 2, 3), Rotate(w, 2, -1))
	assert.Equal(t, w, Rotate(w, 2, 8))
	assert.Equal(t, Rotate90(w, 2), Rotate(w, 2, 5))
}

func TestHamming(t *testing.T) {
	assert.Equal(t, 0, Hamming(0xdead, 0xdead))
	assert.Equal(t, 1, Hamming(0b1010, 0b1011))
	assert.Equal(t, 64, Hamming(0, ^uint64(0)))
}

func TestMask(t *testing.T) {
	assert.Equal(t, uint64(0xf), Mask(2))
	assert.Equal(t, uint64(0x1ffffff), Mask(5))
	assert.Equal(t, ^uint64(0), Mask(8))
}

func TestMinRotatedHamming(t *testing.T) {
	// 0b0101 is the half turn of 0b1010.
	assert.Equal(t, 0, MinRotatedHamming(0b0101, 0b1010, 2))
	assert.Equal(t, 2, MinRotatedHamming(0b0000, 0b1010, 2))
	assert.Equal(t, 2, MinRotatedHamming(0b1111, 0b1010, 2))
}

func TestValidateDimension(t *testing.T) {
	assert.NoError(t, ValidateDimension(1))
	assert.NoError(t, ValidateDimension(8))
	assert.ErrorIs(t, ValidateDimension(0), ErrDimension)
	assert.ErrorIs(t, ValidateDimension(9), ErrDimension)
}
