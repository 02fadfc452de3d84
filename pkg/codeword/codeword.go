// Package codeword provides bit-level helpers for square marker codewords.
//
// A codeword packs a d×d grid of bits into a uint64 in row-major order with
// the top-left cell in the most significant used bit. For d = 3:
//
//	8 7 6
//	5 4 3
//	2 1 0
package codeword

import (
	"errors"
	"fmt"
	"math/bits"
)

// MaxBits is the largest grid (d*d) a codeword can hold.
const MaxBits = 64

// ErrDimension is returned when d*d does not fit a uint64.
var ErrDimension = errors.New("codeword: grid dimension out of range")

// ValidateDimension checks that a d×d grid fits in a codeword.
func ValidateDimension(d uint32) error {
	if d == 0 || uint64(d)*uint64(d) > MaxBits {
		return fmt.Errorf("%w: d=%d", ErrDimension, d)
	}
	return nil
}

// Rotate90 returns the codeword for the d×d grid of w rotated by a quarter
// turn. Applying it twice rotates by 180°, four times returns w.
//
//	8 7 6       2 5 8      0 1 2
//	5 4 3  ==>  1 4 7 ==>  3 4 5
//	2 1 0       0 3 6      6 7 8
func Rotate90(w uint64, d uint32) uint64 {
	var wr uint64
	n := int(d)

	for r := n - 1; r >= 0; r-- {
		for c := 0; c < n; c++ {
			b := r + n*c

			wr <<= 1
			if w&(uint64(1)<<uint(b)) != 0 {
				wr |= 1
			}
		}
	}

	return wr
}

// Rotate applies Rotate90 k times. k is taken modulo 4.
func Rotate(w uint64, d uint32, k int) uint64 {
	k %= 4
	if k < 0 {
		k += 4
	}
	for i := 0; i < k; i++ {
		w = Rotate90(w, d)
	}
	return w
}

// Hamming returns the number of bit positions where a and b differ.
func Hamming(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Mask returns a word with the low d*d bits set.
func Mask(d uint32) uint64 {
	n := uint64(d) * uint64(d)
	if n >= MaxBits {
		return ^uint64(0)
	}
	return uint64(1)<<n - 1
}

// MinRotatedHamming returns the smallest Hamming distance between a and any
// of the four rotations of b.
func MinRotatedHamming(a, b uint64, d uint32) int {
	best := MaxBits + 1
	for k := 0; k < 4; k++ {
		if h := Hamming(a, b); h < best {
			best = h
		}
		b = Rotate90(b, d)
	}
	return best
}
