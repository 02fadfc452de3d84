package quickdecode

import (
	"math/rand"
	"testing"

	"github.com/ssargent/tagdecode/pkg/codeword"
)

// generateFamily returns n codewords whose rotations are pairwise at least
// minDist bits apart, including the rotations of each codeword against
// itself. Generation is deterministic for a given seed.
func generateFamily(t *testing.T, d uint32, minDist, n int, seed int64) []uint64 {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	mask := codeword.Mask(d)
	codes := make([]uint64, 0, n)

	for attempts := 0; len(codes) < n; attempts++ {
		if attempts > 1_000_000 {
			t.Fatalf("could not generate %d codes with distance %d", n, minDist)
		}
		cand := rng.Uint64() & mask
		if acceptable(cand, codes, d, minDist) {
			codes = append(codes, cand)
		}
	}
	return codes
}

func acceptable(cand uint64, codes []uint64, d uint32, minDist int) bool {
	for k := 1; k < 4; k++ {
		if codeword.Hamming(cand, codeword.Rotate(cand, d, k)) < minDist {
			return false
		}
	}
	for _, c := range codes {
		if codeword.MinRotatedHamming(c, cand, d) < minDist {
			return false
		}
	}
	return true
}

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	r := 1
	for i := 0; i < k; i++ {
		r = r * (n - i) / (i + 1)
	}
	return r
}
