package family

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/ssargent/tagdecode/pkg/codeword"
)

// ErrGenerate is returned when Generate cannot find enough codewords.
var ErrGenerate = errors.New("family generation exhausted")

// GenerateConfig controls Generate.
type GenerateConfig struct {
	Name        string
	Bits        uint32
	MinHamming  uint32
	Count       int
	Seed        int64
	MaxAttempts int // 0 means 1_000_000
}

// Generate draws random candidates and keeps those at least MinHamming bits
// away from every rotation of every kept codeword and from their own
// rotations. The result depends only on the config.
func Generate(cfg GenerateConfig) (*Family, error) {
	if err := codeword.ValidateDimension(cfg.Bits); err != nil {
		return nil, err
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1_000_000
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	mask := codeword.Mask(cfg.Bits)
	h := int(cfg.MinHamming)
	codes := make(Codes, 0, cfg.Count)

	for i := 0; i < attempts && len(codes) < cfg.Count; i++ {
		cand := rng.Uint64() & mask
		if farFromAll(cand, codes, cfg.Bits, h) {
			codes = append(codes, cand)
		}
	}

	if len(codes) < cfg.Count {
		return nil, fmt.Errorf("%w: found %d of %d codes with distance %d after %d attempts",
			ErrGenerate, len(codes), cfg.Count, h, attempts)
	}

	return &Family{
		Name:        cfg.Name,
		Bits:        cfg.Bits,
		MinHamming:  cfg.MinHamming,
		BlackBorder: 1,
		Codes:       codes,
	}, nil
}

func farFromAll(cand uint64, codes Codes, d uint32, h int) bool {
	for k := 1; k < 4; k++ {
		if codeword.Hamming(cand, codeword.Rotate(cand, d, k)) < h {
			return false
		}
	}
	for _, c := range codes {
		if codeword.MinRotatedHamming(c, cand, d) < h {
			return false
		}
	}
	return true
}
