// Package quickdecode implements the error-correcting lookup table used to
// identify marker codewords.
//
// A Table is built once per marker family. Every reference codeword is
// inserted together with every word reachable from it by flipping up to
// maxHamming bits (at most 3). Lookups then try all four quarter-turn
// rotations of the observed word against the table.
//
// # Table Layout
//
// The table is a fixed-size open-addressing hash table with linear probing.
// The slot count is three times a deliberately loose upper bound on the number
// of inserted words, so the table never grows and probe runs stay short:
//
//	capacity = ncodes
//	         + ncodes*nbits                       (maxHamming >= 1)
//	         + ncodes*nbits*(nbits-1)             (maxHamming >= 2)
//	         + ncodes*nbits*(nbits-1)*(nbits-2)   (maxHamming >= 3)
//	slots    = 3 * capacity
//
// Insertion never checks for an existing key. When two reference codewords
// claim the same corrupted word, the one inserted first wins every lookup.
// Families whose minimum Hamming distance h satisfies 2*maxHamming < h never
// hit this case.
//
// # Rotations
//
// Decode probes for the observed word, then for Rotate90 of it, and so on.
// The Rotation field of a hit is the number of quarter turns applied to the
// observation to reach the stored word, so an observation of
// codeword.Rotate(c, d, k) reports rotation (4-k) mod 4.
//
// # Thread Safety
//
// A Table is immutable once New returns and safe for concurrent Decode calls.
package quickdecode
