// Package simhash fingerprints pages so that near-duplicate content or
// markup can be spotted across the compared URLs.
package simhash

import (
	"hash/fnv"
	"math"
	"math/bits"
	"strings"
)

// Bits is the fingerprint width.
const Bits = 64

// Fingerprint computes a 64-bit SimHash of the lower-cased words of text.
func Fingerprint(text string) uint64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}
	return fold(words)
}

// fold accumulates the FNV-64a hash of every token into a bit vector and
// keeps the bits set by a majority of tokens.
func fold(tokens []string) uint64 {
	var vector [Bits]int
	h := fnv.New64a()
	for _, tok := range tokens {
		h.Reset()
		h.Write([]byte(tok))
		sum := h.Sum64()
		for i := 0; i < Bits; i++ {
			if sum&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fp uint64
	for i := 0; i < Bits; i++ {
		if vector[i] > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar reports whether a and b are within threshold bits of each other.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

// Similarity maps a distance onto [0, 1], rounded to two decimals.
func Similarity(distance int) float64 {
	return math.Round((1-float64(distance)/Bits)*100) / 100
}
