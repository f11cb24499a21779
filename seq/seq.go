// Package seq provides sequence primitives shared by the aligner, adapter,
// and modifier packages: IUPAC wildcard matching, reverse-complementing, and
// quality-score arithmetic.
package seq

import (
	"math"

	"github.com/grailbio/adaptertrim/biosimd"
)

// iupac maps an IUPAC nucleotide code to the bitset of unambiguous bases
// (A=1, C=2, G=4, T=8) it can stand for. Bytes not in this table (including
// lowercase) are normalized by upper() before lookup.
var iupac = map[byte]uint8{
	'A': 1,
	'C': 2,
	'G': 4,
	'T': 8,
	'U': 8,
	'R': 1 | 4,
	'Y': 2 | 8,
	'S': 2 | 4,
	'W': 1 | 8,
	'K': 4 | 8,
	'M': 1 | 2,
	'B': 2 | 4 | 8,
	'D': 1 | 4 | 8,
	'H': 1 | 2 | 8,
	'V': 1 | 2 | 4,
	'N': 1 | 2 | 4 | 8,
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func expand(b byte) uint8 {
	if bits, ok := iupac[upper(b)]; ok {
		return bits
	}
	return 0
}

// Matches reports whether read base r and adapter base a should be treated
// as equal, honoring IUPAC wildcard expansion on whichever side(s) the
// caller enables. With both wildcard flags false this is a plain
// case-insensitive byte comparison.
func Matches(r, a byte, readWildcards, adapterWildcards bool) bool {
	if upper(r) == upper(a) {
		return true
	}
	if !readWildcards && !adapterWildcards {
		return false
	}
	rBits, aBits := expand(r), expand(a)
	if rBits == 0 || aBits == 0 {
		return false
	}
	if !readWildcards {
		// Only the adapter side may expand: a literal read base must be one
		// of the bases the adapter code covers.
		return rBits&aBits == rBits && isLiteral(r)
	}
	if !adapterWildcards {
		return aBits&rBits == aBits && isLiteral(a)
	}
	return rBits&aBits != 0
}

func isLiteral(b byte) bool {
	switch upper(b) {
	case 'A', 'C', 'G', 'T', 'U':
		return true
	}
	return false
}

// ReverseComplement returns the reverse complement of s as a new slice.
func ReverseComplement(s []byte) []byte {
	dst := make([]byte, len(s))
	biosimd.ReverseComp8NoValidate(dst, s)
	return dst
}

// ReverseComplementInplace reverse-complements s in place.
func ReverseComplementInplace(s []byte) {
	biosimd.ReverseComp8InplaceNoValidate(s)
}

// ReverseInplace reverses q in place with no complementing; used to keep a
// quality string aligned with a reverse-complemented sequence.
func ReverseInplace(q []byte) {
	biosimd.Reverse8Inplace(q)
}

// ExpectedErrors returns the expected number of sequencing errors implied by
// a Phred quality string: sum(10^(-q/10)) over each base, where q is the
// quality value with qualBase (33 or 64) already subtracted.
func ExpectedErrors(qualities []byte, qualBase byte) float64 {
	var sum float64
	for _, q := range qualities {
		phred := float64(int(q) - int(qualBase))
		sum += math.Pow(10, -phred/10)
	}
	return sum
}

// CountN returns the number of 'N' or 'n' bases in s.
func CountN(s []byte) int {
	n := 0
	for _, b := range s {
		if b == 'N' || b == 'n' {
			n++
		}
	}
	return n
}
