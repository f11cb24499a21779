package seq_test

import (
	"testing"

	"github.com/grailbio/adaptertrim/seq"
	"github.com/stretchr/testify/assert"
)

func TestMatchesLiteral(t *testing.T) {
	assert.True(t, seq.Matches('A', 'A', false, false))
	assert.True(t, seq.Matches('a', 'A', false, false))
	assert.False(t, seq.Matches('A', 'C', false, false))
}

func TestMatchesAdapterWildcard(t *testing.T) {
	// Adapter 'N' covers any read base.
	assert.True(t, seq.Matches('A', 'N', false, true))
	assert.True(t, seq.Matches('G', 'N', false, true))
	assert.False(t, seq.Matches('A', 'N', false, false))
}

func TestMatchesReadWildcard(t *testing.T) {
	assert.True(t, seq.Matches('N', 'A', true, false))
	assert.False(t, seq.Matches('N', 'A', false, false))
}

func TestMatchesBothWildcards(t *testing.T) {
	// R = A or G, Y = C or T; no overlap.
	assert.False(t, seq.Matches('R', 'Y', true, true))
	assert.True(t, seq.Matches('R', 'A', true, true))
}

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "ACGT", string(seq.ReverseComplement([]byte("ACGT"))))
	assert.Equal(t, "TGTAATC", string(seq.ReverseComplement([]byte("GATTACA"))))
}

func TestExpectedErrors(t *testing.T) {
	// Q40 quality, ASCII 'I' = 73, base 33 -> phred 40 -> 10^-4 per base.
	ee := seq.ExpectedErrors([]byte("IIII"), 33)
	assert.InDelta(t, 4*1e-4, ee, 1e-9)
}

func TestCountN(t *testing.T) {
	assert.Equal(t, 2, seq.CountN([]byte("ACNGTn")))
}
