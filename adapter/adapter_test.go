package adapter_test

import (
	"strings"
	"testing"

	"github.com/grailbio/adaptertrim/adapter"
	"github.com/grailbio/adaptertrim/align"
	"github.com/grailbio/adaptertrim/read"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backCfg() align.Config {
	return align.Config{Placement: align.Back, MaxErrors: align.NewErrorRate(0.1), MinOverlap: 3}
}

func TestApplyTrimBack(t *testing.T) {
	a := adapter.New("polyA", []byte("AGATCGGAAGAGC"), backCfg(), adapter.Trim)
	r := read.New([]byte("r1"), nil, []byte("ACGTACGTAGATCGGAAGAGC"), []byte("IIIIIIIIIIIIIIIIIIIII"))
	out, m, ok := a.Apply(r)
	require.True(t, ok)
	assert.Equal(t, "ACGTACGT", string(out.Sequence))
	assert.Equal(t, len(out.Sequence), len(out.Qualities))
	assert.Equal(t, 1, a.Stats().Matches)
	assert.Equal(t, len("AGATCGGAAGAGC"), m.AdapterLength())
}

func TestApplyRetain(t *testing.T) {
	a := adapter.New("polyA", []byte("AGATCGGAAGAGC"), backCfg(), adapter.Retain)
	r := read.New([]byte("r1"), nil, []byte("ACGTACGTAGATCGGAAGAGC"), nil)
	out, _, ok := a.Apply(r)
	require.True(t, ok)
	assert.Equal(t, "AGATCGGAAGAGC", string(out.Sequence))
}

func TestApplyMask(t *testing.T) {
	a := adapter.New("polyA", []byte("AGATCGGAAGAGC"), backCfg(), adapter.Mask)
	r := read.New([]byte("r1"), nil, []byte("ACGTACGTAGATCGGAAGAGC"), nil)
	out, _, ok := a.Apply(r)
	require.True(t, ok)
	assert.Equal(t, len(r.Sequence), len(out.Sequence))
	assert.True(t, strings.HasSuffix(string(out.Sequence), strings.Repeat("N", len("AGATCGGAAGAGC"))))
}

func TestApplyNone(t *testing.T) {
	a := adapter.New("polyA", []byte("AGATCGGAAGAGC"), backCfg(), adapter.None)
	r := read.New([]byte("r1"), nil, []byte("ACGTACGTAGATCGGAAGAGC"), nil)
	out, _, ok := a.Apply(r)
	require.True(t, ok)
	assert.Equal(t, string(r.Sequence), string(out.Sequence))
	assert.Equal(t, 1, a.Stats().Matches)
}

func TestApplyNoMatchLeavesReadAlone(t *testing.T) {
	a := adapter.New("polyA", []byte("AGATCGGAAGAGC"), backCfg(), adapter.Trim)
	r := read.New([]byte("r1"), nil, []byte("TTTTTTTTTTTTTTTTTTTT"), nil)
	out, _, ok := a.Apply(r)
	assert.False(t, ok)
	assert.Equal(t, string(r.Sequence), string(out.Sequence))
	assert.Equal(t, 0, a.Stats().Matches)
}

func TestStatsMonoidIdentity(t *testing.T) {
	var zero adapter.Stats
	s := adapter.Stats{Matches: 3, WildcardBases: 1}
	assert.Equal(t, s.Add(zero), zero.Add(s))
}

func TestSetBestPrefersLongerMatch(t *testing.T) {
	a1 := adapter.New("short", []byte("AGAT"), backCfg(), adapter.Trim)
	a2 := adapter.New("long", []byte("AGATCGGAAGAGC"), backCfg(), adapter.Trim)
	set := adapter.NewSet([]*adapter.Adapter{a1, a2}, false)
	best, m, ok := set.Best([]byte("ACGTACGTAGATCGGAAGAGC"))
	require.True(t, ok)
	assert.Equal(t, "long", best.Name)
	assert.Equal(t, 13, m.AdapterLength())
}

func TestSetIndexEquivalentToBruteForce(t *testing.T) {
	cfg := align.Config{Placement: align.Front, Anchored: true, MaxErrors: align.NewErrorRate(0.1), MinOverlap: 5}
	a1 := adapter.New("one", []byte("AAAACGTACGT"), cfg, adapter.Trim)
	a2 := adapter.New("two", []byte("TTTTCGTACGT"), cfg, adapter.Trim)
	brute := adapter.NewSet([]*adapter.Adapter{a1, a2}, false)
	indexed := adapter.NewSet([]*adapter.Adapter{a1, a2}, true)

	read1 := []byte("AAAACGTACGTGGGGGGGG")
	b1, bm1, bok1 := brute.Best(read1)
	i1, im1, iok1 := indexed.Best(read1)
	require.Equal(t, bok1, iok1)
	assert.Equal(t, b1.Name, i1.Name)
	assert.Equal(t, bm1, im1)
}
