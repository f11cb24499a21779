package modify_test

import (
	"testing"

	"github.com/grailbio/adaptertrim/adapter"
	"github.com/grailbio/adaptertrim/align"
	"github.com/grailbio/adaptertrim/modify"
	"github.com/grailbio/adaptertrim/read"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRead(name, seq string) *read.Read {
	return read.New([]byte(name), nil, []byte(seq), nil)
}

func backCfg() align.Config {
	return align.Config{
		Placement:  align.Back,
		MaxErrors:  align.NewErrorRate(0.1),
		MinOverlap: 3,
	}
}

func TestCutterBothEnds(t *testing.T) {
	c, err := modify.NewCutter([]int{2, -3})
	require.NoError(t, err)
	r := newRead("r", "AACCCCGGG")
	out := c.Process(r)
	assert.Equal(t, "CCCC", string(out.Sequence))
}

func TestCutterRejectsSameSign(t *testing.T) {
	_, err := modify.NewCutter([]int{2, 3})
	assert.Error(t, err)
}

func TestQualityTrimmerTrimsLowQualityEnds(t *testing.T) {
	r := read.New([]byte("r"), nil, []byte("ACGTACGTAC"), []byte("!!!IIIIII!"))
	q := &modify.QualityTrimmer{CutoffFront: 20, CutoffBack: 20, QualBase: 33}
	out := q.Process(r)
	assert.True(t, out.Len() < r.Len())
}

func TestNextSeqQualityTrimmerTreatsGAsZero(t *testing.T) {
	r := read.New([]byte("r"), nil, []byte("ACGTGGGG"), []byte("IIIIIIII"))
	n := &modify.NextSeqQualityTrimmer{Cutoff: 20, QualBase: 33}
	out := n.Process(r)
	assert.Equal(t, "ACGT", string(out.Sequence))
}

func TestAdapterCutterTrimsBackAdapter(t *testing.T) {
	a := adapter.New("polyA", []byte("AAAAA"), backCfg(), adapter.Trim)
	set := adapter.NewSet([]*adapter.Adapter{a}, false)
	c := &modify.AdapterCutter{Set: set, Times: 1}
	r := newRead("r", "ACGTACGTAAAAA")
	out := c.Process(r)
	assert.Equal(t, "ACGTACGT", string(out.Sequence))
	assert.Equal(t, "polyA", out.Tag("adapter_name"))
}

func TestAdapterCutterNoMatchLeavesReadUnchanged(t *testing.T) {
	a := adapter.New("polyA", []byte("AAAAA"), backCfg(), adapter.Trim)
	set := adapter.NewSet([]*adapter.Adapter{a}, false)
	c := &modify.AdapterCutter{Set: set, Times: 1}
	r := newRead("r", "ACGTACGTACGT")
	out := c.Process(r)
	assert.Equal(t, r, out)
}

func TestPairedAdapterCutterRequiresBothMates(t *testing.T) {
	a1 := adapter.New("a1", []byte("AAAAA"), backCfg(), adapter.Trim)
	a2 := adapter.New("a2", []byte("TTTTT"), backCfg(), adapter.Trim)
	c := &modify.PairedAdapterCutter{R1: []*adapter.Adapter{a1}, R2: []*adapter.Adapter{a2}}

	r1 := newRead("r", "ACGTACGTAAAAA")
	r2 := newRead("r", "ACGTACGTACGTA")
	out1, out2 := c.ProcessPair(r1, r2)
	assert.Equal(t, r1, out1)
	assert.Equal(t, r2, out2)

	r2match := newRead("r", "ACGTACGTTTTTT")
	out1b, out2b := c.ProcessPair(r1, r2match)
	assert.Equal(t, "ACGTACGT", string(out1b.Sequence))
	assert.Equal(t, "ACGTACGT", string(out2b.Sequence))
}

func TestReverseComplementerFlipsWhenReverseIsBetter(t *testing.T) {
	a := adapter.New("adapt", []byte("GGGGG"), backCfg(), adapter.Trim)
	set := adapter.NewSet([]*adapter.Adapter{a}, false)
	rc := &modify.ReverseComplementer{Set: set}

	// Forward has no match; reverse complement ends in GGGGG.
	r := newRead("r", "CCCCCACGTACGT")
	out := rc.Process(r)
	assert.True(t, out.Tag("rc") == "true")
	assert.Contains(t, string(out.Name), "rc")
}

func TestReverseComplementerLeavesForwardWinnerAlone(t *testing.T) {
	a := adapter.New("adapt", []byte("GGGGG"), backCfg(), adapter.Trim)
	set := adapter.NewSet([]*adapter.Adapter{a}, false)
	rc := &modify.ReverseComplementer{Set: set}

	r := newRead("r", "ACGTACGTGGGGG")
	out := rc.Process(r)
	assert.Equal(t, r, out)
}

func TestNEndTrimmer(t *testing.T) {
	r := newRead("r", "NNACGTNN")
	out := (&modify.NEndTrimmer{}).Process(r)
	assert.Equal(t, "ACGT", string(out.Sequence))
}

func TestLengthShortener(t *testing.T) {
	r := newRead("r", "ACGTACGT")
	out := (&modify.LengthShortener{N: 3}).Process(r)
	assert.Equal(t, "ACGTA", string(out.Sequence))

	out2 := (&modify.LengthShortener{N: -3}).Process(r)
	assert.Equal(t, "TACGT", string(out2.Sequence))
}

func TestLengthTagRewriter(t *testing.T) {
	r := read.New([]byte("r"), []byte("length:20 extra"), []byte("ACGTACGT"), nil)
	out := (&modify.LengthTagRewriter{Tag: "length"}).Process(r)
	assert.Equal(t, "length:8 extra", string(out.Comment))
}

func TestSuffixStripper(t *testing.T) {
	r := newRead("r/1", "ACGT")
	out := (&modify.SuffixStripper{Suffixes: [][]byte{[]byte("/1"), []byte("/2")}}).Process(r)
	assert.Equal(t, "r", string(out.Name))
}

func TestPrefixSuffixAdder(t *testing.T) {
	r := newRead("r", "ACGT")
	r.SetTag("adapter_name", "polyA")
	out := (&modify.PrefixSuffixAdder{Prefix: "{name}:", Suffix: ":end"}).Process(r)
	assert.Equal(t, "polyA:r:end", string(out.Name))
}

func TestZeroCapper(t *testing.T) {
	r := read.New([]byte("r"), nil, []byte("ACGT"), []byte{20, 30, 40, 50})
	out := (&modify.ZeroCapper{QualBase: 33}).Process(r)
	for _, q := range out.Qualities {
		assert.True(t, q >= 33)
	}
}

func TestRenamerRejectsUnknownVariable(t *testing.T) {
	_, err := modify.NewRenamer("{bogus}")
	assert.Error(t, err)
}

func TestRenamerExpandsTemplate(t *testing.T) {
	rn, err := modify.NewRenamer("{id} adapter={adapter_name}")
	require.NoError(t, err)
	r := newRead("r1 extra", "ACGT")
	r.SetTag("adapter_name", "polyA")
	out := rn.Process(r)
	assert.Equal(t, "r1 adapter=polyA", string(out.Name))
}

func TestPairedRenamerExpandsPerSide(t *testing.T) {
	rn, err := modify.NewPairedRenamer("{id}_1={adapter_name_1} _2={adapter_name_2}")
	require.NoError(t, err)
	r1 := newRead("r1", "ACGT")
	r1.SetTag("adapter_name", "a1")
	r2 := newRead("r1", "TTTT")
	r2.SetTag("adapter_name", "a2")
	out1, out2 := rn.ProcessPair(r1, r2)
	assert.Equal(t, "r1_1=a1 _2=a2", string(out1.Name))
	assert.Equal(t, "r1_1=a1 _2=a2", string(out2.Name))
}
