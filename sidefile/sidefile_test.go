package sidefile_test

import (
	"bytes"
	"testing"

	"github.com/grailbio/adaptertrim/adapter"
	"github.com/grailbio/adaptertrim/align"
	"github.com/grailbio/adaptertrim/modify"
	"github.com/grailbio/adaptertrim/read"
	"github.com/grailbio/adaptertrim/sidefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taggedRead() *read.Read {
	r := read.New([]byte("r1"), nil, []byte("ACGTAAAAA"), nil)
	r.SetTag("adapter_name", "polyA")
	r.SetTag("match_sequence", "AAAAA")
	r.SetTag("cut_prefix", "ACGT")
	r.SetTag("cut_suffix", "")
	r.SetTag("match_errors", "0")
	r.SetTag("match_rstart", "4")
	r.SetTag("match_rend", "9")
	return r
}

func TestWriteInfoWithMatch(t *testing.T) {
	var buf bytes.Buffer
	w := sidefile.NewWriter(&buf)
	w.WriteInfo(taggedRead())
	assert.NoError(t, w.Flush())
	assert.Equal(t, "r1\t0\t4\t9\tACGT\tAAAAA\t\tpolyA\t\t\t\n", buf.String())
}

func TestWriteInfoNoMatch(t *testing.T) {
	var buf bytes.Buffer
	w := sidefile.NewWriter(&buf)
	r := read.New([]byte("r2"), nil, []byte("ACGT"), nil)
	w.WriteInfo(r)
	assert.NoError(t, w.Flush())
	assert.Equal(t, "r2\t-1\t\t\t\t\t\t\t\t\t\n", buf.String())
}

func TestWriteRestOnlyForSuffixMatch(t *testing.T) {
	cfg := align.Config{Placement: align.Back, MaxErrors: align.NewErrorRate(0.1), MinOverlap: 3}
	set := adapter.NewSet([]*adapter.Adapter{
		adapter.New("polyA", []byte("AGATCGGAAGAGC"), cfg, adapter.Trim),
	}, false)
	cutter := &modify.AdapterCutter{Set: set, Times: 1, Side: "R1"}

	r3 := read.New([]byte("r3"), nil, []byte("ACGTACGTAGATCGGAAGAGC"), nil)
	out3 := cutter.Process(r3)
	require.Equal(t, "ACGTACGT", string(out3.Sequence))

	r4 := read.New([]byte("r4"), nil, []byte("TTTTTTTTTTTTTTTTTTTT"), nil)
	out4 := cutter.Process(r4)

	var buf bytes.Buffer
	w := sidefile.NewWriter(&buf)
	w.WriteRest(out3)
	w.WriteRest(out4)
	assert.NoError(t, w.Flush())
	assert.Equal(t, "AGATCGGAAGAGC r3\n", buf.String())
}

func TestWriteRestOmitsFrontMatch(t *testing.T) {
	cfg := align.Config{Placement: align.Front, MaxErrors: align.NewErrorRate(0.1), MinOverlap: 3}
	set := adapter.NewSet([]*adapter.Adapter{
		adapter.New("5prime", []byte("AGATCGGAAGAGC"), cfg, adapter.Trim),
	}, false)
	cutter := &modify.AdapterCutter{Set: set, Times: 1, Side: "R1"}

	r := read.New([]byte("r5"), nil, []byte("AGATCGGAAGAGCACGTACGT"), nil)
	out := cutter.Process(r)
	require.Equal(t, "ACGTACGT", string(out.Sequence))

	var buf bytes.Buffer
	w := sidefile.NewWriter(&buf)
	w.WriteRest(out)
	assert.NoError(t, w.Flush())
	assert.Equal(t, "", buf.String())
}

func TestWriteWildcard(t *testing.T) {
	var buf bytes.Buffer
	w := sidefile.NewWriter(&buf)
	r := read.New([]byte("r5"), nil, []byte("ACGT"), nil)
	r.SetTag("wildcard_bases", "GT")
	w.WriteWildcard(r)
	assert.NoError(t, w.Flush())
	assert.Equal(t, "GT r5\n", buf.String())
}
