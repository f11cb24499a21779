package read_test

import (
	"testing"

	"github.com/grailbio/adaptertrim/read"
	"github.com/stretchr/testify/assert"
)

func TestHeader(t *testing.T) {
	r := read.New([]byte("n"), nil, []byte("ACGT"), nil)
	assert.Equal(t, "n", string(r.Header()))
	r.Comment = []byte("c")
	assert.Equal(t, "n c", string(r.Header()))
}

func TestHasQualitiesAndLen(t *testing.T) {
	r := read.New([]byte("n"), nil, []byte("ACGT"), []byte("IIII"))
	assert.True(t, r.HasQualities())
	assert.Equal(t, 4, r.Len())

	r2 := read.New([]byte("n"), nil, []byte("ACGT"), nil)
	assert.False(t, r2.HasQualities())
}

func TestCloneIsIndependent(t *testing.T) {
	r := read.New([]byte("n"), []byte("c"), []byte("ACGT"), []byte("IIII"))
	r.SetTag("adapter_name", "polyA")
	c := r.Clone()
	c.Sequence[0] = 'T'
	c.SetTag("adapter_name", "polyG")
	assert.Equal(t, "ACGT", string(r.Sequence))
	assert.Equal(t, "polyA", r.Tag("adapter_name"))
	assert.Equal(t, "polyG", c.Tag("adapter_name"))
}

func TestPairClone(t *testing.T) {
	p := read.Pair{
		R1: read.New([]byte("n"), nil, []byte("ACGT"), []byte("IIII")),
		R2: read.New([]byte("n"), nil, []byte("TTTT"), []byte("IIII")),
	}
	c := p.Clone()
	c.R1.Sequence[0] = 'G'
	assert.Equal(t, "ACGT", string(p.R1.Sequence))
	assert.Equal(t, "GCGT", string(c.R1.Sequence))
}

func TestTagUnsetReturnsEmpty(t *testing.T) {
	r := read.New([]byte("n"), nil, []byte("ACGT"), nil)
	assert.Equal(t, "", r.Tag("adapter_name"))
}
