package fastq_test

import (
	"bytes"
	"testing"

	"github.com/grailbio/adaptertrim/encoding/fastq"
	"github.com/grailbio/adaptertrim/read"
	"github.com/stretchr/testify/assert"
)

func TestWriter(t *testing.T) {
	s := fastq.NewScanner(bytes.NewReader([]byte(fq)))
	var b bytes.Buffer
	w := fastq.NewWriter(&b)
	for r := s.Scan(); r != nil; r = s.Scan() {
		assert.NoError(t, w.Write(r))
	}
	assert.NoError(t, s.Err())
	assert.Equal(t, fq, b.String())
}

func TestWriterRequiresQualities(t *testing.T) {
	w := fastq.NewWriter(&bytes.Buffer{})
	r := read.New([]byte("n"), nil, []byte("ACGT"), nil)
	assert.Equal(t, fastq.ErrNoQualities, w.Write(r))
}
