package fastq_test

import (
	"bytes"
	"testing"

	"github.com/grailbio/adaptertrim/encoding/fastq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fq = `@NB500956:89:HW2FHBGX2:1:11101:25648:1069 1:N:0:ATCACG
ATACAGGCCTGANCCACTGTGCCCAGN
+
AAAAAEEEEEEE#EEAEEEEEEEEEE#
@NB500956:89:HW2FHBGX2:1:11101:13871:1070 1:N:0:ATCACG
CTCAACTCTGAGNCAGACAGAAATACN
+
AAAAAEEEEEEE#EEEEEEEEEEEEE#
`

func TestScan(t *testing.T) {
	s := fastq.NewScanner(bytes.NewReader([]byte(fq)))
	r := s.Scan()
	require.NotNil(t, r)
	assert.Equal(t, "NB500956:89:HW2FHBGX2:1:11101:25648:1069", string(r.Name))
	assert.Equal(t, "1:N:0:ATCACG", string(r.Comment))
	assert.Equal(t, "ATACAGGCCTGANCCACTGTGCCCAGN", string(r.Sequence))
	assert.Equal(t, "AAAAAEEEEEEE#EEAEEEEEEEEEE#", string(r.Qualities))

	n := 1
	for s.Scan() != nil {
		n++
	}
	assert.NoError(t, s.Err())
	assert.Equal(t, 2, n)
}

func TestScanInvalid(t *testing.T) {
	s := fastq.NewScanner(bytes.NewReader([]byte("not a fastq record\n")))
	assert.Nil(t, s.Scan())
	assert.Equal(t, fastq.ErrInvalid, s.Err())
}

func TestScanShort(t *testing.T) {
	s := fastq.NewScanner(bytes.NewReader([]byte("@only-a-name\n")))
	assert.Nil(t, s.Scan())
	assert.Equal(t, fastq.ErrShort, s.Err())
}

func TestPairScanner(t *testing.T) {
	r1 := "@p\nACGT\n+\nIIII\n"
	r2 := "@p\nTTTT\n+\nIIII\n"
	s := fastq.NewPairScanner(bytes.NewReader([]byte(r1)), bytes.NewReader([]byte(r2)))
	p := s.Scan()
	require.NotNil(t, p.R1)
	require.NotNil(t, p.R2)
	assert.Equal(t, "ACGT", string(p.R1.Sequence))
	assert.Equal(t, "TTTT", string(p.R2.Sequence))
	assert.NoError(t, s.Err())
}

func TestPairScannerDiscordant(t *testing.T) {
	r1 := "@p\nACGT\n+\nIIII\n@q\nACGT\n+\nIIII\n"
	r2 := "@p\nTTTT\n+\nIIII\n"
	s := fastq.NewPairScanner(bytes.NewReader([]byte(r1)), bytes.NewReader([]byte(r2)))
	s.Scan()
	s.Scan()
	assert.Equal(t, fastq.ErrDiscordant, s.Err())
}

func TestInterleavedScanner(t *testing.T) {
	data := "@p/1\nACGT\n+\nIIII\n@p/2\nTTTT\n+\nIIII\n"
	s := fastq.NewInterleavedScanner(bytes.NewReader([]byte(data)))
	p := s.Scan()
	require.NotNil(t, p.R1)
	require.NotNil(t, p.R2)
	assert.Equal(t, "ACGT", string(p.R1.Sequence))
	assert.Equal(t, "TTTT", string(p.R2.Sequence))
}
