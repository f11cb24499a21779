package ioutil_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/grailbio/adaptertrim/ioutil"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripPlain(t *testing.T) {
	roundTrip(t, "reads.fastq", "@a\nACGT\n+\nIIII\n")
}

func TestRoundTripGzip(t *testing.T) {
	roundTrip(t, "reads.fastq.gz", "@a\nACGT\n+\nIIII\n")
}

func TestRoundTripXz(t *testing.T) {
	roundTrip(t, "reads.fastq.xz", "@a\nACGT\n+\nIIII\n")
}

func TestRoundTripBzip2(t *testing.T) {
	roundTrip(t, "reads.fastq.bz2", "@a\nACGT\n+\nIIII\n")
}

func roundTrip(t *testing.T, name, content string) {
	ctx := context.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tempDir, name)

	wc, err := ioutil.Create(ctx, path)
	require.NoError(t, err)
	_, err = io.WriteString(wc, content)
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	rc, err := ioutil.Open(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestOpenUnknownExtensionIsPlain(t *testing.T) {
	ctx := context.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tempDir, "reads.txt")

	wc, err := ioutil.Create(ctx, path)
	require.NoError(t, err)
	_, err = io.WriteString(wc, "plain")
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	rc, err := ioutil.Open(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(got))
}
