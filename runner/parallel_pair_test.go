package runner_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/grailbio/adaptertrim/adapter"
	"github.com/grailbio/adaptertrim/modify"
	"github.com/grailbio/adaptertrim/pipeline"
	"github.com/grailbio/adaptertrim/read"
	"github.com/grailbio/adaptertrim/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pairSliceSource struct {
	pairs []read.Pair
	i     int
}

func (s *pairSliceSource) Scan() read.Pair {
	if s.i >= len(s.pairs) {
		return read.Pair{}
	}
	p := s.pairs[s.i]
	s.i++
	return p
}

func (s *pairSliceSource) Err() error { return nil }

type recordingPairSink struct {
	got []string
}

func (s *recordingPairSink) WritePair(bin pipeline.Bin, r1, r2 *read.Read) error {
	s.got = append(s.got, fmt.Sprintf("%s:%s:%s/%s", bin, r1.Name, r1.Sequence, r2.Sequence))
	return nil
}

func manyPairs(n int) []read.Pair {
	out := make([]read.Pair, n)
	for i := 0; i < n; i++ {
		out[i] = read.Pair{
			R1: read.New([]byte(fmt.Sprintf("r%d", i)), nil, []byte("ACGTACGTAAAAA"), nil),
			R2: read.New([]byte(fmt.Sprintf("r%d", i)), nil, []byte("ACGTACGT"), nil),
		}
	}
	return out
}

func buildPairPipeline() *pipeline.Pipeline {
	a := backAdapter("polyA", "AAAAA")
	set := adapter.NewSet([]*adapter.Adapter{a}, false)
	steps := []pipeline.Entry{pipeline.Single(&modify.AdapterCutter{Set: set, Times: 1, Side: "R1"})}
	return pipeline.New(steps, pipeline.FilterSet{MinLen: 1, MaxN: -1}, pipeline.PairFilterAny, pipeline.DemuxNone, false)
}

func TestSerialPairedProcessesInOrder(t *testing.T) {
	src := &pairSliceSource{pairs: manyPairs(5)}
	sink := &recordingPairSink{}
	st, err := runner.SerialPaired(context.Background(), runner.Config{Pipeline: buildPairPipeline()}, src, sink)
	require.NoError(t, err)
	assert.Equal(t, 5, st.Pairs)
	require.Len(t, sink.got, 5)
	assert.Equal(t, "main:r0:ACGTACGT/ACGTACGT", sink.got[0])
}

func TestParallelPairedMatchesSerialOrder(t *testing.T) {
	pairs := manyPairs(180)

	serialSink := &recordingPairSink{}
	serialStats, err := runner.SerialPaired(context.Background(), runner.Config{Pipeline: buildPairPipeline()}, &pairSliceSource{pairs: pairs}, serialSink)
	require.NoError(t, err)

	parallelSink := &recordingPairSink{}
	cfg := runner.Config{Pipeline: buildPairPipeline(), Cores: 4, ChunkSize: 11}
	parallelStats, err := runner.ParallelPaired(context.Background(), cfg, &pairSliceSource{pairs: pairs}, parallelSink)
	require.NoError(t, err)

	assert.Equal(t, serialSink.got, parallelSink.got)
	assert.Equal(t, serialStats.Pairs, parallelStats.Pairs)
}
