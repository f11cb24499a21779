package runner_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/grailbio/adaptertrim/adapter"
	"github.com/grailbio/adaptertrim/align"
	"github.com/grailbio/adaptertrim/modify"
	"github.com/grailbio/adaptertrim/pipeline"
	"github.com/grailbio/adaptertrim/read"
	"github.com/grailbio/adaptertrim/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource replays a fixed slice of reads, like a Scanner over an
// in-memory file.
type sliceSource struct {
	reads []*read.Read
	i     int
}

func (s *sliceSource) Scan() *read.Read {
	if s.i >= len(s.reads) {
		return nil
	}
	r := s.reads[s.i]
	s.i++
	return r
}

func (s *sliceSource) Err() error { return nil }

// recordingSink collects every write, guarded by a mutex since Parallel
// writes from its own goroutine (though never concurrently, thanks to
// writeOrdered serializing calls).
type recordingSink struct {
	mu  sync.Mutex
	got []string
}

func (s *recordingSink) Write(bin pipeline.Bin, r *read.Read) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, fmt.Sprintf("%s:%s:%s", bin, r.Name, r.Sequence))
	return nil
}

func backAdapter(name, pattern string) *adapter.Adapter {
	cfg := align.Config{Placement: align.Back, MaxErrors: align.NewErrorRate(0), MinOverlap: 3}
	return adapter.New(name, []byte(pattern), cfg, adapter.Trim)
}

func buildPipeline() *pipeline.Pipeline {
	a := backAdapter("polyA", "AAAAA")
	set := adapter.NewSet([]*adapter.Adapter{a}, false)
	steps := []pipeline.Entry{pipeline.Single(&modify.AdapterCutter{Set: set, Times: 1, Side: "R1"})}
	return pipeline.New(steps, pipeline.FilterSet{MinLen: 1, MaxN: -1}, pipeline.PairFilterAny, pipeline.DemuxNone, false)
}

func manyReads(n int) []*read.Read {
	out := make([]*read.Read, n)
	for i := 0; i < n; i++ {
		out[i] = read.New([]byte(fmt.Sprintf("r%d", i)), nil, []byte("ACGTACGTAAAAA"), nil)
	}
	return out
}

func TestSerialProcessesInOrder(t *testing.T) {
	src := &sliceSource{reads: manyReads(5)}
	sink := &recordingSink{}
	cfg := runner.Config{Pipeline: buildPipeline()}

	st, err := runner.Serial(context.Background(), cfg, src, sink)
	require.NoError(t, err)
	assert.Equal(t, 5, st.Reads)
	assert.Equal(t, 5, st.AdapterStatsR1["polyA"].Matches)
	require.Len(t, sink.got, 5)
	for i, line := range sink.got {
		assert.Equal(t, fmt.Sprintf("main:r%d:ACGTACGT", i), line)
	}
}

func TestParallelMatchesSerialOrderAndStats(t *testing.T) {
	reads := manyReads(237)

	serialSink := &recordingSink{}
	serialStats, err := runner.Serial(context.Background(), runner.Config{Pipeline: buildPipeline()}, &sliceSource{reads: reads}, serialSink)
	require.NoError(t, err)

	parallelSink := &recordingSink{}
	cfg := runner.Config{Pipeline: buildPipeline(), Cores: 4, ChunkSize: 16}
	parallelStats, err := runner.Parallel(context.Background(), cfg, &sliceSource{reads: reads}, parallelSink)
	require.NoError(t, err)

	assert.Equal(t, serialSink.got, parallelSink.got)
	assert.Equal(t, serialStats.Reads, parallelStats.Reads)
	assert.Equal(t, serialStats.AdapterStatsR1["polyA"].Matches, parallelStats.AdapterStatsR1["polyA"].Matches)
}

func TestParallelWithSingleCoreFallsBackToSerial(t *testing.T) {
	reads := manyReads(10)
	sink := &recordingSink{}
	cfg := runner.Config{Pipeline: buildPipeline(), Cores: 1}
	st, err := runner.Parallel(context.Background(), cfg, &sliceSource{reads: reads}, sink)
	require.NoError(t, err)
	assert.Equal(t, 10, st.Reads)
	assert.Len(t, sink.got, 10)
}

type erroringSink struct{ failAt int }

func (s *erroringSink) Write(bin pipeline.Bin, r *read.Read) error {
	if string(r.Name) == fmt.Sprintf("r%d", s.failAt) {
		return fmt.Errorf("boom at %s", r.Name)
	}
	return nil
}

func TestParallelPropagatesSinkError(t *testing.T) {
	reads := manyReads(50)
	cfg := runner.Config{Pipeline: buildPipeline(), Cores: 3, ChunkSize: 5}
	_, err := runner.Parallel(context.Background(), cfg, &sliceSource{reads: reads}, &erroringSink{failAt: 20})
	assert.Error(t, err)
}
