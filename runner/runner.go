// Package runner drives reads from a Source through a pipeline.Pipeline and
// into a Sink, in either a simple serial loop or a chunked worker pool. The
// serial runner is the order/statistics oracle the parallel runner is tested
// against: both must produce identical Statistics and identical per-bin
// output order for the same input.
package runner

import (
	"context"

	"github.com/grailbio/adaptertrim/pipeline"
	"github.com/grailbio/adaptertrim/read"
	"github.com/grailbio/adaptertrim/stats"
)

// SingleSource produces single-end reads, in the style of
// encoding/fastq.Scanner: Scan returns nil at EOF or on error, and Err
// distinguishes the two.
type SingleSource interface {
	Scan() *read.Read
	Err() error
}

// PairSource produces read pairs, in the style of encoding/fastq.PairScanner:
// Scan returns a Pair with a nil R1 at EOF.
type PairSource interface {
	Scan() read.Pair
	Err() error
}

// Sink receives one single-end record already routed to bin by the
// pipeline. Implementations own the mapping from Bin to an output
// destination (a main file, a per-reason side file, a per-adapter
// demultiplex file, ...); a Sink that has no destination configured for a
// given bin silently drops records routed there.
type Sink interface {
	Write(bin pipeline.Bin, r *read.Read) error
}

// PairSink is Sink's paired-data counterpart.
type PairSink interface {
	WritePair(bin pipeline.Bin, r1, r2 *read.Read) error
}

// Config holds the parameters shared by Serial and Parallel.
type Config struct {
	Pipeline *pipeline.Pipeline

	// Cores bounds the number of worker goroutines Parallel spawns. With
	// values <= 1, Parallel calls Serial directly; no worker pool, chunking
	// or reordering buffer is used.
	Cores int

	// ChunkSize is the number of records each unit of work batches
	// together for Parallel. It has no effect on Serial.
	ChunkSize int
}

func (c Config) chunkSize() int {
	if c.ChunkSize > 0 {
		return c.ChunkSize
	}
	return 5000
}

func (c Config) cores() int {
	if c.Cores > 0 {
		return c.Cores
	}
	return 1
}

// Serial runs src through cfg.Pipeline into sink on the calling goroutine,
// one record at a time. It is the reference implementation: Parallel must
// match its output for the same input, regardless of Cores.
func Serial(ctx context.Context, cfg Config, src SingleSource, sink Sink) (stats.Statistics, error) {
	p := cfg.Pipeline
	for {
		if err := ctx.Err(); err != nil {
			return p.Stats(), err
		}
		r := src.Scan()
		if r == nil {
			break
		}
		out, bin, _ := p.Process(r)
		if err := sink.Write(bin, out); err != nil {
			return p.Stats(), err
		}
	}
	return p.Stats(), src.Err()
}

// SerialPaired is Serial's paired-data counterpart.
func SerialPaired(ctx context.Context, cfg Config, src PairSource, sink PairSink) (stats.Statistics, error) {
	p := cfg.Pipeline
	for {
		if err := ctx.Err(); err != nil {
			return p.Stats(), err
		}
		pair := src.Scan()
		if pair.R1 == nil {
			break
		}
		out1, out2, bin, _ := p.ProcessPair(pair.R1, pair.R2)
		if err := sink.WritePair(bin, out1, out2); err != nil {
			return p.Stats(), err
		}
	}
	return p.Stats(), src.Err()
}
