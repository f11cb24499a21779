package runner

import (
	"context"
	"sync"

	baseerrors "github.com/grailbio/base/errors"
	"golang.org/x/sync/errgroup"

	"github.com/grailbio/adaptertrim/pipeline"
	"github.com/grailbio/adaptertrim/read"
	"github.com/grailbio/adaptertrim/stats"
)

type pairChunk struct {
	id    int
	pairs []read.Pair
}

type pairChunkOutput struct {
	bin    pipeline.Bin
	r1, r2 *read.Read
}

type pairChunkResult struct {
	id      int
	outputs []pairChunkOutput
}

// ParallelPaired is Parallel's paired-data counterpart.
func ParallelPaired(ctx context.Context, cfg Config, src PairSource, sink PairSink) (stats.Statistics, error) {
	if cfg.cores() <= 1 {
		return SerialPaired(ctx, cfg, src, sink)
	}

	g, gctx := errgroup.WithContext(ctx)
	chunks := make(chan pairChunk, cfg.cores()*2)
	results := make(chan pairChunkResult, cfg.cores()*2)
	readErr := &baseerrors.Once{}

	g.Go(func() error {
		defer close(chunks)
		id := 0
		batch := make([]read.Pair, 0, cfg.chunkSize())
		for {
			p := src.Scan()
			if p.R1 == nil {
				break
			}
			batch = append(batch, p)
			if len(batch) == cfg.chunkSize() {
				if !sendPairChunk(gctx, chunks, pairChunk{id: id, pairs: batch}) {
					return gctx.Err()
				}
				id++
				batch = make([]read.Pair, 0, cfg.chunkSize())
			}
		}
		if len(batch) > 0 {
			if !sendPairChunk(gctx, chunks, pairChunk{id: id, pairs: batch}) {
				return gctx.Err()
			}
		}
		readErr.Set(src.Err())
		return nil
	})

	workerStats := make([]stats.Statistics, cfg.cores())
	var wg sync.WaitGroup
	for w := 0; w < cfg.cores(); w++ {
		w := w
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			worker := cfg.Pipeline.Clone()
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case c, ok := <-chunks:
					if !ok {
						workerStats[w] = worker.Stats()
						return nil
					}
					outs := make([]pairChunkOutput, len(c.pairs))
					for i, p := range c.pairs {
						out1, out2, bin, _ := worker.ProcessPair(p.R1, p.R2)
						outs[i] = pairChunkOutput{bin: bin, r1: out1, r2: out2}
					}
					if !sendPairResult(gctx, results, pairChunkResult{id: c.id, outputs: outs}) {
						return gctx.Err()
					}
				}
			}
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	g.Go(func() error {
		return writeOrderedPairs(gctx, results, func(o pairChunkOutput) error {
			return sink.WritePair(o.bin, o.r1, o.r2)
		})
	})

	err := g.Wait()
	total := stats.New()
	for _, s := range workerStats {
		total = total.Add(s)
	}
	if err == nil {
		err = readErr.Err()
	}
	return total, err
}

func sendPairChunk(ctx context.Context, ch chan<- pairChunk, c pairChunk) bool {
	select {
	case ch <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

func sendPairResult(ctx context.Context, ch chan<- pairChunkResult, r pairChunkResult) bool {
	select {
	case ch <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

func writeOrderedPairs(ctx context.Context, results <-chan pairChunkResult, write func(pairChunkOutput) error) error {
	pending := make(map[int][]pairChunkOutput)
	next := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			pending[res.id] = res.outputs
			for {
				outs, ready := pending[next]
				if !ready {
					break
				}
				for _, o := range outs {
					if err := write(o); err != nil {
						return err
					}
				}
				delete(pending, next)
				next++
			}
		}
	}
}
