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

// chunk is a batch of consecutively-read records tagged with the order they
// were read in, so the writer can put worker output back in input order
// regardless of which worker finishes first.
type chunk struct {
	id    int
	reads []*read.Read
}

type chunkOutput struct {
	bin pipeline.Bin
	r   *read.Read
}

type chunkResult struct {
	id      int
	outputs []chunkOutput
}

// Parallel runs src through cfg.Pipeline into sink using cfg.Cores worker
// goroutines, each owning its own Pipeline.Clone() so per-adapter statistics
// never race (spec §5). Records are batched into cfg.ChunkSize-record
// chunks; a chunk keeps its position in the input stream, so the writer
// side can block a chunk's output until every earlier chunk has already
// been written, giving byte-identical output order to Serial.
func Parallel(ctx context.Context, cfg Config, src SingleSource, sink Sink) (stats.Statistics, error) {
	if cfg.cores() <= 1 {
		return Serial(ctx, cfg, src, sink)
	}

	g, gctx := errgroup.WithContext(ctx)
	chunks := make(chan chunk, cfg.cores()*2)
	results := make(chan chunkResult, cfg.cores()*2)
	readErr := &baseerrors.Once{}

	g.Go(func() error {
		defer close(chunks)
		id := 0
		batch := make([]*read.Read, 0, cfg.chunkSize())
		for {
			r := src.Scan()
			if r == nil {
				break
			}
			batch = append(batch, r)
			if len(batch) == cfg.chunkSize() {
				if !sendChunk(gctx, chunks, chunk{id: id, reads: batch}) {
					return gctx.Err()
				}
				id++
				batch = make([]*read.Read, 0, cfg.chunkSize())
			}
		}
		if len(batch) > 0 {
			if !sendChunk(gctx, chunks, chunk{id: id, reads: batch}) {
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
					outs := make([]chunkOutput, len(c.reads))
					for i, r := range c.reads {
						out, bin, _ := worker.Process(r)
						outs[i] = chunkOutput{bin: bin, r: out}
					}
					if !sendResult(gctx, results, chunkResult{id: c.id, outputs: outs}) {
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
		return writeOrdered(gctx, results, func(o chunkOutput) error {
			return sink.Write(o.bin, o.r)
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

func sendChunk(ctx context.Context, ch chan<- chunk, c chunk) bool {
	select {
	case ch <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

func sendResult(ctx context.Context, ch chan<- chunkResult, r chunkResult) bool {
	select {
	case ch <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// writeOrdered reassembles out-of-order chunkResults into input order,
// buffering any chunk that arrives ahead of the next expected id, and
// flushing each chunk's outputs (in the order Process produced them)
// through write as soon as it becomes the next one due.
func writeOrdered(ctx context.Context, results <-chan chunkResult, write func(chunkOutput) error) error {
	pending := make(map[int][]chunkOutput)
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
