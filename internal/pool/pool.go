// Package pool executes per-chunk work over a shared record view with
// bounded parallelism, a single per-operation deadline, and fail-fast
// cancellation. Chunk functions must not share mutable state; partial
// results flow back by value and merge only in the combiner.
package pool

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"goprofile/domain/record"
	"goprofile/internal"
	"goprofile/internal/errors"
)

// Task names with dedicated combiner strategies
const (
	TaskProfileColumns        = "profileColumns"
	TaskCalculateCorrelations = "calculateCorrelations"
)

// Axis selects what a chunk is a contiguous range of
type Axis int

const (
	AxisRows Axis = iota
	AxisColumns
)

// Options configure one pool invocation
type Options struct {
	MaxWorkers int
	ChunkSize  int
	Timeout    time.Duration
	TaskName   string
	Axis       Axis
}

// ChunkFunc computes a partial result for one contiguous chunk of the
// input view. It must be pure with respect to shared state and should
// return promptly once ctx is cancelled.
type ChunkFunc func(ctx context.Context, chunk *record.View) (interface{}, error)

// Pool dispatches chunk work up to a worker bound
type Pool struct {
	logger *internal.Logger
}

// New creates a worker pool
func New() *Pool {
	return &Pool{logger: internal.NewDefaultLogger("WorkerPool")}
}

// ProcessInParallel splits view into contiguous chunks of opts.ChunkSize
// along opts.Axis, dispatches them FIFO to at most opts.MaxWorkers
// concurrent workers, and combines the partial results by task strategy.
// Any chunk error fails the operation and cancels in-flight workers; a
// deadline of opts.Timeout covers the whole operation. Completed partial
// results are discarded on failure.
func (p *Pool) ProcessInParallel(ctx context.Context, view *record.View, fn ChunkFunc, opts Options) (interface{}, error) {
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}
	if opts.ChunkSize < 1 {
		opts.ChunkSize = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	chunks := split(view, opts.Axis, opts.ChunkSize)
	if len(chunks) == 0 {
		return combine(opts.TaskName, nil), nil
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	sem := semaphore.NewWeighted(int64(opts.MaxWorkers))
	results := make([]interface{}, len(chunks))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	start := time.Now()
	for i, chunk := range chunks {
		// FIFO dispatch: waiting here preserves queue order
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func(index int, chunk *record.View) {
			defer wg.Done()
			defer sem.Release(1)

			out, err := fn(ctx, chunk)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()
				return
			}
			mu.Lock()
			results[index] = out
			mu.Unlock()
		}(i, chunk)
	}
	wg.Wait()

	if deadline := ctx.Err(); deadline == context.DeadlineExceeded {
		p.logger.Warn("%s exceeded %v deadline (%d chunks)", opts.TaskName, opts.Timeout, len(chunks))
		return nil, errors.TimeoutError(opts.TaskName)
	}
	if firstErr != nil {
		if firstErr == context.DeadlineExceeded {
			return nil, errors.TimeoutError(opts.TaskName)
		}
		return nil, firstErr
	}

	p.logger.Debug("%s combined %d chunks in %v", opts.TaskName, len(chunks), time.Since(start))
	return combine(opts.TaskName, results), nil
}

// split cuts the view into contiguous chunks; the last chunk may be smaller
func split(view *record.View, axis Axis, size int) []*record.View {
	var total int
	if axis == AxisColumns {
		total = view.ColumnCount()
	} else {
		total = view.Len()
	}

	chunks := make([]*record.View, 0, (total+size-1)/size)
	for from := 0; from < total; from += size {
		to := from + size
		if to > total {
			to = total
		}
		if axis == AxisColumns {
			sub, err := view.SelectColumns(view.Columns()[from:to])
			if err != nil {
				// Column names come from the view itself, so this cannot miss
				continue
			}
			chunks = append(chunks, sub)
		} else {
			chunks = append(chunks, view.SliceRows(from, to))
		}
	}
	return chunks
}
