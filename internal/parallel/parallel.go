// Package parallel provides block partitioning and parallel execution utilities.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per chunk to avoid overhead.
	MaxChunks    int  // Upper bound on the number of chunks (0 = no bound).
}

// DefaultConfig returns sensible defaults based on CPU count.
//
// MaxChunks is a fixed constant rather than the CPU count so that the
// partitioning of a given problem is the same on every machine.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
		MaxChunks:    64,
	}
}

// Workers returns the number of goroutines Run will start for nChunks chunks.
func (c Config) Workers(nChunks int) int {
	if !c.Enabled || c.NumWorkers < 2 {
		return 1
	}
	return max(min(c.NumWorkers, nChunks), 1)
}

// Range is a half-open interval [Start, End) of item indices.
type Range struct {
	Start, End int
}

// Len returns the number of items in the range.
func (r Range) Len() int { return r.End - r.Start }

// Chunks splits [0, n) into contiguous ranges of nearly equal length.
//
// The split depends only on n, MinChunkSize and MaxChunks, never on
// NumWorkers or Enabled, so callers that keep one accumulator per chunk get
// the same partial results whatever the degree of parallelism.
// Chunks(0, cfg) returns nil.
func Chunks(n int, cfg Config) []Range {
	return ChunksLimit(n, 0, cfg)
}

// ChunksLimit is Chunks with an extra upper bound on the number of chunks
// (limit <= 0 means no extra bound).
func ChunksLimit(n, limit int, cfg Config) []Range {
	if n <= 0 {
		return nil
	}
	count := n / max(cfg.MinChunkSize, 1)
	if cfg.MaxChunks > 0 {
		count = min(count, cfg.MaxChunks)
	}
	if limit > 0 {
		count = min(count, limit)
	}
	count = max(count, 1)

	chunks := make([]Range, count)
	size, rem := n/count, n%count
	start := 0
	for i := range chunks {
		end := start + size
		if i < rem {
			end++
		}
		chunks[i] = Range{Start: start, End: end}
		start = end
	}
	return chunks
}

// Run calls fn once for every chunk and waits for all calls to finish.
//
// Chunks are handed out to the workers through an atomic counter, so a slow
// chunk does not hold up the others. The first error returned by fn stops
// the distribution of further chunks and is returned by Run; chunks already
// running complete normally.
func Run(chunks []Range, fn func(chunk int, r Range) error, cfg Config) error {
	workers := cfg.Workers(len(chunks))
	if workers == 1 {
		for i, r := range chunks {
			if err := fn(i, r); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		g    errgroup.Group
		next atomic.Int32
		stop atomic.Bool
	)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for !stop.Load() {
				i := int(next.Add(1)) - 1
				if i >= len(chunks) {
					return nil
				}
				if err := fn(i, chunks[i]); err != nil {
					stop.Store(true)
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		// Sequential fallback.
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
