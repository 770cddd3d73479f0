// Package framework implements the traversal engine of the library: type
// dispatch, line buffers, and the Scan and Separable drivers that numeric
// kernels plug into.
package framework

import (
	"log/slog"

	"github.com/born-ml/dip/internal/parallel"
)

// Config controls how an Engine partitions and executes work.
type Config struct {
	// Parallel configures chunking and the worker goroutines. MinChunkSize is
	// expressed in lines.
	Parallel parallel.Config

	// MinOperationsPerChunk bounds the number of chunks by the estimated cost
	// of a call: a chunk is only created for every MinOperationsPerChunk
	// elementary operations reported by the kernel.
	MinOperationsPerChunk int

	// Logger receives one debug record per traversal. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used by New when none is given.
func DefaultConfig() Config {
	cfg := parallel.DefaultConfig()
	cfg.MinChunkSize = 16
	return Config{
		Parallel:              cfg,
		MinOperationsPerChunk: 1 << 14,
	}
}

// Engine drives kernels over images. It holds configuration only; every
// call creates and discards its own traversal state, so one Engine can be
// shared by concurrent callers.
type Engine struct {
	cfg Config
}

// New creates an engine.
//
// Example:
//
//	eng := framework.New(framework.DefaultConfig())
func New(cfg Config) *Engine {
	if cfg.MinOperationsPerChunk < 1 {
		cfg.MinOperationsPerChunk = 1
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// WithWorkers returns a copy of the engine that runs on n workers.
// The partitioning of the work is unchanged, so results are identical.
func (e *Engine) WithWorkers(n int) *Engine {
	cfg := e.cfg
	cfg.Parallel.NumWorkers = n
	cfg.Parallel.Enabled = n > 1
	return &Engine{cfg: cfg}
}

func (e *Engine) logger() *slog.Logger {
	if e.cfg.Logger != nil {
		return e.cfg.Logger
	}
	return slog.Default()
}

// chunkLimit returns the maximum number of chunks worth creating for work
// that costs opsPerSample operations on each of nSamples samples.
func (e *Engine) chunkLimit(opsPerSample, nSamples int) int {
	total := max(opsPerSample, 1) * nSamples
	return max(total/e.cfg.MinOperationsPerChunk, 1)
}
