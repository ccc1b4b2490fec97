// Package parallel fans independent per-unit work out across CPU cores.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how work is split across goroutines.
type Config struct {
	Enabled  bool // Whether to fan work out at all.
	Workers  int  // Number of worker goroutines to use.
	MinChunk int  // Minimum items per goroutine to avoid overhead.
}

// Default returns a configuration sized to the machine's CPU count.
// Narrow layers stay sequential: goroutine overhead dwarfs a handful
// of dot products.
func Default() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:  n > 1,
		Workers:  n,
		MinChunk: 64,
	}
}

// For executes f(i) for i in [0, n). Work is split into contiguous
// chunks across workers; when parallelism is disabled or n is below
// MinChunk it runs sequentially. f(i) must only touch state owned by
// index i.
func For(n int, cfg Config, f func(i int)) {
	if !cfg.Enabled || n < cfg.MinChunk {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := max((n+cfg.Workers-1)/cfg.Workers, cfg.MinChunk)

	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
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
