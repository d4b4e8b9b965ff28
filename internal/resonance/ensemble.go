package resonance

import (
	"context"
	"runtime"
	"sync"
)

// Ensemble runs many independent simulations of the same system. Runs
// share nothing: each goroutine builds its own Simulator, so member
// steppers may keep scratch state.
type Ensemble struct {
	build   func() (*Simulator, Vector)
	numRuns int
}

// NewEnsemble creates an ensemble of numRuns independent simulations.
// build must return a fresh Simulator and initial state on every call.
func NewEnsemble(build func() (*Simulator, Vector), numRuns int) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sim, x0 := e.build()
			results[idx], errs[idx] = sim.Run(ctx, x0, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// ParallelFor executes fn over chunks of [0, n) on up to GOMAXPROCS
// workers. Ranges below minChunk run inline.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	numWorkers := runtime.GOMAXPROCS(0)
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
