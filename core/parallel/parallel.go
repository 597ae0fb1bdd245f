// Package parallel provides chunked fan-out helpers for embarrassingly
// parallel loops: per-feature split search and per-row batch prediction.
// Workers receive disjoint index ranges, so callers can write results into
// a pre-allocated slice without locks. Any ordering-sensitive reduction
// (for example a gain arg-max with tie-breaks) must be done by the caller
// after the fan-out completes.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits items across as many workers as there are CPU cores
// and calls fn with each worker's half-open range [start, end).
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// Ceiling division so every item is covered.
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) sequentially when items is at
// or below threshold, and fans out via Parallelize otherwise. Small inputs
// are not worth the goroutine overhead.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}
