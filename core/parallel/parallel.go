// Package parallel splits row- or column-wise loops over worker goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the item count at or below which work stays on the
// calling goroutine.
const DefaultThreshold = 1000

// Parallelize divides items into contiguous [start, end) ranges, one per
// available CPU, and runs fn on each range concurrently. It returns when all
// ranges are done. fn must only write to disjoint locations per range.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) sequentially when items does not
// exceed threshold, and Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}
