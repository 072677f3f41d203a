package gallery

import (
	"sync"
	"sync/atomic"
)

// forEachIndex runs fn(i) over i in [0, n) using up to workers goroutines.
// Work is distributed by striding. The first error stops all workers and is returned.
// With a single worker the indices are visited strictly in order.
func forEachIndex(n, workers int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}
	if workers > n {
		workers = n
	}

	var stop atomic.Bool
	var once sync.Once
	var firstErr error
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := w; i < n && !stop.Load(); i += workers {
				if err := fn(i); err != nil {
					once.Do(func() { firstErr = err })
					stop.Store(true)
					return
				}
			}
		}()
	}

	wg.Wait()
	return firstErr
}
