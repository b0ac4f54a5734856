package irt

import (
	"runtime"
	"sync"
)

// ParallelFor partitions [0,n) across min(runtime.GOMAXPROCS(0), n)
// goroutines in strided fashion (goroutine p runs indices p, p+nProcs,
// p+2*nProcs, ...) and runs work over each index concurrently,
// generalizing the teacher's data-parallel grid-cell sweep. It is used by
// both the forward-model ray loop and the kernel column-perturbation
// loop. A goroutine stops at its first error, so the remaining indices of
// its stride are not run; the other goroutines run to completion.
// ParallelFor blocks until every goroutine has returned and then returns
// the error of the lowest-numbered goroutine that failed, or nil.
func ParallelFor(n int, work func(i int) error) error {
	if n <= 0 {
		return nil
	}
	nProcs := runtime.GOMAXPROCS(0)
	if nProcs > n {
		nProcs = n
	}
	if nProcs < 1 {
		nProcs = 1
	}

	errs := make([]error, nProcs)
	var wg sync.WaitGroup
	wg.Add(nProcs)
	for p := 0; p < nProcs; p++ {
		p := p
		go func() {
			defer wg.Done()
			for i := p; i < n; i += nProcs {
				if err := work(i); err != nil {
					errs[p] = err
					return
				}
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
