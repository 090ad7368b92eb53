// Package parallel provides the execution strategy shared by every data-parallel
// operation of the engine.
//
// An operation is written once against a Strategy. The caller picks the strategy
// from the input size with Choose; Sequential runs everything on the calling
// goroutine, Parallel fans out over chunks and joins before returning. Both paths
// visit the same fixed-size chunks and combine partial results in chunk order, so
// their outputs are identical, including floating-point reductions.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// ChunkSize is the fixed number of elements handled per chunk. It does not depend
// on the worker count so that reductions group elements the same way on both paths.
const ChunkSize = 256

// Strategy selects how an operation runs. The zero value is sequential.
type Strategy struct {
	workers int
}

// Sequential runs on the calling goroutine.
var Sequential = Strategy{workers: 1}

// Parallel fans out over n workers. n <= 0 uses GOMAXPROCS.
func Parallel(n int) Strategy {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return Strategy{workers: n}
}

// Choose returns Parallel(0) when size reaches threshold, Sequential otherwise.
func Choose(size, threshold int) Strategy {
	if size >= threshold {
		return Parallel(0)
	}
	return Sequential
}

func (s Strategy) Workers() int {
	return max(1, s.workers)
}

func (s Strategy) IsParallel() bool {
	return s.Workers() > 1
}

func (s Strategy) String() string {
	if s.IsParallel() {
		return "parallel"
	}
	return "sequential"
}

func chunks(n int) int {
	return (n + ChunkSize - 1) / ChunkSize
}

// run calls fn for every chunk index, distributing chunks over the strategy's
// workers, and waits for all of them.
func (s Strategy) run(n int, fn func(chunk, start, end int)) {
	count := chunks(n)
	if count == 0 {
		return
	}
	if !s.IsParallel() || count == 1 {
		for c := range count {
			fn(c, c*ChunkSize, min((c+1)*ChunkSize, n))
		}
		return
	}

	var wg sync.WaitGroup
	var next atomic.Int64
	for range min(s.Workers(), count) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				c := int(next.Add(1) - 1)
				if c >= count {
					return
				}
				fn(c, c*ChunkSize, min((c+1)*ChunkSize, n))
			}
		}()
	}
	wg.Wait()
}

// For calls fn(i) for every i in [0, n).
func For(s Strategy, n int, fn func(i int)) {
	s.run(n, func(_, start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}

// Map applies fn to every element, preserving order.
func Map[T, R any](s Strategy, data []T, fn func(T) R) []R {
	out := make([]R, len(data))
	For(s, len(data), func(i int) {
		out[i] = fn(data[i])
	})
	return out
}

// Reduce folds each chunk starting from zero with fold, then merges the chunk
// results in order with merge.
func Reduce[T, R any](s Strategy, data []T, zero R, fold func(R, T) R, merge func(R, R) R) R {
	partials := make([]R, chunks(len(data)))
	s.run(len(data), func(c, start, end int) {
		acc := zero
		for i := start; i < end; i++ {
			acc = fold(acc, data[i])
		}
		partials[c] = acc
	})

	result := zero
	for _, p := range partials {
		result = merge(result, p)
	}
	return result
}

// Any reports whether pred holds for some i in [0, n). The parallel path stops
// scheduling new work once a match has been found.
func Any(s Strategy, n int, pred func(i int) bool) bool {
	var found atomic.Bool
	s.run(n, func(_, start, end int) {
		for i := start; i < end; i++ {
			if found.Load() {
				return
			}
			if pred(i) {
				found.Store(true)
				return
			}
		}
	})
	return found.Load()
}

// Filter keeps the elements for which keep returns true, preserving order.
func Filter[T any](s Strategy, data []T, keep func(T) bool) []T {
	parts := make([][]T, chunks(len(data)))
	s.run(len(data), func(c, start, end int) {
		var part []T
		for i := start; i < end; i++ {
			if keep(data[i]) {
				part = append(part, data[i])
			}
		}
		parts[c] = part
	})

	var out []T
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}
