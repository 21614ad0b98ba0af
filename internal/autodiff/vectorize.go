package autodiff

import (
	"golang.org/x/sync/errgroup"
)

// Parallelism controls how Vectorize spreads work across goroutines.
type Parallelism struct {
	// Workers bounds the number of goroutines. Values below 2 run serially.
	Workers int
	// Threshold is the batch size below which work stays on the caller's goroutine.
	Threshold int
}

// Serial runs everything on the caller's goroutine.
var Serial = Parallelism{Workers: 1}

// Vectorize calls fn for every index in [0, n). Each index is independent:
// fn must only write to state owned by that index. The first error wins.
func Vectorize(n int, p Parallelism, fn func(i int) error) error {
	if p.Workers < 2 || n < 2 || n < p.Threshold {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	workers := p.Workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	// one goroutine per chunk, so at most workers run at once
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		lo, hi := start, start+chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
