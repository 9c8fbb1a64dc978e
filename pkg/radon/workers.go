package radon

import (
	"golang.org/x/sync/errgroup"
)

// span is a half-open range of rotation steps
type span struct {
	lo, hi int
}

// split divides [from, to) into at most n contiguous spans of nearly equal
// length, in step order
func split(from, to, n int) []span {
	total := to - from
	if total <= 0 {
		return nil
	}
	n = min(max(n, 1), total)

	spans := make([]span, 0, n)
	size, rem := total/n, total%n
	lo := from
	for i := 0; i < n; i++ {
		hi := lo + size
		if i < rem {
			hi++
		}
		spans = append(spans, span{lo: lo, hi: hi})
		lo = hi
	}
	return spans
}

// run calls fn for every span, using up to s.workers goroutines, and
// returns once all calls have finished. A single span runs inline.
func (s *Scanner) run(spans []span, fn func(i int, sp span)) {
	if len(spans) == 1 {
		fn(0, spans[0])
		return
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, sp := range spans {
		g.Go(func() error {
			fn(i, sp)
			return nil
		})
	}
	_ = g.Wait()
}
