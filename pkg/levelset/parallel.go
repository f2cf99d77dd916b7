package levelset

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// cancelCheckEvery is how many triangles a worker processes between
// context checks.
const cancelCheckEvery = 256

// span is a half-open index range [lo, hi).
type span struct {
	lo, hi int
}

// workerCount resolves the Workers option: 0 or less means one per CPU.
func workerCount(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

// splitRange cuts [0, n) into at most parts contiguous, non-empty spans.
func splitRange(n, parts int) []span {
	if parts > n {
		parts = n
	}
	if parts < 1 {
		parts = 1
	}
	spans := make([]span, 0, parts)
	lo := 0
	for p := 0; p < parts; p++ {
		hi := lo + (n-lo)/(parts-p)
		spans = append(spans, span{lo: lo, hi: hi})
		lo = hi
	}
	return spans
}

// forEachSpan runs fn once per span. A single span runs on the calling
// goroutine; otherwise spans run concurrently and the first error cancels
// the rest. Callers must only write to memory owned by their span.
func forEachSpan(ctx context.Context, spans []span, fn func(context.Context, span) error) error {
	if len(spans) == 1 {
		return fn(ctx, spans[0])
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range spans {
		g.Go(func() error {
			return fn(gctx, s)
		})
	}
	return g.Wait()
}
