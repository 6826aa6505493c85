package suggest

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Merge queries every source concurrently and concatenates the results in
// source order, dropping repeated names. A failing source is skipped; the
// merged call fails only if all sources fail or ctx is cancelled.
// limit <= 0 keeps everything.
func Merge(limit int, sources ...Func) Func {
	return func(ctx context.Context, query string) ([]Item, error) {
		if len(sources) == 0 {
			return nil, nil
		}
		results := make([][]Item, len(sources))
		errs := make([]error, len(sources))

		g, gctx := errgroup.WithContext(ctx)
		for i, src := range sources {
			g.Go(func() error {
				items, err := src(gctx, query)
				if err != nil && ctx.Err() != nil {
					return ctx.Err()
				}
				results[i] = items
				errs[i] = err
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var merged []Item
		failed := 0
		for i := range sources {
			if errs[i] != nil {
				failed++
				continue
			}
			merged = append(merged, results[i]...)
		}
		if failed == len(sources) {
			return nil, errors.Join(errs...)
		}
		merged = dedupe(merged)
		if limit > 0 && len(merged) > limit {
			merged = merged[:limit]
		}
		return merged, nil
	}
}
