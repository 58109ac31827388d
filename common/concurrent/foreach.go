package concurrent

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ForEach runs fn for every item on at most jobs goroutines and waits for all
// of them to finish. Unlike errgroup proper, an item's failure does not cancel
// the remaining items: errors are collected and returned joined, so the caller
// can tell the run failed while every item still got its chance. Cancelling
// ctx stops scheduling of not-yet-started items.
func ForEach[T any](ctx context.Context, jobs int, items []T, fn func(context.Context, T) error) error {
	if jobs < 1 {
		jobs = 1
	}

	var (
		eg   errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	eg.SetLimit(jobs)

	for _, item := range items {
		item := item
		if err := ctx.Err(); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}
		eg.Go(func() error {
			if err := fn(ctx, item); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = eg.Wait()
	return errors.Join(errs...)
}
