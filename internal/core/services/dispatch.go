package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
)

// memberFunc processes one archive member. A non-nil error is fatal for the run;
// isolated member failures are recorded by the callee and reported as nil.
type memberFunc func(ctx context.Context, name string) error

// dispatcher runs memberFunc over the members of one archive with at most
// a fixed number of members in flight.
type dispatcher interface {
	dispatch(ctx context.Context, members []string, fn memberFunc) error
}

// newDispatcher returns the dispatcher for kind bounded by workers.
func newDispatcher(kind domain.SchedulerKind, workers int) dispatcher {
	if workers < 1 {
		workers = 1
	}
	if kind == domain.SchedulerPool {
		return poolDispatcher{workers: workers}
	}
	return waveDispatcher{workers: workers}
}

// waveDispatcher starts members in successive batches of workers and waits
// for the whole batch, including a short last one, before the next.
type waveDispatcher struct {
	workers int
}

func (d waveDispatcher) dispatch(ctx context.Context, members []string, fn memberFunc) error {
	for _, batch := range chunk(members, d.workers) {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, gctx := errgroup.WithContext(ctx)
		for _, name := range batch {
			g.Go(func() error {
				return fn(gctx, name)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// poolDispatcher keeps up to workers members in flight, starting the next
// member as soon as any running one finishes.
type poolDispatcher struct {
	workers int
}

func (d poolDispatcher) dispatch(ctx context.Context, members []string, fn memberFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for _, name := range members {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(gctx, name)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// chunk splits items into consecutive slices of at most size.
func chunk(items []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	batches := make([][]string, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}
