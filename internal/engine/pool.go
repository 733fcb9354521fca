package engine

import (
	"context"
	"sync"
	"time"

	mapreduce "github.com/kevwan/mapreduce/v2"
)

// fanOut runs fn for every item on a pool of workers goroutines.
// The first error aborts dispatching, cancels the context handed to the
// other in-flight calls and is returned. done receives each successful
// result on a single goroutine.
//
// On success every started fn has returned. On error (including ctx
// ending) fanOut waits at most grace for in-flight calls to drain, then
// abandons them: done is never called again and whatever they still
// produce belongs to a run that has already failed.
func fanOut[T, R any](
	ctx context.Context,
	items []T,
	workers int,
	grace time.Duration,
	fn func(context.Context, T) (R, error),
	done func(R),
) error {
	if len(items) == 0 {
		return ctx.Err()
	}

	taskCtx, cancelTasks := context.WithCancel(ctx)
	defer cancelTasks()

	var (
		mu        sync.Mutex
		abandoned bool
	)
	drained := make(chan struct{})

	err := mapreduce.MapReduceVoid(
		func(source chan<- T) {
			for _, item := range items {
				source <- item
			}
		},
		func(item T, writer mapreduce.Writer[R], abort func(error)) {
			r, err := fn(taskCtx, item)
			if err != nil {
				abort(err)
				cancelTasks()
				return
			}
			writer.Write(r)
		},
		func(pipe <-chan R, _ func(error)) {
			defer close(drained)
			for r := range pipe {
				mu.Lock()
				if done != nil && !abandoned {
					done(r)
				}
				mu.Unlock()
			}
		},
		mapreduce.WithWorkers(workers),
		mapreduce.WithContext(ctx),
	)

	if err == nil {
		<-drained
		return nil
	}

	cancelTasks()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-drained:
	case <-timer.C:
		mu.Lock()
		abandoned = true
		mu.Unlock()
	}

	return err
}
