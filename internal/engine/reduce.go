package engine

import (
	"context"
	"fmt"

	"pkg.jsn.cam/linereduce/internal/store"
	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

// reducePhase invokes Reduce exactly once per intermediate key of the
// sealed store. With workers <= 1 keys are reduced in order on the
// calling goroutine.
func (e *Engine) reducePhase(ctx context.Context, inter *store.Intermediate, results *store.Results, workers int) error {
	if workers <= 1 {
		var err error
		inter.Range(func(key string, values []int) bool {
			if err = ctx.Err(); err != nil {
				return false
			}
			err = e.reduceKey(ctx, key, values, results)
			return err == nil
		})

		return err
	}

	err := fanOut(ctx, inter.Keys(), workers, e.config.StopGrace, func(ctx context.Context, key string) (struct{}, error) {
		return struct{}{}, e.reduceKey(ctx, key, inter.Values(key), results)
	}, nil)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

// reduceKey runs Reduce for key. The emitter only accepts key itself;
// repeated emissions overwrite, so the last one wins.
func (e *Engine) reduceKey(ctx context.Context, key string, values []int, results *store.Results) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &linereduce.ReducePhaseError{Key: key, Err: fmt.Errorf("%w: %v", linereduce.ErrPanic, r)}
		}
	}()

	var (
		foreign    bool
		foreignKey string
	)

	emit := func(kv linereduce.KeyValue) {
		if kv.Key != key {
			if !foreign {
				foreign, foreignKey = true, kv.Key
			}
			return
		}
		results.Put(kv.Key, kv.Value)
	}

	if err := e.worker.Reduce(ctx, key, values, emit); err != nil {
		return &linereduce.ReducePhaseError{Key: key, Err: err}
	}

	if foreign {
		return &linereduce.ReducePhaseError{
			Key: key,
			Err: fmt.Errorf("%w: %q", linereduce.ErrForeignKey, foreignKey),
		}
	}

	return nil
}
