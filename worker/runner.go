// Package worker bounds calls to external collaborators with a shared
// goroutine pool and per-call deadlines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
)

// ErrTimeout reports that a collaborator did not respond within its
// deadline.
var ErrTimeout = errors.New("worker: call timed out")

// Runner executes collaborator calls on a fixed-size pool so a slow
// model server cannot exhaust goroutines under load.
type Runner struct {
	pool *ants.Pool
}

// NewRunner creates a runner with at most size concurrent calls.
func NewRunner(size int) (*Runner, error) {
	if size <= 0 {
		size = 8
	}
	pool, err := ants.NewPool(size, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	return &Runner{pool: pool}, nil
}

// Close releases the pool. Pending calls are allowed to finish.
func (r *Runner) Close() {
	r.pool.Release()
}

type result[T any] struct {
	val T
	err error
}

// Do runs fn on the pool with the given deadline. The deadline covers
// both queueing time and execution: if it expires while the call is
// still waiting for a pool slot, Do returns ErrTimeout immediately and
// the call is abandoned before fn ever runs.
func Do[T any](ctx context.Context, r *Runner, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Submit blocks while the pool is saturated, so it runs off the
	// calling goroutine and races the deadline below.
	ch := make(chan result[T], 1)
	go func() {
		err := r.pool.Submit(func() {
			// The slot may free only after the caller gave up.
			if ctx.Err() != nil {
				return
			}
			v, err := fn(ctx)
			ch <- result[T]{val: v, err: err}
		})
		if err != nil {
			ch <- result[T]{err: fmt.Errorf("submitting to worker pool: %w", err)}
		}
	}()

	select {
	case res := <-ch:
		if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return res.val, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}
