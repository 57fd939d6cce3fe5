// Package worker provides a bounded task runner for driving independent
// networks in parallel. Propagation inside a single network is
// single-driver, so the pool is only safe across disjoint graphs.
package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool runs submitted tasks with a concurrency limit. The first task
// error cancels the pool's context and is returned by Wait.
type Pool struct {
	group *errgroup.Group
	ctx   context.Context
}

// NewPool creates a pool running at most limit tasks concurrently. A
// limit below 1 means unbounded.
func NewPool(ctx context.Context, limit int) *Pool {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	return &Pool{group: g, ctx: gctx}
}

// Submit schedules a task, blocking while the pool is at its limit.
// Tasks submitted after a failure still run but should check the context
// first.
func (p *Pool) Submit(task func(context.Context) error) {
	if task == nil {
		return
	}
	p.group.Go(func() error {
		if err := p.ctx.Err(); err != nil {
			return nil
		}
		return task(p.ctx)
	})
}

// Wait blocks until every submitted task finishes and returns the first
// task error, if any.
func (p *Pool) Wait() error {
	return p.group.Wait()
}
