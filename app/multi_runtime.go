// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MultiRuntime takes inspiration from io.MultiWriter to allow
// running multiple runtimes concurrently. The course catalog
// service runs its HTTP server, audit pipeline and collector
// watcher this way.
type MultiRuntime struct {
	rs []Runtime
}

// Runtimes wraps the given runtimes into a single MultiRuntime.
func Runtimes(rs ...Runtime) *MultiRuntime {
	return &MultiRuntime{
		rs: rs,
	}
}

// WithRuntimes builds each of the given RuntimeBuilders and wraps
// the resulting runtimes into a single MultiRuntime.
func WithRuntimes(rbs ...RuntimeBuilder) RuntimeBuilder {
	return RuntimeBuilderFunc(func(ctx context.Context) (Runtime, error) {
		rs := make([]Runtime, len(rbs))
		for i, rb := range rbs {
			r, err := rb.Build(ctx)
			if err != nil {
				return nil, err
			}
			rs[i] = r
		}
		mr := &MultiRuntime{
			rs: rs,
		}
		return mr, nil
	})
}

// Run implements the Runtime interface.
func (mr *MultiRuntime) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range mr.rs {
		r := r
		g.Go(func() error {
			return r.Run(gctx)
		})
	}
	return g.Wait()
}
