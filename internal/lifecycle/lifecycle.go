// Package lifecycle runs the reads a page makes while it is being rendered.
// Each read ends Loaded or Failed; a failed read is replaced by its fallback
// so the page still renders. Reads are bound to the request context and their
// results are dropped once that context ends.
package lifecycle

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/eximroyals/storefront/pkg/logger"
)

// State is the load state of one read.
type State int

const (
	Pending State = iota
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Result holds the outcome of one read. Value is the fallback unless State
// is Loaded.
type Result[T any] struct {
	Name  string
	State State
	Value T
	Err   error
}

// Loaded reports whether the read succeeded.
func (r *Result[T]) Loaded() bool { return r.State == Loaded }

// Failed reports whether the read failed.
func (r *Result[T]) Failed() bool { return r.State == Failed }

// Fetch runs fn and records its outcome. On error the fallback is kept and
// the failure logged. If ctx has ended by the time fn returns the result is
// discarded and the read stays Pending.
func Fetch[T any](ctx context.Context, name string, fallback T, fn func(context.Context) (T, error)) *Result[T] {
	r := &Result[T]{Name: name, Value: fallback}
	r.run(ctx, fallback, fn)
	return r
}

func (r *Result[T]) run(ctx context.Context, fallback T, fn func(context.Context) (T, error)) {
	v, err := fn(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		r.State = Failed
		r.Err = err
		r.Value = fallback
		logger.FromContext(ctx).WarnContext(ctx, "page read failed, using fallback",
			slog.String("read", r.Name),
			slog.String("error", err.Error()),
		)
		return
	}
	r.State = Loaded
	r.Value = v
}

// Group runs a page's reads concurrently. One read failing never cancels the
// others.
type Group struct {
	ctx context.Context
	eg  errgroup.Group
}

// NewGroup starts a group bound to the request context.
func NewGroup(ctx context.Context) *Group {
	return &Group{ctx: ctx}
}

// Go schedules fn on g and returns its Result, which is only safe to read
// after Wait.
func Go[T any](g *Group, name string, fallback T, fn func(context.Context) (T, error)) *Result[T] {
	r := &Result[T]{Name: name, Value: fallback}
	g.eg.Go(func() error {
		r.run(g.ctx, fallback, fn)
		return nil
	})
	return r
}

// Wait joins every read. It returns the context's error when the request
// ended first, in which case nothing should be rendered.
func (g *Group) Wait() error {
	_ = g.eg.Wait()
	return g.ctx.Err()
}
