package graph

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/supportmesh/logging"
)

// Runnable is a validated, immutable graph.
type Runnable[S any, K ~string] struct {
	nodes    map[K]NodeFunc[S]
	order    []K
	edges    map[K]K
	branches map[K]branch[S, K]
	entry    K
	opts     Options
}

// Run executes the graph against state starting at the entry point and
// returns the visited nodes in order. The run ends when a transition selects
// End, a node fails, the context is canceled or the recursion limit is hit.
func (r *Runnable[S, K]) Run(ctx context.Context, state S) ([]K, error) {
	logger := logging.OrNoOp(r.opts.Logger)
	hooks := r.opts.Hooks

	var path []K
	current := r.entry
	r.route(hooks, Start, string(current))

	for steps := 0; string(current) != End; steps++ {
		if steps >= r.opts.RecursionLimit {
			logger.Warn("graph.recursion_limit", "limit", r.opts.RecursionLimit, "node", string(current))
			return path, fmt.Errorf("%w: %d node executions without reaching %s", ErrRecursionLimit, r.opts.RecursionLimit, End)
		}
		if err := ctx.Err(); err != nil {
			return path, err
		}

		name := string(current)
		logger.Debug("graph.node.enter", "node", name, "step", steps)
		if hooks.OnNodeEnter != nil {
			hooks.OnNodeEnter(name)
		}

		start := time.Now()
		err := r.nodes[current](ctx, state)
		dur := time.Since(start)
		path = append(path, current)

		if hooks.OnNodeLeave != nil {
			hooks.OnNodeLeave(name, dur, err)
		}
		if err != nil {
			logger.Error("graph.node.error", "node", name, "error", err.Error())
			return path, &NodeError{Node: name, Err: err}
		}
		logger.Debug("graph.node.leave", "node", name, "duration_ms", dur.Milliseconds())

		next, err := r.next(current, state)
		if err != nil {
			return path, &NodeError{Node: name, Err: err}
		}
		r.route(hooks, name, string(next))
		logger.Debug("graph.route", "from", name, "to", string(next))
		current = next
	}

	return path, nil
}

func (r *Runnable[S, K]) next(current K, state S) (K, error) {
	if to, ok := r.edges[current]; ok {
		return to, nil
	}
	b := r.branches[current]
	to := b.router(state)
	if !slices.Contains(b.destinations, to) {
		return to, fmt.Errorf("%w: %q is not a declared destination", ErrInvalidRoute, string(to))
	}
	return to, nil
}

func (r *Runnable[S, K]) route(hooks Hooks, from, to string) {
	if hooks.OnRoute != nil {
		hooks.OnRoute(from, to)
	}
}

// Nodes returns the node names in registration order.
func (r *Runnable[S, K]) Nodes() []K {
	return append([]K(nil), r.order...)
}

// EntryPoint returns the first node of every run.
func (r *Runnable[S, K]) EntryPoint() K { return r.entry }
