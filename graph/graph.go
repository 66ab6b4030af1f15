package graph

import (
	"context"
	"errors"
	"fmt"
)

const (
	// Start is the reserved name of the virtual node preceding the entry point.
	Start = "__start__"
	// End is the reserved destination terminating a run.
	End = "__end__"
)

// NodeFunc executes one step, mutating state in place.
type NodeFunc[S any] func(ctx context.Context, state S) error

// RouterFunc selects the next node from the current state.
type RouterFunc[S any, K ~string] func(state S) K

type branch[S any, K ~string] struct {
	router       RouterFunc[S, K]
	destinations []K
}

// Graph is the mutable builder. It is not safe for concurrent use; compile it
// into a Runnable once construction is finished.
type Graph[S any, K ~string] struct {
	nodes    map[K]NodeFunc[S]
	order    []K
	edges    map[K]K
	branches map[K]branch[S, K]
	entry    K
	hasEntry bool
	errs     []error
}

// New creates an empty graph builder.
func New[S any, K ~string]() *Graph[S, K] {
	return &Graph[S, K]{
		nodes:    make(map[K]NodeFunc[S]),
		edges:    make(map[K]K),
		branches: make(map[K]branch[S, K]),
	}
}

// AddNode registers a node under name.
func (g *Graph[S, K]) AddNode(name K, fn NodeFunc[S]) *Graph[S, K] {
	switch {
	case string(name) == "":
		g.errs = append(g.errs, errors.New("graph: node name must not be empty"))
	case isReserved(name):
		g.errs = append(g.errs, fmt.Errorf("graph: node name %s is reserved", name))
	case fn == nil:
		g.errs = append(g.errs, fmt.Errorf("graph: node %s has nil function", name))
	default:
		if _, exists := g.nodes[name]; exists {
			g.errs = append(g.errs, fmt.Errorf("graph: duplicate node %s", name))
			break
		}
		g.nodes[name] = fn
		g.order = append(g.order, name)
	}
	return g
}

// AddEdge adds an unconditional transition. to may be End.
func (g *Graph[S, K]) AddEdge(from, to K) *Graph[S, K] {
	if _, exists := g.edges[from]; exists {
		g.errs = append(g.errs, fmt.Errorf("graph: node %s already has an edge", from))
		return g
	}
	g.edges[from] = to
	return g
}

// AddConditionalEdges routes from a node through router. The router may only
// return one of destinations; anything else fails the run with ErrInvalidRoute.
func (g *Graph[S, K]) AddConditionalEdges(from K, router RouterFunc[S, K], destinations ...K) *Graph[S, K] {
	switch {
	case router == nil:
		g.errs = append(g.errs, fmt.Errorf("graph: node %s has nil router", from))
	case len(destinations) == 0:
		g.errs = append(g.errs, fmt.Errorf("graph: conditional edges from %s declare no destinations", from))
	default:
		if _, exists := g.branches[from]; exists {
			g.errs = append(g.errs, fmt.Errorf("graph: node %s already has conditional edges", from))
			break
		}
		g.branches[from] = branch[S, K]{router: router, destinations: append([]K(nil), destinations...)}
	}
	return g
}

// SetEntryPoint selects the first node of every run.
func (g *Graph[S, K]) SetEntryPoint(name K) *Graph[S, K] {
	g.entry = name
	g.hasEntry = true
	return g
}

// Compile validates the structure and returns an executable Runnable.
func (g *Graph[S, K]) Compile(optFns ...func(o *Options)) (*Runnable[S, K], error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.RecursionLimit <= 0 {
		opts.RecursionLimit = DefaultRecursionLimit
	}

	if err := g.validate(); err != nil {
		return nil, err
	}

	r := &Runnable[S, K]{
		nodes:    make(map[K]NodeFunc[S], len(g.nodes)),
		order:    append([]K(nil), g.order...),
		edges:    make(map[K]K, len(g.edges)),
		branches: make(map[K]branch[S, K], len(g.branches)),
		entry:    g.entry,
		opts:     opts,
	}
	for k, v := range g.nodes {
		r.nodes[k] = v
	}
	for k, v := range g.edges {
		r.edges[k] = v
	}
	for k, v := range g.branches {
		r.branches[k] = v
	}
	return r, nil
}

func (g *Graph[S, K]) validate() error {
	errs := append([]error(nil), g.errs...)

	if !g.hasEntry {
		errs = append(errs, ErrNoEntryPoint)
	} else if _, ok := g.nodes[g.entry]; !ok {
		errs = append(errs, fmt.Errorf("graph: entry point %s is not a node", g.entry))
	}

	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("graph: edge from unknown node %s", from))
		}
		if !g.isTarget(to) {
			errs = append(errs, fmt.Errorf("graph: edge from %s to unknown node %s", from, to))
		}
	}

	for from, b := range g.branches {
		if _, ok := g.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("graph: conditional edges from unknown node %s", from))
		}
		if _, ok := g.edges[from]; ok {
			errs = append(errs, fmt.Errorf("graph: node %s has both static and conditional edges", from))
		}
		for _, to := range b.destinations {
			if !g.isTarget(to) {
				errs = append(errs, fmt.Errorf("graph: conditional edge from %s to unknown node %s", from, to))
			}
		}
	}

	for _, name := range g.order {
		_, static := g.edges[name]
		_, conditional := g.branches[name]
		if !static && !conditional {
			errs = append(errs, fmt.Errorf("graph: node %s has no outgoing edge", name))
		}
	}

	return errors.Join(errs...)
}

func (g *Graph[S, K]) isTarget(name K) bool {
	if string(name) == End {
		return true
	}
	_, ok := g.nodes[name]
	return ok
}

func isReserved[K ~string](name K) bool {
	return string(name) == Start || string(name) == End
}
