package graph

import (
	"time"

	"github.com/hupe1980/supportmesh/logging"
)

// DefaultRecursionLimit bounds the number of node executions per run.
const DefaultRecursionLimit = 25

// Hooks observe a run. Every field is optional.
type Hooks struct {
	OnNodeEnter func(node string)
	OnNodeLeave func(node string, dur time.Duration, err error)
	OnRoute     func(from, to string)
}

// Chain combines hooks so each callback fires in the given order.
func Chain(hooks ...Hooks) Hooks {
	var out Hooks
	for _, h := range hooks {
		h := h
		if h.OnNodeEnter != nil {
			prev := out.OnNodeEnter
			out.OnNodeEnter = func(node string) {
				if prev != nil {
					prev(node)
				}
				h.OnNodeEnter(node)
			}
		}
		if h.OnNodeLeave != nil {
			prev := out.OnNodeLeave
			out.OnNodeLeave = func(node string, dur time.Duration, err error) {
				if prev != nil {
					prev(node, dur, err)
				}
				h.OnNodeLeave(node, dur, err)
			}
		}
		if h.OnRoute != nil {
			prev := out.OnRoute
			out.OnRoute = func(from, to string) {
				if prev != nil {
					prev(from, to)
				}
				h.OnRoute(from, to)
			}
		}
	}
	return out
}

// Options configures a compiled graph.
type Options struct {
	// RecursionLimit is the maximum number of node executions per run.
	// Values <= 0 fall back to DefaultRecursionLimit.
	RecursionLimit int
	Logger         logging.Logger
	Hooks          Hooks
}

func defaultOptions() Options {
	return Options{
		RecursionLimit: DefaultRecursionLimit,
		Logger:         logging.NoOpLogger{},
	}
}
