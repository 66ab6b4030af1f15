package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrRecursionLimit is returned when a run executes more nodes than the
	// configured limit without reaching End.
	ErrRecursionLimit = errors.New("graph: recursion limit reached")

	// ErrInvalidRoute is returned when a router selects a destination that
	// was not declared for its conditional edge.
	ErrInvalidRoute = errors.New("graph: invalid route")

	// ErrNoEntryPoint is reported by Compile when SetEntryPoint was never called.
	ErrNoEntryPoint = errors.New("graph: no entry point")
)

// NodeError wraps a failure raised while executing or routing from a node.
type NodeError struct {
	Node string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("graph: node %s: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }
