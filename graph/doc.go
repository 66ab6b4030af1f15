// Package graph implements a small, generic state graph: named nodes mutate a
// shared state value, static and conditional edges pick the next node, and a
// compiled Runnable walks the graph from its entry point until it reaches End.
//
// Building is declarative and error tolerant: builder calls record problems
// instead of failing fast, and Compile reports all of them at once.
//
//	g := graph.New[*State, Node]()
//	g.AddNode("a", stepA)
//	g.AddNode("b", stepB)
//	g.AddEdge("a", "b")
//	g.AddConditionalEdges("b", route, "a", graph.End)
//	g.SetEntryPoint("a")
//	r, err := g.Compile()
//
// Execution is sequential and synchronous; a Runnable holds no per-run state
// and may be shared across goroutines as long as each Run gets its own state.
package graph
