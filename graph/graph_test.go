package graph

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	visits []string
	n      int
}

func step(name string) NodeFunc[*counter] {
	return func(_ context.Context, c *counter) error {
		c.visits = append(c.visits, name)
		c.n++
		return nil
	}
}

func loopGraph(limit int) *Graph[*counter, string] {
	g := New[*counter, string]()
	g.AddNode("inc", step("inc"))
	g.AddNode("check", step("check"))
	g.AddEdge("inc", "check")
	g.AddConditionalEdges("check", func(c *counter) string {
		if c.n >= limit {
			return End
		}
		return "inc"
	}, "inc", End)
	g.SetEntryPoint("inc")
	return g
}

func TestRun_FollowsEdgesUntilEnd(t *testing.T) {
	r, err := loopGraph(4).Compile()
	require.NoError(t, err)

	state := &counter{}
	path, err := r.Run(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, []string{"inc", "check", "inc", "check"}, path)
	assert.Equal(t, path, state.visits)
}

func TestRun_RecursionLimit(t *testing.T) {
	r, err := loopGraph(1000).Compile(func(o *Options) { o.RecursionLimit = 5 })
	require.NoError(t, err)

	path, err := r.Run(context.Background(), &counter{})
	require.ErrorIs(t, err, ErrRecursionLimit)
	assert.Len(t, path, 5)
}

func TestRun_DefaultRecursionLimit(t *testing.T) {
	r, err := loopGraph(1000).Compile(func(o *Options) { o.RecursionLimit = 0 })
	require.NoError(t, err)

	path, err := r.Run(context.Background(), &counter{})
	require.ErrorIs(t, err, ErrRecursionLimit)
	assert.Len(t, path, DefaultRecursionLimit)
}

func TestRun_NodeError(t *testing.T) {
	boom := errors.New("boom")
	g := New[*counter, string]()
	g.AddNode("fail", func(context.Context, *counter) error { return boom })
	g.AddEdge("fail", End)
	g.SetEntryPoint("fail")

	r, err := g.Compile()
	require.NoError(t, err)

	_, err = r.Run(context.Background(), &counter{})
	require.ErrorIs(t, err, boom)

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "fail", nodeErr.Node)
}

func TestRun_InvalidRoute(t *testing.T) {
	g := New[*counter, string]()
	g.AddNode("a", step("a"))
	g.AddNode("b", step("b"))
	g.AddEdge("b", End)
	g.AddConditionalEdges("a", func(*counter) string { return "nowhere" }, "b")
	g.SetEntryPoint("a")

	r, err := g.Compile()
	require.NoError(t, err)

	path, err := r.Run(context.Background(), &counter{})
	require.ErrorIs(t, err, ErrInvalidRoute)
	assert.Equal(t, []string{"a"}, path)
}

func TestRun_ContextCanceled(t *testing.T) {
	r, err := loopGraph(10).Compile()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path, err := r.Run(ctx, &counter{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, path)
}

func TestRun_Hooks(t *testing.T) {
	var (
		entered []string
		left    []string
		routes  []string
	)
	hooks := Hooks{
		OnNodeEnter: func(node string) { entered = append(entered, node) },
		OnNodeLeave: func(node string, dur time.Duration, err error) {
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, dur, time.Duration(0))
			left = append(left, node)
		},
	}
	routeHook := Hooks{OnRoute: func(from, to string) { routes = append(routes, from+">"+to) }}

	r, err := loopGraph(2).Compile(func(o *Options) { o.Hooks = Chain(hooks, routeHook) })
	require.NoError(t, err)

	_, err = r.Run(context.Background(), &counter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"inc", "check"}, entered)
	assert.Equal(t, entered, left)
	assert.Equal(t, []string{Start + ">inc", "inc>check", "check>" + End}, routes)
}

func TestChain_OrderAndNil(t *testing.T) {
	var calls []string
	h := Chain(
		Hooks{OnNodeEnter: func(string) { calls = append(calls, "first") }},
		Hooks{},
		Hooks{OnNodeEnter: func(string) { calls = append(calls, "second") }},
	)
	h.OnNodeEnter("x")
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Nil(t, h.OnRoute)
}

func TestCompile_ReportsAllProblems(t *testing.T) {
	g := New[*counter, string]()
	g.AddNode("a", step("a"))
	g.AddNode("a", step("a"))
	g.AddNode(End, step("end"))
	g.AddNode("orphan", step("orphan"))
	g.AddEdge("a", "missing")
	g.AddEdge("ghost", "a")

	_, err := g.Compile()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNoEntryPoint)

	msg := err.Error()
	for _, want := range []string{
		"duplicate node a",
		"reserved",
		"unknown node missing",
		"edge from unknown node ghost",
		"orphan has no outgoing edge",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestCompile_StaticAndConditional(t *testing.T) {
	g := New[*counter, string]()
	g.AddNode("a", step("a"))
	g.AddEdge("a", End)
	g.AddConditionalEdges("a", func(*counter) string { return End }, End)
	g.SetEntryPoint("a")

	_, err := g.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both static and conditional")
}

func TestCompile_UnknownEntry(t *testing.T) {
	g := New[*counter, string]()
	g.AddNode("a", step("a"))
	g.AddEdge("a", End)
	g.SetEntryPoint("b")

	_, err := g.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry point b")
}

func TestRendering(t *testing.T) {
	r, err := loopGraph(1).Compile()
	require.NoError(t, err)
	assert.Equal(t, []string{"inc", "check"}, r.Nodes())
	assert.Equal(t, "inc", r.EntryPoint())

	mermaid := r.Mermaid()
	assert.True(t, strings.HasPrefix(mermaid, "graph TD\n"))
	assert.Contains(t, mermaid, "__start__ --> inc")
	assert.Contains(t, mermaid, "inc --> check")
	assert.Contains(t, mermaid, "check -.-> inc")
	assert.Contains(t, mermaid, "check -.-> __end__")

	dotOut := r.DOT()
	assert.Contains(t, dotOut, "digraph")
	assert.Contains(t, dotOut, "inc")
	assert.Contains(t, dotOut, "dashed")
}

func TestWriteDiagram(t *testing.T) {
	r, err := loopGraph(1).Compile()
	require.NoError(t, err)

	dir := t.TempDir()

	mmd := filepath.Join(dir, "out", "graph.mmd")
	require.NoError(t, r.WriteDiagram(mmd))
	data, err := os.ReadFile(mmd)
	require.NoError(t, err)
	assert.Equal(t, r.Mermaid(), string(data))

	gv := filepath.Join(dir, "graph.dot")
	require.NoError(t, r.WriteDiagram(gv))
	data, err = os.ReadFile(gv)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
}
