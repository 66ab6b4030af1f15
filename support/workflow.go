package support

import (
	"context"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/graph"
	"github.com/hupe1980/supportmesh/logging"
	"github.com/hupe1980/supportmesh/model"
	"github.com/hupe1980/supportmesh/tool"
)

// Options configures a Workflow.
type Options struct {
	TierClassifier  TierClassifier
	IssueClassifier IssueClassifier
	// Instructions holds optional per-agent system prompts keyed by agent node.
	Instructions    map[Node]string
	EnableStreaming bool
	RecursionLimit  int
	Logger          logging.Logger
	Hooks           graph.Hooks
	// OnToolCall observes every executed tool call.
	OnToolCall tool.CallObserver
}

// Workflow is the compiled support router. It is immutable and may be shared;
// every Invoke works on a fresh State.
type Workflow struct {
	runnable *graph.Runnable[*State, Node]
	registry *tool.Registry
	logger   logging.Logger
}

// Result is the outcome of one run.
type Result struct {
	State *State
	Path  []Node
}

// Answer returns the text of the final assistant message.
func (r *Result) Answer() string {
	if r == nil || r.State == nil {
		return ""
	}
	msgs := r.State.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == core.RoleAssistant {
			return msgs[i].Text()
		}
	}
	return ""
}

// NewWorkflow builds and compiles the support graph.
func NewWorkflow(llm model.Model, registry *tool.Registry, optFns ...func(o *Options)) (*Workflow, error) {
	kw := NewKeywordClassifier()
	opts := Options{
		TierClassifier:  kw,
		IssueClassifier: kw,
		RecursionLimit:  graph.DefaultRecursionLimit,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	if registry == nil {
		registry, _ = tool.NewRegistry()
	}

	exec := tool.NewExecutor(registry, func(o *tool.ExecutorOptions) {
		o.Logger = opts.Logger
		o.OnCall = opts.OnToolCall
	})

	g := graph.New[*State, Node]()
	g.AddNode(NodeCheckTier, CheckTierNode(opts.TierClassifier))
	g.AddNode(NodeClassifyIssue, ClassifyIssueNode(opts.IssueClassifier))
	for _, name := range AgentNodes() {
		agent := NewAgent(name, llm, registry, func(o *AgentOptions) {
			o.Instructions = opts.Instructions[name]
			o.EnableStreaming = opts.EnableStreaming
			o.Logger = opts.Logger
		})
		g.AddNode(name, agent.Run)
		g.AddEdge(name, NodeTools)
	}
	g.AddNode(NodeTools, ToolsNode(exec))

	g.SetEntryPoint(NodeCheckTier)
	g.AddEdge(NodeCheckTier, NodeClassifyIssue)
	g.AddConditionalEdges(NodeClassifyIssue, RouteAfterClassify, AgentNodes()...)
	g.AddConditionalEdges(NodeTools, RouteAfterTools, append(AgentNodes(), NodeEnd)...)

	runnable, err := g.Compile(func(o *graph.Options) {
		o.RecursionLimit = opts.RecursionLimit
		o.Logger = opts.Logger
		o.Hooks = opts.Hooks
	})
	if err != nil {
		return nil, err
	}

	return &Workflow{runnable: runnable, registry: registry, logger: opts.Logger}, nil
}

// Invoke runs the workflow for a single user message. On failure the partial
// result is returned together with the error.
func (w *Workflow) Invoke(ctx context.Context, text string) (*Result, error) {
	return w.Run(ctx, NewState(text))
}

// Run executes the workflow against a caller-provided state.
func (w *Workflow) Run(ctx context.Context, s *State) (*Result, error) {
	path, err := w.runnable.Run(ctx, s)
	res := &Result{State: s, Path: path}
	if err != nil {
		w.logger.Error("workflow.failed", "error", err.Error(), "steps", len(path))
		return res, err
	}
	w.logger.Info("workflow.complete",
		"tier", string(s.UserTier),
		"issue", string(s.IssueType),
		"steps", len(path),
		"messages", s.Len(),
	)
	return res, nil
}

// Registry returns the tool registry bound to the agents.
func (w *Workflow) Registry() *tool.Registry { return w.registry }

// Mermaid renders the workflow graph as a Mermaid flowchart.
func (w *Workflow) Mermaid() string { return w.runnable.Mermaid() }

// DOT renders the workflow graph in Graphviz DOT format.
func (w *Workflow) DOT() string { return w.runnable.DOT() }

// WriteDiagram writes the workflow diagram to path. Failures are logged and
// returned; callers usually ignore them.
func (w *Workflow) WriteDiagram(path string) error {
	if err := w.runnable.WriteDiagram(path); err != nil {
		w.logger.Warn("workflow.diagram.failed", "path", path, "error", err.Error())
		return err
	}
	w.logger.Debug("workflow.diagram.written", "path", path)
	return nil
}
