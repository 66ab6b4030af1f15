package support

import (
	"context"
	"fmt"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/internal/prompt"
	"github.com/hupe1980/supportmesh/logging"
	"github.com/hupe1980/supportmesh/model"
	"github.com/hupe1980/supportmesh/tool"
)

// AgentOptions configures an Agent.
type AgentOptions struct {
	// Instructions are sent as the system prompt. Empty by default. They
	// may reference {{.agent}}, {{.tier}} and {{.issue}}.
	Instructions    string
	EnableStreaming bool
	Logger          logging.Logger
}

// Agent is one model-backed agent variant. All variants share this
// implementation; they differ only in routing and optional instructions.
type Agent struct {
	name         Node
	llm          model.Model
	tools        []model.ToolDefinition
	instructions string
	streaming    bool
	logger       logging.Logger
}

// NewAgent creates an agent node bound to the declarations of registry.
func NewAgent(name Node, llm model.Model, registry *tool.Registry, optFns ...func(o *AgentOptions)) *Agent {
	opts := AgentOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	var tools []model.ToolDefinition
	if registry != nil {
		tools = registry.Definitions()
	}

	return &Agent{
		name:         name,
		llm:          llm,
		tools:        tools,
		instructions: opts.Instructions,
		streaming:    opts.EnableStreaming,
		logger:       logging.OrNoOp(opts.Logger),
	}
}

// Name returns the node this agent is registered under.
func (a *Agent) Name() Node { return a.name }

// Run sends the full history to the model and appends exactly one assistant
// message. The vip variant also clears the escalation flag.
func (a *Agent) Run(ctx context.Context, s *State) error {
	instructions, err := prompt.Render(a.instructions, map[string]any{
		"agent": string(a.name),
		"tier":  string(s.UserTier),
		"issue": string(s.IssueType),
	})
	if err != nil {
		return err
	}

	req := model.Request{
		Instructions: instructions,
		Messages:     s.Messages(),
		Tools:        a.tools,
		Stream:       a.streaming,
	}

	resp, err := model.Collect(ctx, a.llm, req)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	msg := resp.Message
	msg.Role = core.RoleAssistant
	s.Append(msg)

	if a.name == NodeVIPAgent {
		s.ShouldEscalate = false
	}

	args := []any{
		"agent", string(a.name),
		"finish_reason", resp.FinishReason,
		"tool_calls", len(msg.FunctionCalls()),
	}
	if resp.Usage != nil {
		args = append(args, "total_tokens", resp.Usage.TotalTokens)
	}
	a.logger.Info("agent.response", args...)

	return nil
}

// ToolsNode executes every tool call of the latest assistant message and
// appends one correlated result message per call.
func ToolsNode(exec *tool.Executor) func(ctx context.Context, s *State) error {
	return func(ctx context.Context, s *State) error {
		last, ok := s.Last()
		if !ok {
			return ErrEmptyConversation
		}
		if !last.HasFunctionCalls() {
			return nil
		}
		s.Append(exec.Execute(ctx, last.FunctionCalls())...)
		return nil
	}
}
