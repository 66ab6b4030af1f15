package supportmesh

import (
	"context"
	"fmt"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/logging"
	"github.com/hupe1980/supportmesh/model"
	"github.com/hupe1980/supportmesh/tool"
)

// AskResult captures a single tool round trip.
type AskResult struct {
	// Messages is the full exchange: prompt, first model turn, tool results
	// and, when tools were called, the final model turn.
	Messages []core.Message
	// Calls lists the function calls requested by the first turn.
	Calls []core.FunctionCall
	// Answer is the text of the last assistant message.
	Answer string
}

// Ask sends prompt to llm with the registry's tools, executes every requested
// call and asks the model once more with the results appended. Without tool
// calls the first answer is final.
func Ask(ctx context.Context, llm model.Model, registry *tool.Registry, prompt string, logger logging.Logger) (*AskResult, error) {
	logger = logging.OrNoOp(logger)

	messages := []core.Message{core.NewUserMessage(prompt)}
	req := model.Request{Messages: messages, Tools: registry.Definitions()}

	first, err := model.Collect(ctx, llm, req)
	if err != nil {
		return nil, fmt.Errorf("ask: first turn: %w", err)
	}
	messages = append(messages, first.Message)

	calls := first.Message.FunctionCalls()
	logger.Info("ask.first_turn", "tool_calls", len(calls), "finish_reason", first.FinishReason)
	if len(calls) == 0 {
		return &AskResult{Messages: messages, Answer: first.Message.Text()}, nil
	}

	exec := tool.NewExecutor(registry, func(o *tool.ExecutorOptions) { o.Logger = logger })
	messages = append(messages, exec.Execute(ctx, calls)...)

	req.Messages = messages
	final, err := model.Collect(ctx, llm, req)
	if err != nil {
		return nil, fmt.Errorf("ask: final turn: %w", err)
	}
	messages = append(messages, final.Message)

	return &AskResult{Messages: messages, Calls: calls, Answer: final.Message.Text()}, nil
}
