package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/logging"
)

// CallObserver is notified after every tool execution.
type CallObserver func(name string, dur time.Duration, err error)

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	Logger logging.Logger
	// OnCall, when set, observes every executed call (metrics, tracing).
	OnCall CallObserver
}

// Executor runs function calls requested by a model against a Registry.
//
// Guarantees:
//   - exactly one tool-result message per incoming call, in call order
//   - each result carries the originating call's correlation id
//   - lookup, validation and execution failures (including panics) become
//     error results instead of aborting the batch
type Executor struct {
	registry *Registry
	opts     ExecutorOptions
}

// NewExecutor constructs an executor bound to a registry.
func NewExecutor(registry *Registry, optFns ...func(o *ExecutorOptions)) *Executor {
	opts := ExecutorOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &Executor{registry: registry, opts: opts}
}

// Execute runs calls sequentially and returns their result messages.
func (e *Executor) Execute(ctx context.Context, calls []core.FunctionCall) []core.Message {
	if len(calls) == 0 {
		return nil
	}

	batchStart := time.Now()
	results := make([]core.Message, 0, len(calls))
	for _, fc := range calls {
		results = append(results, core.NewToolResultMessage(e.ExecuteCall(ctx, fc)))
	}

	e.opts.Logger.Debug(
		"tool.batch.complete",
		"count", len(calls),
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)

	return results
}

// ExecuteCall runs a single call and returns its correlated response.
func (e *Executor) ExecuteCall(ctx context.Context, fc core.FunctionCall) core.FunctionResponse {
	logger := e.opts.Logger
	start := time.Now()

	logger.Debug("tool.call.start", "tool", fc.Name, "fc_id", fc.ID)

	var (
		result any
		err    error
	)
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	} else {
		result, err = e.call(ctx, fc)
	}
	dur := time.Since(start)

	if e.opts.OnCall != nil {
		e.opts.OnCall(fc.Name, dur, err)
	}

	resp := core.FunctionResponse{ID: fc.ID, Name: fc.Name, Response: result}
	if err != nil {
		resp.Response = nil
		resp.Error = err.Error()
		logger.Warn("tool.call.error", "tool", fc.Name, "fc_id", fc.ID, "error", err.Error())
		return resp
	}

	logger.Info("tool.call.success", "tool", fc.Name, "fc_id", fc.ID, "duration_ms", dur.Milliseconds())

	return resp
}

// call centralizes lookup & execution with panic safety.
func (e *Executor) call(ctx context.Context, fc core.FunctionCall) (result any, err error) {
	impl, ok := e.registry.Get(fc.Name)
	if !ok {
		return nil, NewToolError(fc.Name, fmt.Sprintf("tool %s not found", fc.Name), CodeNotFound)
	}

	defer func() {
		if r := recover(); r != nil {
			e.opts.Logger.Error("tool.call.panic", "tool", fc.Name, "recover", r, "stack", string(debug.Stack()))
			result, err = nil, &ToolError{Tool: fc.Name, Message: fmt.Sprintf("panic: %v", r), Code: CodePanic}
		}
	}()

	return impl.Call(ctx, json.RawMessage(fc.Arguments))
}

// IsToolError reports whether err is (or wraps) a ToolError with the given code.
func IsToolError(err error, code string) bool {
	var toolErr *ToolError
	return errors.As(err, &toolErr) && toolErr.Code == code
}
