package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/supportmesh/core"
)

// ErrScriptExhausted is emitted when a ScriptedModel is asked for more turns
// than it was given.
var ErrScriptExhausted = errors.New("model: script exhausted")

// Step produces one assistant turn for a request.
type Step func(req Request) (core.Message, error)

// Reply returns a Step answering with plain text and no tool calls.
func Reply(text string) Step {
	return func(Request) (core.Message, error) {
		return core.NewAssistantMessage(text), nil
	}
}

// CallTools returns a Step requesting the given function calls. Calls without
// an ID get a synthetic one so results stay correlatable.
func CallTools(calls ...core.FunctionCall) Step {
	return func(Request) (core.Message, error) {
		out := make([]core.FunctionCall, len(calls))
		for i, fc := range calls {
			if fc.ID == "" {
				fc.ID = "call_" + core.NewID()
			}
			out[i] = fc
		}
		return core.NewAssistantMessage("", out...), nil
	}
}

// Fail returns a Step that makes the generation fail with err.
func Fail(err error) Step {
	return func(Request) (core.Message, error) { return core.Message{}, err }
}

// ScriptedModel is a deterministic in‑memory Model replaying queued steps,
// one per Generate call. It records every request it receives and is safe for
// concurrent use.
type ScriptedModel struct {
	info Info

	mu       sync.Mutex
	steps    []Step
	requests []Request
}

// NewScriptedModel constructs a ScriptedModel with tool support enabled.
func NewScriptedModel(name string, steps ...Step) *ScriptedModel {
	return &ScriptedModel{
		info: Info{
			Name:          name,
			Provider:      "scripted",
			SupportsTools: true,
		},
		steps: steps,
	}
}

// Enqueue appends further steps to the script.
func (m *ScriptedModel) Enqueue(steps ...Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, steps...)
}

// Requests returns a copy of the requests received so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Remaining reports how many steps have not been consumed yet.
func (m *ScriptedModel) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.steps)
}

// Generate implements Model; emits optional per-rune partial chunks then the final response.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.requests = append(m.requests, req)
	var step Step
	if len(m.steps) > 0 {
		step = m.steps[0]
		m.steps = m.steps[1:]
	}
	m.mu.Unlock()

	go emit(ctx, m.info.Name, req, step, respCh, errCh)

	return respCh, errCh
}

// Info implements Model interface.
func (m *ScriptedModel) Info() Info { return m.info }

// FuncModel adapts a Step into a Model. Unlike ScriptedModel it answers any
// number of requests.
type FuncModel struct {
	info Info
	fn   Step
}

// NewFuncModel wraps fn.
func NewFuncModel(name string, fn Step) *FuncModel {
	return &FuncModel{
		info: Info{Name: name, Provider: "func", SupportsTools: true},
		fn:   fn,
	}
}

// Generate implements Model.
func (m *FuncModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)
	go emit(ctx, m.info.Name, req, m.fn, respCh, errCh)
	return respCh, errCh
}

// Info implements Model interface.
func (m *FuncModel) Info() Info { return m.info }

// emit runs step and publishes optional per-rune partial chunks followed by
// the final response. Both channels are closed on return.
func emit(ctx context.Context, name string, req Request, step Step, respCh chan<- Response, errCh chan<- error) {
	defer close(respCh)
	defer close(errCh)

	if step == nil {
		errCh <- fmt.Errorf("%s: %w", name, ErrScriptExhausted)
		return
	}

	msg, err := step(req)
	if err != nil {
		errCh <- err
		return
	}
	msg.Role = core.RoleAssistant

	if req.Stream {
		for _, r := range msg.Text() {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case respCh <- Response{
				Partial: true,
				Message: core.Message{Role: core.RoleAssistant, Parts: []core.Part{core.TextPart{Text: string(r)}}},
			}:
			}
		}
	}

	finish := "stop"
	if msg.HasFunctionCalls() {
		finish = "tool_calls"
	}

	select {
	case <-ctx.Done():
		errCh <- ctx.Err()
	case respCh <- Response{ID: msg.ID, Message: msg, FinishReason: finish}:
	}
}
