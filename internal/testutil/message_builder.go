package testutil

import (
	"time"

	"github.com/hupe1980/supportmesh/core"
)

// MessageBuilder provides a fluent helper for constructing messages in tests.
// Example:
//
//	msg := NewMessageBuilder().ID("m1").AssistantText("checking").Call("c1", "check_order_status", `{"order_id":"ORD123"}`).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MessageBuilder struct {
	id            string
	role          core.Role
	textParts     []string
	funcCalls     []core.FunctionCall
	funcResponses []core.FunctionResponse
	timestamp     time.Time
}

// NewMessageBuilder creates a builder with default role user.
func NewMessageBuilder() *MessageBuilder { return &MessageBuilder{role: core.RoleUser} }

// ID overrides the auto-generated message ID (chainable).
func (b *MessageBuilder) ID(id string) *MessageBuilder { b.id = id; return b }

// At fixes the timestamp (chainable).
func (b *MessageBuilder) At(ts time.Time) *MessageBuilder { b.timestamp = ts; return b }

// UserText appends a text part and sets role to user (chainable).
func (b *MessageBuilder) UserText(t string) *MessageBuilder {
	b.role = core.RoleUser
	b.textParts = append(b.textParts, t)
	return b
}

// AssistantText appends a text part and sets role to assistant (chainable).
func (b *MessageBuilder) AssistantText(t string) *MessageBuilder {
	b.role = core.RoleAssistant
	b.textParts = append(b.textParts, t)
	return b
}

// Call appends a function call part and sets role to assistant (chainable).
func (b *MessageBuilder) Call(id, name, args string) *MessageBuilder {
	b.role = core.RoleAssistant
	b.funcCalls = append(b.funcCalls, core.FunctionCall{ID: id, Name: name, Arguments: args})
	return b
}

// Result appends a function response part and sets role to tool (chainable).
func (b *MessageBuilder) Result(id, name string, response any) *MessageBuilder {
	b.role = core.RoleTool
	b.funcResponses = append(b.funcResponses, core.FunctionResponse{ID: id, Name: name, Response: response})
	return b
}

// Failure appends an error function response part and sets role to tool (chainable).
func (b *MessageBuilder) Failure(id, name, errMsg string) *MessageBuilder {
	b.role = core.RoleTool
	b.funcResponses = append(b.funcResponses, core.FunctionResponse{ID: id, Name: name, Error: errMsg})
	return b
}

// Build materializes the message.
func (b *MessageBuilder) Build() core.Message {
	parts := make([]core.Part, 0, len(b.textParts)+len(b.funcCalls)+len(b.funcResponses))
	for _, t := range b.textParts {
		parts = append(parts, core.TextPart{Text: t})
	}
	for _, fc := range b.funcCalls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: fc})
	}
	for _, fr := range b.funcResponses {
		parts = append(parts, core.FunctionResponsePart{FunctionResponse: fr})
	}

	msg := core.NewMessage(b.role, parts...)
	if b.id != "" {
		msg.ID = b.id
	}
	if !b.timestamp.IsZero() {
		msg.Timestamp = b.timestamp
	}
	return msg
}
