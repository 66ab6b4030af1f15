package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role tags the producer of a message.
type Role string

const (
	// RoleSystem marks provider instructions.
	RoleSystem Role = "system"
	// RoleUser marks end-user input.
	RoleUser Role = "user"
	// RoleAssistant marks model output, possibly carrying function calls.
	RoleAssistant Role = "assistant"
	// RoleTool marks a function call result.
	RoleTool Role = "tool"
)

// Message is one entry of a conversation. After it has been appended to a
// conversation it should be treated as immutable.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Parts     []Part    `json:"parts"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh id and UTC timestamp.
func NewMessage(role Role, parts ...Part) Message {
	return Message{
		ID:        NewID(),
		Role:      role,
		Parts:     parts,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message {
	return NewMessage(RoleUser, TextPart{Text: text})
}

// NewSystemMessage creates a system instruction message.
func NewSystemMessage(text string) Message {
	return NewMessage(RoleSystem, TextPart{Text: text})
}

// NewAssistantMessage creates an assistant message. Empty text is omitted so a
// pure tool-call turn carries only FunctionCallParts.
func NewAssistantMessage(text string, calls ...FunctionCall) Message {
	parts := make([]Part, 0, len(calls)+1)
	if text != "" {
		parts = append(parts, TextPart{Text: text})
	}
	for _, fc := range calls {
		parts = append(parts, FunctionCallPart{FunctionCall: fc})
	}
	return NewMessage(RoleAssistant, parts...)
}

// NewToolResultMessage records the completion result (or error) of a single
// function call. The response ID must match the originating call.
func NewToolResultMessage(resp FunctionResponse) Message {
	return NewMessage(RoleTool, FunctionResponsePart{FunctionResponse: resp})
}

// NewID generates a new unique identifier for messages and synthetic call ids.
func NewID() string { return uuid.NewString() }

// Text concatenates all text parts.
func (m Message) Text() string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}

// FunctionCalls returns any FunctionCall parts preserving their original order.
func (m Message) FunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, p := range m.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}

// FunctionResponses returns any FunctionResponse parts preserving their original order.
func (m Message) FunctionResponses() []FunctionResponse {
	var responses []FunctionResponse
	for _, p := range m.Parts {
		if fr, ok := p.(FunctionResponsePart); ok {
			responses = append(responses, fr.FunctionResponse)
		}
	}
	return responses
}

// HasFunctionCalls reports whether an assistant message requests tool execution.
func (m Message) HasFunctionCalls() bool {
	if m.Role != RoleAssistant {
		return false
	}
	for _, p := range m.Parts {
		if _, ok := p.(FunctionCallPart); ok {
			return true
		}
	}
	return false
}

// IsToolResult reports whether the message carries function call results.
func (m Message) IsToolResult() bool { return m.Role == RoleTool }

// IsFinalResponse reports whether the message is an assistant turn that does
// not ask for further tool execution.
func (m Message) IsFinalResponse() bool {
	return m.Role == RoleAssistant && !m.HasFunctionCalls()
}
