package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toolUseMessage = `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-sonnet-20241022",
  "content": [
    {"type": "text", "text": "Let me check."},
    {"type": "tool_use", "id": "toolu_1", "name": "check_order_status", "input": {"order_id": "ORD123"}}
  ],
  "stop_reason": "tool_use",
  "stop_sequence": null,
  "usage": {"input_tokens": 12, "output_tokens": 8}
}`

func TestBuildMessages_FoldsToolResultsIntoUserTurn(t *testing.T) {
	msgs := []core.Message{
		core.NewSystemMessage("you are support"),
		core.NewUserMessage("Check ORD123 and ORD456"),
		core.NewAssistantMessage("",
			core.FunctionCall{ID: "t1", Name: "check_order_status", Arguments: `{"order_id":"ORD123"}`},
			core.FunctionCall{ID: "t2", Name: "check_order_status", Arguments: `{"order_id":"ORD456"}`},
		),
		core.NewToolResultMessage(core.FunctionResponse{ID: "t1", Name: "check_order_status", Response: "a"}),
		core.NewToolResultMessage(core.FunctionResponse{ID: "t2", Name: "check_order_status", Response: "b"}),
		core.NewAssistantMessage("Both shipped."),
	}

	out := buildMessages(msgs)
	require.Len(t, out, 4)

	assert.Equal(t, "user", string(out[0].Role))
	assert.Equal(t, "assistant", string(out[1].Role))
	assert.Len(t, out[1].Content, 2)
	assert.Equal(t, "user", string(out[2].Role))
	require.Len(t, out[2].Content, 2)
	require.NotNil(t, out[2].Content[0].OfToolResult)
	assert.Equal(t, "t1", out[2].Content[0].OfToolResult.ToolUseID)
	assert.Equal(t, "t2", out[2].Content[1].OfToolResult.ToolUseID)
	assert.Equal(t, "assistant", string(out[3].Role))
}

func TestExtractSystem(t *testing.T) {
	req := model.Request{
		Instructions: "be brief",
		Messages:     []core.Message{core.NewSystemMessage("you are support"), core.NewUserMessage("hi")},
	}

	blocks := extractSystem(req)
	require.Len(t, blocks, 2)
	assert.Equal(t, "be brief", blocks[0].Text)
	assert.Equal(t, "you are support", blocks[1].Text)
}

func TestBuildTools(t *testing.T) {
	tools := buildTools([]model.ToolDefinition{{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        "get_weather",
			Description: "Get the current weather for a city.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{"city": map[string]any{"type": "string"}},
				"required":   []any{"city"},
			},
		},
	}})

	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "get_weather", tools[0].OfTool.Name)
	assert.Equal(t, []string{"city"}, tools[0].OfTool.InputSchema.Required)
}

func TestGenerate_ToolUse(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, toolUseMessage)
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL
		o.RequestOptions = []option.RequestOption{option.WithMaxRetries(0)}
	})

	resp, err := model.Collect(context.Background(), m, model.Request{
		Instructions: "be brief",
		Messages:     []core.Message{core.NewUserMessage("Check order ORD123")},
	})
	require.NoError(t, err)

	assert.Equal(t, "msg_1", resp.ID)
	assert.Equal(t, "tool_use", resp.FinishReason)
	assert.Equal(t, "Let me check.", resp.Message.Text())
	calls := resp.Message.FunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "toolu_1", calls[0].ID)
	assert.Equal(t, "check_order_status", calls[0].Name)
	assert.JSONEq(t, `{"order_id":"ORD123"}`, calls[0].Arguments)
	assert.EqualValues(t, 20, resp.Usage.TotalTokens)

	assert.NotNil(t, captured["system"])
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "k" })
	info := m.Info()
	assert.Equal(t, "anthropic", info.Provider)
	assert.True(t, info.SupportsTools)
}
