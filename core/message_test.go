package core

import (
	"encoding/json"
	"testing"
)

func TestMessage_ConstructorsAndMethods(t *testing.T) {
	user := NewUserMessage("hello world")
	if user.Role != RoleUser || user.ID == "" || user.Timestamp.IsZero() || user.Text() != "hello world" {
		t.Fatalf("NewUserMessage malformed: %+v", user)
	}

	call := FunctionCall{ID: "call-1", Name: "check_order_status", Arguments: `{"order_id":"ORD123"}`}
	asst := NewAssistantMessage("", call)
	if len(asst.Parts) != 1 {
		t.Fatalf("empty text should be omitted, got %d parts", len(asst.Parts))
	}
	calls := asst.FunctionCalls()
	if len(calls) != 1 || calls[0] != call {
		t.Fatalf("FunctionCalls extraction failed: %+v", calls)
	}
	if !asst.HasFunctionCalls() || asst.IsFinalResponse() {
		t.Fatal("assistant with calls must not be final")
	}

	res := NewToolResultMessage(FunctionResponse{ID: "call-1", Name: "check_order_status", Response: 42})
	if !res.IsToolResult() || res.HasFunctionCalls() {
		t.Fatalf("tool result flags wrong: %+v", res)
	}
	resps := res.FunctionResponses()
	if len(resps) != 1 || resps[0].ID != "call-1" || resps[0].Response.(int) != 42 {
		t.Fatalf("FunctionResponses extraction failed: %+v", resps)
	}

	final := NewAssistantMessage("done")
	if !final.IsFinalResponse() {
		t.Error("assistant text without calls should be final")
	}
	if NewUserMessage("x").IsFinalResponse() {
		t.Error("user message is never a final response")
	}
}

func TestMessage_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewUserMessage("x").ID
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestFunctionResponse_Content(t *testing.T) {
	tests := []struct {
		name string
		resp FunctionResponse
		want string
	}{
		{"string verbatim", FunctionResponse{Response: "Sunny, 28°C"}, "Sunny, 28°C"},
		{"map as json", FunctionResponse{Response: map[string]string{"status": "shipped"}}, `{"status":"shipped"}`},
		{"raw json", FunctionResponse{Response: json.RawMessage(`{"a":1}`)}, `{"a":1}`},
		{"nil", FunctionResponse{}, "null"},
		{"error wins", FunctionResponse{Response: "ignored", Error: "boom"}, `{"error":"boom"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.resp.Content(); got != tc.want {
				t.Fatalf("Content() = %q, want %q", got, tc.want)
			}
		})
	}
}
