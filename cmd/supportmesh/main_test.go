package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "tools -.-> __end__")

	out, err = execute(t, "graph", "--format", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")

	_, err = execute(t, "graph", "--format", "png")
	assert.Error(t, err)
}

func TestGraphCommand_Output(t *testing.T) {
	path := filepath.Join(t.TempDir(), "support.dot")
	out, err := execute(t, "graph", "--format", "mermaid", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
}

func TestToolsCommand(t *testing.T) {
	out, err := execute(t, "tools", "travel")
	require.NoError(t, err)
	assert.Contains(t, out, "get_weather")
	assert.Contains(t, out, "book_flight")
	assert.Contains(t, out, "best_food")

	out, err = execute(t, "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "check_order_status")

	_, err = execute(t, "tools", "weather")
	assert.Error(t, err)
}

func TestRunCommand_Offline(t *testing.T) {
	diagram := filepath.Join(t.TempDir(), "graph.mmd")
	out, err := execute(t, "run", "--provider", "scripted", "--log-level", "error", "--diagram", diagram,
		"I'm a VIP customer, Check order ORD123 status and issue a refund")
	require.NoError(t, err)

	assert.Contains(t, out, "tier: vip, issue: billing")
	assert.Contains(t, out, "path: check_tier -> classify_issue -> billing_agent -> tools -> billing_agent -> tools")
	assert.Contains(t, out, "check_order_status")
	assert.Contains(t, out, "TKT12345")

	_, err = os.Stat(diagram)
	assert.NoError(t, err)
}

func TestRunCommand_MissingCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := execute(t, "run", "--provider", "openai", "--log-level", "error", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestAskCommand_Offline(t *testing.T) {
	out, err := execute(t, "ask", "--provider", "scripted", "--log-level", "error", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Prompt: hello")
	assert.Contains(t, out, "Answer:")
}

func TestInvalidProvider(t *testing.T) {
	_, err := execute(t, "ask", "--provider", "nope")
	assert.Error(t, err)
}
