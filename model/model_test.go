package model

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/supportmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func userRequest(text string) Request {
	return Request{Messages: []core.Message{core.NewUserMessage(text)}}
}

func TestCollect_ReturnsFinalResponse(t *testing.T) {
	m := NewScriptedModel("scripted", Reply("hello there"))

	resp, err := Collect(context.Background(), m, userRequest("hi"))
	require.NoError(t, err)
	assert.False(t, resp.Partial)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, core.RoleAssistant, resp.Message.Role)
	assert.Equal(t, "hello there", resp.Message.Text())
}

func TestCollect_StreamingDropsPartials(t *testing.T) {
	m := NewScriptedModel("scripted", Reply("streamed answer that is longer than the channel buffer"))

	req := userRequest("hi")
	req.Stream = true

	resp, err := Collect(context.Background(), m, req)
	require.NoError(t, err)
	assert.Equal(t, "streamed answer that is longer than the channel buffer", resp.Message.Text())
}

func TestCollect_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	m := NewScriptedModel("scripted", Fail(boom))

	_, err := Collect(context.Background(), m, userRequest("hi"))
	assert.ErrorIs(t, err, boom)
}

func TestCollect_NoFinalResponse(t *testing.T) {
	_, err := Collect(context.Background(), silentModel{}, userRequest("hi"))
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestCollect_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, blockingModel{}, userRequest("hi"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScriptedModel_CallToolsAssignsIDs(t *testing.T) {
	m := NewScriptedModel("scripted",
		CallTools(
			core.FunctionCall{Name: "check_order_status", Arguments: `{"order_id":"ORD123"}`},
			core.FunctionCall{ID: "fixed", Name: "create_ticket", Arguments: `{}`},
		),
	)

	resp, err := Collect(context.Background(), m, userRequest("order"))
	require.NoError(t, err)
	assert.Equal(t, "tool_calls", resp.FinishReason)

	calls := resp.Message.FunctionCalls()
	require.Len(t, calls, 2)
	assert.NotEmpty(t, calls[0].ID)
	assert.Equal(t, "fixed", calls[1].ID)
	assert.Equal(t, "check_order_status", calls[0].Name)
}

func TestScriptedModel_RecordsRequestsAndExhausts(t *testing.T) {
	m := NewScriptedModel("scripted", Reply("one"))
	assert.Equal(t, 1, m.Remaining())

	_, err := Collect(context.Background(), m, userRequest("first"))
	require.NoError(t, err)

	_, err = Collect(context.Background(), m, userRequest("second"))
	assert.ErrorIs(t, err, ErrScriptExhausted)

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "second", reqs[1].Messages[0].Text())

	m.Enqueue(Reply("two"))
	resp, err := Collect(context.Background(), m, userRequest("third"))
	require.NoError(t, err)
	assert.Equal(t, "two", resp.Message.Text())
	assert.Equal(t, Info{Name: "scripted", Provider: "scripted", SupportsTools: true}, m.Info())
}

func TestFuncModel_AnswersEveryRequest(t *testing.T) {
	calls := 0
	m := NewFuncModel("echo", func(req Request) (core.Message, error) {
		calls++
		return core.NewAssistantMessage("echo: " + req.Messages[len(req.Messages)-1].Text()), nil
	})

	for _, in := range []string{"a", "b", "c"} {
		resp, err := Collect(context.Background(), m, userRequest(in))
		require.NoError(t, err)
		assert.Equal(t, "echo: "+in, resp.Message.Text())
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, "func", m.Info().Provider)

	_, err := Collect(context.Background(), NewFuncModel("nil", nil), userRequest("x"))
	assert.ErrorIs(t, err, ErrScriptExhausted)
}

type silentModel struct{}

func (silentModel) Generate(context.Context, Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response)
	errCh := make(chan error)
	close(respCh)
	close(errCh)
	return respCh, errCh
}

func (silentModel) Info() Info { return Info{Name: "silent"} }

type blockingModel struct{}

func (blockingModel) Generate(context.Context, Request) (<-chan Response, <-chan error) {
	return make(chan Response), make(chan error)
}

func (blockingModel) Info() Info { return Info{Name: "blocking"} }
