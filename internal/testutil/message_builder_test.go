package testutil

import (
	"testing"
	"time"

	"github.com/hupe1980/supportmesh/core"
	"github.com/stretchr/testify/assert"
)

func TestMessageBuilder(t *testing.T) {
	ts := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	msg := NewMessageBuilder().ID("m1").At(ts).AssistantText("checking").Call("c1", "check_order_status", `{}`).Build()
	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, ts, msg.Timestamp)
	assert.Equal(t, core.RoleAssistant, msg.Role)
	assert.Equal(t, "checking", msg.Text())
	assert.True(t, msg.HasFunctionCalls())

	res := NewMessageBuilder().Result("c1", "check_order_status", "ok").Failure("c2", "x", "boom").Build()
	assert.True(t, res.IsToolResult())
	assert.Len(t, res.FunctionResponses(), 2)
	assert.NotEmpty(t, res.ID)

	assert.Equal(t, core.RoleUser, NewMessageBuilder().UserText("hi").Build().Role)
}
