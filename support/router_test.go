package support

import (
	"testing"

	"github.com/hupe1980/supportmesh/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSelectAgent_Priority(t *testing.T) {
	tests := []struct {
		tier  Tier
		issue IssueType
		want  Node
	}{
		{TierVIP, IssueBilling, NodeBillingAgent},
		{TierStandard, IssueBilling, NodeBillingAgent},
		{TierVIP, IssueGeneral, NodeVIPAgent},
		{TierStandard, IssueGeneral, NodeStandardAgent},
	}
	for _, tt := range tests {
		s := &State{UserTier: tt.tier, IssueType: tt.issue}
		assert.Equal(t, tt.want, SelectAgent(s), "%s/%s", tt.tier, tt.issue)
		assert.Equal(t, tt.want, RouteAfterClassify(s))
	}
}

func TestRouteAfterTools(t *testing.T) {
	newState := func() *State {
		s := NewState("premium customer")
		s.UserTier = TierVIP
		s.IssueType = IssueGeneral
		return s
	}

	t.Run("tool result returns to agent", func(t *testing.T) {
		s := newState()
		s.Append(
			testutil.NewMessageBuilder().Call("c1", "check_order_status", `{}`).Build(),
			testutil.NewMessageBuilder().Result("c1", "check_order_status", "ok").Build(),
		)
		assert.Equal(t, NodeVIPAgent, RouteAfterTools(s))
	})

	t.Run("pending tool calls return to agent", func(t *testing.T) {
		s := newState()
		s.Append(testutil.NewMessageBuilder().Call("c1", "check_order_status", `{}`).Build())
		assert.Equal(t, NodeVIPAgent, RouteAfterTools(s))
	})

	t.Run("final answer ends", func(t *testing.T) {
		s := newState()
		s.Append(testutil.NewMessageBuilder().AssistantText("done").Build())
		assert.Equal(t, NodeEnd, RouteAfterTools(s))
	})

	t.Run("stored classification is reused", func(t *testing.T) {
		s := newState()
		s.IssueType = IssueBilling
		s.Append(testutil.NewMessageBuilder().Result("c1", "create_ticket", "ok").Build())
		assert.Equal(t, NodeBillingAgent, RouteAfterTools(s))
	})
}

func TestAgentNodes(t *testing.T) {
	assert.Equal(t, []Node{NodeBillingAgent, NodeVIPAgent, NodeStandardAgent}, AgentNodes())
}
