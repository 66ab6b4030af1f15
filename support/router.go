package support

import "github.com/hupe1980/supportmesh/graph"

// Node identifies a workflow node.
type Node string

// Workflow nodes.
const (
	NodeCheckTier     Node = "check_tier"
	NodeClassifyIssue Node = "classify_issue"
	NodeStandardAgent Node = "standard_agent"
	NodeVIPAgent      Node = "vip_agent"
	NodeBillingAgent  Node = "billing_agent"
	NodeTools         Node = "tools"
	NodeEnd           Node = graph.End
)

// AgentNodes lists the agent variants in routing priority order.
func AgentNodes() []Node {
	return []Node{NodeBillingAgent, NodeVIPAgent, NodeStandardAgent}
}

// SelectAgent applies the routing priority billing > vip > standard.
func SelectAgent(s *State) Node {
	switch {
	case s.IssueType == IssueBilling:
		return NodeBillingAgent
	case s.UserTier == TierVIP:
		return NodeVIPAgent
	default:
		return NodeStandardAgent
	}
}

// RouteAfterClassify picks the first agent once tier and issue are known.
func RouteAfterClassify(s *State) Node {
	return SelectAgent(s)
}

// RouteAfterTools terminates when the latest assistant message requested no
// tool calls and otherwise hands control back to the agent selected from the
// stored classification.
func RouteAfterTools(s *State) Node {
	last, ok := s.Last()
	if ok && last.IsFinalResponse() {
		return NodeEnd
	}
	return SelectAgent(s)
}
