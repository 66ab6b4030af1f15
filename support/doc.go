// Package support implements the tiered customer-support router.
//
// A Workflow wires five kinds of nodes into a graph.Runnable:
//
//	check_tier -> classify_issue -> {billing_agent | vip_agent | standard_agent}
//	           -> tools -> {billing_agent | vip_agent | standard_agent | END}
//
// The tier and issue classifiers inspect the first message once. Routing after
// classification and after every tool round trip re-derives the agent from the
// stored classification (billing > vip > standard). A run terminates when the
// latest assistant message requests no tool calls.
package support
