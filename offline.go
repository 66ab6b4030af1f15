package supportmesh

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/model"
	"github.com/hupe1980/supportmesh/tool/mocktools"
)

var orderIDPattern = regexp.MustCompile(`(?i)\bORD\d+\b`)

// NewOfflineModel returns a deterministic model for running the workflow
// without provider credentials. On the first turn it requests
// check_order_status for every order id in the message and create_ticket for
// refund or billing requests, provided those tools are declared. Once tool
// results arrive it summarizes them; otherwise it answers with a fixed reply.
func NewOfflineModel(name string) model.Model {
	return model.NewFuncModel(name, offlineStep)
}

func offlineStep(req model.Request) (core.Message, error) {
	if len(req.Messages) == 0 {
		return core.NewAssistantMessage("How can I help you today?"), nil
	}

	last := req.Messages[len(req.Messages)-1]
	switch {
	case last.IsToolResult():
		return core.NewAssistantMessage(summarizeToolResults(req.Messages)), nil
	case last.Role == core.RoleUser:
		if calls := plannedCalls(last.Text(), req.Tools); len(calls) > 0 {
			return core.NewAssistantMessage("", calls...), nil
		}
	}

	return core.NewAssistantMessage("Thanks for reaching out. A support specialist will follow up shortly."), nil
}

func plannedCalls(text string, tools []model.ToolDefinition) []core.FunctionCall {
	declared := func(name string) bool {
		return slices.ContainsFunc(tools, func(d model.ToolDefinition) bool { return d.Function.Name == name })
	}

	var calls []core.FunctionCall
	if declared(mocktools.CheckOrderStatusName) {
		for _, id := range orderIDPattern.FindAllString(text, -1) {
			calls = append(calls, core.FunctionCall{
				ID:        "call_" + core.NewID(),
				Name:      mocktools.CheckOrderStatusName,
				Arguments: jsonArgs(map[string]string{"order_id": strings.ToUpper(id)}),
			})
		}
	}

	lower := strings.ToLower(text)
	if declared(mocktools.CreateTicketName) && (strings.Contains(lower, "refund") || strings.Contains(lower, "billing")) {
		calls = append(calls, core.FunctionCall{
			ID:        "call_" + core.NewID(),
			Name:      mocktools.CreateTicketName,
			Arguments: jsonArgs(map[string]string{"issue": text, "priority": "high"}),
		})
	}

	return calls
}

func jsonArgs(v map[string]string) string {
	data, _ := json.Marshal(v)
	return string(data)
}

// summarizeToolResults lists the trailing run of tool results.
func summarizeToolResults(msgs []core.Message) string {
	var lines []string
	for i := len(msgs) - 1; i >= 0 && msgs[i].IsToolResult(); i-- {
		for _, fr := range msgs[i].FunctionResponses() {
			lines = append(lines, fmt.Sprintf("- %s: %s", fr.Name, fr.Content()))
		}
	}
	slices.Reverse(lines)
	return "Here is what I found:\n" + strings.Join(lines, "\n")
}
