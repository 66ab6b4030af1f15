package mocktools

import (
	"context"

	"github.com/hupe1980/supportmesh/tool"
)

// Support tool names.
const (
	CheckOrderStatusName = "check_order_status"
	CreateTicketName     = "create_ticket"
)

// OrderStatus is the result of check_order_status.
type OrderStatus struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	ETA     string `json:"eta"`
}

// Ticket is the result of create_ticket.
type Ticket struct {
	TicketID string `json:"ticket_id"`
	Issue    string `json:"issue"`
	Priority string `json:"priority"`
}

type orderStatusArgs struct {
	OrderID string `json:"order_id" jsonschema:"The order identifier, e.g. ORD123"`
}

type createTicketArgs struct {
	Issue    string `json:"issue" jsonschema:"Short description of the customer's issue"`
	Priority string `json:"priority" jsonschema:"Ticket priority, e.g. low, medium or high"`
}

// CheckOrderStatus reports a fixed status and ETA regardless of the order id.
func CheckOrderStatus(orderID string) OrderStatus {
	return OrderStatus{OrderID: orderID, Status: "shipped", ETA: "2024-01-20"}
}

// CreateTicket returns a fixed ticket id echoing the inputs.
func CreateTicket(issue, priority string) Ticket {
	return Ticket{TicketID: "TKT12345", Issue: issue, Priority: priority}
}

// SupportTools returns fresh instances of the customer-support tools.
func SupportTools() []tool.Tool {
	return []tool.Tool{
		tool.MustFunctionTool(CheckOrderStatusName, "Check the status of an order.",
			func(_ context.Context, a orderStatusArgs) (any, error) {
				return CheckOrderStatus(a.OrderID), nil
			}),
		tool.MustFunctionTool(CreateTicketName, "Create a support ticket.",
			func(_ context.Context, a createTicketArgs) (any, error) {
				return CreateTicket(a.Issue, a.Priority), nil
			}),
	}
}

// SupportRegistry returns a registry holding SupportTools.
func SupportRegistry() *tool.Registry {
	r, err := tool.NewRegistry(SupportTools()...)
	if err != nil {
		panic(err)
	}
	return r
}
