package mocktools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOrderStatus_Deterministic(t *testing.T) {
	want := OrderStatus{OrderID: "ORD123", Status: "shipped", ETA: "2024-01-20"}
	for i := 0; i < 3; i++ {
		assert.Equal(t, want, CheckOrderStatus("ORD123"))
	}
	assert.Equal(t, "shipped", CheckOrderStatus("anything").Status)
}

func TestCreateTicket(t *testing.T) {
	assert.Equal(t, Ticket{TicketID: "TKT12345", Issue: "refund", Priority: "high"}, CreateTicket("refund", "high"))
}

func TestLookups(t *testing.T) {
	assert.Equal(t, "Sunny, 28°C", GetWeather("Bangalore"))
	assert.Equal(t, "Rainy, 26°C", GetWeather("MUMBAI"))
	assert.Equal(t, WeatherNotAvailable, GetWeather("Atlantis"))

	assert.Equal(t, "Masala Dosa", BestFood("bangalore"))
	assert.Equal(t, "Chaat", BestFood("Delhi"))
	assert.Equal(t, BestFoodNotAvailable, BestFood("Atlantis"))
}

func TestBookFlight(t *testing.T) {
	b := BookFlight("Bangalore", "Mumbai", "12/01/2026")
	assert.Equal(t, Booking{BookingID: "1234567890", Route: "Bangalore to Mumbai", Date: "12/01/2026", Status: "confirmed"}, b)
}

func TestRegistries(t *testing.T) {
	assert.Equal(t, []string{CheckOrderStatusName, CreateTicketName}, SupportRegistry().Names())
	assert.Equal(t, []string{GetWeatherName, BookFlightName, BestFoodName}, TravelRegistry().Names())

	for _, def := range TravelRegistry().Definitions() {
		assert.Equal(t, "object", def.Function.Parameters["type"], def.Function.Name)
		assert.NotEmpty(t, def.Function.Description)
	}
}

func TestToolsThroughExecutor(t *testing.T) {
	exec := tool.NewExecutor(SupportRegistry())

	msgs := exec.Execute(context.Background(), []core.FunctionCall{
		{ID: "c1", Name: CheckOrderStatusName, Arguments: `{"order_id":"ORD123"}`},
		{ID: "c2", Name: CreateTicketName, Arguments: `{"issue":"refund","priority":"high"}`},
	})
	require.Len(t, msgs, 2)

	first := msgs[0].FunctionResponses()[0]
	assert.Equal(t, "c1", first.ID)
	assert.Empty(t, first.Error)
	assert.JSONEq(t, `{"order_id":"ORD123","status":"shipped","eta":"2024-01-20"}`, first.Content())

	second := msgs[1].FunctionResponses()[0]
	assert.Equal(t, "c2", second.ID)
	var ticket Ticket
	require.NoError(t, json.Unmarshal([]byte(second.Content()), &ticket))
	assert.Equal(t, "TKT12345", ticket.TicketID)
}

func TestWeatherUnknownCityNeverFails(t *testing.T) {
	exec := tool.NewExecutor(TravelRegistry())

	resp := exec.ExecuteCall(context.Background(), core.FunctionCall{ID: "w1", Name: GetWeatherName, Arguments: `{"city":"Atlantis"}`})
	assert.Empty(t, resp.Error)
	assert.Equal(t, WeatherNotAvailable, resp.Response)
}
