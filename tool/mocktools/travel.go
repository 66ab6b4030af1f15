package mocktools

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/supportmesh/tool"
)

// Travel tool names.
const (
	GetWeatherName = "get_weather"
	BookFlightName = "book_flight"
	BestFoodName   = "best_food"
)

// Fallbacks returned for cities missing from the lookup tables.
const (
	WeatherNotAvailable  = "Weather data not available"
	BestFoodNotAvailable = "Best food data not available"
)

var weatherData = map[string]string{
	"bangalore": "Sunny, 28°C",
	"mumbai":    "Rainy, 26°C",
	"delhi":     "Cloudy, 22°C",
}

var bestFoodData = map[string]string{
	"bangalore": "Masala Dosa",
	"mumbai":    "Vada Pav",
	"delhi":     "Chaat",
}

// Booking is the result of book_flight.
type Booking struct {
	BookingID string `json:"booking_id"`
	Route     string `json:"route"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

type cityArgs struct {
	City string `json:"city" jsonschema:"The name of the city"`
}

type bookFlightArgs struct {
	Origin      string `json:"origin" jsonschema:"The origin city"`
	Destination string `json:"destination" jsonschema:"The destination city"`
	Date        string `json:"date" jsonschema:"The date of the flight"`
}

// GetWeather looks the city up case-insensitively.
func GetWeather(city string) string {
	if w, ok := weatherData[strings.ToLower(city)]; ok {
		return w
	}
	return WeatherNotAvailable
}

// BestFood looks the city up case-insensitively.
func BestFood(city string) string {
	if f, ok := bestFoodData[strings.ToLower(city)]; ok {
		return f
	}
	return BestFoodNotAvailable
}

// BookFlight returns a fixed, confirmed booking echoing the inputs.
func BookFlight(origin, destination, date string) Booking {
	return Booking{
		BookingID: "1234567890",
		Route:     fmt.Sprintf("%s to %s", origin, destination),
		Date:      date,
		Status:    "confirmed",
	}
}

// TravelTools returns fresh instances of the travel demo tools.
func TravelTools() []tool.Tool {
	return []tool.Tool{
		tool.MustFunctionTool(GetWeatherName, "Get the current weather for a city.",
			func(_ context.Context, a cityArgs) (any, error) {
				return GetWeather(a.City), nil
			}),
		tool.MustFunctionTool(BookFlightName, "Book a flight from one city to another.",
			func(_ context.Context, a bookFlightArgs) (any, error) {
				return BookFlight(a.Origin, a.Destination, a.Date), nil
			}),
		tool.MustFunctionTool(BestFoodName, "Get the best food in a city.",
			func(_ context.Context, a cityArgs) (any, error) {
				return BestFood(a.City), nil
			}),
	}
}

// TravelRegistry returns a registry holding TravelTools.
func TravelRegistry() *tool.Registry {
	r, err := tool.NewRegistry(TravelTools()...)
	if err != nil {
		panic(err)
	}
	return r
}
