package providers

import (
	"context"

	"github.com/tripmind/tripmind/internal/domain"
)

// Coordinates is a WGS84 point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeoResult is a resolved place
type GeoResult struct {
	Name   string      `json:"name"`
	Coords Coordinates `json:"coords"`
}

// WeatherInfo is the forecast digest for a travel window
type WeatherInfo struct {
	Description string  `json:"description"`
	HighC       float64 `json:"high_c"`
	LowC        float64 `json:"low_c"`
}

// RouteInfo describes the journey from origin to destination
type RouteInfo struct {
	DistanceKm    float64 `json:"distance_km"`
	DurationHours float64 `json:"duration_hours"`
}

// Attraction is a point of interest near the destination
type Attraction struct {
	Name   string      `json:"name"`
	Kind   string      `json:"kind,omitempty"`
	Coords Coordinates `json:"coords"`
}

// Stay is an accommodation option
type Stay struct {
	Name          string  `json:"name"`
	PricePerNight float64 `json:"price_per_night"`
	Rating        float64 `json:"rating,omitempty"`
}

// LocalEvent is a happening during the travel window
type LocalEvent struct {
	Name  string `json:"name"`
	Date  string `json:"date"`
	Venue string `json:"venue,omitempty"`
}

// AggregatedData is everything the assembly pipeline gathers before
// itinerary generation
type AggregatedData struct {
	Destination string
	DestCoords  Coordinates
	Origin      string
	Dates       domain.DateRange
	Travelers   int
	Preferences domain.TripPreferences
	Weather     WeatherInfo
	Route       RouteInfo
	Attractions []Attraction
	Stays       []Stay
	Events      []LocalEvent
	Budget      domain.Budget
}

// Geocoder resolves a place name to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, place string) (*GeoResult, error)
}

// WeatherProvider fetches the forecast for a place and window
type WeatherProvider interface {
	Forecast(ctx context.Context, coords Coordinates, dates domain.DateRange) (*WeatherInfo, error)
}

// RouteProvider computes the journey between two points
type RouteProvider interface {
	Route(ctx context.Context, from, to Coordinates) (*RouteInfo, error)
}

// AttractionProvider lists points of interest near a place
type AttractionProvider interface {
	Nearby(ctx context.Context, coords Coordinates, interests []string) ([]Attraction, error)
}

// StayProvider searches accommodation for a place and budget tier
type StayProvider interface {
	Search(ctx context.Context, place string, dates domain.DateRange, tier string) ([]Stay, error)
}

// EventProvider lists happenings during the travel window
type EventProvider interface {
	Upcoming(ctx context.Context, place string, dates domain.DateRange) ([]LocalEvent, error)
}
