package nlu

import (
	"context"

	"github.com/tripmind/tripmind/internal/domain"
)

// Intent is a classified user intention
type Intent string

const (
	IntentCreateTrip Intent = "create_trip"
	IntentTripDetail Intent = "trip_detail"
	IntentSmallTalk  Intent = "smalltalk"
	IntentUnknown    Intent = "unknown"
)

// Classification is the result of classifying free text: an intent plus
// whatever slot entities could already be extracted from it
type Classification struct {
	Intent   Intent         `json:"intent"`
	Entities map[string]any `json:"entities,omitempty"`
}

// Shape describes the value a single-answer extraction should produce
type Shape struct {
	Kind    domain.SlotValidation
	Options []string // choice kind only
}

// ItineraryRequest carries the aggregated trip data handed to the
// content generator
type ItineraryRequest struct {
	Destination  string
	Origin       string
	Dates        domain.DateRange
	Travelers    int
	Preferences  domain.TripPreferences
	Weather      string
	Route        string
	Attractions  []string
	Stays        []string
	LocalEvents  []string
	BudgetTotal  float64
	Currency     string
}

// ItineraryResult is the generated day-by-day plan plus derived content
type ItineraryResult struct {
	Itinerary        []domain.DayPlan `json:"itinerary"`
	FormattedText    string           `json:"formatted_text"`
	Tips             []string         `json:"tips"`
	MustEats         []string         `json:"must_eats"`
	Highlights       []string         `json:"highlights"`
	PackingChecklist []string         `json:"packing_checklist"`
}

// Provider defines the interface for NLU backends.
// Extract returns (nil, nil) when no value of the requested shape could
// be read from the text; the dialogue machine treats that as a miss.
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Classify determines the intent of free text and pre-extracts entities
	Classify(ctx context.Context, text string) (*Classification, error)

	// Extract normalizes a single free-text answer into the given shape
	Extract(ctx context.Context, text string, shape Shape) (any, error)

	// GenerateItinerary produces a day-by-day plan from aggregated trip data
	GenerateItinerary(ctx context.Context, req ItineraryRequest) (*ItineraryResult, error)
}
