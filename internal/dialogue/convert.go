package dialogue

import (
	"fmt"
	"time"

	"github.com/tripmind/tripmind/internal/domain"
)

// BuildTripRequest remaps completed slot data into the shape the
// assembly pipeline consumes. The budget tier is promoted into the
// nested preferences. Collected values may have round-tripped through
// JSON, so each coercion accepts both the native and the decoded form.
func BuildTripRequest(collected map[string]any) (*domain.TripRequest, error) {
	destination := toString(collected[SlotDestination])
	if destination == "" {
		return nil, fmt.Errorf("missing destination")
	}

	dates, err := toDateRange(collected[SlotDates])
	if err != nil {
		return nil, fmt.Errorf("invalid dates: %w", err)
	}

	travelers := int(toNumber(collected[SlotTravelers]))
	if travelers < 1 {
		travelers = 1
	}

	return &domain.TripRequest{
		Destination: destination,
		Dates:       dates,
		Travelers:   travelers,
		Preferences: domain.TripPreferences{
			BudgetTier:    toString(collected[SlotBudget]),
			Vibe:          toString(collected[SlotVibe]),
			TransportMode: toString(collected[SlotTransportMode]),
			Interests:     toStringList(collected[SlotInterests]),
		},
	}, nil
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

func toStringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		var items []string
		for _, item := range list {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return items
	}
	return nil
}

func toDateRange(v any) (domain.DateRange, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return domain.DateRange{}, fmt.Errorf("expected start/end object, got %T", v)
	}

	start, err := time.Parse("2006-01-02", toString(m["start"]))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("bad start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", toString(m["end"]))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("bad end date: %w", err)
	}
	if end.Before(start) {
		return domain.DateRange{}, fmt.Errorf("end date before start date")
	}

	return domain.DateRange{Start: start, End: end}, nil
}
