package providers

import (
	"math"

	"github.com/tripmind/tripmind/internal/domain"
)

// per-person, per-day baseline rates by budget tier
var tierRates = map[string]map[string]float64{
	"budget": {
		"stay":       800,
		"food":       500,
		"transport":  300,
		"activities": 400,
	},
	"mid-range": {
		"stay":       2500,
		"food":       1200,
		"transport":  800,
		"activities": 1000,
	},
	"luxury": {
		"stay":       8000,
		"food":       3000,
		"transport":  2500,
		"activities": 2500,
	},
}

// BudgetEstimator computes a cost breakdown from the trip shape. Rates
// are coarse heuristics; the generated itinerary refines the narrative
// but the stored numbers come from here.
type BudgetEstimator struct {
	currency string
}

// NewBudgetEstimator creates a new budget estimator
func NewBudgetEstimator(currency string) *BudgetEstimator {
	return &BudgetEstimator{currency: currency}
}

// Estimate computes the budget for a trip. Unknown tiers fall back to
// mid-range. Long journeys add a distance surcharge to transport.
func (e *BudgetEstimator) Estimate(dates domain.DateRange, travelers int, tier string, route *RouteInfo) domain.Budget {
	rates, ok := tierRates[tier]
	if !ok {
		rates = tierRates["mid-range"]
	}
	if travelers < 1 {
		travelers = 1
	}

	days := float64(dates.Days())
	people := float64(travelers)

	breakdown := make(map[string]float64, len(rates))
	var total float64
	for category, rate := range rates {
		amount := rate * days * people
		if category == "transport" && route != nil {
			amount += route.DistanceKm * 2 * people // round trip
		}
		amount = math.Round(amount)
		breakdown[category] = amount
		total += amount
	}

	return domain.Budget{
		Total:     total,
		Currency:  e.currency,
		Breakdown: breakdown,
	}
}
