package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tripmind/tripmind/internal/domain"
)

func testDates(days int) domain.DateRange {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return domain.DateRange{Start: start, End: start.AddDate(0, 0, days-1)}
}

func TestBudgetEstimator_Estimate(t *testing.T) {
	estimator := NewBudgetEstimator("INR")

	t.Run("scales with days and travelers", func(t *testing.T) {
		solo := estimator.Estimate(testDates(5), 1, "mid-range", nil)
		pair := estimator.Estimate(testDates(5), 2, "mid-range", nil)

		assert.Equal(t, "INR", solo.Currency)
		assert.Equal(t, solo.Total*2, pair.Total)
		assert.Len(t, solo.Breakdown, 4)
	})

	t.Run("tiers are ordered", func(t *testing.T) {
		budget := estimator.Estimate(testDates(5), 2, "budget", nil)
		mid := estimator.Estimate(testDates(5), 2, "mid-range", nil)
		luxury := estimator.Estimate(testDates(5), 2, "luxury", nil)

		assert.Less(t, budget.Total, mid.Total)
		assert.Less(t, mid.Total, luxury.Total)
	})

	t.Run("unknown tier falls back to mid-range", func(t *testing.T) {
		unknown := estimator.Estimate(testDates(3), 2, "extravagant", nil)
		mid := estimator.Estimate(testDates(3), 2, "mid-range", nil)

		assert.Equal(t, mid.Total, unknown.Total)
	})

	t.Run("route distance raises transport", func(t *testing.T) {
		near := estimator.Estimate(testDates(3), 2, "mid-range", &RouteInfo{DistanceKm: 100})
		far := estimator.Estimate(testDates(3), 2, "mid-range", &RouteInfo{DistanceKm: 2000})

		assert.Less(t, near.Breakdown["transport"], far.Breakdown["transport"])
		assert.Equal(t, near.Breakdown["stay"], far.Breakdown["stay"])
	})

	t.Run("zero travelers clamps to one", func(t *testing.T) {
		zero := estimator.Estimate(testDates(3), 0, "budget", nil)
		one := estimator.Estimate(testDates(3), 1, "budget", nil)

		assert.Equal(t, one.Total, zero.Total)
	})
}
