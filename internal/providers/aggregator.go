package providers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tripmind/tripmind/internal/domain"
)

// Aggregator fans out to every external data source and assembles the
// inputs for itinerary generation. Each provider carries its own bounded
// HTTP timeout, so aggregation always finishes within a bounded interval.
type Aggregator struct {
	geo           Geocoder
	weather       WeatherProvider
	route         RouteProvider
	attractions   AttractionProvider
	stays         StayProvider
	events        EventProvider
	budget        *BudgetEstimator
	defaultOrigin string
}

// NewAggregator creates a new aggregator
func NewAggregator(
	geo Geocoder,
	weather WeatherProvider,
	route RouteProvider,
	attractions AttractionProvider,
	stays StayProvider,
	events EventProvider,
	budget *BudgetEstimator,
	defaultOrigin string,
) *Aggregator {
	return &Aggregator{
		geo:           geo,
		weather:       weather,
		route:         route,
		attractions:   attractions,
		stays:         stays,
		events:        events,
		budget:        budget,
		defaultOrigin: defaultOrigin,
	}
}

// Aggregate resolves the destination and fetches weather, route,
// attraction, accommodation and event data in parallel, then estimates
// the budget. Any provider failure fails the whole aggregation.
func (a *Aggregator) Aggregate(ctx context.Context, req domain.TripRequest) (*AggregatedData, error) {
	travelers := req.Travelers
	if travelers < 1 {
		travelers = 1
	}
	origin := req.Origin
	if origin == "" {
		origin = a.defaultOrigin
	}

	dest, err := a.geo.Geocode(ctx, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination: %w", err)
	}
	orig, err := a.geo.Geocode(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve origin: %w", err)
	}

	data := &AggregatedData{
		Destination: req.Destination,
		DestCoords:  dest.Coords,
		Origin:      origin,
		Dates:       req.Dates,
		Travelers:   travelers,
		Preferences: req.Preferences,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		weather, err := a.weather.Forecast(gctx, dest.Coords, req.Dates)
		if err != nil {
			return fmt.Errorf("weather: %w", err)
		}
		data.Weather = *weather
		return nil
	})

	g.Go(func() error {
		route, err := a.route.Route(gctx, orig.Coords, dest.Coords)
		if err != nil {
			return fmt.Errorf("route: %w", err)
		}
		data.Route = *route
		return nil
	})

	g.Go(func() error {
		attractions, err := a.attractions.Nearby(gctx, dest.Coords, req.Preferences.Interests)
		if err != nil {
			return fmt.Errorf("attractions: %w", err)
		}
		data.Attractions = attractions
		return nil
	})

	g.Go(func() error {
		stays, err := a.stays.Search(gctx, req.Destination, req.Dates, req.Preferences.BudgetTier)
		if err != nil {
			return fmt.Errorf("stays: %w", err)
		}
		data.Stays = stays
		return nil
	})

	g.Go(func() error {
		events, err := a.events.Upcoming(gctx, req.Destination, req.Dates)
		if err != nil {
			return fmt.Errorf("events: %w", err)
		}
		data.Events = events
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	data.Budget = a.budget.Estimate(req.Dates, travelers, req.Preferences.BudgetTier, &data.Route)

	return data, nil
}
