package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/tripmind/tripmind/internal/domain"
	"github.com/tripmind/tripmind/internal/nlu"
	"github.com/tripmind/tripmind/internal/providers"
)

const creationErrorReply = "I couldn't put your trip together this time. Please try again in a little while."

// AssemblyService runs the trip assembly pipeline: aggregate external
// data, generate an itinerary, persist the trip with its chat room in
// one transaction, and report the outcome on the notification bus.
type AssemblyService struct {
	aggregator *providers.Aggregator
	nlu        *nlu.Router
	trips      domain.TripWriter
	bus        domain.EventPublisher
	timeout    time.Duration

	wg sync.WaitGroup
}

// NewAssemblyService creates a new assembly service
func NewAssemblyService(
	aggregator *providers.Aggregator,
	nluRouter *nlu.Router,
	trips domain.TripWriter,
	bus domain.EventPublisher,
	timeout time.Duration,
) *AssemblyService {
	return &AssemblyService{
		aggregator: aggregator,
		nlu:        nluRouter,
		trips:      trips,
		bus:        bus,
		timeout:    timeout,
	}
}

// Trigger starts the pipeline detached from the calling request. The
// caller gets no outcome; the creator observes exactly one event on
// their private channel, tripCreated or tripCreationError.
func (s *AssemblyService) Trigger(creatorID uuid.UUID, req *domain.TripRequest) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		summary, err := s.run(ctx, creatorID, req)
		if err != nil {
			// The cause stays in the log; the client gets a generic message.
			log.Error().Err(err).
				Str("creator_id", creatorID.String()).
				Str("destination", req.Destination).
				Msg("trip assembly failed")

			payload := domain.TripCreationErrorPayload{
				Reply: creationErrorReply,
				Error: "trip_creation_failed",
			}
			if pubErr := s.bus.PublishToUser(ctx, creatorID, domain.EventTripCreationError, payload); pubErr != nil {
				log.Error().Err(pubErr).Msg("failed to publish trip creation error")
			}
			return
		}

		payload := domain.TripCreatedPayload{
			Reply:   fmt.Sprintf("Your trip to %s is ready!", summary.Destination),
			Summary: *summary,
		}
		if pubErr := s.bus.PublishToUser(ctx, creatorID, domain.EventTripCreated, payload); pubErr != nil {
			log.Error().Err(pubErr).Msg("failed to publish trip created")
		}
	}()
}

// Wait blocks until every in-flight pipeline has finished
func (s *AssemblyService) Wait() {
	s.wg.Wait()
}

func (s *AssemblyService) run(ctx context.Context, creatorID uuid.UUID, req *domain.TripRequest) (*domain.TripSummary, error) {
	data, err := s.aggregator.Aggregate(ctx, *req)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}

	provider, err := s.nlu.Default()
	if err != nil {
		return nil, fmt.Errorf("no content provider: %w", err)
	}

	generated, err := provider.GenerateItinerary(ctx, buildItineraryRequest(data))
	if err != nil {
		return nil, fmt.Errorf("itinerary generation failed: %w", err)
	}

	now := time.Now()
	trip := &domain.Trip{
		ID:          uuid.New(),
		Destination: data.Destination,
		Origin:      data.Origin,
		Dates:       data.Dates,
		Travelers:   data.Travelers,
		Preferences: data.Preferences,
		Itinerary:   generated.Itinerary,
		Budget:      data.Budget,
		Weather: domain.WeatherSummary{
			Description: data.Weather.Description,
			HighC:       data.Weather.HighC,
			LowC:        data.Weather.LowC,
		},
		Tips:          generated.Tips,
		MustEats:      generated.MustEats,
		Highlights:    generated.Highlights,
		PackingList:   generated.PackingChecklist,
		FormattedPlan: generated.FormattedText,
		CoverImage:    coverImageURL(data.Destination),
		Group: domain.TripGroup{
			IsGroup: false,
			Members: []domain.TripMember{{UserID: creatorID, Role: domain.RoleOwner}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	session := &domain.ChatSession{
		ID:           uuid.New(),
		Type:         domain.SessionGroup,
		Name:         fmt.Sprintf("Trip to %s", data.Destination),
		TripID:       &trip.ID,
		Participants: []uuid.UUID{creatorID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// One transaction boundary: the trip and its chat room commit
	// together or the whole pipeline fails.
	if err := s.trips.CreateWithSession(ctx, trip, session); err != nil {
		return nil, fmt.Errorf("failed to persist trip: %w", err)
	}

	return &domain.TripSummary{
		TripID:         trip.ID,
		Destination:    trip.Destination,
		Dates:          trip.Dates,
		Budget:         trip.Budget,
		WeatherSummary: weatherLine(trip.Weather),
		CoverImage:     trip.CoverImage,
		Highlights:     trip.Highlights,
	}, nil
}

func buildItineraryRequest(data *providers.AggregatedData) nlu.ItineraryRequest {
	return nlu.ItineraryRequest{
		Destination: data.Destination,
		Origin:      data.Origin,
		Dates:       data.Dates,
		Travelers:   data.Travelers,
		Preferences: data.Preferences,
		Weather: fmt.Sprintf("%s, highs around %.0f°C and lows around %.0f°C",
			data.Weather.Description, data.Weather.HighC, data.Weather.LowC),
		Route: fmt.Sprintf("%.0f km, roughly %.1f hours by road",
			data.Route.DistanceKm, data.Route.DurationHours),
		Attractions: lo.Map(data.Attractions, func(a providers.Attraction, _ int) string {
			return a.Name
		}),
		Stays: lo.Map(data.Stays, func(s providers.Stay, _ int) string {
			return fmt.Sprintf("%s (%.0f/night)", s.Name, s.PricePerNight)
		}),
		LocalEvents: lo.Map(data.Events, func(e providers.LocalEvent, _ int) string {
			return fmt.Sprintf("%s on %s", e.Name, e.Date)
		}),
		BudgetTotal: data.Budget.Total,
		Currency:    data.Budget.Currency,
	}
}

func weatherLine(w domain.WeatherSummary) string {
	return fmt.Sprintf("Expect %s, %.0f to %.0f°C", w.Description, w.LowC, w.HighC)
}

func coverImageURL(destination string) string {
	return "https://source.unsplash.com/featured/?" + url.QueryEscape(destination+",travel")
}
