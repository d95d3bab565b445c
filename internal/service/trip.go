package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/tripmind/tripmind/internal/domain"
)

// TripService exposes read and favorite operations on stored trips,
// enforcing membership on single-trip access.
type TripService struct {
	trips domain.TripRepository
}

// NewTripService creates a new trip service
func NewTripService(trips domain.TripRepository) *TripService {
	return &TripService{trips: trips}
}

// Get returns a trip the user is a member of
func (s *TripService) Get(ctx context.Context, userID, tripID uuid.UUID) (*domain.Trip, error) {
	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !trip.HasMember(userID) {
		return nil, ErrAccessDenied
	}
	return trip, nil
}

// ListByUser returns the trips the user belongs to
func (s *TripService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return s.trips.ListByUser(ctx, userID)
}

// SetFavorite toggles the favorite flag on a trip the user belongs to
func (s *TripService) SetFavorite(ctx context.Context, userID, tripID uuid.UUID, favorite bool) error {
	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		return err
	}
	if !trip.HasMember(userID) {
		return ErrAccessDenied
	}
	return s.trips.SetFavorite(ctx, tripID, favorite)
}
