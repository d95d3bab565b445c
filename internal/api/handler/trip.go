package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripmind/tripmind/internal/api/middleware"
	"github.com/tripmind/tripmind/internal/api/response"
	"github.com/tripmind/tripmind/internal/repository/mongo"
	"github.com/tripmind/tripmind/internal/service"
)

// TripHandler handles trip endpoints
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// List returns the caller's trips
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "user ID not found")
		return
	}

	trips, err := h.tripService.ListByUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to list trips")
		return
	}

	response.OK(w, trips)
}

// Get returns a single trip
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "user ID not found")
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		response.BadRequest(w, "invalid trip ID")
		return
	}

	trip, err := h.tripService.Get(r.Context(), userID, tripID)
	if err != nil {
		writeTripError(w, err)
		return
	}

	response.OK(w, trip)
}

// SetFavorite toggles the favorite flag on a trip
func (h *TripHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "user ID not found")
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		response.BadRequest(w, "invalid trip ID")
		return
	}

	var input struct {
		Favorite bool `json:"favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.tripService.SetFavorite(r.Context(), userID, tripID, input.Favorite); err != nil {
		writeTripError(w, err)
		return
	}

	response.OK(w, map[string]bool{"favorite": input.Favorite})
}

func writeTripError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mongo.ErrNotFound):
		response.NotFound(w, "trip not found")
	case errors.Is(err, service.ErrAccessDenied):
		response.Forbidden(w, "not a member of this trip")
	default:
		response.InternalError(w, "failed to access trip")
	}
}
