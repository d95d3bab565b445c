package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TripRole represents a member's role on a trip
type TripRole string

const (
	RoleOwner  TripRole = "owner"
	RoleEditor TripRole = "editor"
	RoleViewer TripRole = "viewer"
)

// TripMember links a user to a trip with a role
type TripMember struct {
	UserID uuid.UUID `json:"user_id" bson:"user_id"`
	Role   TripRole  `json:"role" bson:"role"`
}

// TripGroup holds the membership of a trip
type TripGroup struct {
	IsGroup bool         `json:"is_group" bson:"is_group"`
	Members []TripMember `json:"members" bson:"members"`
}

// DateRange is an inclusive travel window
type DateRange struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

// Days returns the trip length in whole days, at least 1
func (d DateRange) Days() int {
	days := int(d.End.Sub(d.Start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// TripPreferences captures the traveler's stated preferences
type TripPreferences struct {
	BudgetTier    string   `json:"budget_tier" bson:"budget_tier"`
	Vibe          string   `json:"vibe" bson:"vibe"`
	TransportMode string   `json:"transport_mode" bson:"transport_mode"`
	Interests     []string `json:"interests" bson:"interests"`
}

// Budget is the estimated cost breakdown for a trip
type Budget struct {
	Total     float64            `json:"total" bson:"total"`
	Currency  string             `json:"currency" bson:"currency"`
	Breakdown map[string]float64 `json:"breakdown,omitempty" bson:"breakdown,omitempty"`
}

// Activity is a single itinerary entry within a day
type Activity struct {
	Time     string  `json:"time" bson:"time"`
	Title    string  `json:"title" bson:"title"`
	Location string  `json:"location,omitempty" bson:"location,omitempty"`
	Lat      float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng      float64 `json:"lng,omitempty" bson:"lng,omitempty"`
	Note     string  `json:"note,omitempty" bson:"note,omitempty"`
}

// DayPlan is one day of the generated itinerary
type DayPlan struct {
	Day        int        `json:"day" bson:"day"`
	Date       string     `json:"date" bson:"date"`
	Title      string     `json:"title" bson:"title"`
	Activities []Activity `json:"activities" bson:"activities"`
}

// WeatherSummary is the stored forecast digest for the travel window
type WeatherSummary struct {
	Description string  `json:"description" bson:"description"`
	HighC       float64 `json:"high_c" bson:"high_c"`
	LowC        float64 `json:"low_c" bson:"low_c"`
}

// Trip is the durable trip plan. It is created only by the assembly
// pipeline, always together with its companion ChatSession.
type Trip struct {
	ID            uuid.UUID       `json:"id" bson:"_id"`
	Destination   string          `json:"destination" bson:"destination"`
	Origin        string          `json:"origin" bson:"origin"`
	Dates         DateRange       `json:"dates" bson:"dates"`
	Travelers     int             `json:"travelers" bson:"travelers"`
	Preferences   TripPreferences `json:"preferences" bson:"preferences"`
	Itinerary     []DayPlan       `json:"itinerary" bson:"itinerary"`
	Budget        Budget          `json:"budget" bson:"budget"`
	Weather       WeatherSummary  `json:"weather" bson:"weather"`
	Tips          []string        `json:"tips,omitempty" bson:"tips,omitempty"`
	MustEats      []string        `json:"must_eats,omitempty" bson:"must_eats,omitempty"`
	Highlights    []string        `json:"highlights,omitempty" bson:"highlights,omitempty"`
	PackingList   []string        `json:"packing_list,omitempty" bson:"packing_list,omitempty"`
	FormattedPlan string          `json:"formatted_plan,omitempty" bson:"formatted_plan,omitempty"`
	CoverImage    string          `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	Group         TripGroup       `json:"group" bson:"group"`
	IsFavorite    bool            `json:"is_favorite" bson:"is_favorite"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" bson:"updated_at"`
}

// HasMember reports whether the user belongs to the trip
func (t *Trip) HasMember(userID uuid.UUID) bool {
	for _, m := range t.Group.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// TripRequest is the completed dialogue output handed to the
// assembly pipeline.
type TripRequest struct {
	Destination string          `json:"destination"`
	Origin      string          `json:"origin,omitempty"`
	Dates       DateRange       `json:"dates"`
	Travelers   int             `json:"travelers"`
	Preferences TripPreferences `json:"preferences"`
}

// TripSummary is the compact shape published with a tripCreated event
type TripSummary struct {
	TripID         uuid.UUID `json:"trip_id"`
	Destination    string    `json:"destination"`
	Dates          DateRange `json:"dates"`
	Budget         Budget    `json:"budget"`
	WeatherSummary string    `json:"weather_summary"`
	CoverImage     string    `json:"cover_image,omitempty"`
	Highlights     []string  `json:"highlights,omitempty"`
}

// TripRepository defines the interface for trip storage.
// Trip creation is deliberately absent: trips are only written together
// with their chat session through TripWriter.
type TripRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*Trip, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Trip, error)
	LatestByUser(ctx context.Context, userID uuid.UUID) (*Trip, error)
	SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error
}

// TripWriter persists a trip and its companion chat session in one
// atomic unit. No other code path may create either.
type TripWriter interface {
	CreateWithSession(ctx context.Context, trip *Trip, session *ChatSession) error
}
