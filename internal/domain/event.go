package domain

import (
	"context"

	"github.com/google/uuid"
)

// Event names published on the notification bus
const (
	EventTripCreated       = "tripCreated"
	EventTripCreationError = "tripCreationError"
	EventNewMessage        = "newMessage"
)

// TripCreatedPayload is delivered to the creator's private channel
// after a successful assembly
type TripCreatedPayload struct {
	Reply   string      `json:"reply"`
	Summary TripSummary `json:"summary"`
}

// TripCreationErrorPayload carries a generic, non-leaking failure message
type TripCreationErrorPayload struct {
	Reply string `json:"reply"`
	Error string `json:"error"`
}

// NewMessagePayload wraps a persisted message for realtime fan-out
type NewMessagePayload struct {
	Message *Message `json:"message"`
}

// EventPublisher is the notification bus. Channels are addressed by
// user id (private) or session id (room).
type EventPublisher interface {
	PublishToUser(ctx context.Context, userID uuid.UUID, event string, payload any) error
	PublishToSession(ctx context.Context, sessionID uuid.UUID, event string, payload any) error
}
