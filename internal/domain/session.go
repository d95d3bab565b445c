package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionType discriminates assistant threads from trip group rooms
type SessionType string

const (
	SessionAI    SessionType = "ai"
	SessionGroup SessionType = "group"
)

// MessageSummary is the last-message digest kept on a session for list views
type MessageSummary struct {
	Content   string    `json:"content" bson:"content"`
	SenderID  uuid.UUID `json:"sender_id,omitempty" bson:"sender_id,omitempty"`
	Type      string    `json:"type" bson:"type"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ChatSession is a persisted conversation thread. A group session is
// created automatically with each new trip; an AI session exists
// implicitly per user for the assistant flow.
type ChatSession struct {
	ID           uuid.UUID       `json:"id" bson:"_id"`
	Type         SessionType     `json:"type" bson:"type"`
	Name         string          `json:"name" bson:"name"`
	TripID       *uuid.UUID      `json:"trip_id,omitempty" bson:"trip_id,omitempty"`
	Participants []uuid.UUID     `json:"participants" bson:"participants"`
	LastMessage  *MessageSummary `json:"last_message,omitempty" bson:"last_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" bson:"updated_at"`
}

// HasParticipant reports whether the user belongs to the session
func (s *ChatSession) HasParticipant(userID uuid.UUID) bool {
	for _, p := range s.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// SessionRepository defines the interface for chat session storage
type SessionRepository interface {
	Create(ctx context.Context, session *ChatSession) error
	Get(ctx context.Context, id uuid.UUID) (*ChatSession, error)
	GetAIByUser(ctx context.Context, userID uuid.UUID) (*ChatSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]ChatSession, error)
	UpdateLastMessage(ctx context.Context, id uuid.UUID, summary *MessageSummary) error
}
