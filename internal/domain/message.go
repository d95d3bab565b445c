package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageType discriminates message senders
type MessageType string

const (
	MessageUser   MessageType = "user"
	MessageAI     MessageType = "ai"
	MessageSystem MessageType = "system"
)

// Message is a persisted chat message. AI messages carry InReplyTo
// referencing the user message that prompted them, which the retention
// pruner uses to delete question/answer pairs together.
type Message struct {
	ID        uuid.UUID   `json:"id" bson:"_id"`
	SessionID uuid.UUID   `json:"session_id" bson:"session_id"`
	SenderID  *uuid.UUID  `json:"sender_id,omitempty" bson:"sender_id,omitempty"` // nil for ai/system
	Type      MessageType `json:"type" bson:"type"`
	Content   string      `json:"content,omitempty" bson:"content,omitempty"`
	MediaURL  string      `json:"media_url,omitempty" bson:"media_url,omitempty"`
	InReplyTo *uuid.UUID  `json:"in_reply_to,omitempty" bson:"in_reply_to,omitempty"`
	// Display fields populated from the sender for realtime fan-out,
	// never persisted.
	SenderName   string    `json:"sender_name,omitempty" bson:"-"`
	SenderAvatar string    `json:"sender_avatar,omitempty" bson:"-"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// MessageRepository defines the interface for message storage.
// The selection methods exist for the retention pruner, which computes
// its delete set and applies it under one transaction.
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit int, before time.Time) ([]Message, error)
	CountByType(ctx context.Context, sessionID uuid.UUID, msgType MessageType) (int64, error)
	ListOldestByType(ctx context.Context, sessionID uuid.UUID, msgType MessageType, n int) ([]Message, error)
	ListRepliesTo(ctx context.Context, sessionID uuid.UUID, messageIDs []uuid.UUID) ([]Message, error)
	DeleteByIDs(ctx context.Context, sessionID uuid.UUID, ids []uuid.UUID) (int64, error)
}
