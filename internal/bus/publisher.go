package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const (
	userSubjectPrefix    = "user."
	sessionSubjectPrefix = "session."
)

// Envelope is the wire shape for every bus event
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// UserSubject returns the private channel subject for a user
func UserSubject(userID uuid.UUID) string {
	return userSubjectPrefix + userID.String()
}

// SessionSubject returns the room subject for a chat session
func SessionSubject(sessionID uuid.UUID) string {
	return sessionSubjectPrefix + sessionID.String()
}

// Publisher implements domain.EventPublisher over NATS
type Publisher struct {
	client *Client
}

// NewPublisher creates a new publisher
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// PublishToUser delivers an event on a user's private channel
func (p *Publisher) PublishToUser(ctx context.Context, userID uuid.UUID, event string, payload any) error {
	return p.publish(UserSubject(userID), event, payload)
}

// PublishToSession delivers an event to a session room
func (p *Publisher) PublishToSession(ctx context.Context, sessionID uuid.UUID, event string, payload any) error {
	return p.publish(SessionSubject(sessionID), event, payload)
}

func (p *Publisher) publish(subject, event string, payload any) error {
	data, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", event, subject, err)
	}

	return nil
}
