package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tripmind/tripmind/internal/domain"
)

const conversationPrefix = "conversation:"

// ConversationStore keeps the per-user dialogue state in Redis with a
// sliding TTL. An expired or missing key means no active conversation.
type ConversationStore struct {
	client *Client
	ttl    time.Duration
}

// NewConversationStore creates a new conversation state store
func NewConversationStore(client *Client, ttl time.Duration) *ConversationStore {
	return &ConversationStore{client: client, ttl: ttl}
}

func conversationKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s%s", conversationPrefix, userID.String())
}

// Get retrieves the active conversation state for a user. A miss returns
// (nil, nil). A hit refreshes the TTL so an ongoing conversation does not
// expire mid-dialogue.
func (s *ConversationStore) Get(ctx context.Context, userID uuid.UUID) (*domain.ConversationState, error) {
	key := conversationKey(userID)

	data, err := s.client.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // No active conversation
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation state: %w", err)
	}

	var state domain.ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation state: %w", err)
	}

	// Slide the expiry window on read
	if err := s.client.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to refresh conversation TTL: %w", err)
	}

	return &state, nil
}

// Save writes the conversation state and resets its TTL
func (s *ConversationStore) Save(ctx context.Context, userID uuid.UUID, state *domain.ConversationState) error {
	state.UpdatedAt = time.Now()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation state: %w", err)
	}

	if err := s.client.rdb.Set(ctx, conversationKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save conversation state: %w", err)
	}

	return nil
}

// Delete removes the conversation state, ending the conversation
func (s *ConversationStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.rdb.Del(ctx, conversationKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete conversation state: %w", err)
	}
	return nil
}
