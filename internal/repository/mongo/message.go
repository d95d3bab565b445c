package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripmind/tripmind/internal/domain"
)

const messagesCollection = "messages"

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if _, err := r.db.Collection(messagesCollection).InsertOne(ctx, message); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListBySession retrieves up to limit messages for a session created
// before the given time, newest first. A zero before means "now".
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit int, before time.Time) ([]domain.Message, error) {
	filter := bson.M{"session_id": sessionID}
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.db.Collection(messagesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

// CountByType counts messages of a type in a session
func (r *MessageRepository) CountByType(ctx context.Context, sessionID uuid.UUID, msgType domain.MessageType) (int64, error) {
	filter := bson.M{"session_id": sessionID, "type": msgType}
	count, err := r.db.Collection(messagesCollection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// ListOldestByType returns the n oldest messages of a type in a session,
// ascending by creation time
func (r *MessageRepository) ListOldestByType(ctx context.Context, sessionID uuid.UUID, msgType domain.MessageType, n int) ([]domain.Message, error) {
	filter := bson.M{"session_id": sessionID, "type": msgType}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(n))

	cursor, err := r.db.Collection(messagesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list oldest messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

// ListRepliesTo returns every AI message whose in_reply_to references
// one of the given message IDs
func (r *MessageRepository) ListRepliesTo(ctx context.Context, sessionID uuid.UUID, messageIDs []uuid.UUID) ([]domain.Message, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}

	filter := bson.M{
		"session_id":  sessionID,
		"type":        domain.MessageAI,
		"in_reply_to": bson.M{"$in": messageIDs},
	}

	cursor, err := r.db.Collection(messagesCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode replies: %w", err)
	}
	return messages, nil
}

// DeleteByIDs removes the given messages from a session. Callers needing
// atomicity run this inside DB.WithTransaction.
func (r *MessageRepository) DeleteByIDs(ctx context.Context, sessionID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	filter := bson.M{"session_id": sessionID, "_id": bson.M{"$in": ids}}
	res, err := r.db.Collection(messagesCollection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete messages: %w", err)
	}
	return res.DeletedCount, nil
}
