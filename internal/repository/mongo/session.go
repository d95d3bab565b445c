package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripmind/tripmind/internal/domain"
)

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new chat session
func (r *SessionRepository) Create(ctx context.Context, session *domain.ChatSession) error {
	if _, err := r.db.Collection(sessionsCollection).InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	var session domain.ChatSession
	err := r.db.Collection(sessionsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// GetAIByUser returns the user's assistant session, or ErrNotFound
func (r *SessionRepository) GetAIByUser(ctx context.Context, userID uuid.UUID) (*domain.ChatSession, error) {
	filter := bson.M{"type": domain.SessionAI, "participants": userID}

	var session domain.ChatSession
	err := r.db.Collection(sessionsCollection).FindOne(ctx, filter).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get AI session: %w", err)
	}
	return &session, nil
}

// ListByUser returns the sessions a user participates in, most recently
// active first
func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ChatSession, error) {
	filter := bson.M{"participants": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.db.Collection(sessionsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []domain.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

// UpdateLastMessage stores the last-message digest used by list views
func (r *SessionRepository) UpdateLastMessage(ctx context.Context, id uuid.UUID, summary *domain.MessageSummary) error {
	update := bson.M{"$set": bson.M{"last_message": summary, "updated_at": time.Now()}}
	if _, err := r.db.Collection(sessionsCollection).UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("failed to update last message: %w", err)
	}
	return nil
}
