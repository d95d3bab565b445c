package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripmind/tripmind/internal/domain"
)

const (
	tripsCollection    = "trips"
	sessionsCollection = "chat_sessions"
)

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = errors.New("not found")

// TripRepository implements domain.TripRepository and domain.TripWriter
type TripRepository struct {
	db *DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{db: db}
}

// CreateWithSession inserts a trip and its companion chat session in one
// transaction. Either both become durable or neither does.
func (r *TripRepository) CreateWithSession(ctx context.Context, trip *domain.Trip, session *domain.ChatSession) error {
	return r.db.WithTransaction(ctx, func(sc context.Context) error {
		if _, err := r.db.Collection(tripsCollection).InsertOne(sc, trip); err != nil {
			return fmt.Errorf("failed to insert trip: %w", err)
		}
		if _, err := r.db.Collection(sessionsCollection).InsertOne(sc, session); err != nil {
			return fmt.Errorf("failed to insert chat session: %w", err)
		}
		return nil
	})
}

// Get retrieves a trip by ID
func (r *TripRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	var trip domain.Trip
	err := r.db.Collection(tripsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

// ListByUser returns the trips a user is a member of, newest first
func (r *TripRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	filter := bson.M{"group.members.user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(tripsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []domain.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("failed to decode trips: %w", err)
	}
	return trips, nil
}

// LatestByUser returns the most recently created trip for a user
func (r *TripRepository) LatestByUser(ctx context.Context, userID uuid.UUID) (*domain.Trip, error) {
	filter := bson.M{"group.members.user_id": userID}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var trip domain.Trip
	err := r.db.Collection(tripsCollection).FindOne(ctx, filter, opts).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest trip: %w", err)
	}
	return &trip, nil
}

// SetFavorite toggles the favorite flag on a trip
func (r *TripRepository) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	update := bson.M{"$set": bson.M{"is_favorite": favorite, "updated_at": time.Now()}}
	res, err := r.db.Collection(tripsCollection).UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
