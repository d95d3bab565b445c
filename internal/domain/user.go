package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User holds the display fields this service reads. Account creation
// and credentials live in the auth service.
type User struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	AvatarURL string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// UserRepository defines read access to user records
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}
