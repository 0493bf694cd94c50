package userRepo

import (
	"context"

	"wheelstrust/database/repository"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record. A taken email yields repository.ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by their unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDWithProjection retrieves selected fields of a user. A nil projection returns the full document.
	GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error)
	// GetByEmail retrieves a user, including the password hash, by email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns one page of users.
	List(ctx context.Context, q repository.ListQuery) ([]models.User, int64, repository.ListQuery, error)
	// UpdateSetDocument applies a $set of the given fields and returns the updated user.
	UpdateSetDocument(ctx context.Context, id string, fields bson.M) (*models.User, error)
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
}
