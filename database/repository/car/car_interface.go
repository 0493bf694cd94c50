package carRepo

import (
	"context"

	"wheelstrust/database/repository"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// CarRepository defines methods for car listing data access.
type CarRepository interface {
	Create(ctx context.Context, car *models.Car) error
	GetByID(ctx context.Context, id string) (*models.Car, error)
	List(ctx context.Context, q repository.ListQuery) ([]models.Car, int64, repository.ListQuery, error)
	UpdateSet(ctx context.Context, id string, fields bson.M) (*models.Car, error)
	// PushImages appends images to a listing and returns the updated car.
	PushImages(ctx context.Context, id string, images []models.Image) (*models.Car, error)
	// PullImage removes the image with publicID from a listing.
	PullImage(ctx context.Context, id, publicID string) (*models.Car, error)
	Delete(ctx context.Context, id string) error
}
