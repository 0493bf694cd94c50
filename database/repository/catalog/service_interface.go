package catalogRepo

import (
	"context"

	"wheelstrust/database/repository"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ServiceRepository defines methods for catalog service data access.
type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	List(ctx context.Context, q repository.ListQuery) ([]models.Service, int64, repository.ListQuery, error)
	UpdateSet(ctx context.Context, id string, fields bson.M) (*models.Service, error)
	Delete(ctx context.Context, id string) error
	// DeleteByProvider removes every service of a provider and returns how many were removed.
	DeleteByProvider(ctx context.Context, providerID string) (int64, error)
}
