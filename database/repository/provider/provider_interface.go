package providerRepo

import (
	"context"

	"wheelstrust/database/repository"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ProviderRepository defines methods for service provider data access.
type ProviderRepository interface {
	// Create inserts a provider. A user may own one provider; a second yields repository.ErrDuplicate.
	Create(ctx context.Context, provider *models.ServiceProvider) error
	GetByID(ctx context.Context, id string) (*models.ServiceProvider, error)
	// GetByUser returns the provider managed by userID.
	GetByUser(ctx context.Context, userID string) (*models.ServiceProvider, error)
	// IDsByUser returns the ids of every provider managed by userID.
	IDsByUser(ctx context.Context, userID string) ([]string, error)
	List(ctx context.Context, q repository.ListQuery) ([]models.ServiceProvider, int64, repository.ListQuery, error)
	// UpdateSet applies $set and returns the updated provider.
	UpdateSet(ctx context.Context, id string, fields bson.M) (*models.ServiceProvider, error)
	// AddService appends a service id to the provider's catalog list.
	AddService(ctx context.Context, id, serviceID string) error
	// RemoveService pulls a service id from the provider's catalog list.
	RemoveService(ctx context.Context, id, serviceID string) error
	Delete(ctx context.Context, id string) error
}
