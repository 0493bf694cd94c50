package providerRepo

import (
	"context"
	"fmt"
	"time"

	"wheelstrust/database"
	"wheelstrust/database/repository"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates the repository and ensures its indexes.
func NewMongoProviderRepo(ctx context.Context, db *mongo.Database) (ProviderRepository, error) {
	repo := &MongoProviderRepo{coll: db.Collection(database.ProvidersCollection)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// Create inserts a new provider document.
func (r *MongoProviderRepo) Create(ctx context.Context, provider *models.ServiceProvider) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	provider.CreatedAt = now
	provider.UpdatedAt = now
	if provider.Services == nil {
		provider.Services = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		return repository.Translate("create provider", err)
	}
	return nil
}

// GetByID retrieves a provider by id.
func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.ServiceProvider, error) {
	return r.findOne(ctx, bson.M{"id": id}, fmt.Sprintf("get provider %s", id))
}

// GetByUser retrieves the provider owned by a user.
func (r *MongoProviderRepo) GetByUser(ctx context.Context, userID string) (*models.ServiceProvider, error) {
	return r.findOne(ctx, bson.M{"user": userID}, fmt.Sprintf("get provider for user %s", userID))
}

func (r *MongoProviderRepo) findOne(ctx context.Context, filter bson.M, op string) (*models.ServiceProvider, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var provider models.ServiceProvider
	if err := r.coll.FindOne(ctx, filter).Decode(&provider); err != nil {
		return nil, repository.Translate(op, err)
	}
	return &provider, nil
}

// IDsByUser projects only the id field of providers owned by userID.
func (r *MongoProviderRepo) IDsByUser(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"id": 1, "_id": 0})
	cursor, err := r.coll.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var providers []models.ServiceProvider
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	ids := make([]string, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// List returns a page of providers.
func (r *MongoProviderRepo) List(ctx context.Context, q repository.ListQuery) ([]models.ServiceProvider, int64, repository.ListQuery, error) {
	return repository.FindPage[models.ServiceProvider](ctx, r.coll, q)
}

// Delete removes a provider by id.
func (r *MongoProviderRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete provider with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete provider %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
