package catalogRepo

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

// MongoServiceRepo implements ServiceRepository using MongoDB.
type MongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo creates the repository and ensures its indexes.
func NewMongoServiceRepo(ctx context.Context, db *mongo.Database) (ServiceRepository, error) {
	repo := &MongoServiceRepo{coll: db.Collection(database.ServicesCollection)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoServiceRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "serviceProvider", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}
	return nil
}

func (r *MongoServiceRepo) Create(ctx context.Context, service *models.Service) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	service.CreatedAt = now
	service.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, service); err != nil {
		return repository.Translate("create service", err)
	}
	return nil
}

func (r *MongoServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var service models.Service
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&service); err != nil {
		return nil, repository.Translate(fmt.Sprintf("get service %s", id), err)
	}
	return &service, nil
}

func (r *MongoServiceRepo) List(ctx context.Context, q repository.ListQuery) ([]models.Service, int64, repository.ListQuery, error) {
	return repository.FindPage[models.Service](ctx, r.coll, q)
}

func (r *MongoServiceRepo) UpdateSet(ctx context.Context, id string, fields bson.M) (*models.Service, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var service models.Service
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": fields}, opts).Decode(&service)
	if err != nil {
		return nil, repository.Translate(fmt.Sprintf("update service %s", id), err)
	}
	return &service, nil
}

func (r *MongoServiceRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete service with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete service %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoServiceRepo) DeleteByProvider(ctx context.Context, providerID string) (int64, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.coll.DeleteMany(ctx, bson.M{"serviceProvider": providerID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete services of provider %s: %w", providerID, err)
	}
	return result.DeletedCount, nil
}
