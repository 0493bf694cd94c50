package carRepo

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

// MongoCarRepo implements CarRepository using MongoDB.
type MongoCarRepo struct {
	coll *mongo.Collection
}

// NewMongoCarRepo creates the repository and ensures its indexes.
func NewMongoCarRepo(ctx context.Context, db *mongo.Database) (CarRepository, error) {
	repo := &MongoCarRepo{coll: db.Collection(database.CarsCollection)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoCarRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "seller", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "make", Value: 1}, {Key: "model", Value: 1}, {Key: "year", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create car indexes: %w", err)
	}
	return nil
}

// Create inserts a new listing.
func (r *MongoCarRepo) Create(ctx context.Context, car *models.Car) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	car.CreatedAt = now
	car.UpdatedAt = now
	if car.Images == nil {
		car.Images = []models.Image{}
	}
	if _, err := r.coll.InsertOne(ctx, car); err != nil {
		return repository.Translate("create car", err)
	}
	return nil
}

// GetByID retrieves a listing by id.
func (r *MongoCarRepo) GetByID(ctx context.Context, id string) (*models.Car, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var car models.Car
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&car); err != nil {
		return nil, repository.Translate(fmt.Sprintf("get car %s", id), err)
	}
	return &car, nil
}

// List returns a page of listings.
func (r *MongoCarRepo) List(ctx context.Context, q repository.ListQuery) ([]models.Car, int64, repository.ListQuery, error) {
	return repository.FindPage[models.Car](ctx, r.coll, q)
}

func (r *MongoCarRepo) UpdateSet(ctx context.Context, id string, fields bson.M) (*models.Car, error) {
	fields["updatedAt"] = time.Now().UTC()
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": fields})
}

func (r *MongoCarRepo) PushImages(ctx context.Context, id string, images []models.Image) (*models.Car, error) {
	update := bson.M{
		"$push":        bson.M{"images": bson.M{"$each": images}},
		"$currentDate": bson.M{"updatedAt": true},
	}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *MongoCarRepo) PullImage(ctx context.Context, id, publicID string) (*models.Car, error) {
	update := bson.M{
		"$pull":        bson.M{"images": bson.M{"publicId": publicID}},
		"$currentDate": bson.M{"updatedAt": true},
	}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *MongoCarRepo) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*models.Car, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var car models.Car
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&car); err != nil {
		return nil, repository.Translate(fmt.Sprintf("update car %s", id), err)
	}
	return &car, nil
}

// Delete removes a listing by id.
func (r *MongoCarRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete car with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete car %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
