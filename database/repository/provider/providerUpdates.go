package providerRepo

import (
	"context"
	"fmt"
	"time"

	"wheelstrust/database/repository"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoProviderRepo) UpdateSet(ctx context.Context, id string, fields bson.M) (*models.ServiceProvider, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var provider models.ServiceProvider
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": fields}, opts).Decode(&provider)
	if err != nil {
		return nil, repository.Translate(fmt.Sprintf("update provider %s", id), err)
	}
	return &provider, nil
}

func (r *MongoProviderRepo) AddService(ctx context.Context, id, serviceID string) error {
	return r.updateWithOperator(ctx, id, "$addToSet", bson.M{"services": serviceID})
}

func (r *MongoProviderRepo) RemoveService(ctx context.Context, id, serviceID string) error {
	return r.updateWithOperator(ctx, id, "$pull", bson.M{"services": serviceID})
}

func (r *MongoProviderRepo) updateWithOperator(ctx context.Context, id, operator string, updateDoc bson.M) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{operator: updateDoc, "$currentDate": bson.M{"updatedAt": true}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update provider with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("update provider %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
