package notificationRepo

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

// NotificationRepository defines methods for in-app notification storage.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// ListForRecipient returns one page of a recipient's notifications and the unread count.
	ListForRecipient(ctx context.Context, recipient string, q repository.ListQuery) ([]models.Notification, int64, int64, repository.ListQuery, error)
	// MarkRead flags one notification as read. Only the recipient's own notifications match.
	MarkRead(ctx context.Context, id, recipient string) error
	// MarkAllRead flags every unread notification of a recipient and returns how many changed.
	MarkAllRead(ctx context.Context, recipient string) (int64, error)
	// Delete removes a notification. An empty recipient matches any recipient.
	Delete(ctx context.Context, id, recipient string) error
}

// MongoNotificationRepo implements NotificationRepository using MongoDB.
type MongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo creates the repository and ensures its indexes.
func NewMongoNotificationRepo(ctx context.Context, db *mongo.Database) (NotificationRepository, error) {
	repo := &MongoNotificationRepo{coll: db.Collection(database.NotificationsCollection)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoNotificationRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "read", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return repository.Translate("create notification", err)
	}
	return nil
}

func (r *MongoNotificationRepo) ListForRecipient(ctx context.Context, recipient string, q repository.ListQuery) ([]models.Notification, int64, int64, repository.ListQuery, error) {
	q = q.Normalize()
	q.Filter["recipient"] = recipient

	items, total, q, err := repository.FindPage[models.Notification](ctx, r.coll, q)
	if err != nil {
		return nil, 0, 0, q, err
	}

	countCtx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	unread, err := r.coll.CountDocuments(countCtx, bson.M{"recipient": recipient, "read": false})
	if err != nil {
		return nil, 0, 0, q, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return items, total, unread, q, nil
}

func (r *MongoNotificationRepo) MarkRead(ctx context.Context, id, recipient string) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "recipient": recipient},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("mark notification %s read: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoNotificationRepo) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.coll.UpdateMany(ctx,
		bson.M{"recipient": recipient, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *MongoNotificationRepo) Delete(ctx context.Context, id, recipient string) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	if recipient != "" {
		filter["recipient"] = recipient
	}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete notification %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
