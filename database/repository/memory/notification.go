package memory

import (
	"context"
	"fmt"
	"time"

	"wheelstrust/database/repository"
	notificationRepo "wheelstrust/database/repository/notification"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// NotificationRepo is an in-memory notificationRepo.NotificationRepository.
type NotificationRepo struct {
	store *store[models.Notification]
}

var _ notificationRepo.NotificationRepository = (*NotificationRepo)(nil)

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{store: newStore[models.Notification]("notification")}
}

func (r *NotificationRepo) Create(_ context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return r.store.insert(n.ID, *n, nil)
}

func (r *NotificationRepo) ListForRecipient(_ context.Context, recipient string, q repository.ListQuery) ([]models.Notification, int64, int64, repository.ListQuery, error) {
	q = q.Normalize()
	q.Filter["recipient"] = recipient
	items, total, q := r.store.page(q)
	unread := r.store.count(bson.M{"recipient": recipient, "read": false})
	return items, total, unread, q, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id, recipient string) error {
	n := r.store.updateMany(bson.M{"id": id, "recipient": recipient}, func(doc bson.M) bson.M {
		return setFields(doc, bson.M{"read": true})
	})
	if n == 0 {
		return fmt.Errorf("mark notification %s read: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, recipient string) (int64, error) {
	return r.store.updateMany(bson.M{"recipient": recipient, "read": false}, func(doc bson.M) bson.M {
		return setFields(doc, bson.M{"read": true})
	}), nil
}

func (r *NotificationRepo) Delete(_ context.Context, id, recipient string) error {
	filter := bson.M{"id": id}
	if recipient != "" {
		filter["recipient"] = recipient
	}
	if r.store.remove(filter) == 0 {
		return fmt.Errorf("delete notification %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

// All returns every stored notification, oldest first.
func (r *NotificationRepo) All() []models.Notification {
	return r.store.find(bson.M{}, nil)
}
