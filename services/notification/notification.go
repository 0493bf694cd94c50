package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wheelstrust/database/repository"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notify is idempotent per notification id: a retried queue task neither stores nor pushes twice.
func (s *DefaultNotificationService) Notify(ctx context.Context, n models.Notification) error {
	if n.Recipient == "" {
		return fmt.Errorf("notification has no recipient")
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if err := s.Repo.Create(ctx, &n); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("store notification: %w", err)
		}
		s.Logger.Debug("Notification already stored", zap.String("id", n.ID))
		return nil
	}

	s.push(ctx, n)
	return nil
}

// push sends n to the recipient's registered device. Failures are logged only.
func (s *DefaultNotificationService) push(ctx context.Context, n models.Notification) {
	if s.Push == nil || s.Users == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, n.Recipient)
	if err != nil {
		s.Logger.Warn("Push skipped: recipient lookup failed", zap.String("recipient", n.Recipient), zap.Error(err))
		return
	}
	if u.FCMToken == "" {
		return
	}

	data := make(map[string]string, len(n.Data)+2)
	for k, v := range n.Data {
		data[k] = fmt.Sprint(v)
	}
	data["type"] = n.Type
	data["notificationId"] = n.ID

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	if _, err := s.Push.Send(ctx, msg); err != nil {
		s.Logger.Warn("FCM push failed", zap.String("recipient", n.Recipient), zap.Error(err))
	}
}

func (s *DefaultNotificationService) List(ctx context.Context, actor access.Actor, q repository.ListQuery) ([]models.Notification, models.Pagination, int64, error) {
	items, total, unread, q, err := s.Repo.ListForRecipient(ctx, actor.ID, q)
	if err != nil {
		return nil, models.Pagination{}, 0, fmt.Errorf("list notifications: %w", err)
	}
	return items, models.NewPagination(total, q.Page, q.Limit), unread, nil
}

func (s *DefaultNotificationService) MarkRead(ctx context.Context, actor access.Actor, id string) error {
	if err := s.Repo.MarkRead(ctx, id, actor.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Notification")
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *DefaultNotificationService) MarkAllRead(ctx context.Context, actor access.Actor) (int64, error) {
	n, err := s.Repo.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return n, nil
}

// Delete removes one of the actor's notifications; admins may remove any.
func (s *DefaultNotificationService) Delete(ctx context.Context, actor access.Actor, id string) error {
	recipient := actor.ID
	if actor.IsAdmin() {
		recipient = ""
	}
	if err := s.Repo.Delete(ctx, id, recipient); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Notification")
		}
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}
