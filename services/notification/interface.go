package notification

import (
	"context"

	"wheelstrust/database/repository"
	notificationRepo "wheelstrust/database/repository/notification"
	userRepo "wheelstrust/database/repository/user"
	"wheelstrust/models"
	"wheelstrust/services/access"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService stores in-app notifications, pushes them to devices and serves the inbox.
type NotificationService interface {
	// Notify stores n and pushes it to the recipient's device when possible.
	Notify(ctx context.Context, n models.Notification) error
	List(ctx context.Context, actor access.Actor, q repository.ListQuery) ([]models.Notification, models.Pagination, int64, error)
	MarkRead(ctx context.Context, actor access.Actor, id string) error
	MarkAllRead(ctx context.Context, actor access.Actor) (int64, error)
	Delete(ctx context.Context, actor access.Actor, id string) error
}

// PushSender delivers one FCM message. *messaging.Client satisfies it.
type PushSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo   notificationRepo.NotificationRepository
	Users  userRepo.UserRepository
	Push   PushSender
	Logger *zap.Logger
}

// NewDefaultNotificationService wires the service. A nil push sender disables device pushes.
func NewDefaultNotificationService(
	repo notificationRepo.NotificationRepository,
	users userRepo.UserRepository,
	push PushSender,
	logger *zap.Logger,
) *DefaultNotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{Repo: repo, Users: users, Push: push, Logger: logger}
}
