package notification

import (
	"context"

	"wheelstrust/models"
	"wheelstrust/services/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the dispatcher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Sink receives a notification for immediate delivery.
type Sink interface {
	Notify(ctx context.Context, n models.Notification) error
}

// QueueDispatcher hands notifications to the asynq queue and delivers inline when enqueueing fails.
type QueueDispatcher struct {
	queue    Enqueuer
	fallback Sink
	logger   *zap.Logger
}

func NewQueueDispatcher(queue Enqueuer, fallback Sink, logger *zap.Logger) *QueueDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueDispatcher{queue: queue, fallback: fallback, logger: logger}
}

func (d *QueueDispatcher) Notify(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	task, opts, err := tasks.NewNotificationTask(n)
	if err == nil {
		_, err = d.queue.EnqueueContext(ctx, task, opts...)
	}
	if err == nil {
		return nil
	}
	d.logger.Warn("Enqueue notification failed, delivering inline",
		zap.String("id", n.ID), zap.Error(err))
	return d.fallback.Notify(ctx, n)
}
