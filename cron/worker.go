package cron

import (
	"context"
	"fmt"

	"wheelstrust/config"
	"wheelstrust/models"
	"wheelstrust/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Deliverer stores and pushes one notification.
type Deliverer interface {
	Notify(ctx context.Context, n models.Notification) error
}

// RedisQueueOpt builds the asynq connection for the configured queue database.
func RedisQueueOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

// NotificationWorker consumes notification tasks from the queue.
type NotificationWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewNotificationWorker(cfg config.Config, deliverer Deliverer, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := asynq.NewServer(
		RedisQueueOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueNotifications: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotificationDeliver, HandleNotificationTask(deliverer, logger))

	return &NotificationWorker{srv: srv, mux: mux, logger: logger}
}

// Start begins processing in the background.
func (w *NotificationWorker) Start() error {
	w.logger.Info("Starting notification worker")
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start notification worker: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *NotificationWorker) Shutdown() {
	w.srv.Shutdown()
	w.logger.Info("Notification worker stopped")
}

// HandleNotificationTask delivers a queued notification. Malformed payloads are not retried.
func HandleNotificationTask(deliverer Deliverer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		n, err := tasks.ParseNotificationTask(task)
		if err != nil {
			logger.Error("Invalid notification task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := deliverer.Notify(ctx, n); err != nil {
			logger.Warn("Notification delivery failed",
				zap.String("id", n.ID),
				zap.String("recipient", n.Recipient),
				zap.Error(err))
			return err
		}
		return nil
	}
}
