package tasks

import (
	"encoding/json"
	"fmt"

	"wheelstrust/models"

	"github.com/hibiken/asynq"
)

const TypeNotificationDeliver = "notification:deliver"

// QueueNotifications is the asynq queue notification tasks are enqueued on.
const QueueNotifications = "notifications"

func NewNotificationTask(n models.Notification) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNotificationDeliver, b)
	opts := []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

// ParseNotificationTask decodes the payload written by NewNotificationTask.
func ParseNotificationTask(t *asynq.Task) (models.Notification, error) {
	var n models.Notification
	if err := json.Unmarshal(t.Payload(), &n); err != nil {
		return n, fmt.Errorf("invalid %s payload: %w", TypeNotificationDeliver, err)
	}
	return n, nil
}
