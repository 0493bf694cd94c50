package tasks

import (
	"testing"
	"time"

	"wheelstrust/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationTaskPayload(t *testing.T) {
	n := models.Notification{
		ID:        "n-1",
		Recipient: "u-1",
		Type:      models.NotificationBookingCreated,
		Title:     "New booking",
		Message:   "Booking on 2026-05-04 at 10:00 AM",
		Data:      map[string]any{"bookingId": "b-1"},
		CreatedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	task, opts, err := NewNotificationTask(n)
	require.NoError(t, err)
	assert.Equal(t, TypeNotificationDeliver, task.Type())
	assert.NotEmpty(t, opts)

	decoded, err := ParseNotificationTask(task)
	require.NoError(t, err)
	assert.Equal(t, n.ID, decoded.ID)
	assert.Equal(t, n.Recipient, decoded.Recipient)
	assert.Equal(t, "b-1", decoded.Data["bookingId"])
	assert.True(t, n.CreatedAt.Equal(decoded.CreatedAt))
}

func TestParseNotificationTaskRejectsGarbage(t *testing.T) {
	_, err := ParseNotificationTask(asynq.NewTask(TypeNotificationDeliver, []byte("{")))
	assert.Error(t, err)
}
