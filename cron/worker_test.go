package cron

import (
	"context"
	"errors"
	"testing"

	"wheelstrust/config"
	"wheelstrust/models"
	"wheelstrust/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingDeliverer struct {
	got []models.Notification
	err error
}

func (d *recordingDeliverer) Notify(_ context.Context, n models.Notification) error {
	d.got = append(d.got, n)
	return d.err
}

func TestHandleNotificationTaskDelivers(t *testing.T) {
	d := &recordingDeliverer{}
	task, _, err := tasks.NewNotificationTask(models.Notification{ID: "n-1", Recipient: "u-1", Title: "hi"})
	require.NoError(t, err)

	require.NoError(t, HandleNotificationTask(d, zap.NewNop())(context.Background(), task))
	require.Len(t, d.got, 1)
	assert.Equal(t, "u-1", d.got[0].Recipient)
}

func TestHandleNotificationTaskPropagatesDeliveryError(t *testing.T) {
	d := &recordingDeliverer{err: errors.New("mongo down")}
	task, _, err := tasks.NewNotificationTask(models.Notification{ID: "n-1", Recipient: "u-1"})
	require.NoError(t, err)

	err = HandleNotificationTask(d, zap.NewNop())(context.Background(), task)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleNotificationTaskSkipsRetryOnBadPayload(t *testing.T) {
	d := &recordingDeliverer{}
	err := HandleNotificationTask(d, zap.NewNop())(context.Background(), asynq.NewTask(tasks.TypeNotificationDeliver, []byte("nope")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Empty(t, d.got)
}

func TestRedisQueueOpt(t *testing.T) {
	opt := RedisQueueOpt(config.Config{RedisAddr: "redis:6379", RedisPassword: "pw", RedisQueueDB: 3})
	assert.Equal(t, "redis:6379", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 3, opt.DB)
}
