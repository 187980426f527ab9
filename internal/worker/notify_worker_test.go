package worker

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"hotelops/internal/database"
	"hotelops/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	delivered []string
	err       error
}

func (f *fakeSink) Notify(ctx context.Context, title, text string, meta map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, title)
	return nil
}

func setupWorker(t *testing.T, sink *fakeSink, redisClient *redis.Client) (*NotifyWorker, *database.DB) {
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	w := NewNotifyWorker(db, sink, redisClient, RetryPolicy{MaxRetries: 3}, &logger)
	return w, db
}

func TestEnqueue_PersistsTask(t *testing.T) {
	w, db := setupWorker(t, &fakeSink{}, nil)
	ctx := context.Background()

	err := w.Enqueue(ctx, TaskTicketClosed, "t-1", NewPayload("Request resolved", "done", nil))
	require.NoError(t, err)

	tasks, err := db.GetPendingNotifyTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskTicketClosed, tasks[0].TaskType)
	assert.Equal(t, "t-1", tasks[0].RefID)
}

func TestEnqueue_RequiresTypeAndRef(t *testing.T) {
	w, _ := setupWorker(t, &fakeSink{}, nil)
	ctx := context.Background()

	assert.Error(t, w.Enqueue(ctx, "", "t-1", NewPayload("x", "y", nil)))
	assert.Error(t, w.Enqueue(ctx, TaskTicketClosed, "", NewPayload("x", "y", nil)))
}

func TestEnqueue_PushesToRedisWhenAvailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	w, _ := setupWorker(t, &fakeSink{}, client)

	require.NoError(t, w.Enqueue(context.Background(), TaskOrderStatus, "o-1", NewPayload("Order update", "delivered", nil)))

	llen, err := client.LLen(context.Background(), w.redisQueueKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), llen)
}

func TestProcessTask_DeliversAndCompletes(t *testing.T) {
	sink := &fakeSink{}
	w, db := setupWorker(t, sink, nil)
	ctx := context.Background()

	require.NoError(t, w.Enqueue(ctx, TaskTicketClosed, "t-1", NewPayload("Request resolved", "done", map[string]string{"hotel_id": "grand-palms"})))

	tasks, err := db.GetPendingNotifyTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	w.processTask(ctx, &tasks[0])

	assert.Equal(t, []string{"Request resolved"}, sink.delivered)

	remaining, err := db.GetPendingNotifyTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestProcessTask_FailureSchedulesRetry(t *testing.T) {
	sink := &fakeSink{err: errors.New("webhook down")}
	w, db := setupWorker(t, sink, nil)
	ctx := context.Background()

	require.NoError(t, w.Enqueue(ctx, TaskTicketClosed, "t-1", NewPayload("Request resolved", "done", nil)))

	tasks, err := db.GetPendingNotifyTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	w.processTask(ctx, &tasks[0])

	// Task is in retry state with next_retry_at in the future, so the
	// pending query skips it for now.
	pending, err := db.GetPendingNotifyTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	failed, err := db.GetFailedNotifyTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, failed)
}

func TestProcessTask_ExhaustedRetriesFail(t *testing.T) {
	sink := &fakeSink{err: errors.New("webhook down")}
	w, db := setupWorker(t, sink, nil)
	ctx := context.Background()

	require.NoError(t, w.Enqueue(ctx, TaskTicketClosed, "t-1", NewPayload("Request resolved", "done", nil)))

	tasks, err := db.GetPendingNotifyTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	task := tasks[0]
	task.RetryCount = 2 // next attempt is the third and last
	w.processTask(ctx, &task)

	failed, err := db.GetFailedNotifyTasks(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "webhook down", failed[0].LastError)
}

func TestProcessTask_BadPayloadFailsImmediately(t *testing.T) {
	w, db := setupWorker(t, &fakeSink{}, nil)
	ctx := context.Background()

	task := &models.NotifyTask{TaskType: TaskTicketClosed, RefID: "t-1", Payload: "{not json", Status: "pending"}
	require.NoError(t, db.CreateNotifyTask(ctx, task))

	w.processTask(ctx, task)

	failed, err := db.GetFailedNotifyTasks(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
}

func TestRetryPolicy_NextDelay(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 5, InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 10*time.Second, policy.NextDelay(10))
	assert.Equal(t, time.Second, policy.NextDelay(0))
}
