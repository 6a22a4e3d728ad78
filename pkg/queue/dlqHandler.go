package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DLQHandler owns the tasks that exhausted their retries. Admins inspect
// the queue, requeue a task after the underlying outage, or drop it.
type DLQHandler interface {
	HandleFailedTask(task *Task, err error)
	GetFailedTasks(ctx context.Context, limit int) ([]*FailedTask, error)
	RequeueFailedTask(ctx context.Context, taskID string) error
	DeleteFailedTask(ctx context.Context, taskID string) error
	GetDLQStats(ctx context.Context) (*DLQStats, error)
}

type DefaultDLQHandler struct {
	client    *redis.Client
	dlq       string
	mainQueue string
}

// FailedTask is a dead-lettered task plus the error that killed it.
type FailedTask struct {
	Task     *Task     `json:"task"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
	Attempts int       `json:"attempts"`
}

type DLQStats struct {
	OldestFailure time.Time `json:"oldest_failure"`
	NewestFailure time.Time `json:"newest_failure"`
	QueueSize     int64     `json:"queue_size"`
}

func NewDefaultDLQHandler(client *redis.Client, dlq, mainQueue string) *DefaultDLQHandler {
	return &DefaultDLQHandler{
		client:    client,
		dlq:       dlq,
		mainQueue: mainQueue,
	}
}

// HandleFailedTask stores the task in the DLQ zset scored by failure time.
func (d *DefaultDLQHandler) HandleFailedTask(task *Task, err error) {
	failedTask := &FailedTask{
		Task:     task,
		Error:    err.Error(),
		FailedAt: time.Now(),
		Attempts: task.Attempts,
	}

	taskData, marshalErr := json.Marshal(failedTask)
	if marshalErr != nil {
		logrus.WithError(marshalErr).Error("failed to marshal dead-lettered task")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	score := float64(failedTask.FailedAt.UnixNano()) / 1e9
	_, redisErr := d.client.ZAdd(ctx, d.dlq, &redis.Z{
		Score:  score,
		Member: taskData,
	}).Result()

	if redisErr != nil {
		logrus.WithError(redisErr).Error("failed to write task to DLQ")
		return
	}

	logrus.WithFields(logrus.Fields{
		"task_id": task.ID,
		"type":    task.Type,
	}).WithError(err).Warn("task dead-lettered")
}

// GetFailedTasks returns dead-lettered tasks, newest first.
func (d *DefaultDLQHandler) GetFailedTasks(ctx context.Context, limit int) ([]*FailedTask, error) {
	if limit <= 0 {
		limit = 50
	}

	tasks, err := d.client.ZRevRangeByScore(ctx, d.dlq, &redis.ZRangeBy{
		Min: "-inf",
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get failed tasks: %v", err)
	}

	if len(tasks) > limit {
		tasks = tasks[:limit]
	}

	var failedTasks []*FailedTask
	for _, taskData := range tasks {
		var failedTask FailedTask
		if err := json.Unmarshal([]byte(taskData), &failedTask); err != nil {
			logrus.WithError(err).Warn("skipping undecodable DLQ entry")
			continue
		}
		failedTasks = append(failedTasks, &failedTask)
	}

	return failedTasks, nil
}

// RequeueFailedTask puts a dead-lettered task back on the main queue with
// a fresh attempt budget.
func (d *DefaultDLQHandler) RequeueFailedTask(ctx context.Context, taskID string) error {
	tasks, err := d.client.ZRangeByScore(ctx, d.dlq, &redis.ZRangeBy{
		Min: "-inf",
		Max: "+inf",
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to get DLQ tasks: %v", err)
	}

	for _, entry := range tasks {
		var failedTask FailedTask
		if err := json.Unmarshal([]byte(entry), &failedTask); err != nil {
			continue
		}

		if failedTask.Task.ID == taskID {
			failedTask.Task.Attempts = 0
			failedTask.Task.ExecuteAt = time.Now()

			taskData, err := json.Marshal(failedTask.Task)
			if err != nil {
				return fmt.Errorf("failed to marshal task for requeue: %v", err)
			}

			pipe := d.client.Pipeline()
			pipe.LPush(ctx, d.mainQueue, taskData)
			pipe.ZRem(ctx, d.dlq, entry)

			if _, err = pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to requeue task: %v", err)
			}

			logrus.WithField("task_id", taskID).Info("task requeued from DLQ")
			return nil
		}
	}

	return fmt.Errorf("task %s not found in DLQ", taskID)
}

// DeleteFailedTask drops a dead-lettered task for good.
func (d *DefaultDLQHandler) DeleteFailedTask(ctx context.Context, taskID string) error {
	tasks, err := d.client.ZRangeByScore(ctx, d.dlq, &redis.ZRangeBy{
		Min: "-inf",
		Max: "+inf",
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to get DLQ tasks: %v", err)
	}

	for _, entry := range tasks {
		var failedTask FailedTask
		if err := json.Unmarshal([]byte(entry), &failedTask); err != nil {
			continue
		}

		if failedTask.Task.ID == taskID {
			if err := d.client.ZRem(ctx, d.dlq, entry).Err(); err != nil {
				return fmt.Errorf("failed to delete task from DLQ: %v", err)
			}

			logrus.WithField("task_id", taskID).Info("task deleted from DLQ")
			return nil
		}
	}

	return fmt.Errorf("task %s not found in DLQ", taskID)
}

func (d *DefaultDLQHandler) GetDLQStats(ctx context.Context) (*DLQStats, error) {
	count, err := d.client.ZCard(ctx, d.dlq).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get DLQ count: %v", err)
	}

	oldestTasks, err := d.client.ZRangeByScore(ctx, d.dlq, &redis.ZRangeBy{
		Min:    "-inf",
		Max:    "+inf",
		Offset: 0,
		Count:  1,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get oldest task: %v", err)
	}

	newestTasks, err := d.client.ZRevRangeByScore(ctx, d.dlq, &redis.ZRangeBy{
		Min:    "-inf",
		Max:    "+inf",
		Offset: 0,
		Count:  1,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get newest task: %v", err)
	}

	stats := &DLQStats{QueueSize: count}

	if len(oldestTasks) > 0 {
		var oldestTask FailedTask
		if err := json.Unmarshal([]byte(oldestTasks[0]), &oldestTask); err == nil {
			stats.OldestFailure = oldestTask.FailedAt
		}
	}

	if len(newestTasks) > 0 {
		var newestTask FailedTask
		if err := json.Unmarshal([]byte(newestTasks[0]), &newestTask); err == nil {
			stats.NewestFailure = newestTask.FailedAt
		}
	}

	return stats, nil
}
