package service

import (
	"context"

	"github.com/samiserrag/denver-songwriters-collective-sub014/pkg/queue"
)

// QueueAdapter bridges queue.Queue to the TaskPublisher interface.
type QueueAdapter struct {
	queue queue.Queue
}

// NewQueueAdapter creates a new adapter for the queue
func NewQueueAdapter(q queue.Queue) *QueueAdapter {
	return &QueueAdapter{queue: q}
}

// Publish converts a service.Task into a queue.Task and enqueues it.
func (a *QueueAdapter) Publish(ctx context.Context, task *Task) error {
	if a.queue == nil {
		return nil
	}

	queueTask := &queue.Task{
		ID:         task.ID,
		Type:       task.Type,
		Data:       task.Data,
		ExecuteAt:  task.ExecuteAt,
		MaxRetries: task.MaxRetries,
		Attempts:   task.Attempts,
	}

	return a.queue.Publish(ctx, queueTask)
}
