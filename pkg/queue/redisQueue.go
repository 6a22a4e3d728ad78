package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxRetries   = 3
	defaultBaseDelay    = 5 * time.Second
	defaultQueueTimeout = 5 * time.Second
	defaultDLQThreshold = 1000

	metricsKeyPrefix = "songwriters:metrics:"
	metricsSnapshot  = "songwriters:queue:metrics"
)

// RedisQueue carries the notification fan-out tasks (emails, telegram
// pings, reminders) on a Redis list, with a zset for tasks scheduled in
// the future and a processing list so a crashed consumer loses nothing.
type RedisQueue struct {
	client          *redis.Client
	mainQueue       string
	delayedQueue    string
	processingQueue string
	dlq             string
	retryManager    *RetryManager
	dlqHandler      DLQHandler
	config          *RedisQueueConfig
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

type RedisQueueConfig struct {
	Addr     string
	Password string
	DB       int

	MainQueue       string
	DelayedQueue    string
	ProcessingQueue string
	DLQ             string

	MaxRetries    int
	BaseDelay     time.Duration
	QueueTimeout  time.Duration
	DLQThreshold  int
	EnableDLQ     bool
	EnableMetrics bool
}

func DefaultRedisQueueConfig() *RedisQueueConfig {
	return &RedisQueueConfig{
		Addr:            "localhost:6379",
		Password:        "",
		DB:              0,
		MainQueue:       "songwriters:tasks",
		DelayedQueue:    "songwriters:tasks:delayed",
		ProcessingQueue: "songwriters:tasks:processing",
		DLQ:             "songwriters:dlq",
		MaxRetries:      defaultMaxRetries,
		BaseDelay:       defaultBaseDelay,
		QueueTimeout:    defaultQueueTimeout,
		DLQThreshold:    defaultDLQThreshold,
		EnableDLQ:       true,
		EnableMetrics:   true,
	}
}

func NewRedisQueue(cfg *RedisQueueConfig, retryManager *RetryManager, dlqHandler DLQHandler) (*RedisQueue, error) {
	if cfg == nil {
		cfg = DefaultRedisQueueConfig()
	}

	if retryManager == nil {
		retryManager = NewRetryManager(cfg.MaxRetries, cfg.BaseDelay)
	}

	if dlqHandler == nil && cfg.EnableDLQ {
		dlqHandler = NewDefaultDLQHandler(redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}), cfg.DLQ, cfg.MainQueue)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	queue := &RedisQueue{
		client:          client,
		mainQueue:       cfg.MainQueue,
		delayedQueue:    cfg.DelayedQueue,
		processingQueue: cfg.ProcessingQueue,
		dlq:             cfg.DLQ,
		retryManager:    retryManager,
		dlqHandler:      dlqHandler,
		config:          cfg,
		stopChan:        make(chan struct{}),
	}

	logrus.WithFields(logrus.Fields{
		"main":    cfg.MainQueue,
		"delayed": cfg.DelayedQueue,
		"dlq":     cfg.DLQ,
	}).Info("task queue initialized")

	return queue, nil
}

// Publish enqueues a task. Tasks with a future ExecuteAt land in the
// delayed zset and surface when their time comes.
func (r *RedisQueue) Publish(ctx context.Context, task *Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}

	if err := r.validateTask(task); err != nil {
		return fmt.Errorf("invalid task: %v", err)
	}

	taskData, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %v", err)
	}

	if !task.ExecuteAt.IsZero() && task.ExecuteAt.After(time.Now()) {
		score := float64(task.ExecuteAt.UnixNano()) / 1e9
		_, err = r.client.ZAdd(ctx, r.delayedQueue, &redis.Z{
			Score:  score,
			Member: taskData,
		}).Result()
		if err != nil {
			return fmt.Errorf("failed to publish delayed task: %v", err)
		}

		r.incrementMetric(ctx, "tasks_delayed")
		logrus.WithFields(logrus.Fields{
			"task_id":    task.ID,
			"type":       task.Type,
			"execute_at": task.ExecuteAt.Format(time.RFC3339),
		}).Debug("task scheduled")
		return nil
	}

	_, err = r.client.LPush(ctx, r.mainQueue, taskData).Result()
	if err != nil {
		return fmt.Errorf("failed to publish task: %v", err)
	}

	r.incrementMetric(ctx, "tasks_queued")
	logrus.WithFields(logrus.Fields{"task_id": task.ID, "type": task.Type}).Debug("task published")
	return nil
}

// Subscribe starts the consumer loops. The handler runs tasks one at a
// time; retry and dead-lettering happen here, not in the handler.
func (r *RedisQueue) Subscribe(ctx context.Context, handler func(*Task) error) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	r.wg.Add(3)
	go r.processDelayedTasks(ctx)
	go r.processMainQueue(ctx, handler)
	go r.monitorQueueMetrics(ctx)

	logrus.Info("task queue consumer started")
	return nil
}

func (r *RedisQueue) processMainQueue(ctx context.Context, handler func(*Task) error) {
	defer r.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		default:
			if err := r.processNext(ctx, handler); err != nil {
				logrus.WithError(err).Error("task processing failed")
				time.Sleep(time.Second) // Backoff on error
			}
		}
	}
}

// processNext moves one task to the processing list, runs it through the
// retry loop, and dead-letters it when retries are exhausted.
func (r *RedisQueue) processNext(ctx context.Context, handler func(*Task) error) error {
	taskData, err := r.client.BRPopLPush(ctx, r.mainQueue, r.processingQueue, r.config.QueueTimeout).Result()
	if err == redis.Nil {
		return nil // Timeout, no tasks
	}
	if err != nil {
		return fmt.Errorf("failed to move task to processing queue: %v", err)
	}

	var task Task
	if err := json.Unmarshal([]byte(taskData), &task); err != nil {
		logrus.WithError(err).Warn("undecodable task moved to DLQ")
		r.moveToDLQ(ctx, taskData, fmt.Errorf("invalid task format: %v", err))
	} else if err := r.executeTaskWithRetry(ctx, &task, handler); err != nil {
		logrus.WithFields(logrus.Fields{
			"task_id":  task.ID,
			"type":     task.Type,
			"attempts": task.Attempts,
		}).WithError(err).Error("task failed permanently")
		if r.dlqHandler != nil {
			r.dlqHandler.HandleFailedTask(&task, err)
		}
	}

	// Remove from processing queue regardless of outcome
	if err := r.client.LRem(ctx, r.processingQueue, 1, taskData).Err(); err != nil {
		logrus.WithError(err).Warn("failed to clear processing entry")
	}

	return nil
}

func (r *RedisQueue) processDelayedTasks(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-ticker.C:
			if err := r.moveReadyDelayedTasks(ctx); err != nil {
				logrus.WithError(err).Error("failed to promote delayed tasks")
			}
		}
	}
}

func (r *RedisQueue) moveReadyDelayedTasks(ctx context.Context) error {
	now := float64(time.Now().UnixNano()) / 1e9

	tasks, err := r.client.ZRangeByScore(ctx, r.delayedQueue, &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%f", now),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to get delayed tasks: %v", err)
	}

	if len(tasks) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for _, taskData := range tasks {
		pipe.LPush(ctx, r.mainQueue, taskData)
	}
	pipe.ZRemRangeByScore(ctx, r.delayedQueue, "0", fmt.Sprintf("%f", now))

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to move delayed tasks: %v", err)
	}

	r.incrementMetricBy(ctx, "tasks_delayed_processed", int64(len(tasks)))
	logrus.WithField("count", len(tasks)).Debug("delayed tasks promoted")
	return nil
}

func (r *RedisQueue) executeTaskWithRetry(ctx context.Context, task *Task, handler func(*Task) error) error {
	for {
		task.Attempts++
		startTime := time.Now()

		err := handler(task)
		if err == nil {
			r.recordTaskSuccess(ctx, task, time.Since(startTime))
			return nil
		}
		r.recordTaskFailure(ctx, task)

		shouldRetry, delay := r.retryManager.ShouldRetry(task, err)
		if !shouldRetry {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"task_id": task.ID,
			"attempt": task.Attempts,
			"max":     task.MaxRetries,
			"delay":   delay.String(),
		}).WithError(err).Warn("task failed, retrying")

		jitteredDelay := delay + time.Duration(rand.Int63n(int64(delay/time.Millisecond)))*time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(jitteredDelay):
		}
	}
}

func (r *RedisQueue) moveToDLQ(ctx context.Context, taskData string, err error) {
	if !r.config.EnableDLQ || r.dlqHandler == nil {
		return
	}

	var task Task
	if jsonErr := json.Unmarshal([]byte(taskData), &task); jsonErr != nil {
		// Keep the raw payload so the entry is still inspectable.
		failedTask := &Task{
			ID:        fmt.Sprintf("corrupted_%d", time.Now().UnixNano()),
			Type:      "corrupted",
			Data:      map[string]interface{}{"raw_data": taskData},
			CreatedAt: time.Now(),
		}
		r.dlqHandler.HandleFailedTask(failedTask, fmt.Errorf("corrupted task: %v", jsonErr))
	} else {
		r.dlqHandler.HandleFailedTask(&task, err)
	}

	r.incrementMetric(ctx, "tasks_dlq")
}

// validateTask fills defaults and rejects tasks with no type.
func (r *RedisQueue) validateTask(task *Task) error {
	if task.ID == "" {
		task.ID = generateTaskID()
	}
	if task.Type == "" {
		return fmt.Errorf("task type is required")
	}
	if task.Data == nil {
		task.Data = make(map[string]interface{})
	}
	if task.MaxRetries == 0 {
		task.MaxRetries = r.config.MaxRetries
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if task.ExecuteAt.IsZero() {
		task.ExecuteAt = time.Now()
	}

	return nil
}

func (r *RedisQueue) monitorQueueMetrics(ctx context.Context) {
	defer r.wg.Done()

	if !r.config.EnableMetrics {
		return
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.snapshotQueueDepths(ctx)
		}
	}
}

// snapshotQueueDepths stores current queue lengths for dashboards and
// warns when the backlog outgrows the DLQ threshold.
func (r *RedisQueue) snapshotQueueDepths(ctx context.Context) {
	stats, err := r.GetQueueStats(ctx)
	if err != nil {
		logrus.WithError(err).Warn("failed to collect queue metrics")
		return
	}

	if data, err := json.Marshal(stats); err == nil {
		r.client.Set(ctx, metricsSnapshot, data, 2*time.Minute)
	}

	if stats.MainQueue > int64(r.config.DLQThreshold) {
		logrus.WithFields(logrus.Fields{
			"backlog":   stats.MainQueue,
			"threshold": r.config.DLQThreshold,
		}).Warn("task backlog exceeds threshold")
	}
}

func (r *RedisQueue) incrementMetric(ctx context.Context, metric string) {
	if !r.config.EnableMetrics {
		return
	}

	key := metricsKeyPrefix + metric
	r.client.Incr(ctx, key)
	r.client.Expire(ctx, key, 24*time.Hour)
}

func (r *RedisQueue) incrementMetricBy(ctx context.Context, metric string, value int64) {
	if !r.config.EnableMetrics {
		return
	}

	key := metricsKeyPrefix + metric
	r.client.IncrBy(ctx, key, value)
	r.client.Expire(ctx, key, 24*time.Hour)
}

func (r *RedisQueue) recordTaskSuccess(ctx context.Context, task *Task, duration time.Duration) {
	if !r.config.EnableMetrics {
		return
	}
	r.incrementMetric(ctx, "tasks_success")
	r.incrementMetric(ctx, "tasks_success_"+task.Type)
	r.client.HIncrBy(ctx, metricsKeyPrefix+"task_timing", task.Type, duration.Milliseconds())
}

func (r *RedisQueue) recordTaskFailure(ctx context.Context, task *Task) {
	if !r.config.EnableMetrics {
		return
	}
	r.incrementMetric(ctx, "tasks_failure")
	r.incrementMetric(ctx, "tasks_failure_"+task.Type)
}

// QueueStats is the depth of each queue at a point in time.
type QueueStats struct {
	MainQueue       int64     `json:"main_queue"`
	DelayedQueue    int64     `json:"delayed_queue"`
	ProcessingQueue int64     `json:"processing_queue"`
	DLQ             int64     `json:"dlq"`
	Timestamp       time.Time `json:"timestamp"`
}

func (r *RedisQueue) GetQueueStats(ctx context.Context) (*QueueStats, error) {
	pipe := r.client.Pipeline()

	mainLen := pipe.LLen(ctx, r.mainQueue)
	delayedLen := pipe.ZCard(ctx, r.delayedQueue)
	processingLen := pipe.LLen(ctx, r.processingQueue)
	dlqLen := pipe.ZCard(ctx, r.dlq)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to get queue stats: %v", err)
	}

	return &QueueStats{
		MainQueue:       mainLen.Val(),
		DelayedQueue:    delayedLen.Val(),
		ProcessingQueue: processingLen.Val(),
		DLQ:             dlqLen.Val(),
		Timestamp:       time.Now(),
	}, nil
}

// Close stops the consumer loops and closes the connection.
func (r *RedisQueue) Close() error {
	close(r.stopChan)
	r.wg.Wait()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %v", err)
	}

	logrus.Info("task queue closed")
	return nil
}

func (r *RedisQueue) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %v", err)
	}
	return nil
}

func generateTaskID() string {
	return fmt.Sprintf("task_%d_%d", time.Now().UnixNano(), rand.Int63())
}
