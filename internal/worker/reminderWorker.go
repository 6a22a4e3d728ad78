package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/schedule"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/service"
)

// ReminderWorker enqueues next-day reminders for published events. Sent
// occurrences are tracked in memory; a restart re-sends at most one extra
// reminder per occurrence, which beats dragging a table into this.
type ReminderWorker struct {
	eventService service.EventService
	queue        service.TaskPublisher
	interval     time.Duration

	mu   sync.Mutex
	sent map[string]bool
}

func NewReminderWorker(eventService service.EventService, queue service.TaskPublisher, interval time.Duration) *ReminderWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderWorker{
		eventService: eventService,
		queue:        queue,
		interval:     interval,
		sent:         make(map[string]bool),
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Reminder worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ReminderWorker) sweep(ctx context.Context) {
	if w.queue == nil {
		return
	}

	now := time.Now().UTC()
	todayKey := schedule.FormatDateKey(now)
	tomorrowKey := schedule.FormatDateKey(now.AddDate(0, 0, 1))

	events, err := w.eventService.GetPublishedEvents(ctx)
	if err != nil {
		logrus.WithError(err).Error("reminder sweep failed to list events")
		return
	}

	enqueued := 0
	for _, event := range events {
		occurrences, err := w.eventService.GetOccurrences(ctx, event.ID, todayKey, tomorrowKey)
		if err != nil {
			logrus.WithError(err).WithField("event_id", event.ID).Warn("reminder sweep failed to resolve occurrences")
			continue
		}

		for _, occ := range occurrences {
			if occ.DateKey != tomorrowKey || occ.Status == entity.OverrideStatusCancelled {
				continue
			}
			if w.alreadySent(event.ID, occ.DateKey) {
				continue
			}

			task := &service.Task{
				ID:   fmt.Sprintf("reminder_%d_%s", event.ID, occ.DateKey),
				Type: service.TaskTypeEventReminder,
				Data: map[string]interface{}{
					"event_id": event.ID,
					"date_key": occ.DateKey,
				},
				ExecuteAt:  time.Now(),
				MaxRetries: 3,
			}
			if err := w.queue.Publish(ctx, task); err != nil {
				logrus.WithError(err).WithField("event_id", event.ID).Error("failed to enqueue reminder")
				continue
			}
			w.markSent(event.ID, occ.DateKey)
			enqueued++
		}
	}

	if enqueued > 0 {
		logrus.WithField("count", enqueued).Info("event reminders enqueued")
	}
	w.prune(todayKey)
}

func (w *ReminderWorker) alreadySent(eventID int64, dateKey string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sent[fmt.Sprintf("%d:%s", eventID, dateKey)]
}

func (w *ReminderWorker) markSent(eventID int64, dateKey string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sent[fmt.Sprintf("%d:%s", eventID, dateKey)] = true
}

// prune drops entries for dates already behind us so the map stays small
func (w *ReminderWorker) prune(todayKey string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for key := range w.sent {
		if idx := len(key) - len(todayKey); idx > 0 && key[idx:] < todayKey {
			delete(w.sent, key)
		}
	}
}
