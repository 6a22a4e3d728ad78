package queue

import (
	"context"
	"fmt"
	"log"

	repository "github.com/samiserrag/denver-songwriters-collective-sub014/internal/database/postgres"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

// TaskHandler consumes background work from the queue: outgoing email,
// Telegram delivery and event-wide fan-outs.
type TaskHandler struct {
	rsvpRepo      repository.RSVPRepository
	eventRepo     repository.EventRepository
	userRepo      repository.UserRepository
	notifications Notifier
	mailer        Mailer
	telegramBot   TelegramBot
}

// Notifier writes in-app notifications and honours email preferences
type Notifier interface {
	Notify(ctx context.Context, userID int64, category entity.NotificationCategory, title, body string, eventID *int64) error
}

// Mailer sends a single plain-text message
type Mailer interface {
	Send(to, subject, body string) error
}

// TelegramBot delivers instant messages to linked accounts
type TelegramBot interface {
	SendMessage(chatID, text string) error
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(
	rsvpRepo repository.RSVPRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	notifications Notifier,
	mailer Mailer,
	telegramBot TelegramBot,
) *TaskHandler {
	return &TaskHandler{
		rsvpRepo:      rsvpRepo,
		eventRepo:     eventRepo,
		userRepo:      userRepo,
		notifications: notifications,
		mailer:        mailer,
		telegramBot:   telegramBot,
	}
}

// HandleTask dispatches a task to its handler
func (h *TaskHandler) HandleTask(task *Task) error {
	log.Printf("Handling task %s of type %s (attempt %d/%d)",
		task.ID, task.Type, task.Attempts, task.MaxRetries)

	switch task.Type {
	case TaskTypeSendEmail:
		return h.handleSendEmail(task)
	case TaskTypeWaitlistOffer:
		return h.handleWaitlistOffer(task)
	case TaskTypeOfferExpired:
		return h.handleOfferExpired(task)
	case TaskTypeEventCancelled:
		return h.handleEventCancelled(task)
	case TaskTypeEventReminder:
		return h.handleEventReminder(task)
	default:
		return fmt.Errorf("invalid task type: %s", task.Type)
	}
}

// handleSendEmail delivers one email. Preference checks already happened
// when the task was enqueued.
func (h *TaskHandler) handleSendEmail(task *Task) error {
	to := task.GetString("to")
	subject := task.GetString("subject")
	if to == "" || subject == "" {
		return fmt.Errorf("invalid email task: missing recipient or subject")
	}

	if h.mailer == nil {
		log.Printf("Mailer not configured, dropping email to %s", to)
		return nil
	}

	if err := h.mailer.Send(to, subject, task.GetString("body")); err != nil {
		return fmt.Errorf("failed to send email to %s: %v", to, err)
	}

	log.Printf("Email sent to %s: %s", to, subject)
	return nil
}

// handleWaitlistOffer pings the promoted member on Telegram. The in-app
// notification and email were already written by the promoting service.
func (h *TaskHandler) handleWaitlistOffer(task *Task) error {
	ctx := context.Background()

	userID := task.GetInt64("user_id")
	if userID == 0 {
		return fmt.Errorf("invalid user_id in task data")
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %d: %v", userID, err)
	}
	if user.TelegramID == "" || h.telegramBot == nil {
		return nil
	}

	message := fmt.Sprintf(
		"A spot opened up!\n\nEvent: %s\n",
		task.GetString("event_title"),
	)
	if expiresAt := task.GetTime("expires_at"); !expiresAt.IsZero() {
		message += fmt.Sprintf("Accept before: %s\n", expiresAt.Format("Jan 2 at 15:04 MST"))
	}
	message += "\nAccept the offer in the app to claim your spot."

	if err := h.telegramBot.SendMessage(user.TelegramID, message); err != nil {
		return fmt.Errorf("failed to send Telegram message: %v", err)
	}

	log.Printf("Waitlist offer ping sent to user %d", userID)
	return nil
}

// handleOfferExpired tells the member their offer lapsed
func (h *TaskHandler) handleOfferExpired(task *Task) error {
	ctx := context.Background()

	userID := task.GetInt64("user_id")
	if userID == 0 {
		return fmt.Errorf("invalid user_id in task data")
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %d: %v", userID, err)
	}
	if user.TelegramID == "" || h.telegramBot == nil {
		return nil
	}

	message := fmt.Sprintf(
		"Your spot offer expired\n\nEvent: %s\n\nYou're back on the waitlist; we'll ping you if another spot opens.",
		task.GetString("event_title"),
	)
	if err := h.telegramBot.SendMessage(user.TelegramID, message); err != nil {
		return fmt.Errorf("failed to send Telegram message: %v", err)
	}
	return nil
}

// handleEventCancelled fans the cancellation out to everyone still holding
// or waiting on a spot. Per-recipient failures are logged, not retried:
// retrying the whole task would double-notify the ones that succeeded.
func (h *TaskHandler) handleEventCancelled(task *Task) error {
	ctx := context.Background()

	eventID := task.GetInt64("event_id")
	if eventID == 0 {
		return fmt.Errorf("invalid event_id in task data")
	}
	title := task.GetString("event_title")

	rsvps, err := h.rsvpRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load rsvps for event %d: %v", eventID, err)
	}

	sentCount := 0
	for _, rsvp := range rsvps {
		if rsvp.Status == entity.RSVPStatusCancelled {
			continue
		}

		if h.notifications != nil {
			err := h.notifications.Notify(ctx, rsvp.UserID, entity.CategoryEventChanges,
				"Event cancelled: "+title,
				"The host has cancelled this event. Sorry for the short notice.",
				&eventID)
			if err != nil {
				log.Printf("Failed to notify user %d about cancellation: %v", rsvp.UserID, err)
				continue
			}
		}

		h.telegramPing(ctx, rsvp.UserID, fmt.Sprintf(
			"Event cancelled\n\nEvent: %s\n\nThe host has cancelled this event.", title))
		sentCount++
	}

	log.Printf("Cancellation notices sent for event %d to %d members", eventID, sentCount)
	return nil
}

// handleEventReminder reminds confirmed attendees about an upcoming date
func (h *TaskHandler) handleEventReminder(task *Task) error {
	ctx := context.Background()

	eventID := task.GetInt64("event_id")
	if eventID == 0 {
		return fmt.Errorf("invalid event_id in task data")
	}
	dateKey := task.GetString("date_key")

	event, err := h.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load event %d: %v", eventID, err)
	}
	if event.Status == entity.EventStatusCancelled {
		return nil
	}

	rsvps, err := h.rsvpRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load rsvps for event %d: %v", eventID, err)
	}

	sentCount := 0
	for _, rsvp := range rsvps {
		if rsvp.Status != entity.RSVPStatusConfirmed {
			continue
		}

		if h.notifications != nil {
			err := h.notifications.Notify(ctx, rsvp.UserID, entity.CategoryReminders,
				"Reminder: "+event.Title,
				fmt.Sprintf("Happening on %s. See you there!", dateKey),
				&eventID)
			if err != nil {
				log.Printf("Failed to send reminder to user %d: %v", rsvp.UserID, err)
				continue
			}
		}

		h.telegramPing(ctx, rsvp.UserID, fmt.Sprintf(
			"Reminder\n\nEvent: %s\nDate: %s\n\nSee you there!", event.Title, dateKey))
		sentCount++
	}

	log.Printf("Reminders sent for event %d on %s to %d members", eventID, dateKey, sentCount)
	return nil
}

// telegramPing best-effort delivers to a linked Telegram account
func (h *TaskHandler) telegramPing(ctx context.Context, userID int64, text string) {
	if h.telegramBot == nil {
		return
	}
	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil || user.TelegramID == "" {
		return
	}
	if err := h.telegramBot.SendMessage(user.TelegramID, text); err != nil {
		log.Printf("Failed to send Telegram message to user %d: %v", userID, err)
	}
}
