package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/samiserrag/denver-songwriters-collective-sub014/internal/database/postgres"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	queue            TaskPublisher
}

// NewNotificationService creates a new instance of NotificationService
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	queue TaskPublisher,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		queue:            queue,
	}
}

// Notify writes the in-app notification and, when the user's preferences
// allow the category, enqueues an email task. Email delivery problems are
// logged and swallowed; the in-app record is the source of truth.
func (s *notificationService) Notify(ctx context.Context, userID int64, category entity.NotificationCategory, title, body string, eventID *int64) error {
	n := &entity.Notification{
		UserID:   userID,
		Category: category,
		Title:    title,
		Body:     body,
		EventID:  eventID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.enqueueEmail(ctx, userID, category, title, body)
	return nil
}

func (s *notificationService) enqueueEmail(ctx context.Context, userID int64, category entity.NotificationCategory, subject, body string) {
	if s.queue == nil {
		return
	}

	prefs, err := s.notificationRepo.GetPreferences(ctx, userID)
	if err != nil {
		logrus.WithError(err).Warn("failed to load notification preferences")
		return
	}
	if !prefs.EmailAllowed(category) {
		return
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logrus.WithError(err).Warn("failed to load user for email")
		return
	}

	task := &Task{
		ID:   fmt.Sprintf("email_%d_%d", userID, time.Now().UnixNano()),
		Type: TaskTypeSendEmail,
		Data: map[string]interface{}{
			"to":       user.Email,
			"subject":  subject,
			"body":     body,
			"category": string(category),
		},
		ExecuteAt:  time.Now(),
		MaxRetries: 3,
	}
	if err := s.queue.Publish(ctx, task); err != nil {
		logrus.WithError(err).Warn("failed to enqueue email task")
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int64, limit int) ([]*entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notificationRepo.GetByUserID(ctx, userID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

// GetPreferences merges the stored row over the defaults, so every known key
// is present in the response.
func (s *notificationService) GetPreferences(ctx context.Context, userID int64) (*entity.NotificationPreferences, error) {
	stored, err := s.notificationRepo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]bool, len(entity.DefaultPreferences))
	for key, value := range entity.DefaultPreferences {
		merged[key] = value
	}
	result := &entity.NotificationPreferences{UserID: userID, Prefs: merged}
	if stored != nil {
		for key, value := range stored.Prefs {
			merged[key] = value
		}
		result.UpdatedAt = stored.UpdatedAt
	}
	return result, nil
}

func (s *notificationService) SavePreferences(ctx context.Context, userID int64, prefs map[string]bool) (*entity.NotificationPreferences, error) {
	for key := range prefs {
		if _, known := entity.DefaultPreferences[key]; !known {
			return nil, fmt.Errorf("unknown preference key %q: %w", key, entity.ErrInvalidInput)
		}
	}

	current, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	for key, value := range prefs {
		current.Prefs[key] = value
	}

	if err := s.notificationRepo.SavePreferences(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}
