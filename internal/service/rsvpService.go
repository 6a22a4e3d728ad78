package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/samiserrag/denver-songwriters-collective-sub014/internal/database/postgres"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type rsvpService struct {
	rsvpRepo      repository.RSVPRepository
	eventRepo     repository.EventRepository
	notifications NotificationService
	queue         TaskPublisher
	offerTTL      time.Duration
}

// NewRSVPService creates a new instance of RSVPService
func NewRSVPService(
	rsvpRepo repository.RSVPRepository,
	eventRepo repository.EventRepository,
	notifications NotificationService,
	queue TaskPublisher,
	offerTTL time.Duration,
) RSVPService {
	if offerTTL <= 0 {
		offerTTL = 24 * time.Hour
	}
	return &rsvpService{
		rsvpRepo:      rsvpRepo,
		eventRepo:     eventRepo,
		notifications: notifications,
		queue:         queue,
		offerTTL:      offerTTL,
	}
}

// RSVP joins an event: confirmed while capacity lasts, waitlisted after.
// A previously cancelled RSVP rejoins through the same path.
func (s *rsvpService) RSVP(ctx context.Context, eventID, userID int64) (*entity.RSVP, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished {
		return nil, entity.ErrEventNotPublished
	}
	if event.Status == entity.EventStatusCancelled {
		return nil, entity.ErrEventCancelled
	}

	// Lapsed offers free spots; sweep before counting.
	s.sweepEvent(ctx, eventID)

	existing, err := s.rsvpRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil && !errors.Is(err, entity.ErrRSVPNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status != entity.RSVPStatusCancelled {
		return nil, entity.ErrAlreadyRSVPed
	}

	stats, err := s.rsvpRepo.GetEventStats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rsvp stats: %w", err)
	}

	status := entity.RSVPStatusConfirmed
	if stats.IsFull() {
		status = entity.RSVPStatusWaitlist
	}

	if existing != nil {
		// Rejoin after cancellation.
		if status == entity.RSVPStatusWaitlist {
			if err := s.rsvpRepo.MoveToWaitlistEnd(ctx, existing.ID, eventID); err != nil {
				return nil, err
			}
		} else {
			if err := s.rsvpRepo.UpdateStatus(ctx, existing.ID, entity.RSVPStatusConfirmed); err != nil {
				return nil, err
			}
		}
		return s.rsvpRepo.GetByID(ctx, existing.ID)
	}

	rsvp := &entity.RSVP{
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	}
	if err := s.rsvpRepo.Create(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("failed to create rsvp: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id": eventID,
		"user_id":  userID,
		"status":   status,
	}).Info("rsvp created")

	if s.notifications != nil {
		title := "You're in: " + event.Title
		body := "Your RSVP is confirmed."
		if status == entity.RSVPStatusWaitlist {
			title = "Waitlisted: " + event.Title
			body = "The event is full; you've been added to the waitlist."
		}
		if err := s.notifications.Notify(ctx, userID, entity.CategoryRSVP, title, body, &eventID); err != nil {
			logrus.WithError(err).Warn("rsvp notification failed")
		}
	}

	return rsvp, nil
}

// CancelRSVP releases the member's spot and, when the spot was held
// (confirmed or offered), promotes the front of the waitlist.
func (s *rsvpService) CancelRSVP(ctx context.Context, eventID, userID int64) error {
	rsvp, err := s.rsvpRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if rsvp.Status == entity.RSVPStatusCancelled {
		return nil
	}

	heldSpot := rsvp.Status == entity.RSVPStatusConfirmed || rsvp.Status == entity.RSVPStatusOffered

	if err := s.rsvpRepo.UpdateStatus(ctx, rsvp.ID, entity.RSVPStatusCancelled); err != nil {
		return err
	}

	if heldSpot {
		s.promoteNext(ctx, eventID)
	}
	return nil
}

// AcceptOffer confirms a waitlist offer. An offer that lapsed before the
// accept reverts to the back of the waitlist and the next member is promoted
// in the same call.
func (s *rsvpService) AcceptOffer(ctx context.Context, eventID, userID int64) (*entity.RSVP, error) {
	rsvp, err := s.rsvpRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if rsvp.Status != entity.RSVPStatusOffered {
		return nil, entity.ErrNoOfferToAccept
	}

	if rsvp.OfferExpiresAt != nil && time.Now().After(*rsvp.OfferExpiresAt) {
		if err := s.rsvpRepo.MoveToWaitlistEnd(ctx, rsvp.ID, eventID); err != nil {
			logrus.WithError(err).Warn("failed to revert lapsed offer")
		}
		s.promoteNext(ctx, eventID)
		return nil, entity.ErrOfferExpired
	}

	if err := s.rsvpRepo.Confirm(ctx, rsvp.ID); err != nil {
		return nil, err
	}
	return s.rsvpRepo.GetByID(ctx, rsvp.ID)
}

func (s *rsvpService) GetUserRSVPs(ctx context.Context, userID int64) ([]*entity.RSVP, error) {
	return s.rsvpRepo.GetByUserID(ctx, userID)
}

func (s *rsvpService) GetEventRSVPs(ctx context.Context, actor *entity.User, eventID int64) ([]*entity.RSVP, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !canManageEvent(actor, &event.Event) {
		return nil, entity.ErrForbidden
	}
	return s.rsvpRepo.GetByEventID(ctx, eventID)
}

func (s *rsvpService) GetEventStats(ctx context.Context, eventID int64) (*entity.EventRSVPStats, error) {
	s.sweepEvent(ctx, eventID)
	return s.rsvpRepo.GetEventStats(ctx, eventID)
}

func (s *rsvpService) GetAllRSVPs(ctx context.Context) ([]*entity.RSVP, error) {
	return s.rsvpRepo.GetAll(ctx)
}

// ProcessExpiredOffers is the scheduled sweep across all events.
func (s *rsvpService) ProcessExpiredOffers(ctx context.Context) (int, error) {
	expired, err := s.rsvpRepo.GetExpiredOffers(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to load expired offers: %w", err)
	}

	processed := 0
	for _, offer := range expired {
		if err := s.expireOffer(ctx, offer); err != nil {
			logrus.WithError(err).WithField("rsvp_id", offer.RSVPID).Error("failed to expire offer")
			continue
		}
		processed++
	}

	if processed > 0 {
		logrus.WithField("count", processed).Info("expired waitlist offers processed")
	}
	return processed, nil
}

// sweepEvent opportunistically expires lapsed offers for one event so reads
// never show stale spots between worker runs.
func (s *rsvpService) sweepEvent(ctx context.Context, eventID int64) {
	expired, err := s.rsvpRepo.GetExpiredOffersForEvent(ctx, eventID, time.Now())
	if err != nil {
		logrus.WithError(err).Warn("offer sweep failed")
		return
	}
	for _, offer := range expired {
		if err := s.expireOffer(ctx, offer); err != nil {
			logrus.WithError(err).WithField("rsvp_id", offer.RSVPID).Warn("failed to expire offer")
		}
	}
}

func (s *rsvpService) expireOffer(ctx context.Context, offer *entity.ExpiredOffer) error {
	if err := s.rsvpRepo.MoveToWaitlistEnd(ctx, offer.RSVPID, offer.EventID); err != nil {
		return err
	}

	if s.notifications != nil {
		err := s.notifications.Notify(ctx, offer.UserID, entity.CategoryWaitlist,
			"Offer expired: "+offer.EventTitle,
			"Your spot offer lapsed; you're back on the waitlist.",
			&offer.EventID)
		if err != nil {
			logrus.WithError(err).Warn("offer-expired notification failed")
		}
	}

	s.publishTask(ctx, TaskTypeOfferExpired, map[string]interface{}{
		"user_id":     offer.UserID,
		"event_id":    offer.EventID,
		"event_title": offer.EventTitle,
	})

	s.promoteNext(ctx, offer.EventID)
	return nil
}

// publishTask hands instant-messenger delivery to the queue consumer.
// In-app and email notifications go through NotificationService directly.
func (s *rsvpService) publishTask(ctx context.Context, taskType string, data map[string]interface{}) {
	if s.queue == nil {
		return
	}
	task := &Task{
		ID:         fmt.Sprintf("%s_%d", taskType, time.Now().UnixNano()),
		Type:       taskType,
		Data:       data,
		ExecuteAt:  time.Now(),
		MaxRetries: 3,
	}
	if err := s.queue.Publish(ctx, task); err != nil {
		logrus.WithError(err).WithField("type", taskType).Warn("failed to enqueue task")
	}
}

// promoteNext offers the freed spot to the front of the waitlist with a
// fresh expiry clock. Failure to notify never blocks the promotion.
func (s *rsvpService) promoteNext(ctx context.Context, eventID int64) {
	next, err := s.rsvpRepo.NextWaitlisted(ctx, eventID)
	if err != nil {
		logrus.WithError(err).Error("failed to read waitlist front")
		return
	}
	if next == nil {
		return
	}

	expiresAt := time.Now().Add(s.offerTTL)
	if err := s.rsvpRepo.SetOffer(ctx, next.ID, expiresAt); err != nil {
		logrus.WithError(err).WithField("rsvp_id", next.ID).Error("failed to set offer")
		return
	}

	logrus.WithFields(logrus.Fields{
		"event_id": eventID,
		"rsvp_id":  next.ID,
		"expires":  expiresAt,
	}).Info("waitlist offer extended")

	eventTitle := ""
	if event, err := s.eventRepo.GetByID(ctx, eventID); err == nil {
		eventTitle = event.Title
	}

	if s.notifications != nil {
		title := "A spot opened up"
		if eventTitle != "" {
			title = "A spot opened up: " + eventTitle
		}
		err := s.notifications.Notify(ctx, next.UserID, entity.CategoryWaitlist,
			title,
			fmt.Sprintf("Accept within %s or the spot passes to the next person.", s.offerTTL),
			&eventID)
		if err != nil {
			logrus.WithError(err).Warn("promotion notification failed")
		}
	}

	s.publishTask(ctx, TaskTypeWaitlistOffer, map[string]interface{}{
		"user_id":     next.UserID,
		"event_id":    eventID,
		"event_title": eventTitle,
		"expires_at":  expiresAt.Format(time.RFC3339),
	})
}
