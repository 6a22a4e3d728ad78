package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repository "github.com/samiserrag/denver-songwriters-collective-sub014/internal/database/postgres"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
	"github.com/samiserrag/denver-songwriters-collective-sub014/pkg/telegram"
)

type hostService struct {
	requestRepo   repository.HostRequestRepository
	inviteRepo    repository.HostInviteRepository
	userRepo      repository.UserRepository
	eventRepo     repository.EventRepository
	notifications NotificationService
	telegramBot   *telegram.Bot
	inviteTTL     time.Duration
}

// NewHostService creates a new instance of HostService
func NewHostService(
	requestRepo repository.HostRequestRepository,
	inviteRepo repository.HostInviteRepository,
	userRepo repository.UserRepository,
	eventRepo repository.EventRepository,
	notifications NotificationService,
	telegramBot *telegram.Bot,
	inviteTTL time.Duration,
) HostService {
	if inviteTTL <= 0 {
		inviteTTL = 7 * 24 * time.Hour
	}
	return &hostService{
		requestRepo:   requestRepo,
		inviteRepo:    inviteRepo,
		userRepo:      userRepo,
		eventRepo:     eventRepo,
		notifications: notifications,
		telegramBot:   telegramBot,
		inviteTTL:     inviteTTL,
	}
}

func (s *hostService) RequestHostAccess(ctx context.Context, userID int64, message string) (*entity.HostRequest, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsHost() {
		return nil, fmt.Errorf("user is already a host: %w", entity.ErrInvalidInput)
	}

	pending, err := s.requestRepo.GetPendingByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("a pending request already exists: %w", entity.ErrInvalidInput)
	}

	req := &entity.HostRequest{
		UserID:  userID,
		Message: message,
		Status:  entity.HostRequestPending,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create host request: %w", err)
	}

	s.alertModerators(fmt.Sprintf("New host request from %s (%s): %s", user.Name, user.Email, message))
	logrus.WithFields(logrus.Fields{"user_id": userID, "request_id": req.ID}).Info("host request submitted")
	return req, nil
}

func (s *hostService) GetPendingRequests(ctx context.Context) ([]*entity.HostRequest, error) {
	return s.requestRepo.GetByStatus(ctx, entity.HostRequestPending)
}

func (s *hostService) ReviewRequest(ctx context.Context, admin *entity.User, requestID int64, approve bool) error {
	if admin == nil || !admin.IsAdmin() {
		return entity.ErrForbidden
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	status := entity.HostRequestDenied
	if approve {
		status = entity.HostRequestApproved
	}
	if err := s.requestRepo.Review(ctx, requestID, admin.ID, status); err != nil {
		return err
	}

	if approve {
		if err := s.userRepo.UpdateRole(ctx, req.UserID, entity.RoleHost); err != nil {
			return fmt.Errorf("failed to grant host role: %w", err)
		}
	}

	if s.notifications != nil {
		title := "Host request approved"
		body := "You can now create and manage events."
		if !approve {
			title = "Host request declined"
			body = "Your host request was not approved this time."
		}
		if err := s.notifications.Notify(ctx, req.UserID, entity.CategoryHost, title, body, nil); err != nil {
			logrus.WithError(err).Warn("host review notification failed")
		}
	}

	logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"status":     status,
		"admin_id":   admin.ID,
	}).Info("host request reviewed")
	return nil
}

func (s *hostService) CreateInvite(ctx context.Context, actor *entity.User, eventID int64, email string) (*entity.HostInvite, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !canManageEvent(actor, &event.Event) {
		return nil, entity.ErrForbidden
	}

	invite := &entity.HostInvite{
		EventID:   eventID,
		Token:     uuid.NewString(),
		Email:     email,
		CreatedBy: actor.ID,
		ExpiresAt: time.Now().Add(s.inviteTTL),
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return invite, nil
}

// AcceptInvite burns the token, grants the host role if the accepting user
// doesn't have it yet, and records who accepted.
func (s *hostService) AcceptInvite(ctx context.Context, userID int64, token string) (*entity.HostInvite, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invite.IsExpired(time.Now()) {
		return nil, entity.ErrInviteExpired
	}
	if invite.AcceptedAt != nil {
		return nil, entity.ErrInviteUsed
	}

	if err := s.inviteRepo.MarkAccepted(ctx, invite.ID, userID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsHost() {
		if err := s.userRepo.UpdateRole(ctx, userID, entity.RoleHost); err != nil {
			return nil, fmt.Errorf("failed to grant host role: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"invite_id": invite.ID,
		"user_id":   userID,
		"event_id":  invite.EventID,
	}).Info("host invite accepted")
	return invite, nil
}

func (s *hostService) alertModerators(message string) {
	if s.telegramBot == nil {
		return
	}
	go func() {
		if err := s.telegramBot.SendToModerationChannel(message); err != nil {
			logrus.WithError(err).Warn("moderation alert failed")
		}
	}()
}
