package service

import (
	"context"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/schedule"
)

type EventService interface {
	// Core operations
	CreateEvent(ctx context.Context, hostID int64, req *CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, id int64) (*entity.EventWithVenue, error)
	GetEventBySlug(ctx context.Context, slug string) (*entity.EventWithVenue, error)
	UpdateEvent(ctx context.Context, actor *entity.User, id int64, req *UpdateEventRequest) (*entity.Event, error)
	DeleteEvent(ctx context.Context, actor *entity.User, id int64) error

	// Publication lifecycle
	PublishEvent(ctx context.Context, actor *entity.User, id int64) error
	UnpublishEvent(ctx context.Context, actor *entity.User, id int64) error
	CancelEvent(ctx context.Context, actor *entity.User, id int64) error

	// Discovery
	GetPublishedEvents(ctx context.Context) ([]*entity.EventWithVenue, error)
	GetHostEvents(ctx context.Context, hostID int64) ([]*entity.Event, error)
	SearchEventsByTitle(ctx context.Context, title string) ([]*entity.EventWithVenue, error)

	// Occurrence resolution
	GetOccurrences(ctx context.Context, eventID int64, startKey, endKey string) ([]schedule.ResolvedOccurrence, error)
	GetSeriesView(ctx context.Context, startKey, endKey string) (*schedule.SeriesView, error)
	GetMapPins(ctx context.Context, startKey, endKey string) (*schedule.MapPinResult, error)

	// Per-date overrides
	UpsertOverride(ctx context.Context, actor *entity.User, eventID int64, dateKey string, rawFields map[string]any, patch *entity.OverridePatch) (*entity.OccurrenceOverride, error)
	GetOverrides(ctx context.Context, eventID int64) ([]*entity.OccurrenceOverride, error)
	DeleteOverride(ctx context.Context, actor *entity.User, eventID int64, dateKey string) error

	// Moderation
	VerifyEvent(ctx context.Context, admin *entity.User, eventID int64) error
}

type RSVPService interface {
	RSVP(ctx context.Context, eventID, userID int64) (*entity.RSVP, error)
	CancelRSVP(ctx context.Context, eventID, userID int64) error
	AcceptOffer(ctx context.Context, eventID, userID int64) (*entity.RSVP, error)
	GetUserRSVPs(ctx context.Context, userID int64) ([]*entity.RSVP, error)
	GetEventRSVPs(ctx context.Context, actor *entity.User, eventID int64) ([]*entity.RSVP, error)
	GetEventStats(ctx context.Context, eventID int64) (*entity.EventRSVPStats, error)
	GetAllRSVPs(ctx context.Context) ([]*entity.RSVP, error)

	// ProcessExpiredOffers reverts lapsed offers to the back of the waitlist
	// and promotes the next member. Called by the scheduled worker and
	// opportunistically on reads.
	ProcessExpiredOffers(ctx context.Context) (int, error)
}

type SlotService interface {
	CreateSlots(ctx context.Context, actor *entity.User, eventID int64, dateKey string, req *CreateSlotsRequest) ([]*entity.EventSlot, error)
	GetSlots(ctx context.Context, eventID int64, dateKey string) ([]*entity.EventSlotWithPerformer, error)
	ClaimSlot(ctx context.Context, slotID, performerID int64) (*entity.EventSlot, error)
	UnclaimSlot(ctx context.Context, slotID, performerID int64) error
	DeleteSlots(ctx context.Context, actor *entity.User, eventID int64, dateKey string) error
}

type VenueService interface {
	CreateVenue(ctx context.Context, actor *entity.User, req *CreateVenueRequest) (*entity.Venue, error)
	GetVenue(ctx context.Context, id int64) (*entity.Venue, error)
	GetVenueBySlug(ctx context.Context, slug string) (*entity.Venue, error)
	GetAllVenues(ctx context.Context) ([]*entity.Venue, error)
	UpdateVenue(ctx context.Context, actor *entity.User, id int64, req *UpdateVenueRequest) (*entity.Venue, error)
	DeleteVenue(ctx context.Context, actor *entity.User, id int64) error
	GetDirectionsURL(ctx context.Context, id int64) (string, error)
}

type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	Login(ctx context.Context, req *LoginRequest) (string, *entity.User, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	GetAllUsers(ctx context.Context) ([]*entity.User, error)
	LinkTelegram(ctx context.Context, userID int64, telegramID string) error
	ParseToken(tokenString string) (int64, error)
}

type HostService interface {
	RequestHostAccess(ctx context.Context, userID int64, message string) (*entity.HostRequest, error)
	GetPendingRequests(ctx context.Context) ([]*entity.HostRequest, error)
	ReviewRequest(ctx context.Context, admin *entity.User, requestID int64, approve bool) error

	CreateInvite(ctx context.Context, actor *entity.User, eventID int64, email string) (*entity.HostInvite, error)
	AcceptInvite(ctx context.Context, userID int64, token string) (*entity.HostInvite, error)
}

type NotificationService interface {
	Notify(ctx context.Context, userID int64, category entity.NotificationCategory, title, body string, eventID *int64) error
	GetNotifications(ctx context.Context, userID int64, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	GetPreferences(ctx context.Context, userID int64) (*entity.NotificationPreferences, error)
	SavePreferences(ctx context.Context, userID int64, prefs map[string]bool) (*entity.NotificationPreferences, error)
}

// TaskPublisher decouples services from the queue implementation.
type TaskPublisher interface {
	Publish(ctx context.Context, task *Task) error
}

// Task is the queue payload shape shared by all background work.
type Task struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	ExecuteAt  time.Time              `json:"execute_at"`
	MaxRetries int                    `json:"max_retries"`
	Attempts   int                    `json:"attempts"`
}

// Task type constants
const (
	TaskTypeSendEmail      = "send_email"
	TaskTypeWaitlistOffer  = "waitlist_offer"
	TaskTypeOfferExpired   = "offer_expired"
	TaskTypeEventCancelled = "event_cancelled"
	TaskTypeEventReminder  = "event_reminder"
)
