package repository

import (
	"context"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type EventRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id int64) (*entity.EventWithVenue, error)
	GetBySlug(ctx context.Context, slug string) (*entity.EventWithVenue, error)
	Update(ctx context.Context, event *entity.Event) error
	UpdateStatus(ctx context.Context, id int64, status entity.EventStatus) error
	SetPublished(ctx context.Context, id int64, published bool) error
	Delete(ctx context.Context, id int64) error

	// Query operations
	GetPublished(ctx context.Context) ([]*entity.EventWithVenue, error)
	GetByHostID(ctx context.Context, hostID int64) ([]*entity.Event, error)
	GetByVenueID(ctx context.Context, venueID int64) ([]*entity.Event, error)
	GetBySeriesID(ctx context.Context, seriesID string) ([]*entity.Event, error)
	SearchByTitle(ctx context.Context, title string) ([]*entity.EventWithVenue, error)

	// Verification
	MarkVerified(ctx context.Context, id, verifiedBy int64) error
}

type OverrideRepository interface {
	Upsert(ctx context.Context, override *entity.OccurrenceOverride) error
	GetByEventAndDate(ctx context.Context, eventID int64, dateKey string) (*entity.OccurrenceOverride, error)
	GetByEventID(ctx context.Context, eventID int64) ([]*entity.OccurrenceOverride, error)
	GetForEvents(ctx context.Context, eventIDs []int64) (map[int64]map[string]*entity.OccurrenceOverride, error)
	Delete(ctx context.Context, eventID int64, dateKey string) error
}

type RSVPRepository interface {
	Create(ctx context.Context, rsvp *entity.RSVP) error
	GetByID(ctx context.Context, id int64) (*entity.RSVP, error)
	GetByEventAndUser(ctx context.Context, eventID, userID int64) (*entity.RSVP, error)
	GetByEventID(ctx context.Context, eventID int64) ([]*entity.RSVP, error)
	GetByUserID(ctx context.Context, userID int64) ([]*entity.RSVP, error)
	UpdateStatus(ctx context.Context, id int64, status entity.RSVPStatus) error
	SetOffer(ctx context.Context, id int64, expiresAt time.Time) error
	MoveToWaitlistEnd(ctx context.Context, id, eventID int64) error
	Confirm(ctx context.Context, id int64) error

	// Waitlist operations
	NextWaitlisted(ctx context.Context, eventID int64) (*entity.RSVP, error)
	GetExpiredOffers(ctx context.Context, before time.Time) ([]*entity.ExpiredOffer, error)
	GetExpiredOffersForEvent(ctx context.Context, eventID int64, before time.Time) ([]*entity.ExpiredOffer, error)

	// Statistical operations
	GetEventStats(ctx context.Context, eventID int64) (*entity.EventRSVPStats, error)
	CountActiveByEvent(ctx context.Context, eventID int64) (int, error)
	GetAll(ctx context.Context) ([]*entity.RSVP, error)
}

type SlotRepository interface {
	CreateBatch(ctx context.Context, slots []*entity.EventSlot) error
	GetByID(ctx context.Context, id int64) (*entity.EventSlot, error)
	GetByEventAndDate(ctx context.Context, eventID int64, dateKey string) ([]*entity.EventSlotWithPerformer, error)

	// Claim and Unclaim are conditional updates: the database is the
	// arbiter of who got the slot, not application-level locking.
	Claim(ctx context.Context, slotID, performerID int64) error
	Unclaim(ctx context.Context, slotID, performerID int64) error

	CountClaimedByEvent(ctx context.Context, eventID int64) (int, error)
	DeleteByEventAndDate(ctx context.Context, eventID int64, dateKey string) error
}

type VenueRepository interface {
	Create(ctx context.Context, venue *entity.Venue) error
	GetByID(ctx context.Context, id int64) (*entity.Venue, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Venue, error)
	GetAll(ctx context.Context) ([]*entity.Venue, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Venue, error)
	Update(ctx context.Context, venue *entity.Venue) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateRole(ctx context.Context, userID int64, role entity.UserRole) error
	UpdateTelegramID(ctx context.Context, userID int64, telegramID string) error
	GetAll(ctx context.Context) ([]*entity.User, error)
}

type HostRequestRepository interface {
	Create(ctx context.Context, req *entity.HostRequest) error
	GetByID(ctx context.Context, id int64) (*entity.HostRequest, error)
	GetPendingByUserID(ctx context.Context, userID int64) (*entity.HostRequest, error)
	GetByStatus(ctx context.Context, status entity.HostRequestStatus) ([]*entity.HostRequest, error)
	Review(ctx context.Context, id, reviewerID int64, status entity.HostRequestStatus) error
}

type HostInviteRepository interface {
	Create(ctx context.Context, invite *entity.HostInvite) error
	GetByToken(ctx context.Context, token string) (*entity.HostInvite, error)
	MarkAccepted(ctx context.Context, id, userID int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	GetPreferences(ctx context.Context, userID int64) (*entity.NotificationPreferences, error)
	SavePreferences(ctx context.Context, prefs *entity.NotificationPreferences) error
}
