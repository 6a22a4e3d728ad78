package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type fakeRSVPRepo struct {
	rsvps    map[int64]*entity.RSVP
	nextID   int64
	capacity int
}

func newFakeRSVPRepo() *fakeRSVPRepo {
	return &fakeRSVPRepo{rsvps: make(map[int64]*entity.RSVP)}
}

func (f *fakeRSVPRepo) Create(_ context.Context, rsvp *entity.RSVP) error {
	f.nextID++
	rsvp.ID = f.nextID
	if rsvp.Status == entity.RSVPStatusWaitlist {
		pos := f.waitlistLen(rsvp.EventID) + 1
		rsvp.WaitlistPosition = &pos
	}
	clone := *rsvp
	f.rsvps[rsvp.ID] = &clone
	return nil
}

func (f *fakeRSVPRepo) GetByID(_ context.Context, id int64) (*entity.RSVP, error) {
	if r, ok := f.rsvps[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, entity.ErrRSVPNotFound
}

func (f *fakeRSVPRepo) GetByEventAndUser(_ context.Context, eventID, userID int64) (*entity.RSVP, error) {
	for _, r := range f.rsvps {
		if r.EventID == eventID && r.UserID == userID {
			clone := *r
			return &clone, nil
		}
	}
	return nil, entity.ErrRSVPNotFound
}

func (f *fakeRSVPRepo) GetByEventID(_ context.Context, eventID int64) ([]*entity.RSVP, error) {
	var out []*entity.RSVP
	for _, r := range f.rsvps {
		if r.EventID == eventID {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeRSVPRepo) GetByUserID(_ context.Context, userID int64) ([]*entity.RSVP, error) {
	var out []*entity.RSVP
	for _, r := range f.rsvps {
		if r.UserID == userID {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeRSVPRepo) UpdateStatus(_ context.Context, id int64, status entity.RSVPStatus) error {
	r, ok := f.rsvps[id]
	if !ok {
		return entity.ErrRSVPNotFound
	}
	r.Status = status
	if status != entity.RSVPStatusWaitlist {
		r.WaitlistPosition = nil
	}
	if status != entity.RSVPStatusOffered {
		r.OfferExpiresAt = nil
	}
	return nil
}

func (f *fakeRSVPRepo) SetOffer(_ context.Context, id int64, expiresAt time.Time) error {
	r, ok := f.rsvps[id]
	if !ok {
		return entity.ErrRSVPNotFound
	}
	r.Status = entity.RSVPStatusOffered
	r.WaitlistPosition = nil
	r.OfferExpiresAt = &expiresAt
	return nil
}

func (f *fakeRSVPRepo) MoveToWaitlistEnd(_ context.Context, id, eventID int64) error {
	r, ok := f.rsvps[id]
	if !ok {
		return entity.ErrRSVPNotFound
	}
	r.Status = entity.RSVPStatusWaitlist
	r.OfferExpiresAt = nil
	pos := 1
	for _, other := range f.rsvps {
		if other.EventID == eventID && other.ID != id &&
			other.Status == entity.RSVPStatusWaitlist && other.WaitlistPosition != nil &&
			*other.WaitlistPosition >= pos {
			pos = *other.WaitlistPosition + 1
		}
	}
	r.WaitlistPosition = &pos
	return nil
}

func (f *fakeRSVPRepo) Confirm(_ context.Context, id int64) error {
	return f.UpdateStatus(context.Background(), id, entity.RSVPStatusConfirmed)
}

func (f *fakeRSVPRepo) NextWaitlisted(_ context.Context, eventID int64) (*entity.RSVP, error) {
	var next *entity.RSVP
	for _, r := range f.rsvps {
		if r.EventID != eventID || r.Status != entity.RSVPStatusWaitlist {
			continue
		}
		if next == nil || (r.WaitlistPosition != nil && next.WaitlistPosition != nil &&
			*r.WaitlistPosition < *next.WaitlistPosition) {
			next = r
		}
	}
	if next == nil {
		return nil, nil
	}
	clone := *next
	return &clone, nil
}

func (f *fakeRSVPRepo) GetExpiredOffers(_ context.Context, before time.Time) ([]*entity.ExpiredOffer, error) {
	var out []*entity.ExpiredOffer
	for _, r := range f.rsvps {
		if r.Status == entity.RSVPStatusOffered && r.OfferExpiresAt != nil && r.OfferExpiresAt.Before(before) {
			out = append(out, &entity.ExpiredOffer{
				RSVPID:         r.ID,
				OfferExpiresAt: *r.OfferExpiresAt,
				UserID:         r.UserID,
				EventID:        r.EventID,
			})
		}
	}
	return out, nil
}

func (f *fakeRSVPRepo) GetExpiredOffersForEvent(ctx context.Context, eventID int64, before time.Time) ([]*entity.ExpiredOffer, error) {
	all, _ := f.GetExpiredOffers(ctx, before)
	var out []*entity.ExpiredOffer
	for _, o := range all {
		if o.EventID == eventID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRSVPRepo) GetEventStats(_ context.Context, eventID int64) (*entity.EventRSVPStats, error) {
	stats := &entity.EventRSVPStats{EventID: eventID, Capacity: f.capacity}
	for _, r := range f.rsvps {
		if r.EventID != eventID {
			continue
		}
		switch r.Status {
		case entity.RSVPStatusConfirmed:
			stats.ConfirmedCount++
		case entity.RSVPStatusWaitlist:
			stats.WaitlistCount++
		case entity.RSVPStatusOffered:
			stats.OfferedCount++
		case entity.RSVPStatusCancelled:
			stats.CancelledCount++
		}
	}
	return stats, nil
}

func (f *fakeRSVPRepo) CountActiveByEvent(_ context.Context, eventID int64) (int, error) {
	n := 0
	for _, r := range f.rsvps {
		if r.EventID == eventID && r.Status != entity.RSVPStatusCancelled {
			n++
		}
	}
	return n, nil
}

func (f *fakeRSVPRepo) GetAll(_ context.Context) ([]*entity.RSVP, error) {
	var out []*entity.RSVP
	for _, r := range f.rsvps {
		clone := *r
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeRSVPRepo) waitlistLen(eventID int64) int {
	n := 0
	for _, r := range f.rsvps {
		if r.EventID == eventID && r.Status == entity.RSVPStatusWaitlist {
			n++
		}
	}
	return n
}

type fakeEventRepo struct {
	event *entity.EventWithVenue
}

func (f *fakeEventRepo) Create(_ context.Context, _ *entity.Event) error { return nil }

func (f *fakeEventRepo) GetByID(_ context.Context, id int64) (*entity.EventWithVenue, error) {
	if f.event != nil && f.event.ID == id {
		return f.event, nil
	}
	return nil, entity.ErrEventNotFound
}

func (f *fakeEventRepo) GetBySlug(_ context.Context, _ string) (*entity.EventWithVenue, error) {
	return nil, entity.ErrEventNotFound
}
func (f *fakeEventRepo) Update(_ context.Context, _ *entity.Event) error { return nil }
func (f *fakeEventRepo) UpdateStatus(_ context.Context, _ int64, _ entity.EventStatus) error {
	return nil
}
func (f *fakeEventRepo) SetPublished(_ context.Context, _ int64, _ bool) error { return nil }
func (f *fakeEventRepo) Delete(_ context.Context, _ int64) error               { return nil }
func (f *fakeEventRepo) GetPublished(_ context.Context) ([]*entity.EventWithVenue, error) {
	return nil, nil
}
func (f *fakeEventRepo) GetByHostID(_ context.Context, _ int64) ([]*entity.Event, error) {
	return nil, nil
}
func (f *fakeEventRepo) GetByVenueID(_ context.Context, _ int64) ([]*entity.Event, error) {
	return nil, nil
}
func (f *fakeEventRepo) GetBySeriesID(_ context.Context, _ string) ([]*entity.Event, error) {
	return nil, nil
}
func (f *fakeEventRepo) SearchByTitle(_ context.Context, _ string) ([]*entity.EventWithVenue, error) {
	return nil, nil
}
func (f *fakeEventRepo) MarkVerified(_ context.Context, _, _ int64) error { return nil }

func newRSVPFixture(capacity int) (*fakeRSVPRepo, *fakePublisher, RSVPService) {
	rsvpRepo := newFakeRSVPRepo()
	rsvpRepo.capacity = capacity
	eventRepo := &fakeEventRepo{event: &entity.EventWithVenue{Event: entity.Event{
		ID:          1,
		Title:       "Monday Open Mic",
		Status:      entity.EventStatusActive,
		IsPublished: true,
		Capacity:    capacity,
	}}}
	publisher := &fakePublisher{}
	svc := NewRSVPService(rsvpRepo, eventRepo, nil, publisher, time.Hour)
	return rsvpRepo, publisher, svc
}

func TestRSVPConfirmsUntilCapacity(t *testing.T) {
	_, _, svc := newRSVPFixture(2)
	ctx := context.Background()

	first, err := svc.RSVP(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusConfirmed, first.Status)

	second, err := svc.RSVP(ctx, 1, 101)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusConfirmed, second.Status)

	third, err := svc.RSVP(ctx, 1, 102)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusWaitlist, third.Status)
	require.NotNil(t, third.WaitlistPosition)
	assert.Equal(t, 1, *third.WaitlistPosition)

	_, err = svc.RSVP(ctx, 1, 102)
	assert.ErrorIs(t, err, entity.ErrAlreadyRSVPed)
}

func TestCancelPromotesWaitlistToOffer(t *testing.T) {
	repo, publisher, svc := newRSVPFixture(1)
	ctx := context.Background()

	_, err := svc.RSVP(ctx, 1, 100)
	require.NoError(t, err)
	waitlisted, err := svc.RSVP(ctx, 1, 101)
	require.NoError(t, err)
	require.Equal(t, entity.RSVPStatusWaitlist, waitlisted.Status)

	require.NoError(t, svc.CancelRSVP(ctx, 1, 100))

	promoted, err := repo.GetByID(ctx, waitlisted.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusOffered, promoted.Status)
	require.NotNil(t, promoted.OfferExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *promoted.OfferExpiresAt, time.Minute)

	require.NotEmpty(t, publisher.tasks)
	offer := publisher.tasks[len(publisher.tasks)-1]
	assert.Equal(t, TaskTypeWaitlistOffer, offer.Type)
	assert.Equal(t, int64(101), offer.Data["user_id"])
	assert.Equal(t, "Monday Open Mic", offer.Data["event_title"])
}

func TestAcceptOffer(t *testing.T) {
	t.Run("live offer confirms", func(t *testing.T) {
		_, _, svc := newRSVPFixture(1)
		ctx := context.Background()

		_, err := svc.RSVP(ctx, 1, 100)
		require.NoError(t, err)
		_, err = svc.RSVP(ctx, 1, 101)
		require.NoError(t, err)
		require.NoError(t, svc.CancelRSVP(ctx, 1, 100))

		confirmed, err := svc.AcceptOffer(ctx, 1, 101)
		require.NoError(t, err)
		assert.Equal(t, entity.RSVPStatusConfirmed, confirmed.Status)
		assert.Nil(t, confirmed.OfferExpiresAt)
	})

	t.Run("no offer outstanding", func(t *testing.T) {
		_, _, svc := newRSVPFixture(2)
		ctx := context.Background()

		_, err := svc.RSVP(ctx, 1, 100)
		require.NoError(t, err)

		_, err = svc.AcceptOffer(ctx, 1, 100)
		assert.ErrorIs(t, err, entity.ErrNoOfferToAccept)
	})

	t.Run("lapsed offer reverts and promotes the next in line", func(t *testing.T) {
		repo, _, svc := newRSVPFixture(1)
		ctx := context.Background()

		_, err := svc.RSVP(ctx, 1, 100)
		require.NoError(t, err)
		first, err := svc.RSVP(ctx, 1, 101)
		require.NoError(t, err)
		second, err := svc.RSVP(ctx, 1, 102)
		require.NoError(t, err)
		require.NoError(t, svc.CancelRSVP(ctx, 1, 100))

		// Backdate the outstanding offer past its deadline.
		stale := time.Now().Add(-time.Minute)
		repo.rsvps[first.ID].OfferExpiresAt = &stale

		_, err = svc.AcceptOffer(ctx, 1, 101)
		assert.ErrorIs(t, err, entity.ErrOfferExpired)

		reverted, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RSVPStatusWaitlist, reverted.Status)

		promoted, err := repo.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RSVPStatusOffered, promoted.Status)
	})
}

func TestProcessExpiredOffers(t *testing.T) {
	repo, publisher, svc := newRSVPFixture(1)
	ctx := context.Background()

	_, err := svc.RSVP(ctx, 1, 100)
	require.NoError(t, err)
	offered, err := svc.RSVP(ctx, 1, 101)
	require.NoError(t, err)
	next, err := svc.RSVP(ctx, 1, 102)
	require.NoError(t, err)
	require.NoError(t, svc.CancelRSVP(ctx, 1, 100))

	stale := time.Now().Add(-time.Minute)
	repo.rsvps[offered.ID].OfferExpiresAt = &stale

	processed, err := svc.ProcessExpiredOffers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	reverted, err := repo.GetByID(ctx, offered.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusWaitlist, reverted.Status)
	assert.Nil(t, reverted.OfferExpiresAt)

	promoted, err := repo.GetByID(ctx, next.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPStatusOffered, promoted.Status)

	var sawExpired bool
	for _, task := range publisher.tasks {
		if task.Type == TaskTypeOfferExpired {
			sawExpired = true
			assert.Equal(t, int64(101), task.Data["user_id"])
		}
	}
	assert.True(t, sawExpired, "offer_expired task should be enqueued")
}

func TestRSVPRejectsUnpublishedAndCancelled(t *testing.T) {
	_, _, svc := newRSVPFixture(5)
	ctx := context.Background()

	rs := svc.(*rsvpService)
	eventRepo := rs.eventRepo.(*fakeEventRepo)

	eventRepo.event.IsPublished = false
	_, err := svc.RSVP(ctx, 1, 100)
	assert.ErrorIs(t, err, entity.ErrEventNotPublished)

	eventRepo.event.IsPublished = true
	eventRepo.event.Status = entity.EventStatusCancelled
	_, err = svc.RSVP(ctx, 1, 100)
	assert.ErrorIs(t, err, entity.ErrEventCancelled)
}
