package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/samiserrag/denver-songwriters-collective-sub014/internal/database/postgres"
	cache "github.com/samiserrag/denver-songwriters-collective-sub014/internal/database/redis"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/schedule"
)

// CreateEventRequest represents the data needed to create an event
type CreateEventRequest struct {
	Slug        string           `json:"slug" binding:"max=255"`
	Title       string           `json:"title" binding:"required,min=1,max=255"`
	Description string           `json:"description" binding:"max=5000"`
	EventType   entity.EventType `json:"event_type"`

	EventDate      *string           `json:"event_date"`
	DayOfWeek      string            `json:"day_of_week"`
	StartTime      *entity.TimeOfDay `json:"start_time"`
	EndTime        *entity.TimeOfDay `json:"end_time"`
	RecurrenceRule string            `json:"recurrence_rule"`
	SeriesID       *string           `json:"series_id"`

	VenueID       *int64   `json:"venue_id"`
	CustomAddress *string  `json:"custom_address"`
	CustomLat     *float64 `json:"custom_lat"`
	CustomLng     *float64 `json:"custom_lng"`
	IsOnline      bool     `json:"is_online"`

	Capacity     int               `json:"capacity" binding:"min=0,max=10000"`
	HasTimeslots bool              `json:"has_timeslots"`
	SignupTime   *entity.TimeOfDay `json:"signup_time"`

	Source string `json:"source"`
}

// UpdateEventRequest represents the data needed to update an event
type UpdateEventRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	EventType   *entity.EventType `json:"event_type,omitempty"`

	EventDate      *string           `json:"event_date,omitempty"`
	DayOfWeek      *string           `json:"day_of_week,omitempty"`
	StartTime      *entity.TimeOfDay `json:"start_time,omitempty"`
	EndTime        *entity.TimeOfDay `json:"end_time,omitempty"`
	RecurrenceRule *string           `json:"recurrence_rule,omitempty"`
	SeriesID       *string           `json:"series_id,omitempty"`

	VenueID       *int64   `json:"venue_id,omitempty"`
	CustomAddress *string  `json:"custom_address,omitempty"`
	CustomLat     *float64 `json:"custom_lat,omitempty"`
	CustomLng     *float64 `json:"custom_lng,omitempty"`
	IsOnline      *bool    `json:"is_online,omitempty"`

	Capacity     *int              `json:"capacity,omitempty"`
	HasTimeslots *bool             `json:"has_timeslots,omitempty"`
	SignupTime   *entity.TimeOfDay `json:"signup_time,omitempty"`
}

type eventService struct {
	eventRepo    repository.EventRepository
	overrideRepo repository.OverrideRepository
	rsvpRepo     repository.RSVPRepository
	slotRepo     repository.SlotRepository
	venueRepo    repository.VenueRepository
	cache        *cache.CacheRepository
	queue        TaskPublisher

	defaultWindowDays int
	maxOccurrences    int
	maxMapPins        int
}

// NewEventService creates a new instance of EventService
func NewEventService(
	eventRepo repository.EventRepository,
	overrideRepo repository.OverrideRepository,
	rsvpRepo repository.RSVPRepository,
	slotRepo repository.SlotRepository,
	venueRepo repository.VenueRepository,
	cacheRepo *cache.CacheRepository,
	queue TaskPublisher,
	defaultWindowDays, maxOccurrences, maxMapPins int,
) EventService {
	if defaultWindowDays <= 0 {
		defaultWindowDays = 90
	}
	if maxOccurrences <= 0 {
		maxOccurrences = schedule.DefaultMaxOccurrences
	}
	if maxMapPins <= 0 {
		maxMapPins = schedule.DefaultMaxPins
	}
	return &eventService{
		eventRepo:         eventRepo,
		overrideRepo:      overrideRepo,
		rsvpRepo:          rsvpRepo,
		slotRepo:          slotRepo,
		venueRepo:         venueRepo,
		cache:             cacheRepo,
		queue:             queue,
		defaultWindowDays: defaultWindowDays,
		maxOccurrences:    maxOccurrences,
		maxMapPins:        maxMapPins,
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

func canManageEvent(actor *entity.User, ev *entity.Event) bool {
	return actor != nil && (actor.IsAdmin() || ev.HostID == actor.ID)
}

func (s *eventService) CreateEvent(ctx context.Context, hostID int64, req *CreateEventRequest) (*entity.Event, error) {
	if req.EventDate != nil && !schedule.IsValidDateKey(*req.EventDate) {
		return nil, entity.ErrInvalidDateKey
	}
	if req.VenueID != nil {
		if _, err := s.venueRepo.GetByID(ctx, *req.VenueID); err != nil {
			return nil, err
		}
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Title)
	}
	eventType := req.EventType
	if eventType == "" {
		eventType = entity.EventTypeOther
	}

	event := &entity.Event{
		Slug:           slug,
		Title:          req.Title,
		Description:    req.Description,
		EventType:      eventType,
		Status:         entity.EventStatusDraft,
		IsPublished:    false,
		HostID:         hostID,
		EventDate:      req.EventDate,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		RecurrenceRule: req.RecurrenceRule,
		SeriesID:       req.SeriesID,
		VenueID:        req.VenueID,
		CustomAddress:  req.CustomAddress,
		CustomLat:      req.CustomLat,
		CustomLng:      req.CustomLng,
		IsOnline:       req.IsOnline,
		Capacity:       req.Capacity,
		HasTimeslots:   req.HasTimeslots,
		SignupTime:     req.SignupTime,
		Source:         req.Source,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id": event.ID,
		"slug":     event.Slug,
		"host_id":  hostID,
	}).Info("event created")

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*entity.EventWithVenue, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*entity.EventWithVenue, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetEvent(ctx, slug); err == nil && cached != nil {
			return cached, nil
		}
	}

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetEvent(ctx, event); err != nil {
			logrus.WithError(err).Warn("failed to cache event")
		}
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, actor *entity.User, id int64, req *UpdateEventRequest) (*entity.Event, error) {
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageEvent(actor, &existing.Event) {
		return nil, entity.ErrForbidden
	}

	event := existing.Event

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.EventDate != nil {
		if *req.EventDate != "" && !schedule.IsValidDateKey(*req.EventDate) {
			return nil, entity.ErrInvalidDateKey
		}
		event.EventDate = req.EventDate
	}
	if req.DayOfWeek != nil {
		event.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		event.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = req.EndTime
	}
	if req.RecurrenceRule != nil {
		event.RecurrenceRule = *req.RecurrenceRule
	}
	if req.SeriesID != nil {
		event.SeriesID = req.SeriesID
	}
	if req.VenueID != nil {
		if _, err := s.venueRepo.GetByID(ctx, *req.VenueID); err != nil {
			return nil, err
		}
		event.VenueID = req.VenueID
	}
	if req.CustomAddress != nil {
		event.CustomAddress = req.CustomAddress
	}
	if req.CustomLat != nil {
		event.CustomLat = req.CustomLat
	}
	if req.CustomLng != nil {
		event.CustomLng = req.CustomLng
	}
	if req.IsOnline != nil {
		event.IsOnline = *req.IsOnline
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	if req.HasTimeslots != nil {
		event.HasTimeslots = *req.HasTimeslots
	}
	if req.SignupTime != nil {
		event.SignupTime = req.SignupTime
	}

	if err := s.eventRepo.Update(ctx, &event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidate(ctx, event.Slug)
	return &event, nil
}

// DeleteEvent hard-deletes an event. Only unpublished drafts with no RSVP
// or slot activity qualify; anything else must be cancelled instead.
func (s *eventService) DeleteEvent(ctx context.Context, actor *entity.User, id int64) error {
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManageEvent(actor, &existing.Event) {
		return entity.ErrForbidden
	}
	if existing.Status != entity.EventStatusDraft || existing.IsPublished {
		return entity.ErrEventNotDraft
	}

	activeRSVPs, err := s.rsvpRepo.CountActiveByEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count rsvps: %w", err)
	}
	if activeRSVPs > 0 {
		return entity.ErrEventHasRSVPs
	}

	claimed, err := s.slotRepo.CountClaimedByEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count claimed slots: %w", err)
	}
	if claimed > 0 {
		return entity.ErrEventHasClaims
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.invalidate(ctx, existing.Slug)
	logrus.WithField("event_id", id).Info("event deleted")
	return nil
}

func (s *eventService) PublishEvent(ctx context.Context, actor *entity.User, id int64) error {
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManageEvent(actor, &existing.Event) {
		return entity.ErrForbidden
	}
	if existing.Status == entity.EventStatusCancelled {
		return entity.ErrEventCancelled
	}

	if err := s.eventRepo.SetPublished(ctx, id, true); err != nil {
		return err
	}
	if existing.Status == entity.EventStatusDraft {
		if err := s.eventRepo.UpdateStatus(ctx, id, entity.EventStatusActive); err != nil {
			return err
		}
	}

	s.invalidate(ctx, existing.Slug)
	return nil
}

func (s *eventService) UnpublishEvent(ctx context.Context, actor *entity.User, id int64) error {
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManageEvent(actor, &existing.Event) {
		return entity.ErrForbidden
	}

	if err := s.eventRepo.SetPublished(ctx, id, false); err != nil {
		return err
	}
	s.invalidate(ctx, existing.Slug)
	return nil
}

// CancelEvent is the soft delete: the event stays visible to its host, and
// attendees are notified through a queued task.
func (s *eventService) CancelEvent(ctx context.Context, actor *entity.User, id int64) error {
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManageEvent(actor, &existing.Event) {
		return entity.ErrForbidden
	}
	if existing.Status == entity.EventStatusCancelled {
		return entity.ErrEventCancelled
	}

	if err := s.eventRepo.UpdateStatus(ctx, id, entity.EventStatusCancelled); err != nil {
		return err
	}

	if s.queue != nil {
		task := &Task{
			ID:   fmt.Sprintf("event_cancelled_%d_%d", id, time.Now().Unix()),
			Type: TaskTypeEventCancelled,
			Data: map[string]interface{}{
				"event_id":    id,
				"event_title": existing.Title,
			},
			ExecuteAt:  time.Now(),
			MaxRetries: 3,
		}
		if err := s.queue.Publish(ctx, task); err != nil {
			logrus.WithError(err).Error("failed to enqueue cancellation notices")
		}
	}

	s.invalidate(ctx, existing.Slug)
	logrus.WithField("event_id", id).Info("event cancelled")
	return nil
}

func (s *eventService) GetPublishedEvents(ctx context.Context) ([]*entity.EventWithVenue, error) {
	return s.eventRepo.GetPublished(ctx)
}

func (s *eventService) GetHostEvents(ctx context.Context, hostID int64) ([]*entity.Event, error) {
	return s.eventRepo.GetByHostID(ctx, hostID)
}

func (s *eventService) SearchEventsByTitle(ctx context.Context, title string) ([]*entity.EventWithVenue, error) {
	if title == "" {
		return s.eventRepo.GetPublished(ctx)
	}
	return s.eventRepo.SearchByTitle(ctx, title)
}

// window builds the expansion window, defaulting to today plus the
// configured horizon when either bound is missing.
func (s *eventService) window(startKey, endKey string) (schedule.Window, error) {
	if startKey == "" {
		startKey = schedule.FormatDateKey(time.Now().UTC())
	}
	if endKey == "" {
		start, err := schedule.ParseDateKey(startKey)
		if err != nil {
			return schedule.Window{}, err
		}
		endKey = schedule.FormatDateKey(start.AddDate(0, 0, s.defaultWindowDays))
	}
	if !schedule.IsValidDateKey(startKey) || !schedule.IsValidDateKey(endKey) {
		return schedule.Window{}, entity.ErrInvalidDateKey
	}
	return schedule.Window{
		StartKey:       startKey,
		EndKey:         endKey,
		MaxOccurrences: s.maxOccurrences,
	}, nil
}

func (s *eventService) GetOccurrences(ctx context.Context, eventID int64, startKey, endKey string) ([]schedule.ResolvedOccurrence, error) {
	w, err := s.window(startKey, endKey)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	overrides, err := s.overrideRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}
	byDate := make(map[string]*entity.OccurrenceOverride, len(overrides))
	for _, ov := range overrides {
		byDate[ov.DateKey] = ov
	}

	resolved, err := schedule.ResolveOccurrences(&event.Event, w, byDate)
	if err != nil {
		return nil, err
	}

	s.attachVenues(ctx, resolved, event.Venue)
	return resolved, nil
}

// attachVenues fills the joined base venue and loads any override venues in
// one batch.
func (s *eventService) attachVenues(ctx context.Context, resolved []schedule.ResolvedOccurrence, baseVenue *entity.Venue) {
	var overrideIDs []int64
	seen := make(map[int64]bool)
	for i := range resolved {
		resolved[i].Venue = baseVenue
		id := resolved[i].VenueID
		if id == nil {
			continue
		}
		if baseVenue != nil && *id == baseVenue.ID {
			continue
		}
		if !seen[*id] {
			seen[*id] = true
			overrideIDs = append(overrideIDs, *id)
		}
	}
	if len(overrideIDs) == 0 {
		return
	}

	venues, err := s.venueRepo.GetByIDs(ctx, overrideIDs)
	if err != nil {
		logrus.WithError(err).Warn("failed to load override venues")
		return
	}
	for i := range resolved {
		id := resolved[i].VenueID
		if id == nil {
			continue
		}
		if v, ok := venues[*id]; ok {
			resolved[i].OverrideVenue = v
		}
	}
}

func (s *eventService) GetSeriesView(ctx context.Context, startKey, endKey string) (*schedule.SeriesView, error) {
	w, err := s.window(startKey, endKey)
	if err != nil {
		return nil, err
	}

	useCache := s.cache != nil && startKey == "" && endKey == ""
	if useCache {
		if cached, err := s.cache.GetSeriesView(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	published, err := s.eventRepo.GetPublished(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]*entity.Event, 0, len(published))
	for _, e := range published {
		events = append(events, &e.Event)
	}

	view := schedule.GroupEventsAsSeriesView(events, w)

	if useCache {
		if err := s.cache.SetSeriesView(ctx, &view); err != nil {
			logrus.WithError(err).Warn("failed to cache series view")
		}
	}
	return &view, nil
}

func (s *eventService) GetMapPins(ctx context.Context, startKey, endKey string) (*schedule.MapPinResult, error) {
	w, err := s.window(startKey, endKey)
	if err != nil {
		return nil, err
	}

	cacheKey := w.StartKey + ":" + w.EndKey
	if s.cache != nil {
		if cached, err := s.cache.GetMapPins(ctx, cacheKey); err == nil && cached != nil {
			return cached, nil
		}
	}

	published, err := s.eventRepo.GetPublished(ctx)
	if err != nil {
		return nil, err
	}

	eventIDs := make([]int64, 0, len(published))
	for _, e := range published {
		eventIDs = append(eventIDs, e.ID)
	}
	overridesByEvent, err := s.overrideRepo.GetForEvents(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}

	var all []schedule.ResolvedOccurrence
	for _, e := range published {
		resolved, err := schedule.ResolveOccurrences(&e.Event, w, overridesByEvent[e.ID])
		if err != nil {
			logrus.WithError(err).WithField("event_id", e.ID).Warn("skipping event in map view")
			continue
		}
		s.attachVenues(ctx, resolved, e.Venue)
		all = append(all, resolved...)
	}

	result := schedule.BuildMapPins(all, s.maxMapPins)

	if s.cache != nil {
		if err := s.cache.SetMapPins(ctx, cacheKey, &result); err != nil {
			logrus.WithError(err).Warn("failed to cache map pins")
		}
	}
	return &result, nil
}

// UpsertOverride validates the raw payload against the field allow-list
// before applying the patch, so unknown or denied fields fail loudly instead
// of being dropped.
func (s *eventService) UpsertOverride(ctx context.Context, actor *entity.User, eventID int64, dateKey string, rawFields map[string]any, patch *entity.OverridePatch) (*entity.OccurrenceOverride, error) {
	if !schedule.IsValidDateKey(dateKey) {
		return nil, entity.ErrInvalidDateKey
	}
	for field := range rawFields {
		if !entity.AllowedOverrideFields[field] {
			return nil, fmt.Errorf("%w: %s", entity.ErrOverrideFieldDenied, field)
		}
	}

	existing, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !canManageEvent(actor, &existing.Event) {
		return nil, entity.ErrForbidden
	}

	override, err := s.overrideRepo.GetByEventAndDate(ctx, eventID, dateKey)
	if err != nil {
		return nil, err
	}
	if override == nil {
		override = &entity.OccurrenceOverride{
			EventID: eventID,
			DateKey: dateKey,
			Status:  entity.OverrideStatusNormal,
		}
	}

	applyOverridePatch(override, patch)

	if patch.VenueID.Present && patch.VenueID.Value != nil {
		if _, err := s.venueRepo.GetByID(ctx, *patch.VenueID.Value); err != nil {
			return nil, err
		}
	}

	if err := s.overrideRepo.Upsert(ctx, override); err != nil {
		return nil, fmt.Errorf("failed to save override: %w", err)
	}

	s.invalidate(ctx, existing.Slug)
	return override, nil
}

// applyOverridePatch maps three-state patch fields onto nullable columns:
// absent leaves the stored value alone, null clears it back to "inherit",
// and a value stores it.
func applyOverridePatch(ov *entity.OccurrenceOverride, patch *entity.OverridePatch) {
	if patch.Status.Present {
		if patch.Status.Value != nil {
			ov.Status = *patch.Status.Value
		} else {
			ov.Status = entity.OverrideStatusNormal
		}
	}
	if patch.StartTime.Present {
		ov.StartTime = patch.StartTime.Value
	}
	if patch.CoverImageURL.Present {
		ov.CoverImageURL = patch.CoverImageURL.Value
	}
	if patch.Notes.Present {
		ov.Notes = patch.Notes.Value
	}
	if patch.SignupTime.Present {
		ov.SignupTime = patch.SignupTime.Value
	}
	if patch.HasTimeslots.Present {
		ov.HasTimeslots = patch.HasTimeslots.Value
	}
	if patch.VenueID.Present {
		ov.VenueID = patch.VenueID.Value
	}
}

func (s *eventService) GetOverrides(ctx context.Context, eventID int64) ([]*entity.OccurrenceOverride, error) {
	return s.overrideRepo.GetByEventID(ctx, eventID)
}

func (s *eventService) DeleteOverride(ctx context.Context, actor *entity.User, eventID int64, dateKey string) error {
	existing, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !canManageEvent(actor, &existing.Event) {
		return entity.ErrForbidden
	}

	if err := s.overrideRepo.Delete(ctx, eventID, dateKey); err != nil {
		return err
	}
	s.invalidate(ctx, existing.Slug)
	return nil
}

func (s *eventService) VerifyEvent(ctx context.Context, admin *entity.User, eventID int64) error {
	if admin == nil || !admin.IsAdmin() {
		return entity.ErrForbidden
	}
	return s.eventRepo.MarkVerified(ctx, eventID, admin.ID)
}

func (s *eventService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateEvent(ctx, slug); err != nil {
		logrus.WithError(err).Warn("failed to invalidate event cache")
	}
}
