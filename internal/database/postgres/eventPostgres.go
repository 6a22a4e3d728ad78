package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `e.id, e.slug, e.title, e.description, e.event_type, e.status, e.is_published,
	e.host_id, e.event_date, e.day_of_week, e.start_time, e.end_time, e.recurrence_rule, e.series_id,
	e.venue_id, e.custom_address, e.custom_lat, e.custom_lng, e.is_online,
	e.capacity, e.has_timeslots, e.signup_time, e.source, e.last_verified_at, e.verified_by,
	e.created_at, e.updated_at`

const venueJoinColumns = `v.id, v.slug, v.name, v.address, v.city, v.state, v.zip, v.lat, v.lng,
	v.google_maps_url, v.website_url`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner, event *entity.Event) error {
	return row.Scan(
		&event.ID, &event.Slug, &event.Title, &event.Description, &event.EventType, &event.Status,
		&event.IsPublished, &event.HostID, &event.EventDate, &event.DayOfWeek, &event.StartTime,
		&event.EndTime, &event.RecurrenceRule, &event.SeriesID, &event.VenueID, &event.CustomAddress,
		&event.CustomLat, &event.CustomLng, &event.IsOnline, &event.Capacity, &event.HasTimeslots,
		&event.SignupTime, &event.Source, &event.LastVerifiedAt, &event.VerifiedBy,
		&event.CreatedAt, &event.UpdatedAt,
	)
}

func scanEventWithVenue(row rowScanner, ev *entity.EventWithVenue) error {
	var (
		venueID       sql.NullInt64
		venueSlug     sql.NullString
		venueName     sql.NullString
		venueAddress  sql.NullString
		venueCity     sql.NullString
		venueState    sql.NullString
		venueZip      sql.NullString
		venueLat      sql.NullFloat64
		venueLng      sql.NullFloat64
		venueMapsURL  sql.NullString
		venueSiteURL  sql.NullString
	)

	err := row.Scan(
		&ev.ID, &ev.Slug, &ev.Title, &ev.Description, &ev.EventType, &ev.Status,
		&ev.IsPublished, &ev.HostID, &ev.EventDate, &ev.DayOfWeek, &ev.StartTime,
		&ev.EndTime, &ev.RecurrenceRule, &ev.SeriesID, &ev.VenueID, &ev.CustomAddress,
		&ev.CustomLat, &ev.CustomLng, &ev.IsOnline, &ev.Capacity, &ev.HasTimeslots,
		&ev.SignupTime, &ev.Source, &ev.LastVerifiedAt, &ev.VerifiedBy,
		&ev.CreatedAt, &ev.UpdatedAt,
		&venueID, &venueSlug, &venueName, &venueAddress, &venueCity, &venueState, &venueZip,
		&venueLat, &venueLng, &venueMapsURL, &venueSiteURL,
	)
	if err != nil {
		return err
	}

	if venueID.Valid {
		venue := &entity.Venue{
			ID:            venueID.Int64,
			Slug:          venueSlug.String,
			Name:          venueName.String,
			Address:       venueAddress.String,
			City:          venueCity.String,
			State:         venueState.String,
			Zip:           venueZip.String,
			GoogleMapsURL: venueMapsURL.String,
			WebsiteURL:    venueSiteURL.String,
		}
		if venueLat.Valid {
			venue.Lat = &venueLat.Float64
		}
		if venueLng.Valid {
			venue.Lng = &venueLng.Float64
		}
		ev.Venue = venue
	}
	return nil
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (slug, title, description, event_type, status, is_published, host_id,
			event_date, day_of_week, start_time, end_time, recurrence_rule, series_id,
			venue_id, custom_address, custom_lat, custom_lng, is_online,
			capacity, has_timeslots, signup_time, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING id
	`

	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		event.Slug, event.Title, event.Description, event.EventType, event.Status,
		event.IsPublished, event.HostID, event.EventDate, event.DayOfWeek, event.StartTime,
		event.EndTime, event.RecurrenceRule, event.SeriesID, event.VenueID, event.CustomAddress,
		event.CustomLat, event.CustomLng, event.IsOnline, event.Capacity, event.HasTimeslots,
		event.SignupTime, event.Source, now, now,
	).Scan(&event.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*entity.EventWithVenue, error) {
	query := `
		SELECT ` + eventColumns + `, ` + venueJoinColumns + `
		FROM events e
		LEFT JOIN venues v ON e.venue_id = v.id
		WHERE e.id = $1
	`

	var ev entity.EventWithVenue
	err := scanEventWithVenue(r.db.QueryRowContext(ctx, query, id), &ev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*entity.EventWithVenue, error) {
	query := `
		SELECT ` + eventColumns + `, ` + venueJoinColumns + `
		FROM events e
		LEFT JOIN venues v ON e.venue_id = v.id
		WHERE e.slug = $1
	`

	var ev entity.EventWithVenue
	err := scanEventWithVenue(r.db.QueryRowContext(ctx, query, slug), &ev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *eventRepository) GetPublished(ctx context.Context) ([]*entity.EventWithVenue, error) {
	query := `
		SELECT ` + eventColumns + `, ` + venueJoinColumns + `
		FROM events e
		LEFT JOIN venues v ON e.venue_id = v.id
		WHERE e.is_published = TRUE AND e.status = 'active'
		ORDER BY e.id
	`
	return r.queryEventsWithVenue(ctx, query)
}

func (r *eventRepository) SearchByTitle(ctx context.Context, title string) ([]*entity.EventWithVenue, error) {
	query := `
		SELECT ` + eventColumns + `, ` + venueJoinColumns + `
		FROM events e
		LEFT JOIN venues v ON e.venue_id = v.id
		WHERE e.is_published = TRUE AND e.status = 'active' AND e.title ILIKE $1
		ORDER BY e.id
	`
	return r.queryEventsWithVenue(ctx, query, "%"+title+"%")
}

func (r *eventRepository) queryEventsWithVenue(ctx context.Context, query string, args ...interface{}) ([]*entity.EventWithVenue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*entity.EventWithVenue
	for rows.Next() {
		var ev entity.EventWithVenue
		if err := scanEventWithVenue(rows, &ev); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*entity.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var ev entity.Event
		if err := scanEvent(rows, &ev); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

func (r *eventRepository) GetByHostID(ctx context.Context, hostID int64) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.host_id = $1 ORDER BY e.created_at DESC`
	return r.queryEvents(ctx, query, hostID)
}

func (r *eventRepository) GetByVenueID(ctx context.Context, venueID int64) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.venue_id = $1 ORDER BY e.id`
	return r.queryEvents(ctx, query, venueID)
}

func (r *eventRepository) GetBySeriesID(ctx context.Context, seriesID string) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.series_id = $1 ORDER BY e.event_date`
	return r.queryEvents(ctx, query, seriesID)
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET slug = $1, title = $2, description = $3, event_type = $4,
			event_date = $5, day_of_week = $6, start_time = $7, end_time = $8,
			recurrence_rule = $9, series_id = $10, venue_id = $11, custom_address = $12,
			custom_lat = $13, custom_lng = $14, is_online = $15, capacity = $16,
			has_timeslots = $17, signup_time = $18, updated_at = $19
		WHERE id = $20
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Slug, event.Title, event.Description, event.EventType,
		event.EventDate, event.DayOfWeek, event.StartTime, event.EndTime,
		event.RecurrenceRule, event.SeriesID, event.VenueID, event.CustomAddress,
		event.CustomLat, event.CustomLng, event.IsOnline, event.Capacity,
		event.HasTimeslots, event.SignupTime, time.Now(), event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return requireRowsAffected(result, entity.ErrEventNotFound)
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id int64, status entity.EventStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	return requireRowsAffected(result, entity.ErrEventNotFound)
}

func (r *eventRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET is_published = $1, updated_at = $2 WHERE id = $3`,
		published, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update event publication: %w", err)
	}
	return requireRowsAffected(result, entity.ErrEventNotFound)
}

func (r *eventRepository) MarkVerified(ctx context.Context, id, verifiedBy int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET last_verified_at = $1, verified_by = $2, updated_at = $1 WHERE id = $3`,
		time.Now(), verifiedBy, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark event verified: %w", err)
	}
	return requireRowsAffected(result, entity.ErrEventNotFound)
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return requireRowsAffected(result, entity.ErrEventNotFound)
}

func requireRowsAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
