package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type overrideRepository struct {
	db *sql.DB
}

func NewOverrideRepository(db *sql.DB) OverrideRepository {
	return &overrideRepository{db: db}
}

const overrideColumns = `id, event_id, date_key, status, override_start_time, cover_image_url,
	notes, signup_time, has_timeslots, venue_id, created_at, updated_at`

func scanOverride(row rowScanner, ov *entity.OccurrenceOverride) error {
	return row.Scan(
		&ov.ID, &ov.EventID, &ov.DateKey, &ov.Status, &ov.StartTime, &ov.CoverImageURL,
		&ov.Notes, &ov.SignupTime, &ov.HasTimeslots, &ov.VenueID, &ov.CreatedAt, &ov.UpdatedAt,
	)
}

// Upsert writes the override for (event_id, date_key), replacing any
// existing row's patch fields wholesale. Null fields stay null, meaning
// "inherit from the base event".
func (r *overrideRepository) Upsert(ctx context.Context, override *entity.OccurrenceOverride) error {
	query := `
		INSERT INTO occurrence_overrides
			(event_id, date_key, status, override_start_time, cover_image_url, notes,
			 signup_time, has_timeslots, venue_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (event_id, date_key) DO UPDATE SET
			status = EXCLUDED.status,
			override_start_time = EXCLUDED.override_start_time,
			cover_image_url = EXCLUDED.cover_image_url,
			notes = EXCLUDED.notes,
			signup_time = EXCLUDED.signup_time,
			has_timeslots = EXCLUDED.has_timeslots,
			venue_id = EXCLUDED.venue_id,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		override.EventID, override.DateKey, override.Status, override.StartTime,
		override.CoverImageURL, override.Notes, override.SignupTime, override.HasTimeslots,
		override.VenueID, time.Now(),
	).Scan(&override.ID)
}

func (r *overrideRepository) GetByEventAndDate(ctx context.Context, eventID int64, dateKey string) (*entity.OccurrenceOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM occurrence_overrides WHERE event_id = $1 AND date_key = $2`

	var ov entity.OccurrenceOverride
	err := scanOverride(r.db.QueryRowContext(ctx, query, eventID, dateKey), &ov)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

func (r *overrideRepository) GetByEventID(ctx context.Context, eventID int64) ([]*entity.OccurrenceOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM occurrence_overrides WHERE event_id = $1 ORDER BY date_key`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer rows.Close()

	var overrides []*entity.OccurrenceOverride
	for rows.Next() {
		var ov entity.OccurrenceOverride
		if err := scanOverride(rows, &ov); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		overrides = append(overrides, &ov)
	}
	return overrides, rows.Err()
}

// GetForEvents bulk-loads overrides for a set of events, keyed by event id
// then date key. Display routes resolve many events per request; one query
// beats N.
func (r *overrideRepository) GetForEvents(ctx context.Context, eventIDs []int64) (map[int64]map[string]*entity.OccurrenceOverride, error) {
	result := make(map[int64]map[string]*entity.OccurrenceOverride)
	if len(eventIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + overrideColumns + ` FROM occurrence_overrides WHERE event_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ov entity.OccurrenceOverride
		if err := scanOverride(rows, &ov); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		if result[ov.EventID] == nil {
			result[ov.EventID] = make(map[string]*entity.OccurrenceOverride)
		}
		result[ov.EventID][ov.DateKey] = &ov
	}
	return result, rows.Err()
}

func (r *overrideRepository) Delete(ctx context.Context, eventID int64, dateKey string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM occurrence_overrides WHERE event_id = $1 AND date_key = $2`,
		eventID, dateKey,
	)
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}
	return requireRowsAffected(result, entity.ErrEventNotFound)
}
