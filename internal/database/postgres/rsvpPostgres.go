package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type rsvpRepository struct {
	db *sql.DB
}

func NewRSVPRepository(db *sql.DB) RSVPRepository {
	return &rsvpRepository{db: db}
}

const rsvpColumns = `id, event_id, user_id, status, waitlist_position, offer_expires_at, created_at, updated_at`

func scanRSVP(row rowScanner, rsvp *entity.RSVP) error {
	return row.Scan(
		&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Status,
		&rsvp.WaitlistPosition, &rsvp.OfferExpiresAt, &rsvp.CreatedAt, &rsvp.UpdatedAt,
	)
}

// Create inserts the RSVP. A waitlisted entry gets the next position in the
// same statement, so two concurrent waitlist joins cannot race to the same
// position.
func (r *rsvpRepository) Create(ctx context.Context, rsvp *entity.RSVP) error {
	if rsvp.Status == entity.RSVPStatusWaitlist {
		query := `
			INSERT INTO rsvps (event_id, user_id, status, waitlist_position, created_at, updated_at)
			VALUES ($1, $2, $3,
				(SELECT COALESCE(MAX(waitlist_position), 0) + 1 FROM rsvps WHERE event_id = $1 AND status = 'waitlist'),
				$4, $4)
			RETURNING id, waitlist_position
		`
		return r.db.QueryRowContext(ctx, query,
			rsvp.EventID, rsvp.UserID, rsvp.Status, time.Now(),
		).Scan(&rsvp.ID, &rsvp.WaitlistPosition)
	}

	query := `
		INSERT INTO rsvps (event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		rsvp.EventID, rsvp.UserID, rsvp.Status, time.Now(),
	).Scan(&rsvp.ID)
}

func (r *rsvpRepository) GetByID(ctx context.Context, id int64) (*entity.RSVP, error) {
	var rsvp entity.RSVP
	err := scanRSVP(r.db.QueryRowContext(ctx,
		`SELECT `+rsvpColumns+` FROM rsvps WHERE id = $1`, id), &rsvp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrRSVPNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *rsvpRepository) GetByEventAndUser(ctx context.Context, eventID, userID int64) (*entity.RSVP, error) {
	var rsvp entity.RSVP
	err := scanRSVP(r.db.QueryRowContext(ctx,
		`SELECT `+rsvpColumns+` FROM rsvps WHERE event_id = $1 AND user_id = $2`,
		eventID, userID), &rsvp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrRSVPNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *rsvpRepository) queryRSVPs(ctx context.Context, query string, args ...interface{}) ([]*entity.RSVP, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []*entity.RSVP
	for rows.Next() {
		var rsvp entity.RSVP
		if err := scanRSVP(rows, &rsvp); err != nil {
			return nil, fmt.Errorf("failed to scan rsvp: %w", err)
		}
		rsvps = append(rsvps, &rsvp)
	}
	return rsvps, rows.Err()
}

func (r *rsvpRepository) GetByEventID(ctx context.Context, eventID int64) ([]*entity.RSVP, error) {
	return r.queryRSVPs(ctx,
		`SELECT `+rsvpColumns+` FROM rsvps WHERE event_id = $1 ORDER BY created_at`, eventID)
}

func (r *rsvpRepository) GetByUserID(ctx context.Context, userID int64) ([]*entity.RSVP, error) {
	return r.queryRSVPs(ctx,
		`SELECT `+rsvpColumns+` FROM rsvps WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *rsvpRepository) GetAll(ctx context.Context) ([]*entity.RSVP, error) {
	return r.queryRSVPs(ctx, `SELECT `+rsvpColumns+` FROM rsvps ORDER BY created_at DESC`)
}

func (r *rsvpRepository) UpdateStatus(ctx context.Context, id int64, status entity.RSVPStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE rsvps SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update rsvp status: %w", err)
	}
	return requireRowsAffected(result, entity.ErrRSVPNotFound)
}

// SetOffer promotes a waitlisted RSVP to offered, but only if it is still
// waitlisted; a concurrent cancellation loses quietly.
func (r *rsvpRepository) SetOffer(ctx context.Context, id int64, expiresAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE rsvps
		SET status = 'offered', offer_expires_at = $1, waitlist_position = NULL, updated_at = $2
		WHERE id = $3 AND status = 'waitlist'
	`, expiresAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set offer: %w", err)
	}
	return requireRowsAffected(result, entity.ErrRSVPNotFound)
}

// Confirm accepts an outstanding offer.
func (r *rsvpRepository) Confirm(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE rsvps
		SET status = 'confirmed', offer_expires_at = NULL, waitlist_position = NULL, updated_at = $1
		WHERE id = $2 AND status = 'offered'
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to confirm rsvp: %w", err)
	}
	return requireRowsAffected(result, entity.ErrNoOfferToAccept)
}

// MoveToWaitlistEnd puts an RSVP at the back of the waitlist. Used both for
// expired offers and for cancelled RSVPs rejoining a full event.
func (r *rsvpRepository) MoveToWaitlistEnd(ctx context.Context, id, eventID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE rsvps
		SET status = 'waitlist', offer_expires_at = NULL, updated_at = $1,
			waitlist_position = (SELECT COALESCE(MAX(waitlist_position), 0) + 1 FROM rsvps WHERE event_id = $2 AND status = 'waitlist')
		WHERE id = $3 AND status IN ('offered', 'cancelled')
	`, time.Now(), eventID, id)
	if err != nil {
		return fmt.Errorf("failed to move rsvp to waitlist end: %w", err)
	}
	return requireRowsAffected(result, entity.ErrRSVPNotFound)
}

// NextWaitlisted returns the front of the waitlist, or nil when empty.
func (r *rsvpRepository) NextWaitlisted(ctx context.Context, eventID int64) (*entity.RSVP, error) {
	var rsvp entity.RSVP
	err := scanRSVP(r.db.QueryRowContext(ctx, `
		SELECT `+rsvpColumns+` FROM rsvps
		WHERE event_id = $1 AND status = 'waitlist'
		ORDER BY waitlist_position ASC
		LIMIT 1
	`, eventID), &rsvp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *rsvpRepository) queryExpiredOffers(ctx context.Context, query string, args ...interface{}) ([]*entity.ExpiredOffer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired offers: %w", err)
	}
	defer rows.Close()

	var offers []*entity.ExpiredOffer
	for rows.Next() {
		var offer entity.ExpiredOffer
		err := rows.Scan(
			&offer.RSVPID, &offer.OfferExpiresAt, &offer.UserID, &offer.EventID,
			&offer.UserEmail, &offer.UserName, &offer.EventTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expired offer: %w", err)
		}
		offers = append(offers, &offer)
	}
	return offers, rows.Err()
}

const expiredOfferQuery = `
	SELECT r.id, r.offer_expires_at, r.user_id, r.event_id, u.email, u.name, e.title
	FROM rsvps r
	JOIN users u ON r.user_id = u.id
	JOIN events e ON r.event_id = e.id
	WHERE r.status = 'offered' AND r.offer_expires_at < $1`

func (r *rsvpRepository) GetExpiredOffers(ctx context.Context, before time.Time) ([]*entity.ExpiredOffer, error) {
	return r.queryExpiredOffers(ctx, expiredOfferQuery+` ORDER BY r.offer_expires_at`, before)
}

func (r *rsvpRepository) GetExpiredOffersForEvent(ctx context.Context, eventID int64, before time.Time) ([]*entity.ExpiredOffer, error) {
	return r.queryExpiredOffers(ctx, expiredOfferQuery+` AND r.event_id = $2`, before, eventID)
}

func (r *rsvpRepository) GetEventStats(ctx context.Context, eventID int64) (*entity.EventRSVPStats, error) {
	query := `
		SELECT
			e.capacity,
			COUNT(*) FILTER (WHERE r.status = 'confirmed') AS confirmed,
			COUNT(*) FILTER (WHERE r.status = 'waitlist') AS waitlisted,
			COUNT(*) FILTER (WHERE r.status = 'offered') AS offered,
			COUNT(*) FILTER (WHERE r.status = 'cancelled') AS cancelled
		FROM events e
		LEFT JOIN rsvps r ON r.event_id = e.id
		WHERE e.id = $1
		GROUP BY e.id
	`

	stats := entity.EventRSVPStats{EventID: eventID}
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&stats.Capacity, &stats.ConfirmedCount, &stats.WaitlistCount,
		&stats.OfferedCount, &stats.CancelledCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *rsvpRepository) CountActiveByEvent(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rsvps
		WHERE event_id = $1 AND status IN ('confirmed', 'waitlist', 'offered')
	`, eventID).Scan(&count)
	return count, err
}
