package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type hostRequestRepository struct {
	db *sql.DB
}

func NewHostRequestRepository(db *sql.DB) HostRequestRepository {
	return &hostRequestRepository{db: db}
}

const hostRequestColumns = `id, user_id, message, status, reviewed_by, reviewed_at, created_at`

func scanHostRequest(row rowScanner, req *entity.HostRequest) error {
	return row.Scan(
		&req.ID, &req.UserID, &req.Message, &req.Status,
		&req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt,
	)
}

func (r *hostRequestRepository) Create(ctx context.Context, req *entity.HostRequest) error {
	query := `
		INSERT INTO host_requests (user_id, message, status, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		req.UserID, req.Message, req.Status,
	).Scan(&req.ID, &req.CreatedAt)
}

func (r *hostRequestRepository) GetByID(ctx context.Context, id int64) (*entity.HostRequest, error) {
	var req entity.HostRequest
	err := scanHostRequest(r.db.QueryRowContext(ctx,
		`SELECT `+hostRequestColumns+` FROM host_requests WHERE id = $1`, id), &req)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrHostRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *hostRequestRepository) GetPendingByUserID(ctx context.Context, userID int64) (*entity.HostRequest, error) {
	var req entity.HostRequest
	err := scanHostRequest(r.db.QueryRowContext(ctx, `
		SELECT `+hostRequestColumns+` FROM host_requests
		WHERE user_id = $1 AND status = 'pending'
		ORDER BY created_at DESC LIMIT 1
	`, userID), &req)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *hostRequestRepository) GetByStatus(ctx context.Context, status entity.HostRequestStatus) ([]*entity.HostRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+hostRequestColumns+` FROM host_requests WHERE status = $1 ORDER BY created_at`,
		status)
	if err != nil {
		return nil, fmt.Errorf("failed to query host requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.HostRequest
	for rows.Next() {
		var req entity.HostRequest
		if err := scanHostRequest(rows, &req); err != nil {
			return nil, fmt.Errorf("failed to scan host request: %w", err)
		}
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}

// Review records the admin's decision. A request can only be reviewed once:
// the pending guard makes a second concurrent review fail.
func (r *hostRequestRepository) Review(ctx context.Context, id, reviewerID int64, status entity.HostRequestStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE host_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE id = $4 AND status = 'pending'
	`, status, reviewerID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to review host request: %w", err)
	}
	return requireRowsAffected(result, entity.ErrRequestAlreadyReviewed)
}

type hostInviteRepository struct {
	db *sql.DB
}

func NewHostInviteRepository(db *sql.DB) HostInviteRepository {
	return &hostInviteRepository{db: db}
}

const hostInviteColumns = `id, event_id, token, email, created_by, expires_at, accepted_at, accepted_by, created_at`

func scanHostInvite(row rowScanner, inv *entity.HostInvite) error {
	return row.Scan(
		&inv.ID, &inv.EventID, &inv.Token, &inv.Email, &inv.CreatedBy,
		&inv.ExpiresAt, &inv.AcceptedAt, &inv.AcceptedBy, &inv.CreatedAt,
	)
}

func (r *hostInviteRepository) Create(ctx context.Context, invite *entity.HostInvite) error {
	query := `
		INSERT INTO host_invites (event_id, token, email, created_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		invite.EventID, invite.Token, invite.Email, invite.CreatedBy, invite.ExpiresAt,
	).Scan(&invite.ID, &invite.CreatedAt)
}

func (r *hostInviteRepository) GetByToken(ctx context.Context, token string) (*entity.HostInvite, error) {
	var invite entity.HostInvite
	err := scanHostInvite(r.db.QueryRowContext(ctx,
		`SELECT `+hostInviteColumns+` FROM host_invites WHERE token = $1`, token), &invite)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// MarkAccepted burns the token; a second acceptance of the same invite fails.
func (r *hostInviteRepository) MarkAccepted(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE host_invites
		SET accepted_at = $1, accepted_by = $2
		WHERE id = $3 AND accepted_at IS NULL
	`, time.Now(), userID, id)
	if err != nil {
		return fmt.Errorf("failed to accept invite: %w", err)
	}
	return requireRowsAffected(result, entity.ErrInviteUsed)
}
