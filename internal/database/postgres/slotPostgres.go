package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type slotRepository struct {
	db *sql.DB
}

func NewSlotRepository(db *sql.DB) SlotRepository {
	return &slotRepository{db: db}
}

const slotColumns = `id, event_id, date_key, slot_index, start_time, end_time, performer_id, claimed_at, created_at`

func scanSlot(row rowScanner, slot *entity.EventSlot) error {
	return row.Scan(
		&slot.ID, &slot.EventID, &slot.DateKey, &slot.SlotIndex,
		&slot.StartTime, &slot.EndTime, &slot.PerformerID, &slot.ClaimedAt, &slot.CreatedAt,
	)
}

func (r *slotRepository) CreateBatch(ctx context.Context, slots []*entity.EventSlot) error {
	if len(slots) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO event_slots (event_id, date_key, slot_index, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare slot insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, slot := range slots {
		err := stmt.QueryRowContext(ctx,
			slot.EventID, slot.DateKey, slot.SlotIndex, slot.StartTime, slot.EndTime, now,
		).Scan(&slot.ID)
		if err != nil {
			return fmt.Errorf("failed to insert slot %d: %w", slot.SlotIndex, err)
		}
	}

	return tx.Commit()
}

func (r *slotRepository) GetByID(ctx context.Context, id int64) (*entity.EventSlot, error) {
	var slot entity.EventSlot
	err := scanSlot(r.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM event_slots WHERE id = $1`, id), &slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) GetByEventAndDate(ctx context.Context, eventID int64, dateKey string) ([]*entity.EventSlotWithPerformer, error) {
	query := `
		SELECT s.id, s.event_id, s.date_key, s.slot_index, s.start_time, s.end_time,
			s.performer_id, s.claimed_at, s.created_at, u.name
		FROM event_slots s
		LEFT JOIN users u ON s.performer_id = u.id
		WHERE s.event_id = $1 AND s.date_key = $2
		ORDER BY s.slot_index
	`

	rows, err := r.db.QueryContext(ctx, query, eventID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer rows.Close()

	var slots []*entity.EventSlotWithPerformer
	for rows.Next() {
		var slot entity.EventSlotWithPerformer
		var performerName sql.NullString
		err := rows.Scan(
			&slot.ID, &slot.EventID, &slot.DateKey, &slot.SlotIndex,
			&slot.StartTime, &slot.EndTime, &slot.PerformerID, &slot.ClaimedAt,
			&slot.CreatedAt, &performerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		if performerName.Valid {
			slot.PerformerName = &performerName.String
		}
		slots = append(slots, &slot)
	}
	return slots, rows.Err()
}

// Claim assigns the slot to the performer with a single conditional update.
// The WHERE clause makes the claim atomic: if another performer already holds
// the slot zero rows change, and the NOT EXISTS guard blocks a second slot on
// the same event and date.
func (r *slotRepository) Claim(ctx context.Context, slotID, performerID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE event_slots
		SET performer_id = $2, claimed_at = $3
		WHERE id = $1
			AND performer_id IS NULL
			AND NOT EXISTS (
				SELECT 1 FROM event_slots other
				WHERE other.event_id = event_slots.event_id
					AND other.date_key = event_slots.date_key
					AND other.performer_id = $2
			)
	`, slotID, performerID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to claim slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	// Zero rows: the slot is gone, taken, or the performer already holds
	// one. Re-read to tell the caller which.
	slot, err := r.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.PerformerID != nil {
		return entity.ErrSlotTaken
	}
	return entity.ErrAlreadyHasSlot
}

// Unclaim releases the slot only if the caller actually holds it.
func (r *slotRepository) Unclaim(ctx context.Context, slotID, performerID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE event_slots
		SET performer_id = NULL, claimed_at = NULL
		WHERE id = $1 AND performer_id = $2
	`, slotID, performerID)
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	return requireRowsAffected(result, entity.ErrSlotNotHeld)
}

func (r *slotRepository) CountClaimedByEvent(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_slots WHERE event_id = $1 AND performer_id IS NOT NULL`,
		eventID).Scan(&count)
	return count, err
}

func (r *slotRepository) DeleteByEventAndDate(ctx context.Context, eventID int64, dateKey string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM event_slots WHERE event_id = $1 AND date_key = $2`,
		eventID, dateKey)
	if err != nil {
		return fmt.Errorf("failed to delete slots: %w", err)
	}
	return nil
}
