package entity

import "time"

// EventSlot is one performance signup slot for an event occurrence.
// At most one performer may hold a slot, and a performer may hold at most
// one slot per event; both are enforced by the storage layer with
// conditional updates, not application-level locking.
type EventSlot struct {
	ID          int64      `json:"id" db:"id"`
	EventID     int64      `json:"event_id" db:"event_id"`
	DateKey     string     `json:"date_key" db:"date_key"`
	SlotIndex   int        `json:"slot_index" db:"slot_index"`
	StartTime   *TimeOfDay `json:"start_time" db:"start_time"`
	EndTime     *TimeOfDay `json:"end_time" db:"end_time"`
	PerformerID *int64     `json:"performer_id" db:"performer_id"`
	ClaimedAt   *time.Time `json:"claimed_at" db:"claimed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type EventSlotWithPerformer struct {
	EventSlot
	PerformerName *string `json:"performer_name,omitempty"`
}
