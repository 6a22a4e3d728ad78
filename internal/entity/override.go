package entity

import "time"

type OverrideStatus string

const (
	OverrideStatusNormal    OverrideStatus = "normal"
	OverrideStatusCancelled OverrideStatus = "cancelled"
)

// OccurrenceOverride is a per-date exception keyed by (event_id, date_key).
// Nullable columns mean "inherit from the base event"; an explicitly stored
// value (including false) wins over the base.
type OccurrenceOverride struct {
	ID            int64          `json:"id" db:"id"`
	EventID       int64          `json:"event_id" db:"event_id"`
	DateKey       string         `json:"date_key" db:"date_key"`
	Status        OverrideStatus `json:"status" db:"status"`
	StartTime     *TimeOfDay     `json:"override_start_time" db:"override_start_time"`
	CoverImageURL *string        `json:"cover_image_url" db:"cover_image_url"`
	Notes         *string        `json:"notes" db:"notes"`
	SignupTime    *TimeOfDay     `json:"signup_time" db:"signup_time"`
	HasTimeslots  *bool          `json:"has_timeslots" db:"has_timeslots"`
	VenueID       *int64         `json:"venue_id" db:"venue_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OverridePatch is the write shape accepted by the overrides API. Only the
// fields below may be patched; anything else in the payload is rejected
// rather than silently applied.
type OverridePatch struct {
	Status        Patch[OverrideStatus] `json:"status"`
	StartTime     Patch[TimeOfDay]      `json:"override_start_time"`
	CoverImageURL Patch[string]         `json:"cover_image_url"`
	Notes         Patch[string]         `json:"notes"`
	SignupTime    Patch[TimeOfDay]      `json:"signup_time"`
	HasTimeslots  Patch[bool]           `json:"has_timeslots"`
	VenueID       Patch[int64]          `json:"venue_id"`
}

// AllowedOverrideFields is the allow-list enforced by the overrides API.
var AllowedOverrideFields = map[string]bool{
	"date_key":            true,
	"status":              true,
	"override_start_time": true,
	"cover_image_url":     true,
	"notes":               true,
	"signup_time":         true,
	"has_timeslots":       true,
	"venue_id":            true,
}
