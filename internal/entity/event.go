package entity

import (
	"time"
)

type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusDraft     EventStatus = "draft"
	EventStatusCancelled EventStatus = "cancelled"
)

type EventType string

const (
	EventTypeOpenMic  EventType = "open_mic"
	EventTypeShowcase EventType = "showcase"
	EventTypeWorkshop EventType = "workshop"
	EventTypeJam      EventType = "jam"
	EventTypeOther    EventType = "other"
)

type Event struct {
	ID          int64       `json:"id" db:"id"`
	Slug        string      `json:"slug" db:"slug"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	EventType   EventType   `json:"event_type" db:"event_type"`
	Status      EventStatus `json:"status" db:"status"`
	IsPublished bool        `json:"is_published" db:"is_published"`
	HostID      int64       `json:"host_id" db:"host_id"`

	// Scheduling anchor. EventDate may be nil for pattern-only recurring
	// events; DayOfWeek and RecurrenceRule then drive expansion alone.
	EventDate      *string    `json:"event_date" db:"event_date"` // date key, YYYY-MM-DD
	DayOfWeek      string     `json:"day_of_week" db:"day_of_week"`
	StartTime      *TimeOfDay `json:"start_time" db:"start_time"`
	EndTime        *TimeOfDay `json:"end_time" db:"end_time"`
	RecurrenceRule string     `json:"recurrence_rule" db:"recurrence_rule"`
	SeriesID       *string    `json:"series_id" db:"series_id"`

	// Location: a venue, a custom address, or online-only.
	VenueID       *int64   `json:"venue_id" db:"venue_id"`
	CustomAddress *string  `json:"custom_address" db:"custom_address"`
	CustomLat     *float64 `json:"custom_lat" db:"custom_lat"`
	CustomLng     *float64 `json:"custom_lng" db:"custom_lng"`
	IsOnline      bool     `json:"is_online" db:"is_online"`

	// Signup behavior.
	Capacity     int        `json:"capacity" db:"capacity"`
	HasTimeslots bool       `json:"has_timeslots" db:"has_timeslots"`
	SignupTime   *TimeOfDay `json:"signup_time" db:"signup_time"`

	// Verification metadata.
	Source         string     `json:"source" db:"source"`
	LastVerifiedAt *time.Time `json:"last_verified_at" db:"last_verified_at"`
	VerifiedBy     *int64     `json:"verified_by" db:"verified_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EventWithVenue carries the joined venue row used by display routes.
type EventWithVenue struct {
	Event
	Venue *Venue `json:"venue,omitempty"`
}

type EventWithRSVPCounts struct {
	Event
	ConfirmedCount int `json:"confirmed_count"`
	WaitlistCount  int `json:"waitlist_count"`
}
