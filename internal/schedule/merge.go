package schedule

import (
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

// ResolvedOccurrence is one display-ready occurrence: the base event with a
// date's override merged in field by field.
type ResolvedOccurrence struct {
	Event       *entity.Event `json:"event"`
	DateKey     string        `json:"date_key"`
	DisplayDate time.Time     `json:"display_date"`
	IsConfident bool          `json:"is_confident"`

	Status        entity.OverrideStatus `json:"status"`
	StartTime     *entity.TimeOfDay     `json:"start_time"`
	EndTime       *entity.TimeOfDay     `json:"end_time"`
	CoverImageURL *string               `json:"cover_image_url"`
	Notes         *string               `json:"notes"`
	SignupTime    *entity.TimeOfDay     `json:"signup_time"`
	HasTimeslots  bool                  `json:"has_timeslots"`
	VenueID       *int64                `json:"venue_id"`

	// Venue is the base event's joined venue; OverrideVenue is set when the
	// override relocated this date. Map pins prefer the override venue.
	Venue         *entity.Venue `json:"venue,omitempty"`
	OverrideVenue *entity.Venue `json:"override_venue,omitempty"`

	SignupMeta string `json:"signup_meta,omitempty"`
}

// MergeOverride resolves one occurrence. Each override field applies only
// when it is explicitly stored (non-null); a null column inherits the base
// event's value. The distinction matters for booleans: a stored false is an
// override, not an absence.
func MergeOverride(ev *entity.Event, occ Occurrence, ov *entity.OccurrenceOverride) ResolvedOccurrence {
	resolved := ResolvedOccurrence{
		Event:        ev,
		DateKey:      occ.DateKey,
		DisplayDate:  occ.DisplayDate,
		IsConfident:  occ.IsConfident,
		Status:       entity.OverrideStatusNormal,
		StartTime:    ev.StartTime,
		EndTime:      ev.EndTime,
		SignupTime:   ev.SignupTime,
		HasTimeslots: ev.HasTimeslots,
		VenueID:      ev.VenueID,
	}

	if ov != nil {
		if ov.Status == entity.OverrideStatusCancelled {
			resolved.Status = entity.OverrideStatusCancelled
		}
		if ov.StartTime != nil {
			resolved.StartTime = ov.StartTime
		}
		if ov.CoverImageURL != nil {
			resolved.CoverImageURL = ov.CoverImageURL
		}
		if ov.Notes != nil {
			resolved.Notes = ov.Notes
		}
		if ov.SignupTime != nil {
			resolved.SignupTime = ov.SignupTime
		}
		if ov.HasTimeslots != nil {
			resolved.HasTimeslots = *ov.HasTimeslots
		}
		if ov.VenueID != nil {
			resolved.VenueID = ov.VenueID
		}
	}

	resolved.SignupMeta = signupMeta(resolved.HasTimeslots, resolved.SignupTime)
	return resolved
}

// signupMeta renders the signup label. Timeslot signup wins outright: any
// effective has_timeslots=true shows "Online signup" no matter what
// signup_time resolves to.
func signupMeta(hasTimeslots bool, signupTime *entity.TimeOfDay) string {
	if hasTimeslots {
		return "Online signup"
	}
	if signupTime != nil {
		return "Signups at " + signupTime.Format12Hour()
	}
	return ""
}

// ResolveOccurrences expands an event over the window and merges each
// date's override, if any. The overrides map is keyed by date key.
func ResolveOccurrences(ev *entity.Event, w Window, overrides map[string]*entity.OccurrenceOverride) ([]ResolvedOccurrence, error) {
	occurrences, err := ExpandOccurrencesForEvent(ev, w)
	if err != nil {
		return nil, err
	}

	resolved := make([]ResolvedOccurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		resolved = append(resolved, MergeOverride(ev, occ, overrides[occ.DateKey]))
	}
	return resolved, nil
}
