package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

func timePtr(hour, minute int) *entity.TimeOfDay {
	t := entity.NewTimeOfDay(hour, minute)
	return &t
}

func boolPtr(b bool) *bool { return &b }

func TestMergeOverrideFieldPrecedence(t *testing.T) {
	notes := "bring your own cables"
	cover := "https://img.example/override.jpg"
	venueID := int64(7)

	base := &entity.Event{
		ID:         1,
		StartTime:  timePtr(19, 0),
		SignupTime: timePtr(18, 30),
		VenueID:    nil,
	}
	occ := Occurrence{DateKey: "2026-01-21", IsConfident: true}

	tests := []struct {
		name  string
		ov    *entity.OccurrenceOverride
		check func(t *testing.T, r ResolvedOccurrence)
	}{
		{
			name: "no override inherits everything",
			ov:   nil,
			check: func(t *testing.T, r ResolvedOccurrence) {
				assert.Equal(t, entity.OverrideStatusNormal, r.Status)
				assert.Equal(t, "19:00", r.StartTime.Format("15:04"))
				assert.Nil(t, r.Notes)
				assert.Nil(t, r.CoverImageURL)
			},
		},
		{
			name: "cancelled status wins",
			ov:   &entity.OccurrenceOverride{Status: entity.OverrideStatusCancelled},
			check: func(t *testing.T, r ResolvedOccurrence) {
				assert.Equal(t, entity.OverrideStatusCancelled, r.Status)
				// Other fields still inherit.
				assert.Equal(t, "19:00", r.StartTime.Format("15:04"))
			},
		},
		{
			name: "start time override wins",
			ov:   &entity.OccurrenceOverride{Status: entity.OverrideStatusNormal, StartTime: timePtr(20, 30)},
			check: func(t *testing.T, r ResolvedOccurrence) {
				assert.Equal(t, "20:30", r.StartTime.Format("15:04"))
			},
		},
		{
			name: "fields apply independently",
			ov: &entity.OccurrenceOverride{
				Status:        entity.OverrideStatusNormal,
				Notes:         &notes,
				CoverImageURL: &cover,
				VenueID:       &venueID,
			},
			check: func(t *testing.T, r ResolvedOccurrence) {
				require.NotNil(t, r.Notes)
				assert.Equal(t, notes, *r.Notes)
				require.NotNil(t, r.CoverImageURL)
				assert.Equal(t, cover, *r.CoverImageURL)
				require.NotNil(t, r.VenueID)
				assert.Equal(t, venueID, *r.VenueID)
				// Untouched field inherits.
				assert.Equal(t, "19:00", r.StartTime.Format("15:04"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, MergeOverride(base, occ, tt.ov))
		})
	}
}

func TestMergeExplicitFalseIsNotAbsent(t *testing.T) {
	// Base event uses timeslot signup; the override explicitly turns it off
	// for one date. A stored false must override, not fall through.
	base := &entity.Event{
		HasTimeslots: true,
		SignupTime:   timePtr(18, 30),
	}
	occ := Occurrence{DateKey: "2026-01-21"}

	withFalse := MergeOverride(base, occ, &entity.OccurrenceOverride{
		Status:       entity.OverrideStatusNormal,
		HasTimeslots: boolPtr(false),
	})
	assert.False(t, withFalse.HasTimeslots)
	assert.Equal(t, "Signups at 6:30 PM", withFalse.SignupMeta)

	withAbsent := MergeOverride(base, occ, &entity.OccurrenceOverride{
		Status: entity.OverrideStatusNormal,
	})
	assert.True(t, withAbsent.HasTimeslots)
	assert.Equal(t, "Online signup", withAbsent.SignupMeta)
}

func TestSignupMetaPrecedence(t *testing.T) {
	tests := []struct {
		name         string
		hasTimeslots bool
		signupTime   *entity.TimeOfDay
		want         string
	}{
		{"timeslots win over signup time", true, timePtr(18, 30), "Online signup"},
		{"timeslots alone", true, nil, "Online signup"},
		{"signup time formats 12 hour", false, timePtr(19, 15), "Signups at 7:15 PM"},
		{"morning signup", false, timePtr(9, 0), "Signups at 9:00 AM"},
		{"neither yields nothing", false, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, signupMeta(tt.hasTimeslots, tt.signupTime))
		})
	}
}

func TestResolveOccurrencesCancelsOnlyOverriddenDate(t *testing.T) {
	// Weekly Wednesday series with one date cancelled; adjacent dates stay
	// normal.
	ev := &entity.Event{
		ID:             1,
		DayOfWeek:      "Wednesday",
		RecurrenceRule: "weekly",
	}
	overrides := map[string]*entity.OccurrenceOverride{
		"2026-01-21": {EventID: 1, DateKey: "2026-01-21", Status: entity.OverrideStatusCancelled},
	}

	resolved, err := ResolveOccurrences(ev, Window{StartKey: "2026-01-01", EndKey: "2026-01-31"}, overrides)
	require.NoError(t, err)
	require.Len(t, resolved, 4)

	byKey := make(map[string]entity.OverrideStatus)
	for _, r := range resolved {
		byKey[r.DateKey] = r.Status
	}
	assert.Equal(t, entity.OverrideStatusNormal, byKey["2026-01-14"])
	assert.Equal(t, entity.OverrideStatusCancelled, byKey["2026-01-21"])
	assert.Equal(t, entity.OverrideStatusNormal, byKey["2026-01-28"])
}
