package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

func strPtr(s string) *string { return &s }

func dateKeys(occurrences []Occurrence) []string {
	keys := make([]string, 0, len(occurrences))
	for _, occ := range occurrences {
		keys = append(keys, occ.DateKey)
	}
	return keys
}

func TestExpandSecondFourthTuesday(t *testing.T) {
	// Date-less recurring event: the pattern alone drives expansion.
	ev := &entity.Event{
		DayOfWeek:      "Tuesday",
		RecurrenceRule: "2nd/4th",
	}

	occurrences, err := ExpandOccurrencesForEvent(ev, Window{
		StartKey: "2026-01-12",
		EndKey:   "2026-04-12",
	})
	require.NoError(t, err)
	require.NotEmpty(t, occurrences)

	assert.Equal(t, []string{
		"2026-01-13", "2026-01-27",
		"2026-02-10", "2026-02-24",
		"2026-03-10", "2026-03-24",
	}, dateKeys(occurrences))

	for _, occ := range occurrences {
		assert.Equal(t, time.Tuesday, occ.DisplayDate.Weekday())
		assert.True(t, occ.IsConfident)
	}
}

func TestExpandWeekly(t *testing.T) {
	ev := &entity.Event{
		DayOfWeek:      "Wednesday",
		RecurrenceRule: "weekly",
	}

	occurrences, err := ExpandOccurrencesForEvent(ev, Window{
		StartKey: "2026-01-01",
		EndKey:   "2026-01-31",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2026-01-07", "2026-01-14", "2026-01-21", "2026-01-28",
	}, dateKeys(occurrences))
}

func TestExpandWeeklyStartsOnMatchingDay(t *testing.T) {
	// Window opens on the target weekday itself; the first occurrence is
	// that same day, not a week later.
	ev := &entity.Event{
		DayOfWeek:      "Monday",
		RecurrenceRule: "weekly",
	}

	occurrences, err := ExpandOccurrencesForEvent(ev, Window{
		StartKey: "2026-01-12", // a Monday
		EndKey:   "2026-01-26",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-12", "2026-01-19", "2026-01-26"}, dateKeys(occurrences))
}

func TestExpandLastFriday(t *testing.T) {
	ev := &entity.Event{
		DayOfWeek:      "Friday",
		RecurrenceRule: "last",
	}

	occurrences, err := ExpandOccurrencesForEvent(ev, Window{
		StartKey: "2026-01-01",
		EndKey:   "2026-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-30", "2026-02-27", "2026-03-27"}, dateKeys(occurrences))
}

func TestExpandFifthSkipsShortMonths(t *testing.T) {
	// Only months with five Saturdays produce a date.
	ev := &entity.Event{
		DayOfWeek:      "Saturday",
		RecurrenceRule: "5th",
	}

	occurrences, err := ExpandOccurrencesForEvent(ev, Window{
		StartKey: "2026-01-01",
		EndKey:   "2026-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-31", "2026-05-30"}, dateKeys(occurrences))
}

func TestExpandAscendingNoDuplicates(t *testing.T) {
	rules := []struct {
		day  string
		rule string
	}{
		{"Tuesday", "weekly"},
		{"Wednesday", "1st & 3rd"},
		{"Friday", "2nd/4th"},
		{"Sunday", "last"},
		{"Monday", "1st/last"},
	}

	for _, rc := range rules {
		t.Run(rc.day+" "+rc.rule, func(t *testing.T) {
			ev := &entity.Event{DayOfWeek: rc.day, RecurrenceRule: rc.rule}
			occurrences, err := ExpandOccurrencesForEvent(ev, Window{
				StartKey: "2026-01-01",
				EndKey:   "2026-12-31",
			})
			require.NoError(t, err)
			require.NotEmpty(t, occurrences)

			seen := make(map[string]bool)
			prev := ""
			for _, occ := range occurrences {
				assert.False(t, seen[occ.DateKey], "duplicate %s", occ.DateKey)
				seen[occ.DateKey] = true
				assert.Greater(t, occ.DateKey, prev, "not strictly ascending")
				prev = occ.DateKey
			}
		})
	}
}

func TestExpandRespectsCap(t *testing.T) {
	ev := &entity.Event{DayOfWeek: "Monday", RecurrenceRule: "weekly"}

	occurrences, err := ExpandOccurrencesForEvent(ev, Window{
		StartKey:       "2026-01-01",
		EndKey:         "2030-12-31",
		MaxOccurrences: 10,
	})
	require.NoError(t, err)
	assert.Len(t, occurrences, 10)
}

func TestExpandNonRecurringSingleDate(t *testing.T) {
	ev := &entity.Event{EventDate: strPtr("2026-02-14")}

	occurrences, err := ExpandOccurrencesForEvent(ev, Window{
		StartKey: "2026-01-01",
		EndKey:   "2026-12-31",
	})
	require.NoError(t, err)
	require.Len(t, occurrences, 1)
	assert.Equal(t, "2026-02-14", occurrences[0].DateKey)
	assert.True(t, occurrences[0].IsConfident)

	// Outside the window the event contributes nothing.
	occurrences, err = ExpandOccurrencesForEvent(ev, Window{
		StartKey: "2026-03-01",
		EndKey:   "2026-03-31",
	})
	require.NoError(t, err)
	assert.Empty(t, occurrences)
}

func TestExpandNoDateNoPattern(t *testing.T) {
	occurrences, err := ExpandOccurrencesForEvent(&entity.Event{}, Window{
		StartKey: "2026-01-01",
		EndKey:   "2026-12-31",
	})
	require.NoError(t, err)
	assert.Empty(t, occurrences)
}

func TestExpandUTCNoonAnchoring(t *testing.T) {
	ev := &entity.Event{DayOfWeek: "Tuesday", RecurrenceRule: "weekly"}

	occurrences, err := ExpandOccurrencesForEvent(ev, Window{
		StartKey: "2026-03-01",
		EndKey:   "2026-03-31",
	})
	require.NoError(t, err)
	for _, occ := range occurrences {
		assert.Equal(t, 12, occ.DisplayDate.Hour())
		assert.Equal(t, time.UTC, occ.DisplayDate.Location())
	}
}

func TestExpandInvalidWindow(t *testing.T) {
	ev := &entity.Event{DayOfWeek: "Tuesday", RecurrenceRule: "weekly"}

	_, err := ExpandOccurrencesForEvent(ev, Window{StartKey: "2026-06-01", EndKey: "2026-01-01"})
	assert.ErrorIs(t, err, entity.ErrInvalidDateKey)

	_, err = ExpandOccurrencesForEvent(ev, Window{StartKey: "junk", EndKey: "2026-01-01"})
	assert.ErrorIs(t, err, entity.ErrInvalidDateKey)
}

func TestNextOccurrence(t *testing.T) {
	ev := &entity.Event{DayOfWeek: "Tuesday", RecurrenceRule: "2nd/4th"}

	next, err := NextOccurrence(ev, "2026-01-12", 60)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "2026-01-13", next.DateKey)
}
