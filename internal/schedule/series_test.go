package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

func TestGroupEventsAsSeriesView(t *testing.T) {
	seriesID := "songwriter-showcase"

	recurring := &entity.Event{
		ID: 1, Slug: "bar-404-open-mic", Title: "Bar 404 Open Mic",
		DayOfWeek: "Tuesday", RecurrenceRule: "2nd/4th",
	}
	oneOff := &entity.Event{
		ID: 2, Slug: "songwriting-workshop", Title: "Songwriting Workshop",
		EventDate: strPtr("2026-02-07"),
	}
	unknown := &entity.Event{
		ID: 3, Slug: "mystery-night", Title: "Mystery Night",
		RecurrenceRule: "sometimes",
	}
	row1 := &entity.Event{
		ID: 4, Slug: "showcase-jan", Title: "Songwriter Showcase",
		EventDate: strPtr("2026-01-17"), SeriesID: &seriesID,
	}
	row2 := &entity.Event{
		ID: 5, Slug: "showcase-feb", Title: "Songwriter Showcase",
		EventDate: strPtr("2026-02-21"), SeriesID: &seriesID,
	}

	w := Window{StartKey: "2026-01-01", EndKey: "2026-03-31"}
	view := GroupEventsAsSeriesView([]*entity.Event{recurring, oneOff, unknown, row2, row1}, w)

	require.Len(t, view.Series, 3)
	require.Len(t, view.UnknownEvents, 1)
	assert.Equal(t, int64(3), view.UnknownEvents[0].ID)

	bySeriesKey := make(map[string]Series)
	for _, s := range view.Series {
		bySeriesKey[s.Key] = s
	}

	rec := bySeriesKey["bar-404-open-mic"]
	require.NotNil(t, rec.NextOccurrence)
	assert.Equal(t, "2026-01-13", rec.NextOccurrence.DateKey)
	assert.Equal(t, int64(1), rec.NextOccurrence.EventID)

	single := bySeriesKey["songwriting-workshop"]
	require.Len(t, single.Upcoming, 1)
	assert.Equal(t, "2026-02-07", single.Upcoming[0].DateKey)

	multi := bySeriesKey[seriesID]
	require.Len(t, multi.Upcoming, 2)
	// Occurrences sort by date even though rows arrived out of order, and
	// each links to its own row's id and slug.
	assert.Equal(t, "2026-01-17", multi.Upcoming[0].DateKey)
	assert.Equal(t, int64(4), multi.Upcoming[0].EventID)
	assert.Equal(t, "showcase-jan", multi.Upcoming[0].Slug)
	assert.Equal(t, "2026-02-21", multi.Upcoming[1].DateKey)
	assert.Equal(t, int64(5), multi.Upcoming[1].EventID)
	assert.Equal(t, "showcase-feb", multi.Upcoming[1].Slug)
}

func TestSeriesPartitionIsTotalAndDisjoint(t *testing.T) {
	seriesID := "s1"
	events := []*entity.Event{
		{ID: 1, Slug: "a", DayOfWeek: "Monday", RecurrenceRule: "weekly"},
		{ID: 2, Slug: "b", EventDate: strPtr("2026-05-01")},
		{ID: 3, Slug: "c"},
		{ID: 4, Slug: "d", RecurrenceRule: "2nd/4th"}, // no weekday: unknown
		{ID: 5, Slug: "e", SeriesID: &seriesID, EventDate: strPtr("2026-06-01")},
		{ID: 6, Slug: "f", SeriesID: &seriesID, EventDate: strPtr("2026-07-01")},
		{ID: 7, Slug: "g", EventDate: strPtr("not-a-date")},
	}

	view := GroupEventsAsSeriesView(events, Window{StartKey: "2026-01-01", EndKey: "2026-12-31"})

	placed := make(map[int64]int)
	for _, s := range view.Series {
		for _, ev := range s.Events {
			placed[ev.ID]++
		}
	}
	for _, ev := range view.UnknownEvents {
		placed[ev.ID]++
	}

	// Every event lands in exactly one bucket: never both, never neither.
	require.Len(t, placed, len(events))
	for id, count := range placed {
		assert.Equal(t, 1, count, "event %d placed %d times", id, count)
	}

	unknownIDs := make(map[int64]bool)
	for _, ev := range view.UnknownEvents {
		unknownIDs[ev.ID] = true
	}
	assert.True(t, unknownIDs[3])
	assert.True(t, unknownIDs[4])
	assert.True(t, unknownIDs[7])
}

func TestSeriesUpcomingIsBounded(t *testing.T) {
	ev := &entity.Event{ID: 1, Slug: "weekly-mic", DayOfWeek: "Tuesday", RecurrenceRule: "weekly"}

	view := GroupEventsAsSeriesView([]*entity.Event{ev}, Window{
		StartKey: "2026-01-01",
		EndKey:   "2026-12-31",
	})
	require.Len(t, view.Series, 1)
	assert.LessOrEqual(t, len(view.Series[0].Upcoming), maxUpcomingPerSeries)
}
