package schedule

import (
	"sort"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

// maxUpcomingPerSeries bounds the per-series occurrence preview.
const maxUpcomingPerSeries = 8

// SeriesOccurrence is one upcoming date inside a series view. EventID and
// Slug always point at the row that owns the date: for a multi-row series
// each occurrence resolves to its own event row, since each date there is a
// physically distinct row with its own overrides and claims.
type SeriesOccurrence struct {
	Occurrence
	EventID int64  `json:"event_id"`
	Slug    string `json:"slug"`
}

type Series struct {
	Key            string             `json:"key"`
	Title          string             `json:"title"`
	Events         []*entity.Event    `json:"-"`
	NextOccurrence *SeriesOccurrence  `json:"next_occurrence,omitempty"`
	Upcoming       []SeriesOccurrence `json:"upcoming_occurrences"`
}

// SeriesView partitions events into recurring/dated series and an unknown
// bucket. Every input event lands in exactly one of the two.
type SeriesView struct {
	Series        []Series        `json:"series"`
	UnknownEvents []*entity.Event `json:"unknown_events"`
}

// GroupEventsAsSeriesView builds the display grouping:
//   - rows sharing a series_id become one multi-row series, one occurrence
//     per row's own fixed date;
//   - a confidently-recurring template expands into its own series;
//   - a one-off with a real date is a series of one;
//   - everything else (no date, no resolvable pattern) goes to the
//     unknown bucket.
func GroupEventsAsSeriesView(events []*entity.Event, w Window) SeriesView {
	var view SeriesView
	bySeriesID := make(map[string][]*entity.Event)
	var seriesOrder []string

	for _, ev := range events {
		if ev.SeriesID != nil && *ev.SeriesID != "" {
			key := *ev.SeriesID
			if _, seen := bySeriesID[key]; !seen {
				seriesOrder = append(seriesOrder, key)
			}
			bySeriesID[key] = append(bySeriesID[key], ev)
			continue
		}

		desc := InterpretRecurrence(ev.EventDate, ev.DayOfWeek, ev.RecurrenceRule)
		switch {
		case desc.IsRecurring && desc.IsConfident:
			view.Series = append(view.Series, buildTemplateSeries(ev, w))
		case ev.EventDate != nil && IsValidDateKey(*ev.EventDate):
			view.Series = append(view.Series, buildTemplateSeries(ev, w))
		default:
			view.UnknownEvents = append(view.UnknownEvents, ev)
		}
	}

	for _, key := range seriesOrder {
		view.Series = append(view.Series, buildMultiRowSeries(key, bySeriesID[key], w))
	}
	return view
}

// buildTemplateSeries expands a single recurring (or one-off) event row.
func buildTemplateSeries(ev *entity.Event, w Window) Series {
	s := Series{
		Key:    ev.Slug,
		Title:  ev.Title,
		Events: []*entity.Event{ev},
	}

	occurrences, err := ExpandOccurrencesForEvent(ev, w)
	if err != nil {
		return s
	}
	for _, occ := range occurrences {
		if len(s.Upcoming) >= maxUpcomingPerSeries {
			break
		}
		s.Upcoming = append(s.Upcoming, SeriesOccurrence{
			Occurrence: occ,
			EventID:    ev.ID,
			Slug:       ev.Slug,
		})
	}
	if len(s.Upcoming) > 0 {
		s.NextOccurrence = &s.Upcoming[0]
	}
	return s
}

// buildMultiRowSeries groups distinct event rows that share a series_id.
// Each row contributes its own date and its own id/slug.
func buildMultiRowSeries(key string, rows []*entity.Event, w Window) Series {
	s := Series{
		Key:    key,
		Events: rows,
	}
	if len(rows) > 0 {
		s.Title = rows[0].Title
	}

	start, errStart := ParseDateKey(w.StartKey)
	end, errEnd := ParseDateKey(w.EndKey)
	if errStart != nil || errEnd != nil {
		return s
	}

	for _, row := range rows {
		if row.EventDate == nil {
			continue
		}
		date, err := ParseDateKey(*row.EventDate)
		if err != nil || date.Before(start) || date.After(end) {
			continue
		}
		s.Upcoming = append(s.Upcoming, SeriesOccurrence{
			Occurrence: Occurrence{
				DateKey:     FormatDateKey(date),
				DisplayDate: date,
				IsConfident: true,
			},
			EventID: row.ID,
			Slug:    row.Slug,
		})
	}

	sort.Slice(s.Upcoming, func(i, j int) bool {
		return s.Upcoming[i].DateKey < s.Upcoming[j].DateKey
	})
	if len(s.Upcoming) > maxUpcomingPerSeries {
		s.Upcoming = s.Upcoming[:maxUpcomingPerSeries]
	}
	if len(s.Upcoming) > 0 {
		s.NextOccurrence = &s.Upcoming[0]
	}
	return s
}
