package schedule

import (
	"sort"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

// DefaultMaxOccurrences caps expansion so a degenerate rule cannot generate
// unbounded output.
const DefaultMaxOccurrences = 100

// Window bounds an expansion request.
type Window struct {
	StartKey       string
	EndKey         string
	MaxOccurrences int
}

// Occurrence is one concrete calendar date produced by expansion.
type Occurrence struct {
	DateKey     string    `json:"date_key"`
	DisplayDate time.Time `json:"display_date"`
	IsConfident bool      `json:"is_confident"`
}

// ExpandOccurrencesForEvent produces the ordered occurrence dates for an
// event inside the window. Results are ascending, deduplicated, and capped
// at MaxOccurrences. An event with a valid pattern but no event_date
// expands from the pattern alone; a non-recurring event yields its single
// date when it falls inside the window.
func ExpandOccurrencesForEvent(ev *entity.Event, w Window) ([]Occurrence, error) {
	start, err := ParseDateKey(w.StartKey)
	if err != nil {
		return nil, err
	}
	end, err := ParseDateKey(w.EndKey)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, entity.ErrInvalidDateKey
	}
	maxOccurrences := w.MaxOccurrences
	if maxOccurrences <= 0 {
		maxOccurrences = DefaultMaxOccurrences
	}

	desc := InterpretRecurrence(ev.EventDate, ev.DayOfWeek, ev.RecurrenceRule)

	if !desc.IsRecurring || !desc.IsConfident {
		if ev.EventDate == nil {
			return nil, nil
		}
		date, err := ParseDateKey(*ev.EventDate)
		if err != nil {
			return nil, err
		}
		if date.Before(start) || date.After(end) {
			return nil, nil
		}
		return []Occurrence{{
			DateKey:     FormatDateKey(date),
			DisplayDate: date,
			IsConfident: true,
		}}, nil
	}

	var dates []time.Time
	switch desc.Frequency {
	case FrequencyWeekly:
		dates = expandWeekly(desc, start, end, maxOccurrences)
	case FrequencyMonthly:
		dates = expandOrdinalMonthly(desc, start, end, maxOccurrences)
	}

	occurrences := make([]Occurrence, 0, len(dates))
	for _, d := range dates {
		occurrences = append(occurrences, Occurrence{
			DateKey:     FormatDateKey(d),
			DisplayDate: d,
			IsConfident: desc.IsConfident,
		})
	}
	return occurrences, nil
}

// expandWeekly steps 7 days at a time from the first matching weekday on or
// after the window start.
func expandWeekly(desc Descriptor, start, end time.Time, limit int) []time.Time {
	current := start
	offset := (desc.DayOfWeekIndex - int(start.Weekday()) + 7) % 7
	current = current.AddDate(0, 0, offset)

	var dates []time.Time
	for !current.After(end) && len(dates) < limit {
		dates = append(dates, current)
		current = current.AddDate(0, 0, 7)
	}
	return dates
}

// expandOrdinalMonthly walks each month overlapping the window and emits
// the requested ordinal weekdays, sorted and window-filtered. Multiple
// ordinals in one rule produce multiple dates per month.
func expandOrdinalMonthly(desc Descriptor, start, end time.Time, limit int) []time.Time {
	var dates []time.Time

	month := time.Date(start.Year(), start.Month(), 1, 12, 0, 0, 0, time.UTC)
	for !month.After(end) {
		var monthDates []time.Time
		for _, ord := range desc.Ordinals {
			d, ok := nthWeekdayOfMonth(month.Year(), month.Month(), time.Weekday(desc.DayOfWeekIndex), ord)
			if !ok {
				continue
			}
			if d.Before(start) || d.After(end) {
				continue
			}
			monthDates = append(monthDates, d)
		}
		sort.Slice(monthDates, func(i, j int) bool { return monthDates[i].Before(monthDates[j]) })

		for _, d := range monthDates {
			if len(dates) >= limit {
				return dates
			}
			dates = append(dates, d)
		}
		month = month.AddDate(0, 1, 0)
	}
	return dates
}

// nthWeekdayOfMonth returns the nth (1-based) occurrence of weekday in the
// month, or the last occurrence when n is OrdinalLast. ok is false when the
// month has no nth occurrence (e.g. no 5th Tuesday).
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) (time.Time, bool) {
	first := time.Date(year, month, 1, 12, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	if n == OrdinalLast {
		last := time.Date(year, month, daysInMonth, 12, 0, 0, 0, time.UTC)
		back := (int(last.Weekday()) - int(weekday) + 7) % 7
		return last.AddDate(0, 0, -back), true
	}

	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + 7*(n-1)
	if day > daysInMonth {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC), true
}

// NextOccurrence returns the first occurrence on or after the given date
// key, looking ahead up to horizonDays.
func NextOccurrence(ev *entity.Event, fromKey string, horizonDays int) (*Occurrence, error) {
	from, err := ParseDateKey(fromKey)
	if err != nil {
		return nil, err
	}
	w := Window{
		StartKey:       fromKey,
		EndKey:         FormatDateKey(from.AddDate(0, 0, horizonDays)),
		MaxOccurrences: 1,
	}
	occ, err := ExpandOccurrencesForEvent(ev, w)
	if err != nil || len(occ) == 0 {
		return nil, err
	}
	return &occ[0], nil
}
