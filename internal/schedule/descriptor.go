package schedule

import (
	"sort"
	"strings"
	"time"
)

type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// OrdinalLast marks a "last <weekday> of the month" rule.
const OrdinalLast = -1

// Descriptor is the structured form of an event's recurrence description.
// It is derived on each read, never persisted.
type Descriptor struct {
	IsRecurring    bool
	Frequency      Frequency
	Ordinals       []int // 1..5, or OrdinalLast; empty for weekly
	DayOfWeekIndex int   // 0=Sunday .. 6=Saturday; -1 when unresolved
	DayName        string
	IsConfident    bool
}

var dayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var ordinalTokens = map[string]int{
	"1st":    1,
	"first":  1,
	"2nd":    2,
	"second": 2,
	"3rd":    3,
	"third":  3,
	"4th":    4,
	"fourth": 4,
	"5th":    5,
	"fifth":  5,
	"last":   OrdinalLast,
}

// InterpretRecurrence parses a recurrence rule string plus a day-of-week
// name and optional anchor date into a Descriptor. Recognized rules:
// "weekly", single ordinals ("1st".."5th", "last") and multi-ordinal
// variants joined by "/", "&", "," or "and" ("2nd/4th", "1st & 3rd").
// Anything else yields a non-recurring descriptor.
func InterpretRecurrence(eventDate *string, dayOfWeek, recurrenceRule string) Descriptor {
	desc := Descriptor{DayOfWeekIndex: -1}

	if wd, ok := dayNames[strings.ToLower(strings.TrimSpace(dayOfWeek))]; ok {
		desc.DayOfWeekIndex = int(wd)
		desc.DayName = wd.String()
	} else if eventDate != nil {
		// No usable day name; fall back to the anchor date's weekday.
		if t, err := ParseDateKey(*eventDate); err == nil {
			desc.DayOfWeekIndex = int(t.Weekday())
			desc.DayName = t.Weekday().String()
		}
	}

	rule := strings.ToLower(strings.TrimSpace(recurrenceRule))
	if rule == "" {
		return desc
	}

	if rule == "weekly" || rule == "every week" {
		desc.IsRecurring = true
		desc.Frequency = FrequencyWeekly
	} else if ordinals, ok := parseOrdinals(rule); ok {
		desc.IsRecurring = true
		desc.Frequency = FrequencyMonthly
		desc.Ordinals = ordinals
	} else {
		// Unparseable rule: not recurring, lands in the unknown bucket
		// unless the event carries a real date.
		return desc
	}

	desc.IsConfident = desc.DayOfWeekIndex >= 0
	return desc
}

// parseOrdinals splits an ordinal rule into its parts. "2nd/4th",
// "1st & 3rd" and "2nd and 4th" all normalize to the same ordinal set.
// Returns false when any token fails to parse.
func parseOrdinals(rule string) ([]int, bool) {
	normalized := rule
	for _, sep := range []string{" and ", "&", ","} {
		normalized = strings.ReplaceAll(normalized, sep, "/")
	}

	seen := make(map[int]bool)
	var ordinals []int
	for _, raw := range strings.Split(normalized, "/") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		// Tolerate trailing weekday words ("2nd tuesday").
		if idx := strings.IndexByte(token, ' '); idx > 0 {
			rest := strings.TrimSpace(token[idx+1:])
			if _, ok := dayNames[rest]; ok {
				token = token[:idx]
			}
		}
		ord, ok := ordinalTokens[token]
		if !ok {
			return nil, false
		}
		if !seen[ord] {
			seen[ord] = true
			ordinals = append(ordinals, ord)
		}
	}
	if len(ordinals) == 0 {
		return nil, false
	}

	// Numeric ordinals ascending, "last" at the end.
	sort.Slice(ordinals, func(i, j int) bool {
		a, b := ordinals[i], ordinals[j]
		if a == OrdinalLast {
			return false
		}
		if b == OrdinalLast {
			return true
		}
		return a < b
	})
	return ordinals, true
}
