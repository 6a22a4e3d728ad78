// Package schedule resolves an event's recurrence description and per-date
// overrides into the concrete calendar occurrences display routes consume.
// Everything here is pure computation over already-fetched rows; no I/O.
package schedule

import (
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

const dateKeyLayout = "2006-01-02"

// ParseDateKey parses a YYYY-MM-DD key into a UTC-noon instant. Anchoring
// at noon keeps date arithmetic from drifting across timezone boundaries
// the way local-midnight math does.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(dateKeyLayout, key)
	if err != nil {
		return time.Time{}, entity.ErrInvalidDateKey
	}
	return atNoon(t), nil
}

func FormatDateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

func IsValidDateKey(key string) bool {
	_, err := time.Parse(dateKeyLayout, key)
	return err == nil
}

func atNoon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}
