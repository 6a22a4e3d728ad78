package entity

import (
	"fmt"
)

// EventRSVPStats is the per-event attendance breakdown shown on host and
// admin dashboards.
type EventRSVPStats struct {
	EventID        int64 `json:"event_id"`
	Capacity       int   `json:"capacity"`
	ConfirmedCount int   `json:"confirmed_count"`
	WaitlistCount  int   `json:"waitlist_count"`
	OfferedCount   int   `json:"offered_count"`
	CancelledCount int   `json:"cancelled_count"`
}

// AvailableSpots reports how many confirmed spots remain.
func (s *EventRSVPStats) AvailableSpots() int {
	spots := s.Capacity - s.ConfirmedCount - s.OfferedCount
	if spots < 0 {
		return 0
	}
	return spots
}

// IsFull reports whether confirmed plus outstanding offers consume the
// capacity. Offered spots are held until the offer expires.
func (s *EventRSVPStats) IsFull() bool {
	return s.Capacity > 0 && s.ConfirmedCount+s.OfferedCount >= s.Capacity
}

func (s *EventRSVPStats) UtilizationRate() float64 {
	if s.Capacity == 0 {
		return 0.0
	}
	return float64(s.ConfirmedCount) / float64(s.Capacity)
}

func (s *EventRSVPStats) String() string {
	return fmt.Sprintf(
		"Event %d: %d/%d confirmed, %d waitlisted, %d offered",
		s.EventID, s.ConfirmedCount, s.Capacity, s.WaitlistCount, s.OfferedCount,
	)
}
