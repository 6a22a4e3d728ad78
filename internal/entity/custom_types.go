package entity

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with no date attached, stored in a
// Postgres TIME column and serialized as "HH:MM".
type TimeOfDay struct {
	time.Time
}

const timeOfDayLayout = "15:04"

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{Time: time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)}
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return TimeOfDay{}, err
	}
	return TimeOfDay{Time: t}, nil
}

func (ct *TimeOfDay) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	// Anything but a quoted string (numbers, bools, objects) is a client error,
	// not a reason to panic on the slice below.
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("cannot parse %s as TimeOfDay, want \"HH:MM\"", b)
	}
	t, err := time.Parse(timeOfDayLayout, string(b[1:len(b)-1]))
	if err != nil {
		return err
	}
	ct.Time = t
	return nil
}

func (ct TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ct.Format(timeOfDayLayout) + `"`), nil
}

// Format12Hour renders the time the way signup metadata displays it,
// e.g. "7:30 PM".
func (ct TimeOfDay) Format12Hour() string {
	return ct.Format("3:04 PM")
}

// AddMinutes offsets within the same day; timeslot runs never cross midnight.
func (ct TimeOfDay) AddMinutes(minutes int) TimeOfDay {
	return TimeOfDay{Time: ct.Time.Add(time.Duration(minutes) * time.Minute)}
}

func (ct TimeOfDay) Value() (driver.Value, error) {
	return ct.Format("15:04:05"), nil
}

func (ct *TimeOfDay) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		ct.Time = v
	case []byte:
		return ct.scanString(string(v))
	case string:
		return ct.scanString(v)
	default:
		return fmt.Errorf("cannot scan type %T into TimeOfDay", value)
	}
	return nil
}

func (ct *TimeOfDay) scanString(s string) error {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			ct.Time = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as TimeOfDay", s)
}
