package entity

import "time"

type NotificationCategory string

const (
	CategoryRSVP          NotificationCategory = "rsvp"
	CategoryWaitlist      NotificationCategory = "waitlist"
	CategorySlots         NotificationCategory = "slots"
	CategoryEventChanges  NotificationCategory = "event_changes"
	CategoryReminders     NotificationCategory = "reminders"
	CategoryHost          NotificationCategory = "host"
	CategoryAnnouncements NotificationCategory = "announcements"
)

type Notification struct {
	ID        int64                `json:"id" db:"id"`
	UserID    int64                `json:"user_id" db:"user_id"`
	Category  NotificationCategory `json:"category" db:"category"`
	Title     string               `json:"title" db:"title"`
	Body      string               `json:"body" db:"body"`
	EventID   *int64               `json:"event_id" db:"event_id"`
	ReadAt    *time.Time           `json:"read_at" db:"read_at"`
	CreatedAt time.Time            `json:"created_at" db:"created_at"`
}

// DefaultPreferences is the preference set a new user starts with:
// a master email switch plus one key per email category.
var DefaultPreferences = map[string]bool{
	"email_enabled":       true,
	"email_rsvp":          true,
	"email_waitlist":      true,
	"email_slots":         true,
	"email_event_changes": true,
	"email_reminders":     true,
	"email_host":          false,
	"email_announcements": true,
}

// EmailCategoryMap routes a notification category to the preference key
// that gates its outbound email.
var EmailCategoryMap = map[NotificationCategory]string{
	CategoryRSVP:          "email_rsvp",
	CategoryWaitlist:      "email_waitlist",
	CategorySlots:         "email_slots",
	CategoryEventChanges:  "email_event_changes",
	CategoryReminders:     "email_reminders",
	CategoryHost:          "email_host",
	CategoryAnnouncements: "email_announcements",
}

type NotificationPreferences struct {
	UserID    int64           `json:"user_id" db:"user_id"`
	Prefs     map[string]bool `json:"prefs"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// EmailAllowed reports whether an email for the category should be sent
// given the user's preferences. Unknown keys fall back to the defaults.
func (p *NotificationPreferences) EmailAllowed(category NotificationCategory) bool {
	key, ok := EmailCategoryMap[category]
	if !ok {
		return false
	}
	if p == nil || p.Prefs == nil {
		return DefaultPreferences["email_enabled"] && DefaultPreferences[key]
	}
	master, ok := p.Prefs["email_enabled"]
	if !ok {
		master = DefaultPreferences["email_enabled"]
	}
	if !master {
		return false
	}
	v, ok := p.Prefs[key]
	if !ok {
		return DefaultPreferences[key]
	}
	return v
}
