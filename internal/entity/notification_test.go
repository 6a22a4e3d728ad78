package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferenceShapesAgree(t *testing.T) {
	assert.Len(t, DefaultPreferences, 8)
	assert.Len(t, EmailCategoryMap, 7)

	// Every category routes to a key the defaults know about.
	for category, key := range EmailCategoryMap {
		_, ok := DefaultPreferences[key]
		assert.True(t, ok, "category %s maps to unknown key %s", category, key)
	}
}

func TestEmailAllowed(t *testing.T) {
	tests := []struct {
		name     string
		prefs    *NotificationPreferences
		category NotificationCategory
		want     bool
	}{
		{
			name:     "nil preferences fall back to defaults",
			prefs:    nil,
			category: CategoryRSVP,
			want:     true,
		},
		{
			name:     "host emails default off",
			prefs:    nil,
			category: CategoryHost,
			want:     false,
		},
		{
			name: "master switch off blocks everything",
			prefs: &NotificationPreferences{Prefs: map[string]bool{
				"email_enabled": false,
				"email_rsvp":    true,
			}},
			category: CategoryRSVP,
			want:     false,
		},
		{
			name: "explicit category opt-out",
			prefs: &NotificationPreferences{Prefs: map[string]bool{
				"email_enabled":  true,
				"email_waitlist": false,
			}},
			category: CategoryWaitlist,
			want:     false,
		},
		{
			name: "unset category key uses default",
			prefs: &NotificationPreferences{Prefs: map[string]bool{
				"email_enabled": true,
			}},
			category: CategoryReminders,
			want:     true,
		},
		{
			name:     "unknown category never emails",
			prefs:    nil,
			category: NotificationCategory("made_up"),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.prefs.EmailAllowed(tt.category))
		})
	}
}
