package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretRecurrence(t *testing.T) {
	anchor := "2026-01-13"

	tests := []struct {
		name      string
		eventDate *string
		dayOfWeek string
		rule      string
		want      Descriptor
	}{
		{
			name:      "weekly with day name",
			dayOfWeek: "Tuesday",
			rule:      "weekly",
			want: Descriptor{
				IsRecurring:    true,
				Frequency:      FrequencyWeekly,
				DayOfWeekIndex: 2,
				DayName:        "Tuesday",
				IsConfident:    true,
			},
		},
		{
			name:      "single ordinal",
			dayOfWeek: "friday",
			rule:      "3rd",
			want: Descriptor{
				IsRecurring:    true,
				Frequency:      FrequencyMonthly,
				Ordinals:       []int{3},
				DayOfWeekIndex: 5,
				DayName:        "Friday",
				IsConfident:    true,
			},
		},
		{
			name:      "slash pair",
			dayOfWeek: "Tuesday",
			rule:      "2nd/4th",
			want: Descriptor{
				IsRecurring:    true,
				Frequency:      FrequencyMonthly,
				Ordinals:       []int{2, 4},
				DayOfWeekIndex: 2,
				DayName:        "Tuesday",
				IsConfident:    true,
			},
		},
		{
			name:      "ampersand pair",
			dayOfWeek: "Monday",
			rule:      "1st & 3rd",
			want: Descriptor{
				IsRecurring:    true,
				Frequency:      FrequencyMonthly,
				Ordinals:       []int{1, 3},
				DayOfWeekIndex: 1,
				DayName:        "Monday",
				IsConfident:    true,
			},
		},
		{
			name:      "textual and pair",
			dayOfWeek: "Saturday",
			rule:      "2nd and 4th",
			want: Descriptor{
				IsRecurring:    true,
				Frequency:      FrequencyMonthly,
				Ordinals:       []int{2, 4},
				DayOfWeekIndex: 6,
				DayName:        "Saturday",
				IsConfident:    true,
			},
		},
		{
			name:      "last ordinal sorts after numerics",
			dayOfWeek: "Thursday",
			rule:      "1st/last",
			want: Descriptor{
				IsRecurring:    true,
				Frequency:      FrequencyMonthly,
				Ordinals:       []int{1, OrdinalLast},
				DayOfWeekIndex: 4,
				DayName:        "Thursday",
				IsConfident:    true,
			},
		},
		{
			name: "ordinal with trailing weekday word",
			rule: "2nd tuesday",
			want: Descriptor{
				IsRecurring:    true,
				Frequency:      FrequencyMonthly,
				Ordinals:       []int{2},
				DayOfWeekIndex: -1,
			},
		},
		{
			name:      "recognized rule but no weekday is not confident",
			dayOfWeek: "",
			rule:      "weekly",
			want: Descriptor{
				IsRecurring:    true,
				Frequency:      FrequencyWeekly,
				DayOfWeekIndex: -1,
			},
		},
		{
			name:      "weekday falls back to anchor date",
			eventDate: &anchor, // a Tuesday
			rule:      "weekly",
			want: Descriptor{
				IsRecurring:    true,
				Frequency:      FrequencyWeekly,
				DayOfWeekIndex: 2,
				DayName:        "Tuesday",
				IsConfident:    true,
			},
		},
		{
			name:      "empty rule is not recurring",
			dayOfWeek: "Tuesday",
			rule:      "",
			want: Descriptor{
				DayOfWeekIndex: 2,
				DayName:        "Tuesday",
			},
		},
		{
			name:      "garbage rule is not recurring",
			dayOfWeek: "Tuesday",
			rule:      "whenever we feel like it",
			want: Descriptor{
				DayOfWeekIndex: 2,
				DayName:        "Tuesday",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpretRecurrence(tt.eventDate, tt.dayOfWeek, tt.rule)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpretRecurrenceCaseInsensitiveDay(t *testing.T) {
	for _, day := range []string{"TUESDAY", "tuesday", "Tuesday", " tuesday "} {
		got := InterpretRecurrence(nil, day, "weekly")
		assert.Equal(t, 2, got.DayOfWeekIndex, "day %q", day)
		assert.True(t, got.IsConfident)
	}
}
