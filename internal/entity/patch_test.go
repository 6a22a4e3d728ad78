package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchDistinguishesAbsentNullAndValue(t *testing.T) {
	type payload struct {
		HasTimeslots Patch[bool]      `json:"has_timeslots"`
		Notes        Patch[string]    `json:"notes"`
		SignupTime   Patch[TimeOfDay] `json:"signup_time"`
	}

	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, p payload)
	}{
		{
			name: "omitted field stays absent",
			body: `{}`,
			check: func(t *testing.T, p payload) {
				assert.False(t, p.HasTimeslots.Present)
				assert.False(t, p.Notes.Present)
			},
		},
		{
			name: "explicit null is present with no value",
			body: `{"notes": null}`,
			check: func(t *testing.T, p payload) {
				assert.True(t, p.Notes.Present)
				assert.Nil(t, p.Notes.Value)
			},
		},
		{
			name: "explicit false is present with a value",
			body: `{"has_timeslots": false}`,
			check: func(t *testing.T, p payload) {
				require.True(t, p.HasTimeslots.Present)
				require.NotNil(t, p.HasTimeslots.Value)
				assert.False(t, *p.HasTimeslots.Value)
			},
		},
		{
			name: "time value decodes",
			body: `{"signup_time": "18:30"}`,
			check: func(t *testing.T, p payload) {
				require.True(t, p.SignupTime.Present)
				require.NotNil(t, p.SignupTime.Value)
				assert.Equal(t, "18:30", p.SignupTime.Value.Format("15:04"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			tt.check(t, p)
		})
	}
}

func TestTimeOfDayFormat12HourTable(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         string
	}{
		{19, 30, "7:30 PM"},
		{9, 0, "9:00 AM"},
		{0, 5, "12:05 AM"},
		{12, 0, "12:00 PM"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewTimeOfDay(tt.hour, tt.minute).Format12Hour())
	}
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan([]byte("19:30:00")))
	assert.Equal(t, "19:30", tod.Format("15:04"))

	require.NoError(t, tod.Scan("08:15:00"))
	assert.Equal(t, "08:15", tod.Format("15:04"))

	assert.Error(t, tod.Scan(42))
}
