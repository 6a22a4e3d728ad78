package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeOfDayUnmarshalJSON(t *testing.T) {
	type payload struct {
		StartTime TimeOfDay `json:"start_time"`
	}

	t.Run("quoted HH:MM parses", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"start_time":"19:30"}`), &p))
		assert.Equal(t, "19:30", p.StartTime.Format(timeOfDayLayout))
	})

	t.Run("null leaves the zero value", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"start_time":null}`), &p))
		assert.True(t, p.StartTime.IsZero())
	})

	t.Run("non-string tokens are rejected, not a panic", func(t *testing.T) {
		for _, body := range []string{
			`{"start_time":5}`,
			`{"start_time":true}`,
			`{"start_time":{}}`,
			`{"start_time":""}`,
		} {
			var p payload
			err := json.Unmarshal([]byte(body), &p)
			assert.Error(t, err, "body %s", body)
		}
	})

	t.Run("malformed clock string", func(t *testing.T) {
		var p payload
		assert.Error(t, json.Unmarshal([]byte(`{"start_time":"25:99"}`), &p))
	})
}

func TestTimeOfDayFormat12Hour(t *testing.T) {
	assert.Equal(t, "7:30 PM", NewTimeOfDay(19, 30).Format12Hour())
	assert.Equal(t, "12:05 AM", NewTimeOfDay(0, 5).Format12Hour())
}
