package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/schedule"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Monday Open Mic", "monday-open-mic"},
		{"Songwriters' Circle @ The Walnut Room", "songwriters-circle-the-walnut-room"},
		{"  Trailing  ", "trailing"},
		{"ALL CAPS", "all-caps"},
		{"---", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.title), "slugify(%q)", tt.title)
	}
}

func TestCanManageEvent(t *testing.T) {
	event := &entity.Event{ID: 1, HostID: 10}

	host := &entity.User{ID: 10, Role: entity.RoleHost}
	otherHost := &entity.User{ID: 11, Role: entity.RoleHost}
	admin := &entity.User{ID: 99, Role: entity.RoleAdmin}

	assert.True(t, canManageEvent(host, event))
	assert.False(t, canManageEvent(otherHost, event))
	assert.True(t, canManageEvent(admin, event))
	assert.False(t, canManageEvent(nil, event))
}

func TestApplyOverridePatch(t *testing.T) {
	notes := "doors at 6"
	existing := &entity.OccurrenceOverride{
		Status: entity.OverrideStatusCancelled,
		Notes:  &notes,
	}

	t.Run("absent fields keep stored values", func(t *testing.T) {
		ov := *existing
		applyOverridePatch(&ov, &entity.OverridePatch{})
		assert.Equal(t, entity.OverrideStatusCancelled, ov.Status)
		require.NotNil(t, ov.Notes)
		assert.Equal(t, "doors at 6", *ov.Notes)
	})

	t.Run("explicit null clears back to inherit", func(t *testing.T) {
		ov := *existing
		applyOverridePatch(&ov, &entity.OverridePatch{
			Status: entity.PatchNull[entity.OverrideStatus](),
			Notes:  entity.PatchNull[string](),
		})
		assert.Equal(t, entity.OverrideStatusNormal, ov.Status)
		assert.Nil(t, ov.Notes)
	})

	t.Run("explicit value overrides, false included", func(t *testing.T) {
		ov := entity.OccurrenceOverride{}
		applyOverridePatch(&ov, &entity.OverridePatch{
			Status:       entity.PatchOf(entity.OverrideStatusCancelled),
			HasTimeslots: entity.PatchOf(false),
			VenueID:      entity.PatchOf(int64(7)),
		})
		assert.Equal(t, entity.OverrideStatusCancelled, ov.Status)
		require.NotNil(t, ov.HasTimeslots)
		assert.False(t, *ov.HasTimeslots)
		require.NotNil(t, ov.VenueID)
		assert.Equal(t, int64(7), *ov.VenueID)
	})
}

func TestUpsertOverrideRejectsDeniedFields(t *testing.T) {
	svc := &eventService{}

	raw := map[string]any{"capacity": 50}
	_, err := svc.UpsertOverride(context.Background(), nil, 1, "2026-03-02", raw, &entity.OverridePatch{})
	assert.ErrorIs(t, err, entity.ErrOverrideFieldDenied)

	_, err = svc.UpsertOverride(context.Background(), nil, 1, "not-a-date", nil, &entity.OverridePatch{})
	assert.ErrorIs(t, err, entity.ErrInvalidDateKey)
}

func TestWindowDefaults(t *testing.T) {
	svc := &eventService{defaultWindowDays: 90, maxOccurrences: 100}

	t.Run("empty bounds default to today plus horizon", func(t *testing.T) {
		w, err := svc.window("", "")
		require.NoError(t, err)

		today := schedule.FormatDateKey(time.Now().UTC())
		assert.Equal(t, today, w.StartKey)

		start, err := schedule.ParseDateKey(w.StartKey)
		require.NoError(t, err)
		assert.Equal(t, schedule.FormatDateKey(start.AddDate(0, 0, 90)), w.EndKey)
		assert.Equal(t, 100, w.MaxOccurrences)
	})

	t.Run("start only extends by horizon", func(t *testing.T) {
		w, err := svc.window("2026-03-01", "")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-01", w.StartKey)
		assert.Equal(t, "2026-05-30", w.EndKey)
	})

	t.Run("malformed keys are rejected", func(t *testing.T) {
		_, err := svc.window("03/01/2026", "")
		assert.ErrorIs(t, err, entity.ErrInvalidDateKey)

		_, err = svc.window("2026-03-01", "soon")
		assert.ErrorIs(t, err, entity.ErrInvalidDateKey)
	})
}
