package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

func floatPtr(f float64) *float64 { return &f }

func venueWithCoords(id int64, name string, lat, lng float64) *entity.Venue {
	return &entity.Venue{ID: id, Name: name, Lat: floatPtr(lat), Lng: floatPtr(lng)}
}

func TestBuildMapPinsCoordinatePrecedence(t *testing.T) {
	baseVenue := venueWithCoords(1, "Tavern on 26th", 39.75, -105.11)
	overrideVenue := venueWithCoords(2, "Backup Room", 39.80, -105.00)

	tests := []struct {
		name     string
		occ      ResolvedOccurrence
		wantName string
		wantLat  float64
	}{
		{
			name: "override venue wins",
			occ: ResolvedOccurrence{
				Event:         &entity.Event{ID: 1, Slug: "a"},
				DateKey:       "2026-01-13",
				Venue:         baseVenue,
				OverrideVenue: overrideVenue,
			},
			wantName: "Backup Room",
			wantLat:  39.80,
		},
		{
			name: "base venue next",
			occ: ResolvedOccurrence{
				Event:   &entity.Event{ID: 1, Slug: "a"},
				DateKey: "2026-01-13",
				Venue:   baseVenue,
			},
			wantName: "Tavern on 26th",
			wantLat:  39.75,
		},
		{
			name: "custom coordinates last",
			occ: ResolvedOccurrence{
				Event: &entity.Event{
					ID: 1, Slug: "a", Title: "House Show",
					CustomLat: floatPtr(39.70), CustomLng: floatPtr(-104.99),
				},
				DateKey: "2026-01-13",
			},
			wantName: "House Show",
			wantLat:  39.70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildMapPins([]ResolvedOccurrence{tt.occ}, 0)
			require.Len(t, result.Pins, 1)
			assert.False(t, result.LimitExceeded)
			assert.Equal(t, tt.wantName, result.Pins[0].VenueName)
			assert.Equal(t, tt.wantLat, result.Pins[0].Lat)
		})
	}
}

func TestBuildMapPinsExclusions(t *testing.T) {
	occs := []ResolvedOccurrence{
		{Event: &entity.Event{ID: 1, Slug: "online", IsOnline: true}, DateKey: "2026-01-13",
			Venue: venueWithCoords(1, "V", 1, 1)},
		{Event: &entity.Event{ID: 2, Slug: "no-coords"}, DateKey: "2026-01-13"},
		{Event: &entity.Event{ID: 3, Slug: "cancelled"}, DateKey: "2026-01-13",
			Status: entity.OverrideStatusCancelled, Venue: venueWithCoords(2, "W", 2, 2)},
		{Event: &entity.Event{ID: 4, Slug: "ok"}, DateKey: "2026-01-13",
			Venue: venueWithCoords(3, "X", 3, 3)},
	}

	result := BuildMapPins(occs, 0)
	require.Len(t, result.Pins, 1)
	assert.Equal(t, "X", result.Pins[0].VenueName)
}

func TestBuildMapPinsGroupsByVenue(t *testing.T) {
	venue := venueWithCoords(1, "Tavern on 26th", 39.75, -105.11)
	occs := []ResolvedOccurrence{
		{Event: &entity.Event{ID: 1, Slug: "mic-a", Title: "Mic A"}, DateKey: "2026-01-13", Venue: venue},
		{Event: &entity.Event{ID: 2, Slug: "mic-b", Title: "Mic B"}, DateKey: "2026-01-14", Venue: venue},
	}

	result := BuildMapPins(occs, 0)
	require.Len(t, result.Pins, 1)
	assert.Len(t, result.Pins[0].Events, 2)
}

func TestBuildMapPinsLimitExceeded(t *testing.T) {
	var occs []ResolvedOccurrence
	for i := 0; i < 20; i++ {
		occs = append(occs, ResolvedOccurrence{
			Event:   &entity.Event{ID: int64(i), Slug: fmt.Sprintf("ev-%d", i)},
			DateKey: "2026-01-13",
			Venue:   venueWithCoords(int64(i), fmt.Sprintf("V%d", i), float64(i), float64(i)),
		})
	}

	result := BuildMapPins(occs, 10)
	// Over the cap the result is empty with the flag set, not partial.
	assert.Empty(t, result.Pins)
	assert.True(t, result.LimitExceeded)
}

func TestVenueDirectionsURL(t *testing.T) {
	v := &entity.Venue{
		Name:    "Tavern on 26th",
		Address: "10040 W 26th Ave",
		City:    "Lakewood",
		State:   "CO",
		Zip:     "80215",
	}
	assert.Equal(t,
		"https://www.google.com/maps/dir/?api=1&destination=Tavern%20on%2026th%2010040%20W%2026th%20Ave%2C%20Lakewood%2C%20CO%2C%2080215",
		VenueDirectionsURL(v),
	)
}
