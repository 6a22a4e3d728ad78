package schedule

import (
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

// DefaultMaxPins caps map rendering. Exceeding it returns an empty pin set
// with LimitExceeded set, so the caller shows a "zoom in" fallback instead
// of a silently incomplete map.
const DefaultMaxPins = 300

type PinOccurrence struct {
	EventID    int64  `json:"event_id"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	DateKey    string `json:"date_key"`
	SignupMeta string `json:"signup_meta,omitempty"`
}

type MapPin struct {
	VenueID   *int64          `json:"venue_id"`
	VenueName string          `json:"venue_name"`
	Lat       float64         `json:"lat"`
	Lng       float64         `json:"lng"`
	Events    []PinOccurrence `json:"events"`
}

type MapPinResult struct {
	Pins          []MapPin `json:"pins"`
	LimitExceeded bool     `json:"limit_exceeded"`
}

// BuildMapPins groups resolved occurrences by display coordinates.
// Coordinate precedence per occurrence: the override's venue, then the base
// event's joined venue, then the event's custom lat/lng. Occurrences with
// no resolvable coordinates are dropped with a logged reason; online-only
// events never appear.
func BuildMapPins(resolved []ResolvedOccurrence, maxPins int) MapPinResult {
	if maxPins <= 0 {
		maxPins = DefaultMaxPins
	}

	type pinKey struct {
		lat, lng float64
	}
	pinsByKey := make(map[pinKey]*MapPin)
	var order []pinKey

	for i := range resolved {
		occ := &resolved[i]
		if occ.Event.IsOnline {
			continue
		}
		if occ.Status == entity.OverrideStatusCancelled {
			continue
		}

		venueID, name, lat, lng, ok := resolveCoordinates(occ)
		if !ok {
			logrus.WithFields(logrus.Fields{
				"event_id": occ.Event.ID,
				"date_key": occ.DateKey,
			}).Debug("map pin skipped: no resolvable coordinates")
			continue
		}

		key := pinKey{lat: lat, lng: lng}
		pin, exists := pinsByKey[key]
		if !exists {
			pin = &MapPin{VenueID: venueID, VenueName: name, Lat: lat, Lng: lng}
			pinsByKey[key] = pin
			order = append(order, key)
			if len(order) > maxPins {
				return MapPinResult{LimitExceeded: true}
			}
		}
		pin.Events = append(pin.Events, PinOccurrence{
			EventID:    occ.Event.ID,
			Slug:       occ.Event.Slug,
			Title:      occ.Event.Title,
			DateKey:    occ.DateKey,
			SignupMeta: occ.SignupMeta,
		})
	}

	result := MapPinResult{Pins: make([]MapPin, 0, len(order))}
	for _, key := range order {
		result.Pins = append(result.Pins, *pinsByKey[key])
	}
	return result
}

func resolveCoordinates(occ *ResolvedOccurrence) (venueID *int64, name string, lat, lng float64, ok bool) {
	if occ.OverrideVenue.HasCoordinates() {
		v := occ.OverrideVenue
		return &v.ID, v.Name, *v.Lat, *v.Lng, true
	}
	if occ.Venue.HasCoordinates() {
		v := occ.Venue
		return &v.ID, v.Name, *v.Lat, *v.Lng, true
	}
	ev := occ.Event
	if ev.CustomLat != nil && ev.CustomLng != nil {
		name := ev.Title
		if ev.CustomAddress != nil {
			name = *ev.CustomAddress
		}
		return nil, name, *ev.CustomLat, *ev.CustomLng, true
	}
	return nil, "", 0, 0, false
}

// VenueDirectionsURL builds a Google Maps directions link for the venue.
// Spaces encode as %20 and commas as %2C; consumers compare these URLs
// byte-for-byte.
func VenueDirectionsURL(v *entity.Venue) string {
	destination := v.Name + " " + v.Address + ", " + v.City + ", " + v.State + ", " + v.Zip
	escaped := strings.ReplaceAll(url.QueryEscape(destination), "+", "%20")
	return "https://www.google.com/maps/dir/?api=1&destination=" + escaped
}
