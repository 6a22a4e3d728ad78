package entity

import "time"

type Venue struct {
	ID            int64    `json:"id" db:"id"`
	Slug          string   `json:"slug" db:"slug"`
	Name          string   `json:"name" db:"name"`
	Address       string   `json:"address" db:"address"`
	City          string   `json:"city" db:"city"`
	State         string   `json:"state" db:"state"`
	Zip           string   `json:"zip" db:"zip"`
	Lat           *float64 `json:"lat" db:"lat"`
	Lng           *float64 `json:"lng" db:"lng"`
	GoogleMapsURL string   `json:"google_maps_url" db:"google_maps_url"`
	WebsiteURL    string   `json:"website_url" db:"website_url"`
	ManagerID     *int64   `json:"manager_id" db:"manager_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasCoordinates reports whether the venue can be placed on the map.
func (v *Venue) HasCoordinates() bool {
	return v != nil && v.Lat != nil && v.Lng != nil
}
