package entity

import (
	"time"
)

type RSVPStatus string

const (
	RSVPStatusConfirmed RSVPStatus = "confirmed"
	RSVPStatusWaitlist  RSVPStatus = "waitlist"
	RSVPStatusOffered   RSVPStatus = "offered"
	RSVPStatusCancelled RSVPStatus = "cancelled"
)

type RSVP struct {
	ID               int64      `json:"id" db:"id"`
	EventID          int64      `json:"event_id" db:"event_id"`
	UserID           int64      `json:"user_id" db:"user_id"`
	Status           RSVPStatus `json:"status" db:"status"`
	WaitlistPosition *int       `json:"waitlist_position" db:"waitlist_position"`
	OfferExpiresAt   *time.Time `json:"offer_expires_at" db:"offer_expires_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// ExpiredOffer is the row shape the expiry sweep works with: enough context
// to revert the offer and notify the user without extra lookups.
type ExpiredOffer struct {
	RSVPID         int64     `json:"rsvp_id"`
	OfferExpiresAt time.Time `json:"offer_expires_at"`
	UserID         int64     `json:"user_id"`
	EventID        int64     `json:"event_id"`
	UserEmail      string    `json:"user_email"`
	UserName       string    `json:"user_name"`
	EventTitle     string    `json:"event_title"`
}
