package entity

import "errors"

var (
	// Event errors
	ErrEventNotFound       = errors.New("event not found")
	ErrSlugTaken           = errors.New("event slug already in use")
	ErrEventNotPublished   = errors.New("event is not published")
	ErrEventCancelled      = errors.New("event is cancelled")
	ErrEventHasRSVPs       = errors.New("event has active RSVPs; cancel instead of deleting")
	ErrEventHasClaims      = errors.New("event has claimed slots; cancel instead of deleting")
	ErrEventNotDraft       = errors.New("only unpublished drafts may be deleted; cancel instead")
	ErrInvalidDateKey      = errors.New("invalid date key, expected YYYY-MM-DD")
	ErrOverrideFieldDenied = errors.New("override field is not allowed")

	// Venue errors
	ErrVenueNotFound = errors.New("venue not found")

	// RSVP errors
	ErrRSVPNotFound    = errors.New("rsvp not found")
	ErrAlreadyRSVPed   = errors.New("user already has an RSVP for this event")
	ErrNoOfferToAccept = errors.New("no pending offer to accept")
	ErrOfferExpired    = errors.New("waitlist offer has expired")

	// Slot errors
	ErrSlotNotFound   = errors.New("slot not found")
	ErrSlotTaken      = errors.New("slot already claimed")
	ErrAlreadyHasSlot = errors.New("performer already holds a slot for this event")
	ErrSlotNotHeld    = errors.New("slot is not held by this performer")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Host errors
	ErrHostRequestNotFound    = errors.New("host request not found")
	ErrRequestAlreadyReviewed = errors.New("host request already reviewed")
	ErrInviteNotFound         = errors.New("invite not found")
	ErrInviteExpired          = errors.New("invite has expired")
	ErrInviteUsed             = errors.New("invite already accepted")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden operation")
)
