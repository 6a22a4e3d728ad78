package entity

import "time"

type HostRequestStatus string

const (
	HostRequestPending  HostRequestStatus = "pending"
	HostRequestApproved HostRequestStatus = "approved"
	HostRequestDenied   HostRequestStatus = "denied"
)

// HostRequest is a member's application to become an event host, reviewed
// by an admin.
type HostRequest struct {
	ID         int64             `json:"id" db:"id"`
	UserID     int64             `json:"user_id" db:"user_id"`
	Message    string            `json:"message" db:"message"`
	Status     HostRequestStatus `json:"status" db:"status"`
	ReviewedBy *int64            `json:"reviewed_by" db:"reviewed_by"`
	ReviewedAt *time.Time        `json:"reviewed_at" db:"reviewed_at"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}

// HostInvite lets a host hand co-host access to an event via a tokenized
// link. The token is single-use and expires.
type HostInvite struct {
	ID         int64      `json:"id" db:"id"`
	EventID    int64      `json:"event_id" db:"event_id"`
	Token      string     `json:"token" db:"token"`
	Email      string     `json:"email" db:"email"`
	CreatedBy  int64      `json:"created_by" db:"created_by"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at" db:"accepted_at"`
	AcceptedBy *int64     `json:"accepted_by" db:"accepted_by"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

func (i *HostInvite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
