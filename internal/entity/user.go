package entity

import "time"

type UserRole string

const (
	RoleMember UserRole = "member"
	RoleHost   UserRole = "host"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Role         UserRole  `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	TelegramID   string    `json:"telegram_id" db:"telegram_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsHost() bool {
	return u.Role == RoleHost || u.Role == RoleAdmin
}
