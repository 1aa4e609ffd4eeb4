package models

import "time"

type UserRole string

const (
	RoleOrganizer UserRole = "organizer"
	RoleScorer    UserRole = "scorer"
	RoleViewer    UserRole = "viewer"
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	Verified     bool      `json:"verified" db:"verified"`
	// Six digit code sent by email; cleared once the address is confirmed.
	VerificationCode *string   `json:"-" db:"verification_code"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
