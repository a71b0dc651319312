package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the full database row, including the password hash.
// It never crosses the API boundary; handlers expose PublicUser.
type User struct {
	ID            uuid.UUID
	Email         string
	PasswordHash  *string
	Name          *string
	GoogleID      *string
	EmailVerified bool
	Image         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicUser is the caller-facing view of a user.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  *string   `json:"name,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}
