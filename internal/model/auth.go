package model

import (
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// TokenPair is what every successful auth operation hands back.
// Web clients rely on the cookies instead; mobile clients store both
// values and send them as bearer tokens.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	User   PublicUser `json:"user"`
	Tokens TokenPair  `json:"tokens"`
}

// RefreshToken is a stored, currently-redeemable refresh token row.
// The row is deleted the moment the token is redeemed; absence means
// the token is spent or was never issued.
type RefreshToken struct {
	ID        uuid.UUID
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}
