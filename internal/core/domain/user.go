package domain

import (
	"time"
)

type User struct {
	ID           int
	FullName     string `validate:"required,max=100"`
	Email        string `validate:"required,email,max=100"`
	PasswordHash string `validate:"required"`
	TokenVersion int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenPayload is the identity embedded in every issued token. A payload is
// only accepted while its TokenVersion matches the user's current counter.
type TokenPayload struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	TokenVersion int    `json:"tokenVersion"`
}

func (u *User) HasValidTokenVersion(payload TokenPayload) bool {
	return u.TokenVersion == payload.TokenVersion
}
