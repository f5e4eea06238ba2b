package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a tenant account. Authentication itself is delegated to the hashing
// and token collaborators; the domain only stores the hashed credential.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser builds a user with a generated id.
func NewUser(email, hashedPassword string) *User {
	return &User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}
}
