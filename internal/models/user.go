package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Password hashes never leave the handlers layer.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	IsActive    bool      `json:"-"`
}
