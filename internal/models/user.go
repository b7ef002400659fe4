package models

import (
	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	ID        uuid.UUID `db:"id"`         // Primary key
	Username  string    `db:"username"`   // Unique username
	Password  string    `db:"password"`   // Encoded password hash
	CreatedAt string    `db:"created_at"` // Creation timestamp, TimestampLayout
}
