package models

import "time"

// User represents a library owner or staff login. Every user belongs to
// exactly one library; the library id is carried in the JWT claims and is
// the tenant identifier for every downstream operation.
type User struct {
	ID           int64     `json:"id"`
	LibraryID    int64     `json:"library_id" db:"library_id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	Role         string    `json:"role" db:"role"` // Owner, Admin or Staff
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Credentials for login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
