// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// User is the identity and credential root. ID is the username.
//
// Token and TokenExpiry are either both set or both nil.
type User struct {
	ID           string
	Name         string
	PasswordHash string
	Token        *string
	TokenExpiry  *time.Time
	CreatedAt    time.Time
}

// SetToken replaces the user's session token.
func (u *User) SetToken(token string, expiresAt time.Time) {
	u.Token = &token
	u.TokenExpiry = &expiresAt
}

// ClearToken drops the user's session token, if any.
func (u *User) ClearToken() {
	u.Token = nil
	u.TokenExpiry = nil
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Principal is the identity resolved for a single request.
type Principal struct {
	UserID string
}

// UserRepository defines the port for user persistence operations.
//
// Finders return (nil, nil) when no row matches.
type UserRepository interface {
	// CreateUser inserts a new user and returns ErrConflict if the ID is taken.
	CreateUser(ctx context.Context, u *User) error
	FindUserByID(ctx context.Context, id string) (*User, error)
	FindUserByActiveToken(ctx context.Context, token string) (*User, error)
	// SaveUser overwrites the mutable fields of an existing user.
	SaveUser(ctx context.Context, u *User) error
}
