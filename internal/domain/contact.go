package domain

import (
	"context"
	"time"
)

// Contact is an entry in a user's contact book.
type Contact struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"-"`
}

// ContactFilter narrows a contact search. Empty fields impose no constraint.
// Name matches either the first or last name; all present fields must match.
type ContactFilter struct {
	Name  string
	Email string
	Phone string
}

// ContactRepository is the port for contact persistence.
//
// Finders return (nil, nil) when no row matches.
type ContactRepository interface {
	FindContactByOwnerAndID(ctx context.Context, ownerID, id string) (*Contact, error)
	// FindAllContactsByOwner returns one page of matching contacts ordered by
	// creation time then id, together with the total number of matches.
	FindAllContactsByOwner(ctx context.Context, ownerID string, f ContactFilter, page, size int) ([]Contact, int, error)
	SaveContact(ctx context.Context, c *Contact) error
	// DeleteContact removes the contact and all of its addresses.
	DeleteContact(ctx context.Context, id string) error
}
