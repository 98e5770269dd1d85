package app

import (
	"context"
	"fmt"

	"contactbook/internal/domain"
)

var (
	errContactNotFound = domain.NotFound("contact")
	errAddressNotFound = domain.NotFound("address")
)

// OwnershipGuard resolves contacts on behalf of a principal. A contact that
// does not exist and one that belongs to another user produce the same error.
type OwnershipGuard struct {
	contacts domain.ContactRepository
}

// NewOwnershipGuard creates a guard over the given contact repository.
func NewOwnershipGuard(contacts domain.ContactRepository) *OwnershipGuard {
	return &OwnershipGuard{contacts: contacts}
}

// ResolveContact returns the contact with the given id if p owns it.
func (g *OwnershipGuard) ResolveContact(ctx context.Context, p domain.Principal, contactID string) (*domain.Contact, error) {
	if p.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}

	c, err := g.contacts.FindContactByOwnerAndID(ctx, p.UserID, contactID)
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	if c == nil || c.OwnerID != p.UserID {
		return nil, errContactNotFound
	}
	return c, nil
}
