// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"contactbook/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu        sync.Mutex
	users     map[string]domain.User
	contacts  []domain.Contact
	addresses []domain.Address
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		users: make(map[string]domain.User),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.ContactRepository = (*DB)(nil)
var _ domain.AddressRepository = (*DB)(nil)

// --- UserRepository ---

// CreateUser inserts a user, failing with domain.ErrConflict on a taken ID.
func (db *DB) CreateUser(_ context.Context, u *domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[u.ID]; ok {
		return fmt.Errorf("user %q: %w", u.ID, domain.ErrConflict)
	}
	db.users[u.ID] = cloneUser(*u)
	return nil
}

// FindUserByID retrieves a user by username.
func (db *DB) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[id]
	if !ok {
		return nil, nil
	}
	out := cloneUser(u)
	return &out, nil
}

// FindUserByActiveToken retrieves the user currently holding token.
func (db *DB) FindUserByActiveToken(_ context.Context, token string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Token != nil && *u.Token == token {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, nil
}

// SaveUser overwrites an existing user.
func (db *DB) SaveUser(_ context.Context, u *domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[u.ID]; !ok {
		return fmt.Errorf("save user %q: %w", u.ID, domain.ErrNotFound)
	}
	db.users[u.ID] = cloneUser(*u)
	return nil
}

func cloneUser(u domain.User) domain.User {
	if u.Token != nil {
		tok := *u.Token
		u.Token = &tok
	}
	if u.TokenExpiry != nil {
		exp := *u.TokenExpiry
		u.TokenExpiry = &exp
	}
	return u
}

// --- ContactRepository ---

// FindContactByOwnerAndID returns the contact only if ownerID owns it.
func (db *DB) FindContactByOwnerAndID(_ context.Context, ownerID, id string) (*domain.Contact, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, c := range db.contacts {
		if c.ID == id && c.OwnerID == ownerID {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

// FindAllContactsByOwner filters, orders and pages ownerID's contacts.
func (db *DB) FindAllContactsByOwner(_ context.Context, ownerID string, f domain.ContactFilter, page, size int) ([]domain.Contact, int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var matched []domain.Contact
	for _, c := range db.contacts {
		if c.OwnerID == ownerID && matches(c, f) {
			matched = append(matched, c)
		}
	}
	slices.SortStableFunc(matched, func(a, b domain.Contact) int {
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})

	total := len(matched)
	if size <= 0 || page < 0 || page >= (total+size-1)/size {
		return []domain.Contact{}, total, nil
	}
	start := page * size
	end := min(start+size, total)
	return slices.Clone(matched[start:end]), total, nil
}

func matches(c domain.Contact, f domain.ContactFilter) bool {
	if f.Name != "" && !containsFold(c.FirstName, f.Name) && !containsFold(c.LastName, f.Name) {
		return false
	}
	if f.Email != "" && !containsFold(c.Email, f.Email) {
		return false
	}
	if f.Phone != "" && !containsFold(c.Phone, f.Phone) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SaveContact inserts or replaces a contact by ID.
func (db *DB) SaveContact(_ context.Context, c *domain.Contact) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.contacts {
		if db.contacts[i].ID == c.ID {
			db.contacts[i] = *c
			return nil
		}
	}
	db.contacts = append(db.contacts, *c)
	return nil
}

// DeleteContact removes a contact and every address that belongs to it.
func (db *DB) DeleteContact(_ context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.addresses = slices.DeleteFunc(db.addresses, func(a domain.Address) bool { return a.ContactID == id })
	db.contacts = slices.DeleteFunc(db.contacts, func(c domain.Contact) bool { return c.ID == id })
	return nil
}

// --- AddressRepository ---

// FindAddressByContactAndID returns the address only if it belongs to contactID.
func (db *DB) FindAddressByContactAndID(_ context.Context, contactID, id string) (*domain.Address, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.addresses {
		if a.ID == id && a.ContactID == contactID {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

// FindAllAddressesByContact lists a contact's addresses in insertion order.
func (db *DB) FindAllAddressesByContact(_ context.Context, contactID string) ([]domain.Address, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.Address{}
	for _, a := range db.addresses {
		if a.ContactID == contactID {
			out = append(out, a)
		}
	}
	return out, nil
}

// SaveAddress inserts or replaces an address by ID.
func (db *DB) SaveAddress(_ context.Context, a *domain.Address) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.addresses {
		if db.addresses[i].ID == a.ID {
			db.addresses[i] = *a
			return nil
		}
	}
	db.addresses = append(db.addresses, *a)
	return nil
}

// DeleteAddress removes an address by ID.
func (db *DB) DeleteAddress(_ context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.addresses = slices.DeleteFunc(db.addresses, func(a domain.Address) bool { return a.ID == id })
	return nil
}
