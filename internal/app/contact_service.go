package app

import (
	"context"
	"fmt"
	"time"

	"contactbook/internal/domain"

	"github.com/google/uuid"
)

// DefaultPageSize is used when a search does not ask for a page size.
const DefaultPageSize = 10

// ContactInput carries the mutable fields of a contact.
type ContactInput struct {
	FirstName string `json:"firstName" validate:"notblank,max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,max=100,email"`
	Phone     string `json:"phone" validate:"max=100"`
}

// SearchContactsInput describes one page of a filtered contact search.
// Page is zero-indexed; a zero Size means DefaultPageSize.
type SearchContactsInput struct {
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"max=100"`
	Phone string `json:"phone" validate:"max=100"`
	Page  int    `json:"page" validate:"gte=0"`
	Size  int    `json:"size" validate:"gte=0,lte=100"`
}

// ContactPage is one page of search results.
type ContactPage struct {
	Items       []domain.Contact
	CurrentPage int
	TotalPages  int
	Size        int
}

// ContactService encapsulates contact use cases. Every operation is scoped to
// the given principal.
type ContactService struct {
	contacts domain.ContactRepository
	guard    *OwnershipGuard
	now      func() time.Time
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(contacts domain.ContactRepository) *ContactService {
	return &ContactService{
		contacts: contacts,
		guard:    NewOwnershipGuard(contacts),
		now:      time.Now,
	}
}

// Create stores a new contact owned by p.
func (s *ContactService) Create(ctx context.Context, p domain.Principal, in ContactInput) (*domain.Contact, error) {
	if p.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	c := &domain.Contact{
		ID:        uuid.NewString(),
		OwnerID:   p.UserID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: s.now().UTC(),
	}
	if err := s.contacts.SaveContact(ctx, c); err != nil {
		return nil, fmt.Errorf("save contact: %w", err)
	}
	return c, nil
}

// Get returns one of p's contacts.
func (s *ContactService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Contact, error) {
	return s.guard.ResolveContact(ctx, p, id)
}

// Update replaces every mutable field of one of p's contacts.
func (s *ContactService) Update(ctx context.Context, p domain.Principal, id string, in ContactInput) (*domain.Contact, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	c, err := s.guard.ResolveContact(ctx, p, id)
	if err != nil {
		return nil, err
	}

	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Email = in.Email
	c.Phone = in.Phone
	if err := s.contacts.SaveContact(ctx, c); err != nil {
		return nil, fmt.Errorf("save contact: %w", err)
	}
	return c, nil
}

// Delete removes one of p's contacts together with its addresses.
func (s *ContactService) Delete(ctx context.Context, p domain.Principal, id string) error {
	c, err := s.guard.ResolveContact(ctx, p, id)
	if err != nil {
		return err
	}
	return s.contacts.DeleteContact(ctx, c.ID)
}

// Search returns one page of p's contacts matching the filters. A page past
// the end yields no items but still reports the real page count.
func (s *ContactService) Search(ctx context.Context, p domain.Principal, in SearchContactsInput) (*ContactPage, error) {
	if p.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	size := in.Size
	if size == 0 {
		size = DefaultPageSize
	}

	filter := domain.ContactFilter{Name: in.Name, Email: in.Email, Phone: in.Phone}
	items, total, err := s.contacts.FindAllContactsByOwner(ctx, p.UserID, filter, in.Page, size)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	if items == nil {
		items = []domain.Contact{}
	}

	return &ContactPage{
		Items:       items,
		CurrentPage: in.Page,
		TotalPages:  (total + size - 1) / size,
		Size:        size,
	}, nil
}
