package app

import (
	"context"
	"fmt"
	"time"

	"contactbook/internal/domain"

	"github.com/google/uuid"
)

// AddressInput carries the mutable fields of an address.
type AddressInput struct {
	Street     string `json:"street" validate:"max=200"`
	City       string `json:"city" validate:"max=100"`
	Province   string `json:"province" validate:"max=100"`
	Country    string `json:"country" validate:"notblank,max=100"`
	PostalCode string `json:"postalCode" validate:"max=10"`
}

// AddressService encapsulates address use cases. Each call first resolves
// the parent contact through the OwnershipGuard, then the address within it.
type AddressService struct {
	guard     *OwnershipGuard
	addresses domain.AddressRepository
	now       func() time.Time
}

// NewAddressService creates an AddressService.
func NewAddressService(contacts domain.ContactRepository, addresses domain.AddressRepository) *AddressService {
	return &AddressService{
		guard:     NewOwnershipGuard(contacts),
		addresses: addresses,
		now:       time.Now,
	}
}

// Create adds an address to one of p's contacts.
func (s *AddressService) Create(ctx context.Context, p domain.Principal, contactID string, in AddressInput) (*domain.Address, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	c, err := s.guard.ResolveContact(ctx, p, contactID)
	if err != nil {
		return nil, err
	}

	a := &domain.Address{
		ID:        uuid.NewString(),
		ContactID: c.ID,
		CreatedAt: s.now().UTC(),
	}
	applyAddress(a, in)
	if err := s.addresses.SaveAddress(ctx, a); err != nil {
		return nil, fmt.Errorf("save address: %w", err)
	}
	return a, nil
}

// Get returns a single address of one of p's contacts.
func (s *AddressService) Get(ctx context.Context, p domain.Principal, contactID, addressID string) (*domain.Address, error) {
	_, a, err := s.resolve(ctx, p, contactID, addressID)
	return a, err
}

// Update replaces every mutable field of an address.
func (s *AddressService) Update(ctx context.Context, p domain.Principal, contactID, addressID string, in AddressInput) (*domain.Address, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	_, a, err := s.resolve(ctx, p, contactID, addressID)
	if err != nil {
		return nil, err
	}

	applyAddress(a, in)
	if err := s.addresses.SaveAddress(ctx, a); err != nil {
		return nil, fmt.Errorf("save address: %w", err)
	}
	return a, nil
}

// Delete removes an address.
func (s *AddressService) Delete(ctx context.Context, p domain.Principal, contactID, addressID string) error {
	_, a, err := s.resolve(ctx, p, contactID, addressID)
	if err != nil {
		return err
	}
	return s.addresses.DeleteAddress(ctx, a.ID)
}

// List returns every address of one of p's contacts.
func (s *AddressService) List(ctx context.Context, p domain.Principal, contactID string) ([]domain.Address, error) {
	c, err := s.guard.ResolveContact(ctx, p, contactID)
	if err != nil {
		return nil, err
	}

	out, err := s.addresses.FindAllAddressesByContact(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	if out == nil {
		out = []domain.Address{}
	}
	return out, nil
}

func (s *AddressService) resolve(ctx context.Context, p domain.Principal, contactID, addressID string) (*domain.Contact, *domain.Address, error) {
	c, err := s.guard.ResolveContact(ctx, p, contactID)
	if err != nil {
		return nil, nil, err
	}

	a, err := s.addresses.FindAddressByContactAndID(ctx, c.ID, addressID)
	if err != nil {
		return nil, nil, fmt.Errorf("find address: %w", err)
	}
	if a == nil || a.ContactID != c.ID {
		return nil, nil, errAddressNotFound
	}
	return c, a, nil
}

func applyAddress(a *domain.Address, in AddressInput) {
	a.Street = in.Street
	a.City = in.City
	a.Province = in.Province
	a.Country = in.Country
	a.PostalCode = in.PostalCode
}
