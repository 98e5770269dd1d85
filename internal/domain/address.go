package domain

import (
	"context"
	"time"
)

// Address belongs to exactly one Contact.
type Address struct {
	ID         string    `json:"id"`
	ContactID  string    `json:"-"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	Province   string    `json:"province"`
	Country    string    `json:"country"`
	PostalCode string    `json:"postalCode"`
	CreatedAt  time.Time `json:"-"`
}

// AddressRepository is the port for address persistence.
type AddressRepository interface {
	FindAddressByContactAndID(ctx context.Context, contactID, id string) (*Address, error)
	FindAllAddressesByContact(ctx context.Context, contactID string) ([]Address, error)
	SaveAddress(ctx context.Context, a *Address) error
	DeleteAddress(ctx context.Context, id string) error
}
