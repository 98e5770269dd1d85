package postgres

import (
	"context"
	"database/sql"
	"errors"

	"contactbook/internal/domain"
)

const addressColumns = "id, contact_id, street, city, province, country, postal_code, created_at"

// FindAddressByContactAndID retrieves an address scoped to its contact.
func (d *DB) FindAddressByContactAndID(ctx context.Context, contactID, id string) (*domain.Address, error) {
	var a domain.Address
	err := d.sql.QueryRowContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE id = $1 AND contact_id = $2",
		id, contactID,
	).Scan(&a.ID, &a.ContactID, &a.Street, &a.City, &a.Province, &a.Country, &a.PostalCode, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAllAddressesByContact lists every address of a contact.
func (d *DB) FindAllAddressesByContact(ctx context.Context, contactID string) ([]domain.Address, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE contact_id = $1 ORDER BY created_at, id", contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.Address{}
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.ContactID, &a.Street, &a.City, &a.Province, &a.Country, &a.PostalCode, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveAddress inserts an address or replaces its mutable fields.
func (d *DB) SaveAddress(ctx context.Context, a *domain.Address) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO addresses (id, contact_id, street, city, province, country, postal_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET street = EXCLUDED.street, city = EXCLUDED.city,
		province = EXCLUDED.province, country = EXCLUDED.country, postal_code = EXCLUDED.postal_code`,
		a.ID, a.ContactID, a.Street, a.City, a.Province, a.Country, a.PostalCode, a.CreatedAt.UTC(),
	)
	return err
}

// DeleteAddress removes an address by ID.
func (d *DB) DeleteAddress(ctx context.Context, id string) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM addresses WHERE id = $1", id)
	return err
}
