package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"contactbook/internal/domain"
)

const contactColumns = "id, owner_id, first_name, last_name, email, phone, created_at"

// FindContactByOwnerAndID retrieves a contact scoped to its owner.
func (d *DB) FindContactByOwnerAndID(ctx context.Context, ownerID, id string) (*domain.Contact, error) {
	var c domain.Contact
	err := d.sql.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE id = $1 AND owner_id = $2",
		id, ownerID,
	).Scan(&c.ID, &c.OwnerID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindAllContactsByOwner counts the matching contacts and loads one page of
// them ordered by created_at, id.
func (d *DB) FindAllContactsByOwner(ctx context.Context, ownerID string, f domain.ContactFilter, page, size int) ([]domain.Contact, int, error) {
	where, args := contactWhere(ownerID, f)

	var total int
	if err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}
	if size <= 0 || page < 0 || page >= (total+size-1)/size {
		return []domain.Contact{}, total, nil
	}

	q := fmt.Sprintf("SELECT %s FROM contacts WHERE %s ORDER BY created_at, id LIMIT $%d OFFSET $%d",
		contactColumns, where, len(args)+1, len(args)+2)
	rows, err := d.sql.QueryContext(ctx, q, append(args, size, page*size)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Contact, 0, size)
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// contactWhere builds the owner-scoped filter clause. Name matches either
// name column; present filters are ANDed.
func contactWhere(ownerID string, f domain.ContactFilter) (string, []any) {
	clauses := []string{"owner_id = $1"}
	args := []any{ownerID}

	add := func(format, value string) {
		args = append(args, "%"+escapeLike(value)+"%")
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}
	if f.Name != "" {
		add("(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d)", f.Name)
	}
	if f.Email != "" {
		add("email ILIKE $%[1]d", f.Email)
	}
	if f.Phone != "" {
		add("phone ILIKE $%[1]d", f.Phone)
	}
	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// SaveContact inserts a contact or replaces its mutable fields. The owner is
// never updated.
func (d *DB) SaveContact(ctx context.Context, c *domain.Contact) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO contacts (id, owner_id, first_name, last_name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
		email = EXCLUDED.email, phone = EXCLUDED.phone`,
		c.ID, c.OwnerID, c.FirstName, c.LastName, c.Email, c.Phone, c.CreatedAt.UTC(),
	)
	return err
}

// DeleteContact removes a contact and its addresses in one transaction.
func (d *DB) DeleteContact(ctx context.Context, id string) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM addresses WHERE contact_id = $1", id); err != nil {
			return fmt.Errorf("delete addresses: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM contacts WHERE id = $1", id); err != nil {
			return fmt.Errorf("delete contact: %w", err)
		}
		return nil
	})
}
