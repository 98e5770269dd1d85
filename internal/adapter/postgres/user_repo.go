package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contactbook/internal/domain"
)

const userColumns = "id, name, password_hash, token, token_expired_at, created_at"

// CreateUser inserts a new user.
func (d *DB) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO users (id, name, password_hash, token, token_expired_at, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		u.ID, u.Name, u.PasswordHash, u.Token, u.TokenExpiry, u.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %q: %w", u.ID, domain.ErrConflict)
	}
	return err
}

// FindUserByID retrieves a user by username.
func (d *DB) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// FindUserByActiveToken retrieves the user currently holding token.
func (d *DB) FindUserByActiveToken(ctx context.Context, token string) (*domain.User, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE token = $1", token)
	return scanUser(row)
}

// SaveUser overwrites the mutable fields of an existing user. The token is
// written unconditionally; the last login wins.
func (d *DB) SaveUser(ctx context.Context, u *domain.User) error {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE users SET name = $2, password_hash = $3, token = $4, token_expired_at = $5 WHERE id = $1",
		u.ID, u.Name, u.PasswordHash, u.Token, u.TokenExpiry,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("save user %q: %w", u.ID, domain.ErrNotFound)
	}
	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u      domain.User
		token  sql.NullString
		expiry sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &token, &expiry, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if token.Valid && expiry.Valid {
		u.SetToken(token.String, expiry.Time)
	}
	return &u, nil
}
