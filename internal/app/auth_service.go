// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"contactbook/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is how long a login token stays valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

var (
	// ErrInvalidCredentials is returned for an unknown username and for a
	// wrong password alike.
	ErrInvalidCredentials = fmt.Errorf("%w: username or password wrong", domain.ErrUnauthenticated)
	// ErrUsernameTaken indicates that registration hit an existing username.
	ErrUsernameTaken = fmt.Errorf("%w: username already registered", domain.ErrConflict)
	// ErrPasswordAccount is returned when an SSO identity maps onto an account
	// that was registered with a password.
	ErrPasswordAccount = fmt.Errorf("%w: account uses password login", domain.ErrConflict)
)

// dummyHash is compared against when the user does not exist so that a
// failed login costs the same either way.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("contactbook"), bcrypt.DefaultCost)
	return h
})

// LoginInput is the payload for a password login.
type LoginInput struct {
	Username string `json:"username" validate:"notblank,max=100"`
	Password string `json:"password" validate:"notblank,max=100"`
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username string `json:"username" validate:"notblank,max=100"`
	Password string `json:"password" validate:"notblank,max=100"`
	Name     string `json:"name" validate:"notblank,max=100"`
}

// UpdateUserInput is a partial profile update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitnil,notblank,max=100"`
	Password *string `json:"password" validate:"omitnil,notblank,max=100"`
}

// AuthService handles token authentication, login sessions and user profiles.
type AuthService struct {
	users domain.UserRepository
	ttl   time.Duration
	now   func() time.Time
}

// NewAuthService creates a new authentication service. A non-positive ttl
// falls back to DefaultSessionTTL.
func NewAuthService(users domain.UserRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users: users,
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock replaces the time source (for tests).
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Authenticate resolves an X-API-TOKEN value to the principal it belongs to.
// It never writes to the store.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	user, err := s.users.FindUserByActiveToken(ctx, token)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("find user by token: %w", err)
	}
	if user == nil || user.Token == nil || user.TokenExpiry == nil {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	if !ConstantTimeCompare(*user.Token, token) || user.TokenExpiry.Before(s.now()) {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	return domain.Principal{UserID: user.ID}, nil
}

// Login verifies credentials and issues a fresh token, replacing any token the
// user already had.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (domain.Session, error) {
	if err := validateInput(in); err != nil {
		return domain.Session{}, err
	}
	password := in.Password

	user, err := s.users.FindUserByID(ctx, in.Username)
	if err != nil {
		return domain.Session{}, fmt.Errorf("find user: %w", err)
	}

	// SSO-provisioned users have no password hash and cannot log in here.
	if user == nil || user.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return domain.Session{}, ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Session{}, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// LoginWithUser issues a token for a user already authenticated elsewhere
// (e.g. via SSO), provisioning the account on first sight. Accounts that
// have a password are never taken over this way.
func (s *AuthService) LoginWithUser(ctx context.Context, username string) (domain.Session, error) {
	if username == "" {
		return domain.Session{}, domain.ErrUnauthenticated
	}

	user, err := s.users.FindUserByID(ctx, username)
	if err != nil {
		return domain.Session{}, fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		user = &domain.User{ID: username, Name: username, CreatedAt: s.now()}
		if err := s.users.CreateUser(ctx, user); err != nil {
			if !errors.Is(err, domain.ErrConflict) {
				return domain.Session{}, fmt.Errorf("provision user: %w", err)
			}
			// Lost a race with a concurrent first login.
			user, err = s.users.FindUserByID(ctx, username)
			if err != nil {
				return domain.Session{}, fmt.Errorf("find user: %w", err)
			}
			if user == nil {
				return domain.Session{}, domain.ErrUnauthenticated
			}
		}
	}
	if user.PasswordHash != "" {
		return domain.Session{}, ErrPasswordAccount
	}

	return s.issue(ctx, user)
}

// issue overwrites the user's token unconditionally. Concurrent logins for
// the same user are last-write-wins.
func (s *AuthService) issue(ctx context.Context, user *domain.User) (domain.Session, error) {
	token, err := generateToken()
	if err != nil {
		return domain.Session{}, err
	}

	expiresAt := s.now().Add(s.ttl)
	user.SetToken(token, expiresAt)
	if err := s.users.SaveUser(ctx, user); err != nil {
		return domain.Session{}, fmt.Errorf("save token: %w", err)
	}

	return domain.Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Logout clears the principal's token. Logging out without an active token
// is a no-op.
func (s *AuthService) Logout(ctx context.Context, p domain.Principal) error {
	user, err := s.users.FindUserByID(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if user.Token == nil && user.TokenExpiry == nil {
		return nil
	}

	user.ClearToken()
	return s.users.SaveUser(ctx, user)
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindUserByID(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           in.Username,
		Name:         in.Name,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// CurrentUser returns the principal's user record.
func (s *AuthService) CurrentUser(ctx context.Context, p domain.Principal) (*domain.User, error) {
	user, err := s.users.FindUserByID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.NotFound("user")
	}
	return user, nil
}

// UpdateUser applies a partial profile update to the principal's user.
func (s *AuthService) UpdateUser(ctx context.Context, p domain.Principal, in UpdateUserInput) (*domain.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.CurrentUser(ctx, p)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
