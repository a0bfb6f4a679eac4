package store

import (
	"context"
	"errors"
	"time"

	"github.com/dayplanr/identity/internal/identity/domain"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists is returned when an insert violates a uniqueness
	// constraint (email, username or provider identity).
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the persistence boundary for the identity service. Drivers map
// their native errors onto ErrNotFound / ErrAlreadyExists so services never
// see driver specifics.
type Store interface {
	Users() Users
	RefreshSessions() RefreshSessions

	// ApplyMigrations brings the schema up to date.
	ApplyMigrations() error

	// Ping verifies connectivity for readiness checks.
	Ping(ctx context.Context) error

	Close() error
}

// Users is the repository for user accounts.
type Users interface {
	Create(ctx context.Context, user domain.User) error

	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// GetNativeByEmail looks up a password-login account by email.
	GetNativeByEmail(ctx context.Context, email string) (domain.User, error)

	// GetSocialByProvider looks up a social account by its provider identity.
	GetSocialByProvider(ctx context.Context, providerType domain.ProviderType, providerID string) (domain.User, error)

	// RecordLogin stamps last_login_at, re-asserts the active status and
	// returns the updated user.
	RecordLogin(ctx context.Context, id string, at time.Time) (domain.User, error)

	CountByEmail(ctx context.Context, email string) (int64, error)
	CountByUsername(ctx context.Context, username string) (int64, error)
	CountByProvider(ctx context.Context, providerType domain.ProviderType, providerID string) (int64, error)
}

// RefreshSessions is the repository for persisted refresh token grants.
type RefreshSessions interface {
	Create(ctx context.Context, session domain.RefreshSession) error

	// GetActiveByHash fetches the un-revoked, unexpired session matching a
	// token fingerprint. Revoked or expired sessions yield ErrNotFound.
	GetActiveByHash(ctx context.Context, tokenHash string, now time.Time) (domain.RefreshSession, error)

	// RevokeByHash marks the session revoked. Unknown or already revoked
	// hashes are not an error, logout is idempotent.
	RevokeByHash(ctx context.Context, tokenHash string) error

	// RevokeAllForUser revokes every active session a user holds.
	RevokeAllForUser(ctx context.Context, userID string) error

	// DeleteExpired removes sessions past their expiry and reports how many
	// were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
