package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/internal/identity/store"
	"github.com/dayplanr/identity/internal/identity/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st *sqlite.Store, u domain.User) domain.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	if u.AccountStatus == "" {
		u.AccountStatus = domain.AccountActive
	}
	if u.PlanType == "" {
		u.PlanType = domain.PlanFree
	}
	if u.UserRole == "" {
		u.UserRole = domain.RoleUser
	}

	require.NoError(t, st.Users().Create(context.Background(), u))
	return u
}

func TestUsers_NativeLookup(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, domain.User{
		ID:           "01HUSER000000000000000001",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		LoginType:    domain.LoginTypeNative,
	})

	u, err := st.Users().GetNativeByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, "$2a$10$hash", u.PasswordHash)
	require.Empty(t, u.ProviderID)

	_, err = st.Users().GetNativeByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_SocialLookup(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, domain.User{
		ID:           "01HUSER000000000000000002",
		Username:     "bob",
		Email:        "bob@example.com",
		LoginType:    domain.LoginTypeSocial,
		ProviderType: domain.ProviderKakao,
		ProviderID:   "9912345",
	})

	u, err := st.Users().GetSocialByProvider(ctx, domain.ProviderKakao, "9912345")
	require.NoError(t, err)
	require.Equal(t, "bob", u.Username)
	require.Empty(t, u.PasswordHash)

	_, err = st.Users().GetSocialByProvider(ctx, domain.ProviderNaver, "9912345")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_UniqueConstraints(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, domain.User{
		ID:        "01HUSER000000000000000003",
		Username:  "carol",
		Email:     "carol@example.com",
		LoginType: domain.LoginTypeNative,
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := st.Users().Create(ctx, domain.User{
			ID:            "01HUSER000000000000000004",
			Username:      "carol2",
			Email:         "carol@example.com",
			LoginType:     domain.LoginTypeNative,
			AccountStatus: domain.AccountActive,
			PlanType:      domain.PlanFree,
			UserRole:      domain.RoleUser,
			CreatedAt:     time.Now().UTC(),
			UpdatedAt:     time.Now().UTC(),
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate provider identity", func(t *testing.T) {
		first := domain.User{
			ID:           "01HUSER000000000000000005",
			Username:     "dave",
			Email:        "dave@example.com",
			LoginType:    domain.LoginTypeSocial,
			ProviderType: domain.ProviderNaver,
			ProviderID:   "naver-1",
		}
		seedUser(t, st, first)

		err := st.Users().Create(ctx, domain.User{
			ID:            "01HUSER000000000000000006",
			Username:      "dave2",
			Email:         "dave2@example.com",
			LoginType:     domain.LoginTypeSocial,
			ProviderType:  domain.ProviderNaver,
			ProviderID:    "naver-1",
			AccountStatus: domain.AccountActive,
			PlanType:      domain.PlanFree,
			UserRole:      domain.RoleUser,
			CreatedAt:     time.Now().UTC(),
			UpdatedAt:     time.Now().UTC(),
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("native rows do not collide on null provider", func(t *testing.T) {
		second := domain.User{
			ID:        "01HUSER000000000000000007",
			Username:  "erin",
			Email:     "erin@example.com",
			LoginType: domain.LoginTypeNative,
		}
		seedUser(t, st, second)
	})
}

func TestUsers_RecordLogin(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, domain.User{
		ID:            "01HUSER000000000000000008",
		Username:      "frank",
		Email:         "frank@example.com",
		LoginType:     domain.LoginTypeNative,
		AccountStatus: domain.AccountDormant,
	})

	at := time.Now().UTC().Truncate(time.Second)
	u, err := st.Users().RecordLogin(ctx, "01HUSER000000000000000008", at)
	require.NoError(t, err)
	require.Equal(t, domain.AccountActive, u.AccountStatus)
	require.NotNil(t, u.LastLoginAt)
	require.WithinDuration(t, at, *u.LastLoginAt, time.Second)

	_, err = st.Users().RecordLogin(ctx, "01HNOPE000000000000000000", at)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_Counts(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, domain.User{
		ID:           "01HUSER000000000000000009",
		Username:     "grace",
		Email:        "grace@example.com",
		LoginType:    domain.LoginTypeSocial,
		ProviderType: domain.ProviderGoogle,
		ProviderID:   "google-1",
	})

	n, err := st.Users().CountByEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = st.Users().CountByUsername(ctx, "nobody")
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = st.Users().CountByProvider(ctx, domain.ProviderGoogle, "google-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func seedSession(t *testing.T, st *sqlite.Store, userID, hash string, expiresAt time.Time) domain.RefreshSession {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	s := domain.RefreshSession{
		ID:         "01HSESS" + hash[:18],
		UserID:     userID,
		TokenHash:  hash,
		DeviceInfo: "test-agent",
		IPAddress:  "203.0.113.9",
		IssuedAt:   now,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, st.RefreshSessions().Create(context.Background(), s))
	return s
}

func TestRefreshSessions_Lifecycle(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	u := seedUser(t, st, domain.User{
		ID:        "01HUSER000000000000000010",
		Username:  "heidi",
		Email:     "heidi@example.com",
		LoginType: domain.LoginTypeNative,
	})

	live := seedSession(t, st, u.ID, "hash-live-000000000000000000000000000000000", now.Add(time.Hour))
	seedSession(t, st, u.ID, "hash-dead-000000000000000000000000000000000", now.Add(-time.Hour))

	t.Run("active lookup finds live session", func(t *testing.T) {
		got, err := st.RefreshSessions().GetActiveByHash(ctx, live.TokenHash, now)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.UserID)
		require.Equal(t, "test-agent", got.DeviceInfo)
	})

	t.Run("expired session is invisible", func(t *testing.T) {
		_, err := st.RefreshSessions().GetActiveByHash(ctx, "hash-dead-000000000000000000000000000000000", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("revoke hides the session and is idempotent", func(t *testing.T) {
		require.NoError(t, st.RefreshSessions().RevokeByHash(ctx, live.TokenHash))
		require.NoError(t, st.RefreshSessions().RevokeByHash(ctx, live.TokenHash))
		require.NoError(t, st.RefreshSessions().RevokeByHash(ctx, "hash-unknown"))

		_, err := st.RefreshSessions().GetActiveByHash(ctx, live.TokenHash, now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete expired removes only dead sessions", func(t *testing.T) {
		deleted, err := st.RefreshSessions().DeleteExpired(ctx, now)
		require.NoError(t, err)
		require.EqualValues(t, 1, deleted)
	})
}

func TestRefreshSessions_RevokeAllForUser(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	u := seedUser(t, st, domain.User{
		ID:        "01HUSER000000000000000011",
		Username:  "ivan",
		Email:     "ivan@example.com",
		LoginType: domain.LoginTypeNative,
	})

	a := seedSession(t, st, u.ID, "hash-a-00000000000000000000000000000000000", now.Add(time.Hour))
	b := seedSession(t, st, u.ID, "hash-b-00000000000000000000000000000000000", now.Add(time.Hour))

	require.NoError(t, st.RefreshSessions().RevokeAllForUser(ctx, u.ID))

	for _, hash := range []string{a.TokenHash, b.TokenHash} {
		_, err := st.RefreshSessions().GetActiveByHash(ctx, hash, now)
		require.ErrorIs(t, err, store.ErrNotFound)
	}
}
