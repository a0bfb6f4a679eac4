package identitysdk

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthStorage(t *testing.T) {
	t.Parallel()

	user := PublicUser{
		ID:       "01HUSER00000000000000001",
		Username: "alice",
		Email:    "alice@example.com",
		PlanType: "free",
		UserRole: "user",
	}

	run := func(t *testing.T, store Storage) {
		auth := NewAuthStorage(store)

		require.False(t, auth.IsLoggedIn())

		require.NoError(t, auth.SetAccessToken("token-123"))
		require.False(t, auth.IsLoggedIn(), "token alone is not a session")

		require.NoError(t, auth.SetUser(user))
		require.True(t, auth.IsLoggedIn())

		token, ok := auth.AccessToken()
		require.True(t, ok)
		require.Equal(t, "token-123", token)

		got, ok := auth.User()
		require.True(t, ok)
		require.Equal(t, user, *got)

		require.NoError(t, auth.Clear())
		require.False(t, auth.IsLoggedIn())
		_, ok = auth.AccessToken()
		require.False(t, ok)
	}

	t.Run("memory", func(t *testing.T) {
		run(t, NewMemoryStorage())
	})

	t.Run("file", func(t *testing.T) {
		run(t, NewFileStorage(filepath.Join(t.TempDir(), "auth.json")))
	})

	t.Run("file storage survives reopening", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "auth.json")

		first := NewAuthStorage(NewFileStorage(path))
		require.NoError(t, first.SetAccessToken("persisted"))
		require.NoError(t, first.SetUser(user))

		second := NewAuthStorage(NewFileStorage(path))
		require.True(t, second.IsLoggedIn())
		token, ok := second.AccessToken()
		require.True(t, ok)
		require.Equal(t, "persisted", token)
	})

	t.Run("corrupt user json reads as missing", func(t *testing.T) {
		store := NewMemoryStorage()
		require.NoError(t, store.Set(KeyAuthUser, "{not json"))

		auth := NewAuthStorage(store)
		_, ok := auth.User()
		require.False(t, ok)
		require.False(t, auth.IsLoggedIn())
	})
}
