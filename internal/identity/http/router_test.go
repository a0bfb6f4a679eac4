package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dayplanr/identity/internal/identity/domain"
	identityhttp "github.com/dayplanr/identity/internal/identity/http"
	"github.com/dayplanr/identity/internal/identity/provider"
	"github.com/dayplanr/identity/internal/identity/service"
	"github.com/dayplanr/identity/internal/identity/store"
	"github.com/dayplanr/identity/internal/identity/store/drivers/sqlite"
	"github.com/dayplanr/identity/pkg/cryptox"
	"github.com/dayplanr/identity/pkg/identitysdk"
	"github.com/dayplanr/identity/pkg/idx"
	"github.com/dayplanr/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testWebOrigin = "http://localhost:3000"

type testEnv struct {
	router *identityhttp.Router
	store  store.Store
	tokens *service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	access, err := jwtx.NewCodec("test-access-secret", "identity-test")
	require.NoError(t, err)
	refresh, err := jwtx.NewCodec("test-refresh-secret", "identity-test")
	require.NoError(t, err)

	tokens := &service.TokenService{Store: st, Access: access, Refresh: refresh}

	providers := provider.NewRegistry(
		provider.Config{ClientID: "kakao-app", RedirectURL: testWebOrigin + "/cb"},
		provider.Config{},
		provider.Config{},
	)

	router := identityhttp.NewRouter(identityhttp.RouterConfig{
		Verifier:       access,
		BuildVersion:   "test",
		WebOrigin:      testWebOrigin,
		SecureCookies:  false,
		ExposeInternal: true,
		Store:          st,
		Providers:      providers,
		Logger:         slog.New(slog.DiscardHandler),
	})
	router.AuthService = &service.AuthService{Store: st, Tokens: tokens}
	router.TokenService = tokens
	router.SignUpService = &service.SignUpService{Store: st}
	router.UserService = &service.UserService{Store: st}
	router.ApplyRoutes()

	return &testEnv{router: router, store: st, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedNative(t *testing.T, email, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := domain.User{
		ID:                    idx.New().String(),
		Username:              "user-" + idx.New().String()[20:],
		Email:                 email,
		PasswordHash:          hash,
		LoginType:             domain.LoginTypeNative,
		AccountStatus:         domain.AccountActive,
		PlanType:              domain.PlanFree,
		UserRole:              domain.RoleUser,
		PasswordLastChangedAt: &now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return user
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == identityhttp.RefreshCookieName {
			return c
		}
	}
	return nil
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedNative(t, "alice@example.com", "correct horse")

	t.Run("success sets the refresh cookie", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/login", identitysdk.LoginRequest{
			LoginType: "native",
			Email:     "alice@example.com",
			Password:  "correct horse",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[identitysdk.LoginResponse](t, rec)
		require.NotEmpty(t, body.AccessToken)
		require.Equal(t, "alice@example.com", body.User.Email)
		require.Equal(t, "active", body.User.AccountStatus)

		cookie := refreshCookie(t, rec)
		require.NotNil(t, cookie)
		require.NotEmpty(t, cookie.Value)
		require.True(t, cookie.HttpOnly)
		require.Equal(t, "/", cookie.Path)
		require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		require.Equal(t, int(jwtx.DefaultRefreshTokenTTL.Seconds()), cookie.MaxAge)

		// The refresh token must never appear in the body.
		require.NotContains(t, rec.Body.String(), cookie.Value)
	})

	t.Run("bad credentials are a 401 with a stable code", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/login", identitysdk.LoginRequest{
			LoginType: "native",
			Email:     "alice@example.com",
			Password:  "wrong",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeBody[identitysdk.ErrorResponse](t, rec)
		require.Equal(t, "INVALID_CREDENTIALS", body.Code)
	})

	t.Run("unknown login type is a 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/login", identitysdk.LoginRequest{
			LoginType: "ldap",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody[identitysdk.ErrorResponse](t, rec)
		require.Equal(t, "UNKNOWN_LOGIN_TYPE", body.Code)
	})
}

func TestRefreshAndLogoutEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedNative(t, "bob@example.com", "pw123456")

	login := env.do(t, http.MethodPost, "/v1/auth/login", identitysdk.LoginRequest{
		LoginType: "native",
		Email:     "bob@example.com",
		Password:  "pw123456",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)
	cookie := refreshCookie(t, login)
	require.NotNil(t, cookie)

	t.Run("refresh returns a fresh access token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/refresh", nil, func(r *http.Request) {
			r.AddCookie(cookie)
		})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[identitysdk.RefreshResponse](t, rec)
		require.NotEmpty(t, body.AccessToken)
	})

	t.Run("refresh without cookie is a 401", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/refresh", nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout without cookie is a 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/logout", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("logout revokes and clears the cookie", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/logout", nil, func(r *http.Request) {
			r.AddCookie(cookie)
		})
		require.Equal(t, http.StatusOK, rec.Code)

		cleared := refreshCookie(t, rec)
		require.NotNil(t, cleared)
		require.Empty(t, cleared.Value)
		require.Negative(t, cleared.MaxAge)

		// Revoked session cannot refresh anymore.
		refresh := env.do(t, http.MethodPost, "/v1/auth/refresh", nil, func(r *http.Request) {
			r.AddCookie(cookie)
		})
		require.Equal(t, http.StatusUnauthorized, refresh.Code)

		// Logging out again with the same dead cookie still succeeds.
		again := env.do(t, http.MethodPost, "/v1/auth/logout", nil, func(r *http.Request) {
			r.AddCookie(cookie)
		})
		require.Equal(t, http.StatusOK, again.Code)
	})
}

func TestSignUpEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("creates the account", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/sign-up", identitysdk.SignUpRequest{
			LoginType: "native",
			Email:     "carol@example.com",
			Username:  "carol",
			Password:  "hunter22",
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeBody[identitysdk.PublicUser](t, rec)
		require.Equal(t, "carol", body.Username)
		require.Equal(t, "free", body.PlanType)
		require.NotContains(t, rec.Body.String(), "hunter22")
	})

	t.Run("duplicate is a 409", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/sign-up", identitysdk.SignUpRequest{
			LoginType: "native",
			Email:     "carol@example.com",
			Username:  "carol2",
			Password:  "hunter22",
		}, nil)
		require.Equal(t, http.StatusConflict, rec.Code)

		body := decodeBody[identitysdk.ErrorResponse](t, rec)
		require.Equal(t, "USER_ALREADY_EXISTS", body.Code)
	})

	t.Run("check-duplicate reports per field", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/auth/check-duplicate", identitysdk.CheckDuplicateRequest{
			Email:    "carol@example.com",
			Username: "someone-new",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[identitysdk.CheckDuplicateResponse](t, rec)
		require.True(t, body.IsDuplicate)
		require.True(t, body.DuplicateFields.Email)
		require.False(t, body.DuplicateFields.Username)
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.seedNative(t, "dave@example.com", "pw123456")

	access, err := env.tokens.Access.Sign(jwtx.NewClaims(
		user.ID, user.Email, user.Username, "user", "free",
		time.Hour, "", time.Now().UTC(),
	))
	require.NoError(t, err)

	t.Run("returns the public view with a bearer token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/auth/me", nil, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+access)
		})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[identitysdk.PublicUser](t, rec)
		require.Equal(t, user.ID, body.ID)
		require.NotContains(t, rec.Body.String(), "passwordHash")
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/auth/me", nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a forged token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/auth/me", nil, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer not.a.token")
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLookupEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.seedNative(t, "erin@example.com", "pw123456")

	t.Run("hit", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/users/lookup?email=erin@example.com", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[identitysdk.LookupResponse](t, rec)
		require.NotNil(t, body.User)
		require.Equal(t, user.ID, body.User.ID)
	})

	t.Run("miss is a 200 with null user", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/users/lookup?email=nobody@example.com", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[identitysdk.LookupResponse](t, rec)
		require.Nil(t, body.User)
	})

	t.Run("empty query is a 400", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/users/lookup", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCallbackEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("relays code to the opener with the configured origin", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/auth/callback/kakao?code=abc123&state=xyz", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Type"), "text/html")

		page := rec.Body.String()
		require.Contains(t, page, "window.opener.postMessage")
		require.Contains(t, page, "abc123")
		// The script escaper renders "/" as "\/", so match on the host part.
		require.Contains(t, page, "localhost:3000")
		require.Contains(t, page, "window.close()")
	})

	t.Run("unconfigured provider is a 404", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/auth/callback/naver?code=abc", nil, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSocialRoutesFollowRegistry(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Kakao is configured, so the exchange route exists and validates input.
	rec := env.do(t, http.MethodPost, "/v1/auth/kakao-auth", identitysdk.SocialAuthRequest{}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[identitysdk.ErrorResponse](t, rec)
	require.Equal(t, "MISSING_FIELD", body.Code)

	// Naver is not configured in this environment.
	rec = env.do(t, http.MethodPost, "/v1/auth/naver-auth", identitysdk.SocialAuthRequest{Code: "x"}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	live := decodeBody[identitysdk.HealthResponse](t, rec)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	rec = env.do(t, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decodeBody[identitysdk.HealthResponse](t, rec)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}

func TestCORSHeaders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", nil, func(r *http.Request) {
		r.Header.Set("Origin", testWebOrigin)
	})
	require.Equal(t, testWebOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	// Preflight short-circuits before routing.
	preflight := env.do(t, http.MethodOptions, "/v1/auth/login", nil, func(r *http.Request) {
		r.Header.Set("Origin", testWebOrigin)
		r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	})
	require.Equal(t, http.StatusNoContent, preflight.Code)
	require.True(t, strings.Contains(preflight.Header().Get("Access-Control-Allow-Methods"), "POST"))
}
