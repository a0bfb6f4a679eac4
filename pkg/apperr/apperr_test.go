package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrom(t *testing.T) {
	t.Parallel()

	t.Run("passes through tagged errors", func(t *testing.T) {
		err := InvalidCredentials()
		require.Same(t, err, From(err))
	})

	t.Run("passes through wrapped tagged errors", func(t *testing.T) {
		err := fmt.Errorf("login: %w", PasswordExpired())
		got := From(err)
		require.Equal(t, CodePasswordExpired, got.Code)
		require.Equal(t, http.StatusForbidden, got.Status)
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		cause := errors.New("boom")
		got := From(cause)
		require.Equal(t, CodeInternal, got.Code)
		require.Equal(t, http.StatusInternalServerError, got.Status)
		require.ErrorIs(t, got, cause)
	})
}

func TestIs_MatchesByCode(t *testing.T) {
	t.Parallel()

	err := UserAlreadyExists().WithInternal(errors.New("UNIQUE constraint failed: users.email"))
	require.ErrorIs(t, err, UserAlreadyExists())
	require.NotErrorIs(t, err, InvalidCredentials())
}

func TestWithStatus_DoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	base := UserNotFound()
	changed := base.WithStatus(http.StatusUnauthorized)
	require.Equal(t, http.StatusNotFound, base.Status)
	require.Equal(t, http.StatusUnauthorized, changed.Status)
	require.Equal(t, base.Code, changed.Code)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("hides internal cause by default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Write(rec, DBError(errors.New("driver: disk I/O error")), false)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, CodeDBError, body.Code)
		require.Empty(t, body.Err)
	})

	t.Run("exposes internal cause in dev", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Write(rec, DBError(errors.New("driver: disk I/O error")), true)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "driver: disk I/O error", body.Err)
	})

	t.Run("untagged error becomes 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Write(rec, errors.New("surprise"), false)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, CodeInternal, body.Code)
	})
}
