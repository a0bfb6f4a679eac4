package http

import (
	"net/http"

	"github.com/dayplanr/identity/internal/identity/service"
	"github.com/dayplanr/identity/pkg/apperr"
	"github.com/dayplanr/identity/pkg/httpx"
	"github.com/dayplanr/identity/pkg/identitysdk"
)

// LogoutHandler serves POST /v1/auth/logout.
//
// Revocation is idempotent; logging out an already-revoked session still
// succeeds and clears the cookie. A request without the cookie is a 400.
type LogoutHandler struct {
	TokenService   *service.TokenService
	SecureCookies  bool
	ExposeInternal bool
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, ok := refreshTokenFromRequest(r)
	if !ok {
		apperr.Write(w, apperr.MissingCredential("refresh token cookie is required"), h.ExposeInternal)
		return
	}

	if err := h.TokenService.Revoke(r.Context(), token); err != nil {
		apperr.Write(w, err, h.ExposeInternal)
		return
	}

	clearRefreshCookie(w, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, identitysdk.MessageResponse{Message: "logged out"})
}
