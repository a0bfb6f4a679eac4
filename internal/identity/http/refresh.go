package http

import (
	"net/http"

	"github.com/dayplanr/identity/internal/identity/service"
	"github.com/dayplanr/identity/pkg/apperr"
	"github.com/dayplanr/identity/pkg/httpx"
	"github.com/dayplanr/identity/pkg/identitysdk"
)

// RefreshHandler serves POST /v1/auth/refresh.
//
// The refresh token rides the cookie only. A missing, expired, revoked or
// forged token is a uniform 401.
type RefreshHandler struct {
	TokenService   *service.TokenService
	ExposeInternal bool
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, ok := refreshTokenFromRequest(r)
	if !ok {
		apperr.Write(w, apperr.UnauthorizedAccess(), h.ExposeInternal)
		return
	}

	access, err := h.TokenService.RefreshAccess(r.Context(), token)
	if err != nil {
		apperr.Write(w, err, h.ExposeInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, identitysdk.RefreshResponse{AccessToken: access})
}
