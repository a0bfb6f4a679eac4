package http

import (
	"net/http"

	"github.com/dayplanr/identity/internal/identity/service"
	"github.com/dayplanr/identity/pkg/apperr"
	"github.com/dayplanr/identity/pkg/httpx"
)

// MeHandler serves GET /v1/auth/me. Requires a verified bearer token.
type MeHandler struct {
	UserService    *service.UserService
	ExposeInternal bool
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		apperr.Write(w, apperr.UnauthorizedAccess(), h.ExposeInternal)
		return
	}

	user, err := h.UserService.GetByID(r.Context(), userID)
	if err != nil {
		apperr.Write(w, err, h.ExposeInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSDKUser(user.Public()))
}
