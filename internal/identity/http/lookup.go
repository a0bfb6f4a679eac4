package http

import (
	"net/http"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/internal/identity/service"
	"github.com/dayplanr/identity/pkg/apperr"
	"github.com/dayplanr/identity/pkg/httpx"
	"github.com/dayplanr/identity/pkg/identitysdk"
)

// LookupHandler serves GET /v1/users/lookup. Accepts ?email= or
// ?providerType=&providerId=. A miss is a 200 with a null user, not a 404.
type LookupHandler struct {
	UserService    *service.UserService
	ExposeInternal bool
}

func (h *LookupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	public, err := h.UserService.Lookup(r.Context(), service.LookupQuery{
		Email:        q.Get("email"),
		ProviderType: domain.ProviderType(q.Get("providerType")),
		ProviderID:   q.Get("providerId"),
	})
	if err != nil {
		apperr.Write(w, err, h.ExposeInternal)
		return
	}

	resp := identitysdk.LookupResponse{Message: "user not found"}
	if public != nil {
		u := toSDKUser(*public)
		resp.User = &u
		resp.Message = "user found"
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
