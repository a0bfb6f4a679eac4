package http

import (
	"net/http"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/internal/identity/service"
	"github.com/dayplanr/identity/pkg/apperr"
	"github.com/dayplanr/identity/pkg/httpx"
	"github.com/dayplanr/identity/pkg/identitysdk"
	"github.com/dayplanr/identity/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login.
//
// The access token returns in the JSON body; the refresh token is set as an
// HttpOnly cookie and never appears in the body.
type LoginHandler struct {
	AuthService    *service.AuthService
	SecureCookies  bool
	ExposeInternal bool
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req identitysdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err, h.ExposeInternal)
		return
	}

	input := service.LoginInput{
		LoginType:    domain.LoginType(req.LoginType),
		Email:        req.Email,
		Password:     req.Password,
		ProviderType: domain.ProviderType(req.ProviderType),
		ProviderID:   req.ProviderID,
	}
	meta := service.RequestMeta{
		DeviceInfo: r.UserAgent(),
		IPAddress:  httpx.IPKeyExtractor(r),
	}

	user, pair, err := h.AuthService.Login(ctx, input, meta)
	if err != nil {
		if apperr.StatusOf(err) >= 500 {
			log.Error("login failed", "err", err)
		}
		apperr.Write(w, err, h.ExposeInternal)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, pair.RefreshTTL, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, identitysdk.LoginResponse{
		User:        toSDKUser(user.Public()),
		AccessToken: pair.AccessToken,
	})
}
