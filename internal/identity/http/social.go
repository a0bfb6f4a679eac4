package http

import (
	"net/http"

	"github.com/dayplanr/identity/internal/identity/provider"
	"github.com/dayplanr/identity/pkg/apperr"
	"github.com/dayplanr/identity/pkg/httpx"
	"github.com/dayplanr/identity/pkg/identitysdk"
	"github.com/dayplanr/identity/pkg/slogx"
)

// SocialAuthHandler serves POST /v1/auth/{provider}-auth, swapping an
// authorization code for the provider's token payload.
type SocialAuthHandler struct {
	Client         *provider.Client
	ExposeInternal bool
}

func (h *SocialAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req identitysdk.SocialAuthRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err, h.ExposeInternal)
		return
	}
	if req.Code == "" {
		apperr.Write(w, apperr.MissingField("code"), h.ExposeInternal)
		return
	}

	payload, err := h.Client.ExchangeCode(ctx, req.Code, req.State)
	if err != nil {
		log.Warn("social code exchange failed", "provider", string(h.Client.Type()), "err", err)
		apperr.Write(w, apperr.InvalidCredentials().WithInternal(err), h.ExposeInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, identitysdk.SocialTokenPayload{
		AccessToken:  payload.AccessToken,
		TokenType:    payload.TokenType,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    payload.ExpiresIn,
		Scope:        payload.Scope,
		IDToken:      payload.IDToken,
	})
}

// SocialUserHandler serves POST /v1/auth/{provider}-user, resolving a
// provider access token into a normalized profile.
type SocialUserHandler struct {
	Client         *provider.Client
	ExposeInternal bool
}

func (h *SocialUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req identitysdk.SocialUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err, h.ExposeInternal)
		return
	}
	if req.AccessToken == "" {
		apperr.Write(w, apperr.MissingField("accessToken"), h.ExposeInternal)
		return
	}

	raw, err := h.Client.FetchRawProfile(ctx, req.AccessToken)
	if err != nil {
		log.Warn("social profile fetch failed", "provider", string(h.Client.Type()), "err", err)
		apperr.Write(w, apperr.InvalidCredentials().WithInternal(err), h.ExposeInternal)
		return
	}

	profile, err := provider.Normalize(h.Client.Type(), raw)
	if err != nil {
		apperr.Write(w, apperr.UserDataIncomplete().WithInternal(err), h.ExposeInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, identitysdk.SocialProfile{
		ProviderType:    string(profile.ProviderType),
		ProviderID:      profile.ProviderID,
		Email:           profile.Email,
		Username:        profile.Username,
		Nickname:        profile.Nickname,
		ProfileImageURL: profile.ProfileImageURL,
	})
}
