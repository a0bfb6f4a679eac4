package http

import (
	"net/http"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/internal/identity/service"
	"github.com/dayplanr/identity/pkg/apperr"
	"github.com/dayplanr/identity/pkg/httpx"
	"github.com/dayplanr/identity/pkg/identitysdk"
)

// SignUpHandler serves POST /v1/auth/sign-up.
type SignUpHandler struct {
	SignUpService  *service.SignUpService
	ExposeInternal bool
}

func (h *SignUpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.SignUpRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err, h.ExposeInternal)
		return
	}

	user, err := h.SignUpService.Register(r.Context(), service.SignUpInput{
		LoginType:       domain.LoginType(req.LoginType),
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		ProviderType:    domain.ProviderType(req.ProviderType),
		ProviderID:      req.ProviderID,
		Nickname:        req.Nickname,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		apperr.Write(w, err, h.ExposeInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSDKUser(user.Public()))
}

// CheckDuplicateHandler serves POST /v1/auth/check-duplicate.
type CheckDuplicateHandler struct {
	SignUpService  *service.SignUpService
	ExposeInternal bool
}

func (h *CheckDuplicateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.CheckDuplicateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		apperr.Write(w, err, h.ExposeInternal)
		return
	}

	report, err := h.SignUpService.CheckDuplicate(r.Context(), service.DuplicateQuery{
		Email:        req.Email,
		Username:     req.Username,
		ProviderType: domain.ProviderType(req.ProviderType),
		ProviderID:   req.ProviderID,
	})
	if err != nil {
		apperr.Write(w, err, h.ExposeInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, identitysdk.CheckDuplicateResponse{
		IsDuplicate: report.IsDuplicate,
		DuplicateFields: identitysdk.DuplicateFields{
			Email:    report.DuplicateFields.Email,
			Username: report.DuplicateFields.Username,
			Provider: report.DuplicateFields.Provider,
		},
	})
}
