package service

import (
	"context"
	"errors"
	"time"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/internal/identity/store"
	"github.com/dayplanr/identity/pkg/apperr"
	"github.com/dayplanr/identity/pkg/cryptox"
	"github.com/dayplanr/identity/pkg/idx"
	"github.com/dayplanr/identity/pkg/jwtx"
	"github.com/dayplanr/identity/pkg/slogx"
)

// TokenService issues and redeems the access/refresh token pair. Two codecs
// with distinct secrets keep the token classes mutually unredeemable.
type TokenService struct {
	Store   store.Store
	Access  *jwtx.Codec
	Refresh *jwtx.Codec

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL == 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL == 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}

// Issue signs a fresh token pair for the user and persists the refresh grant
// as a fingerprinted session row.
func (s *TokenService) Issue(ctx context.Context, user domain.User, meta RequestMeta) (domain.TokenPair, error) {
	now := time.Now().UTC()

	access, err := s.Access.Sign(jwtx.NewClaims(
		user.ID, user.Email, user.Username,
		string(user.UserRole), string(user.PlanType),
		s.accessTTL(), "", now,
	))
	if err != nil {
		return domain.TokenPair{}, apperr.Internal(err)
	}

	refresh, err := s.Refresh.Sign(jwtx.NewClaims(
		user.ID, user.Email, user.Username,
		string(user.UserRole), string(user.PlanType),
		s.refreshTTL(), "", now,
	))
	if err != nil {
		return domain.TokenPair{}, apperr.Internal(err)
	}

	session := domain.RefreshSession{
		ID:         idx.New().String(),
		UserID:     user.ID,
		TokenHash:  cryptox.FingerprintToken(refresh),
		DeviceInfo: meta.DeviceInfo,
		IPAddress:  meta.IPAddress,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.refreshTTL()),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.RefreshSessions().Create(ctx, session); err != nil {
		return domain.TokenPair{}, apperr.DBError(err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		RefreshTTL:   s.refreshTTL(),
	}, nil
}

// RefreshAccess redeems a raw refresh token for a new access token. The
// token must pass two independent checks: its fingerprint must match a live
// session row, and its signature must verify. Sessions are not rotated; the
// same refresh token remains valid until expiry or revocation.
func (s *TokenService) RefreshAccess(ctx context.Context, rawToken string) (string, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	hash := cryptox.FingerprintToken(rawToken)
	session, err := s.Store.RefreshSessions().GetActiveByHash(ctx, hash, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.UnauthorizedAccess()
		}
		return "", apperr.DBError(err)
	}

	claims, err := s.Refresh.Verify(rawToken)
	if err != nil {
		// A stored session with a bad signature points at tampering.
		log.Warn("refresh token failed signature check", "session_id", session.ID, "err", err)
		return "", apperr.UnauthorizedAccess()
	}

	access, err := s.Access.Sign(jwtx.NewClaims(
		claims.Subject, claims.Email, claims.Username,
		claims.Role, claims.Plan,
		s.accessTTL(), "", now,
	))
	if err != nil {
		return "", apperr.Internal(err)
	}

	return access, nil
}

// Revoke invalidates the session behind a raw refresh token. Unknown tokens
// are a no-op so logout stays idempotent.
func (s *TokenService) Revoke(ctx context.Context, rawToken string) error {
	hash := cryptox.FingerprintToken(rawToken)
	if err := s.Store.RefreshSessions().RevokeByHash(ctx, hash); err != nil {
		return apperr.DBError(err)
	}
	return nil
}

// RevokeAllForUser invalidates every session the user holds, e.g. after a
// password change.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID string) error {
	if err := s.Store.RefreshSessions().RevokeAllForUser(ctx, userID); err != nil {
		return apperr.DBError(err)
	}
	return nil
}
