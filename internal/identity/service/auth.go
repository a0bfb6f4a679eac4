package service

import (
	"context"
	"errors"
	"time"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/internal/identity/store"
	"github.com/dayplanr/identity/pkg/apperr"
	"github.com/dayplanr/identity/pkg/cryptox"
	"github.com/dayplanr/identity/pkg/slogx"
)

// AuthService authenticates credentials and runs the full login pipeline:
// credential check, policy gates, login stamp, token issuance.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService

	// PasswordMaxAge is the password rotation window. Zero means
	// DefaultPasswordMaxAge.
	PasswordMaxAge time.Duration
}

// LoginInput is a login request tagged by LoginType; the credential fields
// used depend on the tag.
type LoginInput struct {
	LoginType domain.LoginType

	// Native credentials
	Email    string
	Password string

	// Social identity
	ProviderType domain.ProviderType
	ProviderID   string
}

// RequestMeta captures where a login came from, recorded on the refresh
// session for auditing.
type RequestMeta struct {
	DeviceInfo string // User-Agent
	IPAddress  string
}

// Authenticate verifies credentials only. It performs no policy checks and
// has no side effects.
func (s *AuthService) Authenticate(ctx context.Context, in LoginInput) (domain.User, error) {
	switch in.LoginType {
	case domain.LoginTypeNative:
		return s.authenticateNative(ctx, in)
	case domain.LoginTypeSocial:
		return s.authenticateSocial(ctx, in)
	default:
		return domain.User{}, apperr.UnknownLoginType()
	}
}

func (s *AuthService) authenticateNative(ctx context.Context, in LoginInput) (domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return domain.User{}, apperr.MissingCredential("email and password are required")
	}

	user, err := s.Store.Users().GetNativeByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same error as a wrong password so account existence never leaks.
			return domain.User{}, apperr.InvalidCredentials()
		}
		return domain.User{}, apperr.DBError(err)
	}

	if user.PasswordHash == "" {
		return domain.User{}, apperr.InvalidCredentials()
	}

	if err := cryptox.VerifyPassword(in.Password, user.PasswordHash); err != nil {
		return domain.User{}, apperr.InvalidCredentials()
	}

	return user, nil
}

func (s *AuthService) authenticateSocial(ctx context.Context, in LoginInput) (domain.User, error) {
	if in.ProviderType == "" || in.ProviderID == "" {
		return domain.User{}, apperr.MissingCredential("providerType and providerId are required")
	}

	user, err := s.Store.Users().GetSocialByProvider(ctx, in.ProviderType, in.ProviderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, apperr.UserNotFound().WithStatus(401)
		}
		return domain.User{}, apperr.DBError(err)
	}

	// Integrity fault: a social row must carry its provider identity.
	if user.ProviderType == "" || user.ProviderID == "" {
		return domain.User{}, apperr.UserDataIncomplete()
	}

	// Defensive double-check against index corruption or a bad lookup.
	if user.ProviderType != in.ProviderType || user.ProviderID != in.ProviderID {
		return domain.User{}, apperr.InvalidCredentials()
	}

	return user, nil
}

// Login runs the full pipeline and returns the post-stamp user along with a
// fresh token pair.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta RequestMeta) (domain.User, domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Authenticate(ctx, in)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := CheckAccountStatus(user); err != nil {
		log.Warn("login blocked by account status",
			"user_id", user.ID,
			"status", string(user.AccountStatus),
		)
		return domain.User{}, domain.TokenPair{}, err
	}

	maxAge := s.PasswordMaxAge
	if maxAge == 0 {
		maxAge = DefaultPasswordMaxAge
	}
	now := time.Now().UTC()
	if err := CheckPasswordExpiry(user, maxAge, now); err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	user, err = s.Store.Users().RecordLogin(ctx, user.ID, now)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, apperr.LoginUpdateFailed(err)
	}

	pair, err := s.Tokens.Issue(ctx, user, meta)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	log.Info("login succeeded", "user_id", user.ID, "login_type", string(in.LoginType))
	return user, pair, nil
}
