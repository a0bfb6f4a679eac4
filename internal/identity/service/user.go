package service

import (
	"context"
	"errors"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/internal/identity/store"
	"github.com/dayplanr/identity/pkg/apperr"
)

// UserService serves profile reads and the public existence lookup.
type UserService struct {
	Store store.Store
}

// GetByID returns the full user record for an authenticated subject.
func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, apperr.UserNotFound()
		}
		return domain.User{}, apperr.DBError(err)
	}
	return user, nil
}

type LookupQuery struct {
	Email        string
	ProviderType domain.ProviderType
	ProviderID   string
}

// Lookup finds a user by provider identity or email, in that order of
// preference. A missing user is not an error; the caller gets nil.
func (s *UserService) Lookup(ctx context.Context, q LookupQuery) (*domain.PublicUser, error) {
	var (
		user domain.User
		err  error
	)

	switch {
	case q.ProviderType != "" && q.ProviderID != "":
		user, err = s.Store.Users().GetSocialByProvider(ctx, q.ProviderType, q.ProviderID)
	case q.Email != "":
		user, err = s.Store.Users().GetByEmail(ctx, q.Email)
	default:
		return nil, apperr.MissingField("email or provider identity")
	}

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.DBError(err)
	}

	public := user.Public()
	return &public, nil
}
