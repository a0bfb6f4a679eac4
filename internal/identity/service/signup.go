package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/internal/identity/store"
	"github.com/dayplanr/identity/pkg/apperr"
	"github.com/dayplanr/identity/pkg/cryptox"
	"github.com/dayplanr/identity/pkg/idx"
	"github.com/dayplanr/identity/pkg/slogx"
)

// SignUpService registers new accounts and answers duplicate checks.
type SignUpService struct {
	Store store.Store
}

type SignUpInput struct {
	LoginType domain.LoginType
	Email     string
	Username  string
	Password  string // native only

	ProviderType domain.ProviderType // social only
	ProviderID   string              // social only

	Nickname        string
	ProfileImageURL string
}

func (in *SignUpInput) validate() error {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if in.Email == "" {
		return apperr.MissingField("email")
	}
	if !strings.Contains(in.Email, "@") {
		return apperr.InvalidInput("email address is malformed")
	}
	if in.Username == "" {
		return apperr.MissingField("username")
	}

	switch in.LoginType {
	case domain.LoginTypeNative:
		if in.Password == "" {
			return apperr.MissingField("password")
		}
	case domain.LoginTypeSocial:
		if in.ProviderType == "" {
			return apperr.MissingField("providerType")
		}
		if !in.ProviderType.Valid() {
			return apperr.InvalidInput("unsupported providerType")
		}
		if in.ProviderID == "" {
			return apperr.MissingField("providerId")
		}
	default:
		return apperr.UnknownLoginType()
	}

	return nil
}

// Register creates the account. Duplicate identities surface as
// USER_ALREADY_EXISTS via the store's unique constraints; there is no
// read-then-insert race window.
func (s *SignUpService) Register(ctx context.Context, in SignUpInput) (domain.User, error) {
	if err := in.validate(); err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:        idx.New().String(),
		Username:  in.Username,
		Email:     in.Email,
		LoginType: in.LoginType,

		Nickname:        in.Nickname,
		ProfileImageURL: in.ProfileImageURL,

		AccountStatus: domain.AccountActive,
		PlanType:      domain.PlanFree,
		UserRole:      domain.RoleUser,

		CreatedAt: now,
		UpdatedAt: now,
	}

	switch in.LoginType {
	case domain.LoginTypeNative:
		hash, err := cryptox.HashPassword(in.Password)
		if err != nil {
			return domain.User{}, apperr.Internal(err)
		}
		user.PasswordHash = hash
		user.PasswordLastChangedAt = &now
	case domain.LoginTypeSocial:
		user.ProviderType = in.ProviderType
		user.ProviderID = in.ProviderID
	}

	if err := s.Store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, apperr.UserAlreadyExists().WithInternal(err)
		}
		return domain.User{}, apperr.DBError(err)
	}

	slogx.FromContext(ctx).Info("user registered",
		"user_id", user.ID,
		"login_type", string(user.LoginType),
	)
	return user, nil
}

type DuplicateQuery struct {
	Email        string
	Username     string
	ProviderType domain.ProviderType
	ProviderID   string
}

type DuplicateFields struct {
	Email    bool `json:"email"`
	Username bool `json:"username"`
	Provider bool `json:"provider"`
}

type DuplicateReport struct {
	IsDuplicate     bool            `json:"isDuplicate"`
	DuplicateFields DuplicateFields `json:"duplicateFields"`
}

// CheckDuplicate reports, per provided field, whether the value is taken.
// Fields left empty are skipped, not treated as free.
func (s *SignUpService) CheckDuplicate(ctx context.Context, q DuplicateQuery) (DuplicateReport, error) {
	if q.Email == "" && q.Username == "" && (q.ProviderType == "" || q.ProviderID == "") {
		return DuplicateReport{}, apperr.MissingField("email, username or provider identity")
	}

	var report DuplicateReport
	users := s.Store.Users()

	if q.Email != "" {
		n, err := users.CountByEmail(ctx, q.Email)
		if err != nil {
			return DuplicateReport{}, apperr.DBError(err)
		}
		report.DuplicateFields.Email = n > 0
	}

	if q.Username != "" {
		n, err := users.CountByUsername(ctx, q.Username)
		if err != nil {
			return DuplicateReport{}, apperr.DBError(err)
		}
		report.DuplicateFields.Username = n > 0
	}

	if q.ProviderType != "" && q.ProviderID != "" {
		n, err := users.CountByProvider(ctx, q.ProviderType, q.ProviderID)
		if err != nil {
			return DuplicateReport{}, apperr.DBError(err)
		}
		report.DuplicateFields.Provider = n > 0
	}

	report.IsDuplicate = report.DuplicateFields.Email ||
		report.DuplicateFields.Username ||
		report.DuplicateFields.Provider
	return report, nil
}
