package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/internal/identity/store"
	"github.com/dayplanr/identity/pkg/sqlb"
)

type usersRepo struct {
	db *sql.DB
}

// userColumns is the canonical projection order; userRow.scan must match.
var userColumns = []string{
	"id", "username", "email", "password",
	"login_type", "provider_type", "provider_id",
	"nickname", "profile_image_url",
	"account_status", "plan_type", "user_role",
	"subscription_start_date", "subscription_end_date", "is_subscription_active",
	"created_at", "updated_at",
	"last_login_at", "password_last_changed_at", "deactivated_at", "withdrawal_at",
}

type userRow struct {
	ID           string
	Username     string
	Email        string
	Password     sql.NullString
	LoginType    string
	ProviderType sql.NullString
	ProviderID   sql.NullString

	Nickname        sql.NullString
	ProfileImageURL sql.NullString

	AccountStatus string
	PlanType      string
	UserRole      string

	SubscriptionStartDate sql.NullTime
	SubscriptionEndDate   sql.NullTime
	IsSubscriptionActive  bool

	CreatedAt             time.Time
	UpdatedAt             time.Time
	LastLoginAt           sql.NullTime
	PasswordLastChangedAt sql.NullTime
	DeactivatedAt         sql.NullTime
	WithdrawalAt          sql.NullTime
}

func (r *userRow) scan(s sqlb.Scanner) error {
	return s.Scan(
		&r.ID, &r.Username, &r.Email, &r.Password,
		&r.LoginType, &r.ProviderType, &r.ProviderID,
		&r.Nickname, &r.ProfileImageURL,
		&r.AccountStatus, &r.PlanType, &r.UserRole,
		&r.SubscriptionStartDate, &r.SubscriptionEndDate, &r.IsSubscriptionActive,
		&r.CreatedAt, &r.UpdatedAt,
		&r.LastLoginAt, &r.PasswordLastChangedAt, &r.DeactivatedAt, &r.WithdrawalAt,
	)
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: mapNullString(r.Password),
		LoginType:    domain.LoginType(r.LoginType),
		ProviderType: domain.ProviderType(mapNullString(r.ProviderType)),
		ProviderID:   mapNullString(r.ProviderID),

		Nickname:        mapNullString(r.Nickname),
		ProfileImageURL: mapNullString(r.ProfileImageURL),

		AccountStatus: domain.AccountStatus(r.AccountStatus),
		PlanType:      domain.PlanType(r.PlanType),
		UserRole:      domain.Role(r.UserRole),

		SubscriptionStartDate: mapNullTimePtr(r.SubscriptionStartDate),
		SubscriptionEndDate:   mapNullTimePtr(r.SubscriptionEndDate),
		IsSubscriptionActive:  r.IsSubscriptionActive,

		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
		LastLoginAt:           mapNullTimePtr(r.LastLoginAt),
		PasswordLastChangedAt: mapNullTimePtr(r.PasswordLastChangedAt),
		DeactivatedAt:         mapNullTimePtr(r.DeactivatedAt),
		WithdrawalAt:          mapNullTimePtr(r.WithdrawalAt),
	}
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	err := sqlb.Table("users").Insert(ctx, r.db, sqlb.Row{
		"id":                       u.ID,
		"username":                 u.Username,
		"email":                    u.Email,
		"password":                 mapStringNull(u.PasswordHash),
		"login_type":               string(u.LoginType),
		"provider_type":            mapStringNull(string(u.ProviderType)),
		"provider_id":              mapStringNull(u.ProviderID),
		"nickname":                 mapStringNull(u.Nickname),
		"profile_image_url":        mapStringNull(u.ProfileImageURL),
		"account_status":           string(u.AccountStatus),
		"plan_type":                string(u.PlanType),
		"user_role":                string(u.UserRole),
		"subscription_start_date":  mapTimeNull(u.SubscriptionStartDate),
		"subscription_end_date":    mapTimeNull(u.SubscriptionEndDate),
		"is_subscription_active":   u.IsSubscriptionActive,
		"created_at":               u.CreatedAt,
		"updated_at":               u.UpdatedAt,
		"last_login_at":            mapTimeNull(u.LastLoginAt),
		"password_last_changed_at": mapTimeNull(u.PasswordLastChangedAt),
		"deactivated_at":           mapTimeNull(u.DeactivatedAt),
		"withdrawal_at":            mapTimeNull(u.WithdrawalAt),
	})
	return mapConstraint(err)
}

func (r *usersRepo) fetchOne(ctx context.Context, b sqlb.Builder) (domain.User, error) {
	var row userRow
	err := b.Select(userColumns...).FetchOne(ctx, r.db, row.scan)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.fetchOne(ctx, sqlb.Table("users").Eq("id", id))
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.fetchOne(ctx, sqlb.Table("users").Eq("email", email))
}

func (r *usersRepo) GetNativeByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.fetchOne(ctx, sqlb.Table("users").
		Eq("login_type", string(domain.LoginTypeNative)).
		Eq("email", email))
}

func (r *usersRepo) GetSocialByProvider(
	ctx context.Context,
	providerType domain.ProviderType,
	providerID string,
) (domain.User, error) {
	return r.fetchOne(ctx, sqlb.Table("users").
		Eq("login_type", string(domain.LoginTypeSocial)).
		Eq("provider_type", string(providerType)).
		Eq("provider_id", providerID))
}

func (r *usersRepo) RecordLogin(ctx context.Context, id string, at time.Time) (domain.User, error) {
	affected, err := sqlb.Table("users").Eq("id", id).Update(ctx, r.db, sqlb.Row{
		"last_login_at":  at,
		"account_status": string(domain.AccountActive),
		"updated_at":     at,
	})
	if err != nil {
		return domain.User{}, err
	}
	if affected == 0 {
		return domain.User{}, store.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *usersRepo) CountByEmail(ctx context.Context, email string) (int64, error) {
	return sqlb.Table("users").Eq("email", email).Count(ctx, r.db)
}

func (r *usersRepo) CountByUsername(ctx context.Context, username string) (int64, error) {
	return sqlb.Table("users").Eq("username", username).Count(ctx, r.db)
}

func (r *usersRepo) CountByProvider(
	ctx context.Context,
	providerType domain.ProviderType,
	providerID string,
) (int64, error) {
	return sqlb.Table("users").
		Eq("provider_type", string(providerType)).
		Eq("provider_id", providerID).
		Count(ctx, r.db)
}
