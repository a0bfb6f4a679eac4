package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/pkg/sqlb"
)

type refreshSessionsRepo struct {
	db *sql.DB
}

var sessionColumns = []string{
	"id", "user_id", "refresh_token", "device_info", "ip_address",
	"issued_at", "expires_at", "revoked", "created_at", "updated_at",
}

type sessionRow struct {
	ID         string
	UserID     string
	TokenHash  string
	DeviceInfo string
	IPAddress  sql.NullString
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Revoked    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r *sessionRow) scan(s sqlb.Scanner) error {
	return s.Scan(
		&r.ID, &r.UserID, &r.TokenHash, &r.DeviceInfo, &r.IPAddress,
		&r.IssuedAt, &r.ExpiresAt, &r.Revoked, &r.CreatedAt, &r.UpdatedAt,
	)
}

func (r sessionRow) toDomain() domain.RefreshSession {
	return domain.RefreshSession{
		ID:         r.ID,
		UserID:     r.UserID,
		TokenHash:  r.TokenHash,
		DeviceInfo: r.DeviceInfo,
		IPAddress:  mapNullString(r.IPAddress),
		IssuedAt:   r.IssuedAt,
		ExpiresAt:  r.ExpiresAt,
		Revoked:    r.Revoked,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (r *refreshSessionsRepo) Create(ctx context.Context, s domain.RefreshSession) error {
	err := sqlb.Table("refresh_sessions").Insert(ctx, r.db, sqlb.Row{
		"id":            s.ID,
		"user_id":       s.UserID,
		"refresh_token": s.TokenHash,
		"device_info":   s.DeviceInfo,
		"ip_address":    mapStringNull(s.IPAddress),
		"issued_at":     s.IssuedAt,
		"expires_at":    s.ExpiresAt,
		"revoked":       s.Revoked,
		"created_at":    s.CreatedAt,
		"updated_at":    s.UpdatedAt,
	})
	return mapConstraint(err)
}

func (r *refreshSessionsRepo) GetActiveByHash(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (domain.RefreshSession, error) {
	var row sessionRow
	err := sqlb.Table("refresh_sessions").
		Select(sessionColumns...).
		Eq("refresh_token", tokenHash).
		Eq("revoked", false).
		Gte("expires_at", now).
		FetchOne(ctx, r.db, row.scan)
	if err != nil {
		return domain.RefreshSession{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *refreshSessionsRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	// No rows affected is fine, revocation is idempotent.
	_, err := sqlb.Table("refresh_sessions").
		Eq("refresh_token", tokenHash).
		Update(ctx, r.db, sqlb.Row{
			"revoked":    true,
			"updated_at": time.Now().UTC(),
		})
	return err
}

func (r *refreshSessionsRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := sqlb.Table("refresh_sessions").
		Eq("user_id", userID).
		Eq("revoked", false).
		Update(ctx, r.db, sqlb.Row{
			"revoked":    true,
			"updated_at": time.Now().UTC(),
		})
	return err
}

func (r *refreshSessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return sqlb.Table("refresh_sessions").
		Lt("expires_at", now).
		Delete(ctx, r.db)
}
