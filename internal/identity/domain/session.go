package domain

import "time"

// RefreshSession models a stored refresh token grant. Only the fingerprint
// of the token is persisted; the raw token lives solely in the client's
// HttpOnly cookie.
type RefreshSession struct {
	ID         string
	UserID     string
	TokenHash  string // deterministic fingerprint (base64url SHA-256)
	DeviceInfo string // User-Agent captured at issue time
	IPAddress  string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Revoked    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Active reports whether the session can still redeem a refresh.
func (s RefreshSession) Active(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}
