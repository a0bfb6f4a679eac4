package service

import (
	"time"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/pkg/apperr"
)

// DefaultPasswordMaxAge is the policy window after which a native password
// must be rotated before login succeeds.
const DefaultPasswordMaxAge = 90 * 24 * time.Hour

// CheckAccountStatus gates login on the account lifecycle state. Read-only;
// each non-active state maps to its own error code.
func CheckAccountStatus(u domain.User) error {
	switch u.AccountStatus {
	case domain.AccountActive:
		return nil
	case domain.AccountInactive:
		return apperr.AccountInactive()
	case domain.AccountBanned:
		return apperr.AccountBanned()
	case domain.AccountDormant:
		return apperr.AccountDormant()
	case domain.AccountWithdrawn:
		return apperr.AccountWithdrawn()
	default:
		return apperr.UnknownAccountStatus()
	}
}

// CheckPasswordExpiry gates login on password age. Accounts with no recorded
// change date (social accounts, legacy rows) are exempt.
func CheckPasswordExpiry(u domain.User, maxAge time.Duration, now time.Time) error {
	if u.PasswordLastChangedAt == nil {
		return nil
	}
	if now.After(u.PasswordLastChangedAt.Add(maxAge)) {
		return apperr.PasswordExpired()
	}
	return nil
}
