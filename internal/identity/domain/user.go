package domain

import "time"

// LoginType discriminates how a user authenticates.
type LoginType string

const (
	LoginTypeNative LoginType = "native"
	LoginTypeSocial LoginType = "social"
)

// ProviderType identifies a social identity provider.
type ProviderType string

const (
	ProviderKakao  ProviderType = "kakao"
	ProviderNaver  ProviderType = "naver"
	ProviderGoogle ProviderType = "google"
)

// Valid reports whether p names a supported provider.
func (p ProviderType) Valid() bool {
	switch p {
	case ProviderKakao, ProviderNaver, ProviderGoogle:
		return true
	}
	return false
}

// AccountStatus is the lifecycle state of an account. Only active accounts
// may log in; every other state maps to a distinct policy error.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountInactive  AccountStatus = "inactive"
	AccountBanned    AccountStatus = "banned"
	AccountDormant   AccountStatus = "dormant"
	AccountWithdrawn AccountStatus = "withdrawn"
)

// PlanType is the subscription plan tier.
type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanPremium PlanType = "premium"
	PlanPro     PlanType = "pro"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt encoded, empty for social accounts
	LoginType    LoginType
	ProviderType ProviderType // empty for native accounts
	ProviderID   string       // empty for native accounts

	Nickname        string
	ProfileImageURL string

	AccountStatus AccountStatus
	PlanType      PlanType
	UserRole      Role

	SubscriptionStartDate *time.Time
	SubscriptionEndDate   *time.Time
	IsSubscriptionActive  bool

	CreatedAt             time.Time
	UpdatedAt             time.Time
	LastLoginAt           *time.Time
	PasswordLastChangedAt *time.Time
	DeactivatedAt         *time.Time
	WithdrawalAt          *time.Time
}

// PublicUser is the projection safe to hand to any client. It never carries
// the password hash or provider identifiers.
type PublicUser struct {
	ID                   string        `json:"id"`
	Username             string        `json:"username"`
	Email                string        `json:"email"`
	Nickname             string        `json:"nickname,omitempty"`
	ProfileImageURL      string        `json:"profileImageUrl,omitempty"`
	PlanType             PlanType      `json:"planType"`
	UserRole             Role          `json:"userRole"`
	AccountStatus        AccountStatus `json:"accountStatus"`
	IsSubscriptionActive bool          `json:"isSubscriptionActive"`
}

// Public returns the client-safe view of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		Nickname:             u.Nickname,
		ProfileImageURL:      u.ProfileImageURL,
		PlanType:             u.PlanType,
		UserRole:             u.UserRole,
		AccountStatus:        u.AccountStatus,
		IsSubscriptionActive: u.IsSubscriptionActive,
	}
}

// IsNative reports whether the account authenticates with email+password.
func (u User) IsNative() bool { return u.LoginType == LoginTypeNative }
