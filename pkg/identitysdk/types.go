package identitysdk

// PublicUser is the client-safe user view returned by the identity service.
// It never carries the password hash or raw provider identifiers.
type PublicUser struct {
	ID                   string `json:"id"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Nickname             string `json:"nickname,omitempty"`
	ProfileImageURL      string `json:"profileImageUrl,omitempty"`
	PlanType             string `json:"planType"`
	UserRole             string `json:"userRole"`
	AccountStatus        string `json:"accountStatus"`
	IsSubscriptionActive bool   `json:"isSubscriptionActive"`
}

// ErrorResponse is the error body every endpoint shares.
type ErrorResponse struct {
	// Message is the human-readable description of what went wrong
	Message string `json:"message"`

	// Code is the stable machine-readable error code, e.g. "INVALID_CREDENTIALS"
	Code string `json:"code"`

	// Err carries the internal cause, only populated in development
	Err string `json:"error,omitempty"`
}

// LoginRequest is the body for POST /v1/auth/login. LoginType selects which
// credential fields are read: "native" uses email+password, "social" uses
// providerType+providerId.
type LoginRequest struct {
	LoginType string `json:"loginType"`

	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`

	ProviderType string `json:"providerType,omitempty"`
	ProviderID   string `json:"providerId,omitempty"`
}

// LoginResponse is the success body for POST /v1/auth/login. The refresh
// token travels separately as an HttpOnly cookie.
type LoginResponse struct {
	User        PublicUser `json:"user"`
	AccessToken string     `json:"accessToken"`
}

// RefreshResponse is the success body for POST /v1/auth/refresh.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// MessageResponse is a bare confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignUpRequest is the body for POST /v1/auth/sign-up.
type SignUpRequest struct {
	LoginType string `json:"loginType"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`

	ProviderType string `json:"providerType,omitempty"`
	ProviderID   string `json:"providerId,omitempty"`

	Nickname        string `json:"nickname,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// CheckDuplicateRequest is the body for POST /v1/auth/check-duplicate. Only
// the provided fields are checked.
type CheckDuplicateRequest struct {
	Email        string `json:"email,omitempty"`
	Username     string `json:"username,omitempty"`
	ProviderType string `json:"providerType,omitempty"`
	ProviderID   string `json:"providerId,omitempty"`
}

// DuplicateFields flags, per checked field, whether the value is taken.
type DuplicateFields struct {
	Email    bool `json:"email"`
	Username bool `json:"username"`
	Provider bool `json:"provider"`
}

// CheckDuplicateResponse is the per-field duplicate report.
type CheckDuplicateResponse struct {
	IsDuplicate     bool            `json:"isDuplicate"`
	DuplicateFields DuplicateFields `json:"duplicateFields"`
}

// LookupResponse is the body for GET /v1/users/lookup. User is null when no
// account matches.
type LookupResponse struct {
	User    *PublicUser `json:"user"`
	Message string      `json:"message"`
}

// SocialAuthRequest is the body for POST /v1/auth/{provider}-auth. State is
// required for Naver, which validates it during the code exchange.
type SocialAuthRequest struct {
	Code  string `json:"code"`
	State string `json:"state,omitempty"`
}

// SocialTokenPayload relays the provider's token response to the client.
type SocialTokenPayload struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
}

// SocialUserRequest is the body for POST /v1/auth/{provider}-user.
type SocialUserRequest struct {
	AccessToken string `json:"accessToken"`
}

// SocialProfile is the normalized provider identity returned by the
// {provider}-user endpoints and surfaced by the social bridge when an
// unknown identity needs registration.
type SocialProfile struct {
	ProviderType    string `json:"providerType"`
	ProviderID      string `json:"providerId"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// HealthChecks reports the state of each critical dependency.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is the body for GET /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
