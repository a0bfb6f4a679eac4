package domain

import "time"

// TokenPair is the result of a successful login: the access token travels in
// the response body, the refresh token only ever inside an HttpOnly cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// RefreshTTL is how long the refresh cookie should live.
	RefreshTTL time.Duration
}
