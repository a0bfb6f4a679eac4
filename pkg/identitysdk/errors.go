package identitysdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the identity service, carrying the
// stable error code alongside the HTTP status.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Is matches APIErrors by code so callers can compare against sentinels
// without caring about status or message.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// ErrRegistrationRequired reports that a social identity passed provider
// authentication but has no account yet. It always arrives wrapped in a
// RegistrationRequired carrying the normalized profile to pre-fill sign-up.
var ErrRegistrationRequired = errors.New("social identity is not registered")

// RegistrationRequired carries the normalized provider profile for the
// sign-up form. errors.Is(err, ErrRegistrationRequired) matches it.
type RegistrationRequired struct {
	Profile SocialProfile
}

func (e *RegistrationRequired) Error() string {
	return fmt.Sprintf("%s account %s requires registration", e.Profile.ProviderType, e.Profile.ProviderID)
}

func (e *RegistrationRequired) Unwrap() error { return ErrRegistrationRequired }

func parseErrorResponse(resp *http.Response, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Message == "" {
		return &APIError{
			Status:  resp.StatusCode,
			Code:    "UNEXPECTED_RESPONSE",
			Message: http.StatusText(resp.StatusCode),
		}
	}

	return &APIError{
		Status:  resp.StatusCode,
		Code:    er.Code,
		Message: er.Message,
	}
}
