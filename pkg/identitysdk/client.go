package identitysdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Client talks to the identity service. The embedded cookie jar holds the
// HttpOnly refresh cookie, so refresh and logout work without the caller ever
// seeing the refresh token.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with its own cookie jar for the refresh cookie.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	body any,
	bearer string,
	target any,
	expectedStatus int,
) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target != nil {
		if err := json.Unmarshal(bodyBytes, target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Login authenticates with native or social credentials. On success the
// refresh cookie lands in the jar and the access token returns in the body.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the refresh session behind the jarred cookie.
func (c *Client) Logout(ctx context.Context) error {
	var out MessageResponse
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/logout", nil, "", &out, http.StatusOK)
}

// Refresh redeems the jarred refresh cookie for a new access token.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	var out RefreshResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", nil, "", &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*PublicUser, error) {
	var out PublicUser
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/sign-up", req, "", &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the public view of the authenticated user.
func (c *Client) Me(ctx context.Context, accessToken string) (*PublicUser, error) {
	var out PublicUser
	if err := c.doJSON(ctx, http.MethodGet, "/v1/auth/me", nil, accessToken, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckDuplicate asks which of the provided fields are already taken.
func (c *Client) CheckDuplicate(ctx context.Context, req CheckDuplicateRequest) (*CheckDuplicateResponse, error) {
	var out CheckDuplicateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/check-duplicate", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// LookupByEmail checks whether an account exists for the email. A miss
// returns a response with a nil User, not an error.
func (c *Client) LookupByEmail(ctx context.Context, email string) (*LookupResponse, error) {
	return c.lookup(ctx, url.Values{"email": {email}})
}

// LookupByProvider checks whether an account exists for the provider identity.
func (c *Client) LookupByProvider(ctx context.Context, providerType, providerID string) (*LookupResponse, error) {
	return c.lookup(ctx, url.Values{
		"providerType": {providerType},
		"providerId":   {providerID},
	})
}

func (c *Client) lookup(ctx context.Context, q url.Values) (*LookupResponse, error) {
	var out LookupResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/users/lookup?"+q.Encode(), nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SocialAuth exchanges an authorization code for the provider's token
// payload via the server-side exchange endpoint.
func (c *Client) SocialAuth(ctx context.Context, provider, code, state string) (*SocialTokenPayload, error) {
	var out SocialTokenPayload
	path := "/v1/auth/" + provider + "-auth"
	if err := c.doJSON(ctx, http.MethodPost, path, SocialAuthRequest{Code: code, State: state}, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SocialUser resolves a provider access token into a normalized profile.
func (c *Client) SocialUser(ctx context.Context, provider, accessToken string) (*SocialProfile, error) {
	var out SocialProfile
	path := "/v1/auth/" + provider + "-user"
	if err := c.doJSON(ctx, http.MethodPost, path, SocialUserRequest{AccessToken: accessToken}, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reads the readiness probe.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
