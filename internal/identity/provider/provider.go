// Package provider wraps the social identity providers (Kakao, Naver,
// Google) behind one OAuth2 client type. The service only relays codes and
// tokens; profile normalization happens here so the rest of the system never
// touches provider-specific payload shapes.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dayplanr/identity/internal/identity/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/kakao"
)

// naverEndpoint is not shipped with x/oauth2.
var naverEndpoint = oauth2.Endpoint{
	AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
	TokenURL: "https://nid.naver.com/oauth2.0/token",
}

const (
	kakaoProfileURL  = "https://kapi.kakao.com/v2/user/me"
	naverProfileURL  = "https://openapi.naver.com/v1/nid/me"
	googleProfileURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Profile is the provider-agnostic identity extracted from a raw profile.
type Profile struct {
	ProviderType    domain.ProviderType `json:"providerType"`
	ProviderID      string              `json:"providerId"`
	Email           string              `json:"email"`
	Username        string              `json:"username"`
	Nickname        string              `json:"nickname"`
	ProfileImageURL string              `json:"profileImageUrl"`
}

// TokenPayload mirrors the provider's token response for relay to the client.
type TokenPayload struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
}

// Config carries the OAuth2 app credentials for one provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Configured reports whether the provider can be activated.
func (c Config) Configured() bool {
	return c.ClientID != "" && c.RedirectURL != ""
}

// Client is one configured social provider.
type Client struct {
	providerType domain.ProviderType
	cfg          *oauth2.Config
	profileURL   string
}

func newClient(pt domain.ProviderType, cfg Config, endpoint oauth2.Endpoint, profileURL string) *Client {
	return &Client{
		providerType: pt,
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
		},
		profileURL: profileURL,
	}
}

func NewKakao(cfg Config) *Client {
	return newClient(domain.ProviderKakao, cfg, kakao.Endpoint, kakaoProfileURL)
}

func NewNaver(cfg Config) *Client {
	return newClient(domain.ProviderNaver, cfg, naverEndpoint, naverProfileURL)
}

func NewGoogle(cfg Config) *Client {
	return newClient(domain.ProviderGoogle, cfg, google.Endpoint, googleProfileURL)
}

// Type names the provider this client talks to.
func (c *Client) Type() domain.ProviderType { return c.providerType }

// AuthCodeURL builds the provider's authorization page URL for a popup.
func (c *Client) AuthCodeURL(state string) string {
	return c.cfg.AuthCodeURL(state)
}

// ExchangeCode swaps an authorization code for the provider's token payload.
// Naver requires the state parameter to ride along with the exchange.
func (c *Client) ExchangeCode(ctx context.Context, code, state string) (TokenPayload, error) {
	var opts []oauth2.AuthCodeOption
	if c.providerType == domain.ProviderNaver && state != "" {
		opts = append(opts, oauth2.SetAuthURLParam("state", state))
	}

	token, err := c.cfg.Exchange(ctx, code, opts...)
	if err != nil {
		return TokenPayload{}, fmt.Errorf("%s code exchange: %w", c.providerType, err)
	}

	return payloadFromToken(token), nil
}

func payloadFromToken(t *oauth2.Token) TokenPayload {
	p := TokenPayload{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
	}
	if !t.Expiry.IsZero() {
		p.ExpiresIn = int64(time.Until(t.Expiry).Seconds())
	}
	if scope, ok := t.Extra("scope").(string); ok {
		p.Scope = scope
	}
	if idToken, ok := t.Extra("id_token").(string); ok {
		p.IDToken = idToken
	}
	return p
}

// FetchRawProfile retrieves the provider's profile payload for an access
// token. Naver nests the useful part under "response"; it is unwrapped here
// so the relayed payload matches what Normalize expects.
func (c *Client) FetchRawProfile(ctx context.Context, accessToken string) (json.RawMessage, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	httpClient := oauth2.NewClient(ctx, src)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s profile fetch: %w", c.providerType, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s profile fetch: status %d: %s", c.providerType, resp.StatusCode, body)
	}

	if c.providerType == domain.ProviderNaver {
		var envelope struct {
			Response json.RawMessage `json:"response"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("naver profile envelope: %w", err)
		}
		if len(envelope.Response) == 0 {
			return nil, fmt.Errorf("naver profile fetch: empty response envelope")
		}
		return envelope.Response, nil
	}

	return body, nil
}

// Registry holds the active providers keyed by type.
type Registry map[domain.ProviderType]*Client

// NewRegistry activates every configured provider.
func NewRegistry(kakaoCfg, naverCfg, googleCfg Config) Registry {
	reg := Registry{}
	if kakaoCfg.Configured() {
		reg[domain.ProviderKakao] = NewKakao(kakaoCfg)
	}
	if naverCfg.Configured() {
		reg[domain.ProviderNaver] = NewNaver(naverCfg)
	}
	if googleCfg.Configured() {
		reg[domain.ProviderGoogle] = NewGoogle(googleCfg)
	}
	return reg
}

// Get returns the client for a provider type.
func (r Registry) Get(pt domain.ProviderType) (*Client, bool) {
	c, ok := r[pt]
	return c, ok
}
