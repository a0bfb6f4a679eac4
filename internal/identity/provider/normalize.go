package provider

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dayplanr/identity/internal/identity/domain"
)

// Normalize extracts a provider-agnostic Profile from a raw profile payload
// as returned by FetchRawProfile.
func Normalize(pt domain.ProviderType, raw json.RawMessage) (Profile, error) {
	switch pt {
	case domain.ProviderKakao:
		return normalizeKakao(raw)
	case domain.ProviderNaver:
		return normalizeNaver(raw)
	case domain.ProviderGoogle:
		return normalizeGoogle(raw)
	default:
		return Profile{}, fmt.Errorf("unsupported provider: %s", pt)
	}
}

func normalizeKakao(raw json.RawMessage) (Profile, error) {
	// Kakao ids are numeric and must be stringified for storage.
	var payload struct {
		ID           json.Number `json:"id"`
		KakaoAccount struct {
			Email string `json:"email"`
		} `json:"kakao_account"`
		Properties struct {
			Nickname     string `json:"nickname"`
			ProfileImage string `json:"profile_image"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Profile{}, fmt.Errorf("kakao profile: %w", err)
	}
	if payload.ID.String() == "" {
		return Profile{}, fmt.Errorf("kakao profile: missing id")
	}

	return Profile{
		ProviderType:    domain.ProviderKakao,
		ProviderID:      payload.ID.String(),
		Email:           payload.KakaoAccount.Email,
		Username:        payload.Properties.Nickname,
		Nickname:        payload.Properties.Nickname,
		ProfileImageURL: payload.Properties.ProfileImage,
	}, nil
}

func normalizeNaver(raw json.RawMessage) (Profile, error) {
	var payload struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Name         string `json:"name"`
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Profile{}, fmt.Errorf("naver profile: %w", err)
	}
	if payload.ID == "" {
		return Profile{}, fmt.Errorf("naver profile: missing id")
	}

	return Profile{
		ProviderType:    domain.ProviderNaver,
		ProviderID:      payload.ID,
		Email:           payload.Email,
		Username:        payload.Name,
		Nickname:        payload.Nickname,
		ProfileImageURL: payload.ProfileImage,
	}, nil
}

func normalizeGoogle(raw json.RawMessage) (Profile, error) {
	var payload struct {
		ID      any    `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Profile{}, fmt.Errorf("google profile: %w", err)
	}

	id := stringifyID(payload.ID)
	if id == "" {
		return Profile{}, fmt.Errorf("google profile: missing id")
	}

	return Profile{
		ProviderType:    domain.ProviderGoogle,
		ProviderID:      id,
		Email:           payload.Email,
		Username:        payload.Name,
		Nickname:        payload.Name,
		ProfileImageURL: payload.Picture,
	}, nil
}

func stringifyID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}
