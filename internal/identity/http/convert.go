package http

import (
	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/pkg/identitysdk"
)

func toSDKUser(u domain.PublicUser) identitysdk.PublicUser {
	return identitysdk.PublicUser{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		Nickname:             u.Nickname,
		ProfileImageURL:      u.ProfileImageURL,
		PlanType:             string(u.PlanType),
		UserRole:             string(u.UserRole),
		AccountStatus:        string(u.AccountStatus),
		IsSubscriptionActive: u.IsSubscriptionActive,
	}
}
