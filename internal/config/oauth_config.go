package config

import (
	"strings"
	"time"
)

type OAuthConfig interface {
	GetProviderClientID(provider string) string
	GetProviderScopes(provider string) []string
	GetAuthFlowTimeout() time.Duration
	GetRegistrationTokenTTL() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetProviderClientID reads <PROVIDER>_CLIENT_ID, e.g. KAKAO_CLIENT_ID.
func (OAuth) GetProviderClientID(provider string) string {
	return GetEnv(strings.ToUpper(provider)+"_CLIENT_ID", "")
}

func (OAuth) GetProviderScopes(provider string) []string {
	switch provider {
	case "google":
		return []string{"openid", "profile", "email"}
	case "kakao":
		return []string{"profile_nickname", "account_email"}
	default:
		return nil
	}
}

// GetAuthFlowTimeout is how long an OAuth state parameter stays redeemable.
func (OAuth) GetAuthFlowTimeout() time.Duration {
	return GetEnvDuration("AUTH_FLOW_TIMEOUT", 10*time.Minute)
}

func (OAuth) GetRegistrationTokenTTL() time.Duration {
	return GetEnvDuration("REGISTRATION_TOKEN_TTL", 30*time.Minute)
}
