package config

import "time"

type SessionConfig interface {
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetUserIDTTL() time.Duration
	GetDeviceIDTTL() time.Duration
	GetAccessTokenLeeway() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetAccessTokenTTL() time.Duration {
	return GetEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
}

func (Session) GetRefreshTokenTTL() time.Duration {
	return GetEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour) // 7 days
}

func (Session) GetUserIDTTL() time.Duration {
	return GetEnvDuration("USER_ID_TTL", 7*24*time.Hour)
}

func (Session) GetDeviceIDTTL() time.Duration {
	return GetEnvDuration("DEVICE_ID_TTL", 365*24*time.Hour) // 1 year
}

// GetAccessTokenLeeway treats a JWT access token as expired this long before its exp claim.
func (Session) GetAccessTokenLeeway() time.Duration {
	return GetEnvDuration("ACCESS_TOKEN_LEEWAY", 30*time.Second)
}
