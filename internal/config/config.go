package config

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	SecurityConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetBaseURL() string
	GetAPIURL() string
	GetRendererURL() string
	GetRedisAddr() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
	Security
	Session
}

func New() Config {
	return mainConfig{}
}
