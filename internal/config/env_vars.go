package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar      = "PORT"
	appNameVar      = "APP_NAME"
	baseURLVar      = "BASE_URL"
	apiURLVar       = "API_URL"
	publicAPIURLVar = "NEXT_PUBLIC_API_URL"
	rendererURLVar  = "RENDERER_URL"
	redisAddrVar    = "REDIS_ADDR"
	logLevelVar     = "LOG_LEVEL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "3000")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "nugudi")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// IsProduction reports whether cookies must be marked Secure.
func (e EnvVars) IsProduction() bool {
	switch strings.ToLower(e.GetEnv()) {
	case "prod", "production":
		return true
	}
	return strings.EqualFold(os.Getenv("NODE_ENV"), "production")
}

// GetBaseURL returns the public URL of this gateway (e.g., "https://nugudi.example.com").
// OAuth redirect URIs are built from it.
func (EnvVars) GetBaseURL() string {
	return strings.TrimSuffix(GetEnv(baseURLVar, "http://localhost:3000"), "/")
}

// GetAPIURL returns the upstream API base URL. An empty value is a fatal
// configuration error for the session guard.
func (EnvVars) GetAPIURL() string {
	url := GetEnv(apiURLVar, os.Getenv(publicAPIURLVar))
	return strings.TrimSuffix(url, "/")
}

func (EnvVars) GetRendererURL() string {
	return GetEnv(rendererURLVar, "")
}

func (EnvVars) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvDuration parses a Go duration ("15m", "168h"); invalid values fall back to the default.
func GetEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func GetEnvFloat(envVar string, defaultValue float64) float64 {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func GetEnvBool(envVar string, defaultValue bool) bool {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
