package sessions

import (
	"net/http"
	"time"

	"github.com/nugudi/nugudi-gateway/internal/config"
)

// CookiePolicy describes how each session field is written as a cookie.
// device_id is the only cookie readable by client script.
type CookiePolicy struct {
	Secure      bool
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	UserIDTTL   time.Duration
	DeviceIDTTL time.Duration
}

// DefaultCookiePolicy uses the standard lifetimes: access 15 minutes, refresh and
// user id 7 days, device id one year.
func DefaultCookiePolicy(secure bool) CookiePolicy {
	return CookiePolicy{
		Secure:      secure,
		AccessTTL:   15 * time.Minute,
		RefreshTTL:  7 * 24 * time.Hour,
		UserIDTTL:   7 * 24 * time.Hour,
		DeviceIDTTL: 365 * 24 * time.Hour,
	}
}

func CookiePolicyFromConfig(cfg config.SessionConfig, secure bool) CookiePolicy {
	return CookiePolicy{
		Secure:      secure,
		AccessTTL:   cfg.GetAccessTokenTTL(),
		RefreshTTL:  cfg.GetRefreshTokenTTL(),
		UserIDTTL:   cfg.GetUserIDTTL(),
		DeviceIDTTL: cfg.GetDeviceIDTTL(),
	}
}

func (p CookiePolicy) TTL(f Field) time.Duration {
	switch f {
	case FieldAccessToken:
		return p.AccessTTL
	case FieldRefreshToken:
		return p.RefreshTTL
	case FieldUserID:
		return p.UserIDTTL
	case FieldDeviceID:
		return p.DeviceIDTTL
	}
	return 0
}

// Cookie builds the Set-Cookie value for a field.
func (p CookiePolicy) Cookie(f Field, value string) *http.Cookie {
	return &http.Cookie{
		Name:     string(f),
		Value:    value,
		Path:     "/",
		MaxAge:   int(p.TTL(f).Seconds()),
		HttpOnly: f != FieldDeviceID,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Expired builds a deletion cookie for a field.
func (p CookiePolicy) Expired(f Field) *http.Cookie {
	c := p.Cookie(f, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

// ClearCookies writes deletions for all four session cookies.
func (p CookiePolicy) ClearCookies(w http.ResponseWriter) {
	for _, f := range Fields {
		http.SetCookie(w, p.Expired(f))
	}
}
