package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the part of an access token the gateway reads without verifying it.
// Signature checks stay with the upstream API.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect parses a JWT without verifying its signature. ok is false for
// opaque or malformed tokens.
func Inspect(rawToken string) (claims Claims, ok bool) {
	if strings.Count(rawToken, ".") != 2 {
		return Claims{}, false
	}
	var registered jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, &registered); err != nil {
		return Claims{}, false
	}
	claims.Subject = registered.Subject
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, true
}

// IsExpired reports whether a JWT access token's exp claim falls within leeway of now.
// Tokens that cannot be inspected, or carry no exp, count as live.
func IsExpired(rawToken string, leeway time.Duration) bool {
	claims, ok := Inspect(rawToken)
	if !ok || claims.ExpiresAt.IsZero() {
		return false
	}
	return !NowTimeFunc().Add(leeway).Before(claims.ExpiresAt)
}
