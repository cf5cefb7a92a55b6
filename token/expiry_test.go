package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/nugudi/nugudi-gateway/sessions/sessionsfake"
	"github.com/nugudi/nugudi-gateway/token"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	token.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowTimeFunc = time.Now })

	live := signed(t, jwt.RegisteredClaims{Subject: "u-1", ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute))})
	expired := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))})
	nearlyExpired := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Second))})
	noExp := signed(t, jwt.RegisteredClaims{Subject: "u-1"})

	require.False(t, token.IsExpired(live, 30*time.Second))
	require.True(t, token.IsExpired(expired, 0))
	require.True(t, token.IsExpired(nearlyExpired, 30*time.Second))
	require.False(t, token.IsExpired(noExp, 0))
	require.False(t, token.IsExpired("opaque-token", 0))
	require.False(t, token.IsExpired("not.a.jwt", 0))

	claims, ok := token.Inspect(live)
	require.True(t, ok)
	require.Equal(t, "u-1", claims.Subject)
}

func TestStoreProvider(t *testing.T) {
	store := sessionsfake.NewMemoryStore(sessions.Session{AccessToken: "A1"})
	p := token.NewStoreProvider(store)

	tok, err := p.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A1", tok)
}
