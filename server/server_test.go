package server_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nugudi/nugudi-gateway/internal/config"
	apperrors "github.com/nugudi/nugudi-gateway/internal/errors"
	"github.com/nugudi/nugudi-gateway/server"
	"github.com/nugudi/nugudi-gateway/server/authflowrepo"
	"github.com/nugudi/nugudi-gateway/upstream"
	"github.com/stretchr/testify/require"
)

// fakeAPI is the upstream API. R1 refreshes to A2/R2; only A2 may read the profile.
type fakeAPI struct {
	mu           sync.Mutex
	refreshCalls int
	refreshAuth  []string
	deviceIDs    []string
	logoutCalls  int
	logins       []map[string]string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+upstream.RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.refreshCalls++
		f.refreshAuth = append(f.refreshAuth, r.Header.Get("Authorization"))
		f.deviceIDs = append(f.deviceIDs, r.Header.Get("X-Device-ID"))
		f.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer R1" {
			reply(w, http.StatusUnauthorized, `{"success":false,"error":"invalid refresh token"}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"data":{"accessToken":"A2","refreshToken":"R2"}}`)
	})
	mux.HandleFunc("GET "+upstream.ProfilePath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer A2" {
			reply(w, http.StatusUnauthorized, `{"success":false,"error":"expired"}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"data":{"nickname":"nugu"}}`)
	})
	mux.HandleFunc("POST "+upstream.LoginPath+"{provider}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.logins = append(f.logins, body)
		f.mu.Unlock()
		switch body["code"] {
		case "existing":
			reply(w, http.StatusOK, `{"success":true,"data":{"type":"EXISTING_USER","accessToken":"A9","refreshToken":"R9","userId":42}}`)
		case "new":
			reply(w, http.StatusOK, `{"success":true,"data":{"type":"NEW_USER","registrationToken":"REG"}}`)
		default:
			reply(w, http.StatusBadRequest, `{"success":false,"error":"invalid code"}`)
		}
	})
	mux.HandleFunc("POST "+upstream.SignupPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer REG" {
			reply(w, http.StatusUnauthorized, `{"success":false,"error":"registration expired"}`)
			return
		}
		reply(w, http.StatusOK, `{"success":true,"data":{"accessToken":"A7","refreshToken":"R7","userId":"43"}}`)
	})
	mux.HandleFunc("POST "+upstream.LogoutPath, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logoutCalls++
		f.mu.Unlock()
		reply(w, http.StatusOK, `{"success":true}`)
	})
	return mux
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// renderer records what the guard forwarded.
type renderer struct {
	mu          sync.Mutex
	calls       int
	accessToken string
	cookies     map[string]string
}

func (r *renderer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls++
		r.accessToken = req.Header.Get("x-access-token")
		r.cookies = map[string]string{}
		for _, c := range req.Cookies() {
			r.cookies[c.Name] = c.Value
		}
		_, _ = w.Write([]byte("rendered " + req.URL.Path))
	}
}

type gateway struct {
	server   *server.Server
	api      *fakeAPI
	renderer *renderer
}

func newGateway(t *testing.T, env map[string]string) *gateway {
	return newGatewayWithConfig(t, env, func(c config.Config) config.Config { return c })
}

func newGatewayWithConfig(t *testing.T, env map[string]string, wrap func(config.Config) config.Config) *gateway {
	t.Helper()
	api := &fakeAPI{}
	apiServer := httptest.NewServer(api.handler())
	t.Cleanup(apiServer.Close)

	rend := &renderer{}
	rendServer := httptest.NewServer(rend.handler())
	t.Cleanup(rendServer.Close)

	t.Setenv("ENV", "test")
	t.Setenv("API_URL", apiServer.URL)
	t.Setenv("RENDERER_URL", rendServer.URL)
	t.Setenv("BASE_URL", "http://localhost:3000")
	t.Setenv("KAKAO_CLIENT_ID", "kakao-client")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg := wrap(config.New())
	uc, err := upstream.New(cfg.GetAPIURL(), upstream.WithHTTPClient(apiServer.Client()))
	require.NoError(t, err)
	s, err := server.New(cfg, uc, authflowrepo.NewInMemoryRepo(time.Minute))
	require.NoError(t, err)
	return &gateway{server: s, api: api, renderer: rend}
}

func (g *gateway) do(method, target string, body string, cookies map[string]string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	g.server.ServeHTTP(rec, req)
	return rec
}

func responseCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	return cookies
}

func jwtToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestNew_RequiresUpstream(t *testing.T) {
	_, err := server.New(config.New(), nil, authflowrepo.NewInMemoryRepo(time.Minute))
	require.ErrorIs(t, err, apperrors.ErrMissingAPIURL)
}

func TestSessionGuard_PreventiveRefresh(t *testing.T) {
	cases := map[string]map[string]string{
		"access cookie missing": {"refresh_token": "R1", "user_id": "u-1", "device_id": "d-1"},
		"access token expired":  {"access_token": jwtToken(t, -time.Minute), "refresh_token": "R1", "user_id": "u-1", "device_id": "d-1"},
	}
	for name, cookies := range cases {
		t.Run(name, func(t *testing.T) {
			g := newGateway(t, nil)
			rec := g.do(http.MethodGet, "/orders", "", cookies, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "rendered /orders", rec.Body.String())
			require.Equal(t, 1, g.api.refreshCalls)
			require.Equal(t, []string{"Bearer R1"}, g.api.refreshAuth)
			require.Equal(t, []string{"d-1"}, g.api.deviceIDs)

			set := responseCookies(rec)
			require.Equal(t, "A2", set["access_token"].Value)
			require.True(t, set["access_token"].HttpOnly)
			require.Equal(t, 15*60, set["access_token"].MaxAge)
			require.Equal(t, "R2", set["refresh_token"].Value)
			require.True(t, set["refresh_token"].HttpOnly)
			require.Equal(t, "d-1", set["device_id"].Value)
			require.False(t, set["device_id"].HttpOnly)
			require.Equal(t, http.SameSiteLaxMode, set["device_id"].SameSite)

			require.Equal(t, "A2", g.renderer.accessToken)
			require.Equal(t, "A2", g.renderer.cookies["access_token"])
			require.Equal(t, "R2", g.renderer.cookies["refresh_token"])
			require.Equal(t, "u-1", g.renderer.cookies["user_id"])
		})
	}
}

func TestSessionGuard_GeneratesDeviceID(t *testing.T) {
	g := newGateway(t, nil)
	rec := g.do(http.MethodGet, "/", "", map[string]string{"refresh_token": "R1", "user_id": "u-1"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, g.api.deviceIDs, 1)
	require.NotEmpty(t, g.api.deviceIDs[0])
	require.Equal(t, g.api.deviceIDs[0], responseCookies(rec)["device_id"].Value)
}

func TestSessionGuard_RedirectsWithoutSession(t *testing.T) {
	g := newGateway(t, nil)

	rec := g.do(http.MethodGet, "/orders/today", "", nil, nil)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, "/auth/login?callbackUrl=%2Forders%2Ftoday", rec.Header().Get("Location"))

	rec = g.do(http.MethodGet, "/orders", "", map[string]string{"refresh_token": "R1"}, nil)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, "/auth/login?callbackUrl=%2Forders", rec.Header().Get("Location"))

	require.Zero(t, g.api.refreshCalls)
	require.Zero(t, g.renderer.calls)
}

func TestSessionGuard_AuthPagesRedirectHome(t *testing.T) {
	g := newGateway(t, nil)
	for _, path := range []string{"/auth/login", "/auth/signup"} {
		rec := g.do(http.MethodGet, path, "", map[string]string{"refresh_token": "R1", "user_id": "u-1"}, nil)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code, path)
		require.Equal(t, "/", rec.Header().Get("Location"), path)
	}
}

func TestSessionGuard_PartialSessionDoesNotLoop(t *testing.T) {
	cases := map[string]map[string]string{
		"refresh token without user id": {"refresh_token": "R1", "device_id": "d-1"},
		"user id without refresh token": {"user_id": "u-1", "device_id": "d-1"},
	}
	for name, cookies := range cases {
		t.Run(name, func(t *testing.T) {
			g := newGateway(t, nil)

			rec := g.do(http.MethodGet, "/auth/login", "", cookies, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "rendered /auth/login", rec.Body.String())

			rec = g.do(http.MethodGet, "/", "", cookies, nil)
			require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
			require.Equal(t, "/auth/login?callbackUrl=%2F", rec.Header().Get("Location"))

			set := responseCookies(rec)
			for _, name := range []string{"access_token", "refresh_token", "user_id", "device_id"} {
				require.Contains(t, set, name)
				require.Negative(t, set[name].MaxAge, name)
			}
			require.Zero(t, g.api.refreshCalls)
		})
	}
}

func TestSessionGuard_PublicPathsPassThrough(t *testing.T) {
	g := newGateway(t, nil)
	rec := g.do(http.MethodGet, "/auth/login?callbackUrl=%2Forders", "", nil, map[string]string{"x-access-token": "forged"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "rendered /auth/login", rec.Body.String())
	require.Empty(t, g.renderer.accessToken)
}

func TestSessionGuard_RefreshFailureClearsCookies(t *testing.T) {
	g := newGateway(t, nil)
	rec := g.do(http.MethodGet, "/orders", "", map[string]string{"refresh_token": "stale", "user_id": "u-1", "device_id": "d-1"}, nil)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, "/auth/login?callbackUrl=%2Forders", rec.Header().Get("Location"))
	require.Zero(t, g.renderer.calls)

	set := responseCookies(rec)
	for _, name := range []string{"access_token", "refresh_token", "user_id", "device_id"} {
		require.Contains(t, set, name)
		require.Negative(t, set[name].MaxAge, name)
	}
}

func TestSessionGuard_ForwardsValidAccessToken(t *testing.T) {
	g := newGateway(t, nil)
	access := jwtToken(t, 10*time.Minute)
	rec := g.do(http.MethodGet, "/orders", "", map[string]string{"access_token": access, "refresh_token": "R1", "user_id": "u-1"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, access, g.renderer.accessToken)
	require.Zero(t, g.api.refreshCalls)
	require.Empty(t, rec.Result().Cookies())
}

type panickyConfig struct {
	config.Config
}

func (panickyConfig) GetAccessTokenLeeway() time.Duration {
	panic("leeway unavailable")
}

func TestSessionGuard_PanicRedirectsToLogin(t *testing.T) {
	g := newGatewayWithConfig(t, nil, func(c config.Config) config.Config { return panickyConfig{c} })
	rec := g.do(http.MethodGet, "/orders", "", map[string]string{"access_token": "A1", "refresh_token": "R1", "user_id": "u-1"}, nil)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, "/auth/login?callbackUrl=%2Forders", rec.Header().Get("Location"))
	require.Zero(t, g.renderer.calls)
}

type envelope struct {
	Success bool              `json:"success"`
	Data    map[string]string `json:"data"`
	Error   string            `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRefreshHandler(t *testing.T) {
	g := newGateway(t, nil)

	rec := g.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": "R1", "user_id": "u-1", "device_id": "d-1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.True(t, env.Success)
	require.Equal(t, map[string]string{"accessToken": "A2", "refreshToken": "R2", "userId": "u-1"}, env.Data)
	require.Equal(t, "A2", responseCookies(rec)["access_token"].Value)

	rec = g.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": "stale", "user_id": "u-1", "device_id": "d-1"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	env = decode(t, rec)
	require.False(t, env.Success)
	require.Contains(t, env.Error, "invalid refresh token")

	rec = g.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": "R1", "user_id": "u-1"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, decode(t, rec).Error, "no device id")
	require.Equal(t, 2, g.api.refreshCalls)
}

func TestRefreshHandler_RateLimited(t *testing.T) {
	g := newGateway(t, map[string]string{
		"RATE_LIMIT_ENABLED":    "true",
		"RATE_LIMIT_PER_SECOND": "0.001",
		"RATE_LIMIT_BURST":      "1",
	})
	cookies := map[string]string{"refresh_token": "R1", "user_id": "u-1", "device_id": "d-1"}

	require.Equal(t, http.StatusOK, g.do(http.MethodPost, "/api/auth/refresh", "", cookies, nil).Code)
	rec := g.do(http.MethodPost, "/api/auth/refresh", "", cookies, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, 1, g.api.refreshCalls)
}

func TestRefreshHandler_RateLimitIgnoresForwardedHeaders(t *testing.T) {
	g := newGateway(t, map[string]string{
		"RATE_LIMIT_ENABLED":    "true",
		"RATE_LIMIT_PER_SECOND": "0.001",
		"RATE_LIMIT_BURST":      "1",
	})
	cookies := map[string]string{"refresh_token": "R1", "user_id": "u-1", "device_id": "d-1"}

	var codes []int
	for i := 0; i < 5; i++ {
		header := map[string]string{
			"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i+1),
			"X-Real-IP":       fmt.Sprintf("198.51.100.%d", i+1),
		}
		codes = append(codes, g.do(http.MethodPost, "/api/auth/refresh", "", cookies, header).Code)
	}
	require.Equal(t, []int{200, 429, 429, 429, 429}, codes)
	require.Equal(t, 1, g.api.refreshCalls)
}

func TestRefreshHandler_RateLimitBehindTrustedProxy(t *testing.T) {
	// httptest requests arrive from 192.0.2.1.
	g := newGateway(t, map[string]string{
		"RATE_LIMIT_ENABLED":    "true",
		"RATE_LIMIT_PER_SECOND": "0.001",
		"RATE_LIMIT_BURST":      "1",
		"TRUSTED_PROXIES":       "192.0.2.0/24, 10.0.0.1",
	})
	cookies := map[string]string{"refresh_token": "R1", "user_id": "u-1", "device_id": "d-1"}
	post := func(forwardedFor string) int {
		return g.do(http.MethodPost, "/api/auth/refresh", "", cookies, map[string]string{"X-Forwarded-For": forwardedFor}).Code
	}

	require.Equal(t, http.StatusOK, post("203.0.113.1"))
	require.Equal(t, http.StatusOK, post("203.0.113.2, 10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, post("203.0.113.1"))
	// A spoofed leftmost hop does not change the key: the client is the last untrusted hop.
	require.Equal(t, http.StatusTooManyRequests, post("198.51.100.7, 203.0.113.2, 10.0.0.1"))
	require.Equal(t, 2, g.api.refreshCalls)
}

func TestProfileHandler_RetriesAfterRefresh(t *testing.T) {
	g := newGateway(t, nil)
	access := jwtToken(t, 10*time.Minute)
	rec := g.do(http.MethodGet, "/api/users/me", "", map[string]string{"access_token": access, "refresh_token": "R1", "user_id": "u-1", "device_id": "d-1"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"data":{"nickname":"nugu"}}`, rec.Body.String())
	require.Equal(t, 1, g.api.refreshCalls)
	require.Equal(t, "A2", responseCookies(rec)["access_token"].Value)
}

func TestProfileHandler_UnauthorizedWhenRefreshFails(t *testing.T) {
	g := newGateway(t, nil)
	access := jwtToken(t, 10*time.Minute)
	rec := g.do(http.MethodGet, "/api/users/me", "", map[string]string{"access_token": access, "refresh_token": "stale", "user_id": "u-1", "device_id": "d-1"}, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Negative(t, responseCookies(rec)["refresh_token"].MaxAge)
}

func authorize(t *testing.T, g *gateway, callback string) (state string, location *url.URL) {
	t.Helper()
	rec := g.do(http.MethodGet, "/api/auth/kakao/authorize?callbackUrl="+url.QueryEscape(callback), "", nil, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return location.Query().Get("state"), location
}

func TestAuthorizeHandler(t *testing.T) {
	g := newGateway(t, nil)
	state, loc := authorize(t, g, "/orders")

	require.Equal(t, "kauth.kakao.com", loc.Host)
	q := loc.Query()
	require.NotEmpty(t, state)
	require.Equal(t, "kakao-client", q.Get("client_id"))
	require.Equal(t, "http://localhost:3000/api/auth/kakao/callback", q.Get("redirect_uri"))
	require.Equal(t, "S256", q.Get("code_challenge_method"))
	require.NotEmpty(t, q.Get("code_challenge"))

	rec := g.do(http.MethodGet, "/api/auth/naver/authorize", "", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallbackHandler_ExistingUser(t *testing.T) {
	g := newGateway(t, nil)
	state, _ := authorize(t, g, "/orders")

	rec := g.do(http.MethodGet, "/api/auth/kakao/callback?code=existing&state="+state, "", nil, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/orders", rec.Header().Get("Location"))

	set := responseCookies(rec)
	require.Equal(t, "A9", set["access_token"].Value)
	require.Equal(t, "R9", set["refresh_token"].Value)
	require.Equal(t, "42", set["user_id"].Value)
	require.NotEmpty(t, set["device_id"].Value)

	require.Len(t, g.api.logins, 1)
	require.NotEmpty(t, g.api.logins[0]["codeVerifier"])
	require.Equal(t, "http://localhost:3000/api/auth/kakao/callback", g.api.logins[0]["redirectUri"])

	// state is single use
	rec = g.do(http.MethodGet, "/api/auth/kakao/callback?code=existing&state="+state, "", nil, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/auth/login?error="))
}

func TestCallbackHandler_NewUser(t *testing.T) {
	g := newGateway(t, nil)
	state, _ := authorize(t, g, "/")

	rec := g.do(http.MethodGet, "/api/auth/kakao/callback?code=new&state="+state, "", nil, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/signup", rec.Header().Get("Location"))

	set := responseCookies(rec)
	require.Equal(t, "REG", set["registration_token"].Value)
	require.True(t, set["registration_token"].HttpOnly)
	require.NotContains(t, set, "access_token")
}

func TestCallbackHandler_OpenRedirectRejected(t *testing.T) {
	g := newGateway(t, nil)
	state, _ := authorize(t, g, "//evil.example.com")

	rec := g.do(http.MethodGet, "/api/auth/kakao/callback?code=existing&state="+state, "", nil, nil)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestSignupHandler(t *testing.T) {
	g := newGateway(t, nil)
	header := map[string]string{"Content-Type": "application/json"}

	rec := g.do(http.MethodPost, "/api/auth/signup", `{"nickname":"nugu"}`, nil, header)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = g.do(http.MethodPost, "/api/auth/signup", `{"nickname":"n"}`, map[string]string{"registration_token": "REG"}, header)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = g.do(http.MethodPost, "/api/auth/signup", `{"nickname":"nugu"}`, map[string]string{"registration_token": "REG", "device_id": "d-1"}, header)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.True(t, env.Success)
	require.Equal(t, "43", env.Data["userId"])

	set := responseCookies(rec)
	require.Equal(t, "A7", set["access_token"].Value)
	require.Equal(t, "43", set["user_id"].Value)
	require.Equal(t, "d-1", set["device_id"].Value)
	require.Negative(t, set["registration_token"].MaxAge)
}

func TestLogoutHandler(t *testing.T) {
	g := newGateway(t, nil)
	rec := g.do(http.MethodPost, "/api/auth/logout", "",
		map[string]string{"access_token": "A2", "refresh_token": "R2", "user_id": "u-1", "device_id": "d-1"},
		map[string]string{"Accept": "application/json"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decode(t, rec).Success)
	require.Equal(t, 1, g.api.logoutCalls)

	set := responseCookies(rec)
	for _, name := range []string{"access_token", "refresh_token", "user_id", "device_id"} {
		require.Negative(t, set[name].MaxAge, name)
	}
}

func TestHealthHandler(t *testing.T) {
	g := newGateway(t, nil)
	rec := g.do(http.MethodGet, "/healthz", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok","app":"nugudi"}`, rec.Body.String())
}
