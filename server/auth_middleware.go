package server

import (
	"net/http"
	"runtime/debug"

	"github.com/nugudi/nugudi-gateway/internal/metrics"
	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/nugudi/nugudi-gateway/token"
	"github.com/nugudi/nugudi-gateway/token/refresh"
	"github.com/rs/zerolog/log"
)

// Session guard decisions, used as metric labels.
const (
	decisionAuthPageRedirect = "auth_page_redirect"
	decisionPublic           = "public"
	decisionUnauthenticated  = "unauthenticated"
	decisionRefreshed        = "refreshed"
	decisionRefreshFailed    = "refresh_failed"
	decisionForwarded        = "forwarded"
	decisionPanic            = "panic"
)

// SessionGuard runs in front of every page and guarded API route. It keeps
// signed-in users off the auth pages, sends anonymous users to login, and
// refreshes a missing or expired access token before the request reaches the
// handler. Downstream handlers find the current access token in the
// x-access-token header.
func (s *Server) SessionGuard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forward, ok := s.guard(w, r)
		if !ok {
			return
		}
		next(w, forward)
	}
}

// guard returns the request to forward, or false when it has already answered.
func (s *Server) guard(w http.ResponseWriter, r *http.Request) (forward *http.Request, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("path", r.URL.Path).Bytes("stack", debug.Stack()).Msg("Session guard failed")
			metrics.GuardDecisions.WithLabelValues(decisionPanic).Inc()
			http.Redirect(w, r, loginURL(r.URL.Path), http.StatusTemporaryRedirect)
			forward, ok = nil, false
		}
	}()

	path := r.URL.Path
	// Only the guard may set this header.
	if r.Header.Get(sessions.HeaderAccessToken) != "" {
		r = r.Clone(r.Context())
		r.Header.Del(sessions.HeaderAccessToken)
	}

	refreshToken := sessionCookie(r, sessions.FieldRefreshToken)
	userID := sessionCookie(r, sessions.FieldUserID)

	if isAuthPage(path) && refreshToken != "" && userID != "" {
		metrics.GuardDecisions.WithLabelValues(decisionAuthPageRedirect).Inc()
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return nil, false
	}

	if isPublicPath(path) {
		metrics.GuardDecisions.WithLabelValues(decisionPublic).Inc()
		return r, true
	}

	if refreshToken == "" || userID == "" {
		metrics.GuardDecisions.WithLabelValues(decisionUnauthenticated).Inc()
		// A half session would survive the redirect and bounce between login and home.
		if refreshToken != "" || userID != "" {
			s.cookies.ClearCookies(w)
		}
		http.Redirect(w, r, loginURL(path), http.StatusTemporaryRedirect)
		return nil, false
	}

	accessToken := sessionCookie(r, sessions.FieldAccessToken)
	if accessToken != "" && !token.IsExpired(accessToken, s.config.GetAccessTokenLeeway()) {
		metrics.GuardDecisions.WithLabelValues(decisionForwarded).Inc()
		forward = r.Clone(r.Context())
		forward.Header.Set(sessions.HeaderAccessToken, accessToken)
		return forward, true
	}

	// Preventive refresh
	rs := s.newRequestSession(w, r, scopeEdge, refresh.WithDeviceIDGeneration())
	result, _ := rs.coordinator.Refresh(r.Context())
	sess, err := rs.store.Session(r.Context())
	if !result.Success || err != nil {
		log.Info().Err(err).Str("path", path).Str("error", result.Error).Msg("Preventive refresh failed, sending to login")
		metrics.GuardDecisions.WithLabelValues(decisionRefreshFailed).Inc()
		s.cookies.ClearCookies(w)
		http.Redirect(w, r, loginURL(path), http.StatusTemporaryRedirect)
		return nil, false
	}

	metrics.GuardDecisions.WithLabelValues(decisionRefreshed).Inc()
	forward = r.Clone(r.Context())
	forward.Header.Set(sessions.HeaderAccessToken, sess.AccessToken)
	forward.Header.Set("Cookie", withSessionCookies(r, sess))
	return forward, true
}
