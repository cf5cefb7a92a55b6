package server

import (
	"errors"
	"net/http"

	"github.com/nugudi/nugudi-gateway/httpclient"
	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/nugudi/nugudi-gateway/upstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"app":    s.config.GetAppName(),
		})
	}
}

func (s *Server) MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// ProfileHandler returns the signed-in user's profile from the upstream API.
// The call goes through the request's authenticated client, so an access
// token rejected upstream is refreshed and the call retried once.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs := s.newRequestSession(w, r, scopeServer)
		deviceID := sessionCookie(r, sessions.FieldDeviceID)

		resp, err := rs.client.Get(r.Context(), upstream.ProfilePath, withDeviceID(deviceID)...)
		if err != nil {
			status := httpclient.StatusCode(err)
			if status == 0 {
				log.Err(err).Msg("Profile request failed")
				writeJSONError(w, http.StatusBadGateway, "profile is temporarily unavailable")
				return
			}
			if status == http.StatusUnauthorized {
				_ = rs.store.Clear(r.Context())
			}
			var httpErr *httpclient.HTTPError
			if errors.As(err, &httpErr) && len(httpErr.Body) > 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write(httpErr.Body)
				return
			}
			writeJSONError(w, status, http.StatusText(status))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write(resp.Body)
	}
}

func withDeviceID(deviceID string) []httpclient.RequestOption {
	if deviceID == "" {
		return nil
	}
	return []httpclient.RequestOption{httpclient.WithHeader("X-Device-ID", deviceID)}
}
