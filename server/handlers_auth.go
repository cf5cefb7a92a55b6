package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/nugudi/nugudi-gateway/internal/errors"
	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/nugudi/nugudi-gateway/upstream"
	"github.com/rs/zerolog/log"
)

// refreshData is the payload of a successful POST /api/auth/refresh.
type refreshData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

// RefreshHandler refreshes the caller's session from its cookies. Clients
// that cannot refresh against the upstream API themselves use it.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Msg("Refresh endpoint failed")
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		rs := s.newRequestSession(w, r, scopeServer)
		result, _ := rs.coordinator.Refresh(r.Context())
		if !result.Success {
			writeJSONError(w, http.StatusUnauthorized, result.Error)
			return
		}

		userID, err := rs.store.Get(r.Context(), sessions.FieldUserID)
		if err != nil {
			log.Err(err).Msg("Failed to read user id after refresh")
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, apiResponse{
			Success: true,
			Data: refreshData{
				AccessToken:  result.AccessToken,
				RefreshToken: result.RefreshToken,
				UserID:       userID,
			},
		})
	}
}

// LogoutHandler tells the upstream API about the logout when it can, then
// clears the session cookies regardless.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs := s.newRequestSession(w, r, scopeServer)
		sess, _ := rs.store.Session(r.Context())

		if sess.RefreshToken != "" {
			_, err := rs.client.Post(r.Context(), upstream.LogoutPath, struct{}{},
				withDeviceID(sess.DeviceID)...)
			if err != nil {
				log.Warn().Err(err).Str("user_id", sess.UserID).Msg("Upstream logout failed")
			}
		}

		_ = rs.store.Clear(r.Context())
		s.setRegistrationCookie(w, "", -1)

		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, apiResponse{Success: true})
			return
		}
		redirectSuccess(w, r, RouteLogin)
	}
}

type signupData struct {
	UserID string `json:"userId"`
}

// SignupHandler completes registration for a first-time OAuth user. It takes
// a JSON body or the built-in signup form.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isForm := !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
		fail := func(status int, msg string) {
			if isForm {
				redirectWithError(w, r, RouteSignup, msg)
				return
			}
			writeJSONError(w, status, msg)
		}

		registrationToken := cookieValue(r, registrationTokenCookie)
		if registrationToken == "" {
			fail(http.StatusUnauthorized, "registration session expired, please sign in again")
			return
		}

		var req upstream.SignupRequest
		if isForm {
			req.Nickname = strings.TrimSpace(r.FormValue("nickname"))
		} else if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			fail(http.StatusBadRequest, "invalid request body")
			return
		}

		store := sessions.NewCookieStore(w, r, s.cookies)
		deviceID, _ := store.Get(r.Context(), sessions.FieldDeviceID)
		if deviceID == "" {
			deviceID = sessions.NewDeviceID()
		}

		tokens, err := s.upstream.Signup(r.Context(), registrationToken, deviceID, req)
		if err != nil {
			status, msg := signupFailure(err)
			log.Warn().Err(err).Msg("Signup failed")
			fail(status, msg)
			return
		}

		err = store.SetSession(r.Context(), sessions.Session{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			UserID:       tokens.UserID.String(),
			DeviceID:     deviceID,
		})
		if err != nil {
			log.Err(err).Msg("Failed to store session after signup")
			fail(http.StatusInternalServerError, "internal server error")
			return
		}
		s.setRegistrationCookie(w, "", -1)

		if isForm {
			redirectSuccess(w, r, "/")
			return
		}
		writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: signupData{UserID: tokens.UserID.String()}})
	}
}

func signupFailure(err error) (int, string) {
	var upstreamErr *upstream.Error
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, "nickname must be between 2 and 20 characters"
	case errors.As(err, &upstreamErr) && upstreamErr.Status >= 400 && upstreamErr.Status < 500:
		return upstreamErr.Status, upstreamErr.Message
	default:
		return http.StatusBadGateway, "signup is temporarily unavailable"
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
