package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	apperrors "github.com/nugudi/nugudi-gateway/internal/errors"
	"github.com/nugudi/nugudi-gateway/server/authflowrepo"
	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/nugudi/nugudi-gateway/upstream"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// AuthorizeHandler starts an OAuth login: it remembers the state, the PKCE
// verifier and where to return to, then redirects to the provider.
func (s *Server) AuthorizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, ok := s.providers[r.PathValue("provider")]
		if !ok {
			writeJSONError(w, http.StatusNotFound, apperrors.ErrUnknownProvider.Error())
			return
		}

		state := uuid.NewString()
		flow := &authflowrepo.AuthFlowState{
			Provider:    provider.Name,
			RedirectURI: provider.OAuth2.RedirectURL,
			ReturnURL:   safeReturnPath(r.URL.Query().Get(callbackURLParam)),
			CreatedAt:   authflowrepo.NowTimeFunc(),
		}
		var opts []oauth2.AuthCodeOption
		if provider.UsePKCE {
			flow.CodeVerifier = oauth2.GenerateVerifier()
			opts = append(opts, oauth2.S256ChallengeOption(flow.CodeVerifier))
		}

		if err := s.authFlows.Upsert(r.Context(), state, flow); err != nil {
			log.Err(err).Str("provider", provider.Name).Msg("Failed to store auth flow state")
			redirectWithError(w, r, RouteLogin, "login is temporarily unavailable")
			return
		}

		http.Redirect(w, r, provider.OAuth2.AuthCodeURL(state, opts...), http.StatusFound)
	}
}

// CallbackHandler finishes an OAuth login. Known users get a session; new
// users are sent to the signup page with a registration token.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerName := r.PathValue("provider")
		if _, ok := s.providers[providerName]; !ok {
			writeJSONError(w, http.StatusNotFound, apperrors.ErrUnknownProvider.Error())
			return
		}

		q := r.URL.Query()
		if providerErr := q.Get("error"); providerErr != "" {
			log.Info().Str("provider", providerName).Str("error", providerErr).Msg("Provider declined login")
			redirectWithError(w, r, RouteLogin, "login was cancelled")
			return
		}

		state := q.Get("state")
		flow, err := s.authFlows.Take(r.Context(), state)
		if err != nil || flow.Provider != providerName {
			if err != nil && !errors.Is(err, apperrors.ErrStateNotFound) {
				log.Err(err).Msg("Failed to load auth flow state")
			}
			redirectWithError(w, r, RouteLogin, apperrors.ErrInvalidState.Error())
			return
		}

		store := sessions.NewCookieStore(w, r, s.cookies)
		deviceID, _ := store.Get(r.Context(), sessions.FieldDeviceID)
		if deviceID == "" {
			deviceID = sessions.NewDeviceID()
			_ = store.Set(r.Context(), sessions.FieldDeviceID, deviceID)
		}

		outcome, err := s.upstream.Login(r.Context(), providerName, deviceID, upstream.LoginRequest{
			Code:         q.Get("code"),
			RedirectURI:  flow.RedirectURI,
			CodeVerifier: flow.CodeVerifier,
		})
		if err != nil {
			log.Warn().Err(err).Str("provider", providerName).Msg("Upstream login failed")
			redirectWithError(w, r, RouteLogin, "login failed, please try again")
			return
		}

		switch outcome.Kind {
		case upstream.LoginNewUser:
			s.setRegistrationCookie(w, outcome.RegistrationToken, int(s.config.GetRegistrationTokenTTL().Seconds()))
			http.Redirect(w, r, RouteSignup, http.StatusSeeOther)
		default:
			err := store.SetSession(r.Context(), sessions.Session{
				AccessToken:  outcome.Tokens.AccessToken,
				RefreshToken: outcome.Tokens.RefreshToken,
				UserID:       outcome.Tokens.UserID.String(),
				DeviceID:     deviceID,
			})
			if err != nil {
				log.Err(err).Msg("Failed to store session after login")
				redirectWithError(w, r, RouteLogin, "login failed, please try again")
				return
			}
			http.Redirect(w, r, flow.ReturnURL, http.StatusSeeOther)
		}
	}
}
