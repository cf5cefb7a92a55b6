package refresh

import (
	"context"

	apperrors "github.com/nugudi/nugudi-gateway/internal/errors"
	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/nugudi/nugudi-gateway/upstream"
	"github.com/rs/zerolog/log"
)

// UpstreamAPI is the plain upstream refresh call. *upstream.Client implements it.
type UpstreamAPI interface {
	Refresh(ctx context.Context, refreshToken, deviceID string) upstream.RefreshResult
}

// ServerRefresher refreshes against the upstream API directly and writes the
// result into a server-side store (cookies). It is used by the session guard,
// the BFF refresh route and any server-side authenticated client.
type ServerRefresher struct {
	store            sessions.Store
	api              UpstreamAPI
	generateDeviceID bool
}

type ServerRefresherOption func(*ServerRefresher)

// WithDeviceIDGeneration makes a missing device id a new installation instead
// of a failure.
func WithDeviceIDGeneration() ServerRefresherOption {
	return func(r *ServerRefresher) {
		r.generateDeviceID = true
	}
}

func NewServerRefresher(store sessions.Store, api UpstreamAPI, opts ...ServerRefresherOption) *ServerRefresher {
	r := &ServerRefresher{store: store, api: api}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ServerRefresher) Refresh(ctx context.Context) Result {
	sess, err := r.store.Session(ctx)
	if err != nil {
		return upstream.Failed("read session: %v", err)
	}
	if sess.RefreshToken == "" {
		return upstream.Failed("%v", apperrors.ErrNoRefreshToken)
	}
	if sess.UserID == "" {
		// A refresh must keep the user it was issued to.
		return upstream.Failed("%v", apperrors.ErrNoUserID)
	}
	if sess.DeviceID == "" {
		if !r.generateDeviceID {
			return upstream.Failed("%v", apperrors.ErrNoDeviceID)
		}
		sess.DeviceID = sessions.NewDeviceID()
	}

	result := r.api.Refresh(ctx, sess.RefreshToken, sess.DeviceID)
	if !result.Success {
		log.Warn().Str("user_id", sess.UserID).Str("error", result.Error).Msg("Upstream refresh failed")
		return result
	}

	err = r.store.SetSession(ctx, sessions.Session{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		UserID:       sess.UserID,
		DeviceID:     sess.DeviceID,
	})
	if err != nil {
		log.Err(err).Str("user_id", sess.UserID).Msg("Failed to store refreshed session")
		return upstream.Failed("store session: %v", err)
	}
	return result
}
