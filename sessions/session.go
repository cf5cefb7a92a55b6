package sessions

import (
	"context"

	"github.com/google/uuid"
)

// Field names a single persisted session value. The value doubles as the cookie name.
type Field string

const (
	FieldAccessToken  Field = "access_token"
	FieldRefreshToken Field = "refresh_token"
	FieldUserID       Field = "user_id"
	FieldDeviceID     Field = "device_id"
)

// Fields lists every session field in a stable order.
var Fields = []Field{FieldAccessToken, FieldRefreshToken, FieldUserID, FieldDeviceID}

// HeaderAccessToken carries the access token for the current request from the
// session guard to downstream handlers, overriding the request's cookie snapshot.
const HeaderAccessToken = "x-access-token"

// Session is the client's authentication state. AccessToken and RefreshToken
// always come from the same login or refresh call.
type Session struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	UserID       string `json:"userId,omitempty"`
	DeviceID     string `json:"deviceId,omitempty"`
}

func (s Session) Get(f Field) string {
	switch f {
	case FieldAccessToken:
		return s.AccessToken
	case FieldRefreshToken:
		return s.RefreshToken
	case FieldUserID:
		return s.UserID
	case FieldDeviceID:
		return s.DeviceID
	}
	return ""
}

func (s *Session) Set(f Field, value string) {
	switch f {
	case FieldAccessToken:
		s.AccessToken = value
	case FieldRefreshToken:
		s.RefreshToken = value
	case FieldUserID:
		s.UserID = value
	case FieldDeviceID:
		s.DeviceID = value
	}
}

// Store persists the session in whatever medium fits the execution context:
// cookies on the server, a local file for the CLI.
type Store interface {
	Get(ctx context.Context, f Field) (string, error)
	Set(ctx context.Context, f Field, value string) error
	ClearField(ctx context.Context, f Field) error

	// Session returns all fields at once.
	Session(ctx context.Context) (Session, error)
	// SetSession writes every non-empty field of s as one logical update.
	SetSession(ctx context.Context, s Session) error
	// Clear removes the session. Cookie stores delete all four cookies; the
	// file store keeps the installation's device id.
	Clear(ctx context.Context) error
}

// NewDeviceID generates the identifier for a new client installation.
func NewDeviceID() string {
	return uuid.NewString()
}
