package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Upstream API paths, relative to the configured base URL.
const (
	RefreshPath = "/api/v1/auth/refresh"
	LoginPath   = "/api/v1/auth/login/" // + provider
	SignupPath  = "/api/v1/auth/signup"
	LogoutPath  = "/api/v1/auth/logout"
	ProfilePath = "/api/v1/users/profile"
)

// RefreshResult is the outcome of a refresh attempt. It is never persisted.
// Error is set only when Success is false.
type RefreshResult struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Failed builds an unsuccessful RefreshResult.
func Failed(format string, args ...any) RefreshResult {
	return RefreshResult{Success: false, Error: fmt.Sprintf(format, args...)}
}

// ID accepts user ids encoded either as JSON strings or numbers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// envelope is the upstream API's standard response wrapper.
type envelope[T any] struct {
	Success bool            `json:"success"`
	Data    *T              `json:"data"`
	Error   json.RawMessage `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// TokenPair is the data of a successful refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Tokens is a complete login result for a known user.
type Tokens struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
	UserID       ID     `json:"userId" validate:"required"`
}

// LoginKind discriminates LoginOutcome.
type LoginKind int

const (
	LoginExistingUser LoginKind = iota + 1
	LoginNewUser
)

func (k LoginKind) String() string {
	switch k {
	case LoginExistingUser:
		return "EXISTING_USER"
	case LoginNewUser:
		return "NEW_USER"
	}
	return "UNKNOWN(" + strconv.Itoa(int(k)) + ")"
}

// LoginOutcome is either a set of session tokens (LoginExistingUser) or a
// registration token that must be redeemed through Signup (LoginNewUser).
type LoginOutcome struct {
	Kind              LoginKind
	Tokens            Tokens
	RegistrationToken string
}

type loginData struct {
	Type              string `json:"type"`
	AccessToken       string `json:"accessToken"`
	RefreshToken      string `json:"refreshToken"`
	UserID            ID     `json:"userId"`
	RegistrationToken string `json:"registrationToken"`
}

// LoginRequest carries the provider authorization code to the upstream API,
// which performs the provider token exchange itself.
type LoginRequest struct {
	Code         string `json:"code" validate:"required"`
	RedirectURI  string `json:"redirectUri" validate:"required,url"`
	CodeVerifier string `json:"codeVerifier,omitempty"`
}

// SignupRequest completes registration for a new user.
type SignupRequest struct {
	Nickname string `json:"nickname" validate:"required,min=2,max=20"`
}

// Error is an upstream rejection of a login or signup call.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
}
