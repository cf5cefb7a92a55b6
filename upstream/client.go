package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/nugudi/nugudi-gateway/internal/errors"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

const (
	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 15 * time.Second

	maxBodyBytes = 1 << 20
)

// Client calls the upstream authentication API with a plain *http.Client.
// It must never be built on the authenticated client: a refresh that went
// through 401 handling would recurse into itself.
type Client struct {
	baseURL  string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	validate *validator.Validate
}

type Option func(*Client)

// WithHTTPClient sets the transport used for upstream calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithBreakerSettings replaces the default circuit breaker. Calls abandoned by
// their caller are not counted as failures unless IsSuccessful is set.
func WithBreakerSettings(settings gobreaker.Settings) Option {
	return func(c *Client) {
		if settings.IsSuccessful == nil {
			settings.IsSuccessful = breakerSuccessful
		}
		c.breaker = gobreaker.NewCircuitBreaker(settings)
	}
}

// errCallerGone marks a call cut short by the caller's context rather than by
// the upstream.
var errCallerGone = errors.New("caller context done")

func breakerSuccessful(err error) bool {
	return err == nil || errors.Is(err, errCallerGone)
}

// DefaultBreakerSettings trips after five consecutive transport failures or
// 5xx responses and probes again after 30 seconds. Cancelled or timed out
// callers do not count.
func DefaultBreakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "upstream-auth",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: breakerSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Upstream circuit breaker state changed")
		},
	}
}

// New creates an upstream client. An empty baseURL is a configuration error.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, apperrors.ErrMissingAPIURL
	}
	c := &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: DefaultTimeout},
		breaker:  gobreaker.NewCircuitBreaker(DefaultBreakerSettings()),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the upstream base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

type rawResponse struct {
	status int
	body   []byte
}

// post sends a JSON POST through the circuit breaker. Transport failures and
// 5xx responses count against the breaker; any other status is returned as-is.
func (c *Client) post(ctx context.Context, path string, headers http.Header, body any) (rawResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return rawResponse{}, fmt.Errorf("[upstream post] encode: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header[k] = v
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", errCallerGone, ctxErr)
			}
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, err
		}
		raw := rawResponse{status: resp.StatusCode, body: data}
		if resp.StatusCode >= http.StatusInternalServerError {
			return raw, fmt.Errorf("%w: status %d", apperrors.ErrUpstreamDown, resp.StatusCode)
		}
		return raw, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return rawResponse{}, fmt.Errorf("%w: circuit open", apperrors.ErrUpstreamDown)
		}
		return rawResponse{}, fmt.Errorf("[upstream post] %s: %w", path, err)
	}
	return result.(rawResponse), nil
}

// Refresh exchanges a refresh token for a new token pair. It never returns an
// error: every failure, expected or not, comes back as Success false.
func (c *Client) Refresh(ctx context.Context, refreshToken, deviceID string) (result RefreshResult) {
	defer func() {
		if r := recover(); r != nil {
			result = Failed("refresh panicked: %v", r)
		}
	}()

	if refreshToken == "" {
		return Failed("%v", apperrors.ErrNoRefreshToken)
	}
	if deviceID == "" {
		return Failed("%v", apperrors.ErrNoDeviceID)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+refreshToken)
	headers.Set("X-Device-ID", deviceID)

	raw, err := c.post(ctx, RefreshPath, headers, struct{}{})
	if err != nil {
		return Failed("%v", err)
	}
	if raw.status < 200 || raw.status >= 300 {
		return Failed("%v: %s", apperrors.ErrRefreshRejected, errorMessage(raw))
	}

	var env envelope[TokenPair]
	if err := json.Unmarshal(raw.body, &env); err != nil {
		return Failed("%v: %v", apperrors.ErrMalformedPayload, err)
	}
	if !env.Success || env.Data == nil {
		return Failed("%v: %s", apperrors.ErrRefreshRejected, errorMessage(raw))
	}
	if err := c.validate.Struct(env.Data); err != nil {
		return Failed("%v: %v", apperrors.ErrMalformedPayload, err)
	}

	return RefreshResult{
		Success:      true,
		AccessToken:  env.Data.AccessToken,
		RefreshToken: env.Data.RefreshToken,
	}
}

// Login redeems a provider authorization code. Known users get session
// tokens; first-time users get a registration token.
func (c *Client) Login(ctx context.Context, provider, deviceID string, req LoginRequest) (LoginOutcome, error) {
	if err := c.validate.Struct(req); err != nil {
		return LoginOutcome{}, fmt.Errorf("[upstream Login] %w: %v", apperrors.ErrInvalidInput, err)
	}

	headers := http.Header{}
	headers.Set("X-Device-ID", deviceID)

	raw, err := c.post(ctx, LoginPath+provider, headers, req)
	if err != nil {
		return LoginOutcome{}, err
	}
	if raw.status < 200 || raw.status >= 300 {
		return LoginOutcome{}, &Error{Status: raw.status, Message: errorMessage(raw)}
	}

	var env envelope[loginData]
	if err := json.Unmarshal(raw.body, &env); err != nil {
		return LoginOutcome{}, fmt.Errorf("[upstream Login] %w: %v", apperrors.ErrMalformedPayload, err)
	}
	if !env.Success || env.Data == nil {
		return LoginOutcome{}, &Error{Status: raw.status, Message: errorMessage(raw)}
	}

	data := env.Data
	if strings.EqualFold(data.Type, LoginNewUser.String()) || (data.AccessToken == "" && data.RegistrationToken != "") {
		if data.RegistrationToken == "" {
			return LoginOutcome{}, fmt.Errorf("[upstream Login] %w: registration token missing", apperrors.ErrMalformedPayload)
		}
		return LoginOutcome{Kind: LoginNewUser, RegistrationToken: data.RegistrationToken}, nil
	}

	tokens := Tokens{AccessToken: data.AccessToken, RefreshToken: data.RefreshToken, UserID: data.UserID}
	if err := c.validate.Struct(tokens); err != nil {
		return LoginOutcome{}, fmt.Errorf("[upstream Login] %w: %v", apperrors.ErrMalformedPayload, err)
	}
	return LoginOutcome{Kind: LoginExistingUser, Tokens: tokens}, nil
}

// Signup registers a new user with the registration token from Login.
func (c *Client) Signup(ctx context.Context, registrationToken, deviceID string, req SignupRequest) (Tokens, error) {
	if registrationToken == "" {
		return Tokens{}, fmt.Errorf("[upstream Signup] %w: registration token required", apperrors.ErrInvalidInput)
	}
	if err := c.validate.Struct(req); err != nil {
		return Tokens{}, fmt.Errorf("[upstream Signup] %w: %v", apperrors.ErrInvalidInput, err)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+registrationToken)
	headers.Set("X-Device-ID", deviceID)

	raw, err := c.post(ctx, SignupPath, headers, req)
	if err != nil {
		return Tokens{}, err
	}
	if raw.status < 200 || raw.status >= 300 {
		return Tokens{}, &Error{Status: raw.status, Message: errorMessage(raw)}
	}

	var env envelope[Tokens]
	if err := json.Unmarshal(raw.body, &env); err != nil {
		return Tokens{}, fmt.Errorf("[upstream Signup] %w: %v", apperrors.ErrMalformedPayload, err)
	}
	if !env.Success || env.Data == nil {
		return Tokens{}, &Error{Status: raw.status, Message: errorMessage(raw)}
	}
	if err := c.validate.Struct(env.Data); err != nil {
		return Tokens{}, fmt.Errorf("[upstream Signup] %w: %v", apperrors.ErrMalformedPayload, err)
	}
	return *env.Data, nil
}

// errorMessage extracts a readable message from an upstream error body,
// falling back to the status text.
func errorMessage(raw rawResponse) string {
	var env envelope[json.RawMessage]
	if err := json.Unmarshal(raw.body, &env); err == nil {
		if len(env.Error) > 0 {
			var s string
			if json.Unmarshal(env.Error, &s) == nil && s != "" {
				return s
			}
			var obj struct {
				Message string `json:"message"`
				Code    string `json:"code"`
			}
			if json.Unmarshal(env.Error, &obj) == nil && (obj.Message != "" || obj.Code != "") {
				return strings.TrimSpace(obj.Code + " " + obj.Message)
			}
		}
		if env.Message != "" {
			return env.Message
		}
	}
	return http.StatusText(raw.status)
}
