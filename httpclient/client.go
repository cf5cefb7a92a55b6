package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nugudi/nugudi-gateway/token"
	"github.com/nugudi/nugudi-gateway/token/refresh"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 10 << 20

// Doer executes a single HTTP request. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Refresher is the single-flight refresh the client falls back on after a
// 401. *refresh.Coordinator implements it.
type Refresher interface {
	Refresh(ctx context.Context) (result refresh.Result, initiated bool)
}

// Client decorates a Doer so that every request carries the current bearer
// token, and a 401 triggers one refresh followed by exactly one retry.
type Client struct {
	base      Doer
	tokens    token.Provider
	refresher Refresher
	navigator Navigator
	baseURL   string
}

type Option func(*Client)

// WithNavigator sets what happens when a refresh fails. Only client-side
// contexts have somewhere to navigate to; the default does nothing.
func WithNavigator(n Navigator) Option {
	return func(c *Client) {
		c.navigator = n
	}
}

// WithBaseURL prefixes relative request URLs.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func New(base Doer, tokens token.Provider, refresher Refresher, opts ...Option) *Client {
	c := &Client{
		base:      base,
		tokens:    tokens,
		refresher: refresher,
		navigator: NoopNavigator{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("[httpclient DecodeJSON] %w", err)
	}
	return nil
}

type requestOptions struct {
	header http.Header
	query  url.Values
}

type RequestOption func(*requestOptions)

func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.header.Add(key, value)
	}
}

func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.query.Add(key, value)
	}
}

func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, opts...)
}

func (c *Client) Post(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, url, body, opts...)
}

func (c *Client) Put(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, url, body, opts...)
}

func (c *Client) Patch(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, url, body, opts...)
}

func (c *Client) Delete(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, url, nil, opts...)
}

// Do sends the request. body may be nil, []byte, an io.Reader, or any value
// to encode as JSON. A non-2xx status is returned as *HTTPError.
func (c *Client) Do(ctx context.Context, method, rawURL string, body any, opts ...RequestOption) (*Response, error) {
	o := requestOptions{header: http.Header{}, query: url.Values{}}
	for _, opt := range opts {
		opt(&o)
	}

	payload, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	target, err := c.resolve(rawURL, o.query)
	if err != nil {
		return nil, err
	}

	resp, err := c.attempt(ctx, method, target, payload, contentType, o.header)
	if err == nil || !IsUnauthorized(err) {
		return resp, err
	}

	result, initiated := c.refresher.Refresh(ctx)
	if !result.Success {
		log.Warn().Str("method", method).Str("url", target).Str("error", result.Error).Msg("Token refresh failed after 401")
		if initiated {
			c.navigator.RedirectToLogin(ctx)
		}
		return nil, err
	}

	return c.attempt(ctx, method, target, payload, contentType, o.header)
}

func (c *Client) resolve(rawURL string, query url.Values) (string, error) {
	if c.baseURL != "" && strings.HasPrefix(rawURL, "/") {
		rawURL = c.baseURL + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("[httpclient resolve] %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// attempt performs one request with a freshly read token.
func (c *Client) attempt(ctx context.Context, method, target string, payload []byte, contentType string, header http.Header) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("[httpclient attempt] %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	accessToken, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("[httpclient attempt] access token: %w", err)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[httpclient attempt] %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("[httpclient attempt] read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{Method: method, URL: target, StatusCode: resp.StatusCode, Body: data}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", fmt.Errorf("[httpclient encodeBody] %w", err)
		}
		return data, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("[httpclient encodeBody] %w", err)
		}
		return data, "application/json", nil
	}
}
