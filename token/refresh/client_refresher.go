package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/nugudi/nugudi-gateway/upstream"
)

// BFFRefreshPath is the gateway's same-origin refresh endpoint.
const BFFRefreshPath = "/api/auth/refresh"

// BFFRefreshResponse is the body returned by the gateway's refresh endpoint.
type BFFRefreshResponse struct {
	Success bool            `json:"success"`
	Data    *BFFRefreshData `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type BFFRefreshData struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	UserID       upstream.ID `json:"userId"`
}

// ClientRefresher refreshes through the gateway rather than the upstream API.
// The session cookies are sent with the request the way a browser sends
// credentials, and the tokens echoed back are persisted locally.
type ClientRefresher struct {
	endpoint string
	http     *http.Client
	store    sessions.Store
}

// NewClientRefresher targets gatewayURL + BFFRefreshPath. httpClient must be a
// plain client, not one that performs its own 401 handling.
func NewClientRefresher(gatewayURL string, httpClient *http.Client, store sessions.Store) *ClientRefresher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &ClientRefresher{
		endpoint: gatewayURL + BFFRefreshPath,
		http:     httpClient,
		store:    store,
	}
}

func (r *ClientRefresher) Refresh(ctx context.Context) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = upstream.Failed("refresh panicked: %v", rec)
		}
	}()

	sess, err := r.store.Session(ctx)
	if err != nil {
		return upstream.Failed("read session: %v", err)
	}
	if sess.RefreshToken == "" {
		return upstream.Failed("no refresh token")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, nil)
	if err != nil {
		return upstream.Failed("build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	for _, f := range sessions.Fields {
		if v := sess.Get(f); v != "" {
			req.AddCookie(&http.Cookie{Name: string(f), Value: v})
		}
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return upstream.Failed("%v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return upstream.Failed("read response: %v", err)
	}
	var body BFFRefreshResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return upstream.Failed("decode response (status %d): %v", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !body.Success || body.Data == nil {
		msg := body.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return upstream.Failed("%s", msg)
	}
	if body.Data.AccessToken == "" || body.Data.RefreshToken == "" {
		return upstream.Failed("refresh response missing tokens")
	}

	next := sessions.Session{
		AccessToken:  body.Data.AccessToken,
		RefreshToken: body.Data.RefreshToken,
		UserID:       body.Data.UserID.String(),
	}
	// The gateway may have minted a device id for this client.
	for _, c := range resp.Cookies() {
		if c.Name == string(sessions.FieldDeviceID) && c.Value != "" && sess.DeviceID == "" {
			next.DeviceID = c.Value
		}
	}
	if err := r.store.SetSession(ctx, next); err != nil {
		return upstream.Failed("store session: %v", err)
	}

	return Result{Success: true, AccessToken: next.AccessToken, RefreshToken: next.RefreshToken}
}
