package sessions

import (
	"net/http"
)

// Transport gives a non-browser client the cookie behaviour a browser has
// towards the gateway: session fields from the store ride along as cookies,
// and session Set-Cookie headers in responses are written back to the store.
// Deletions of device_id are ignored so the installation keeps its identity.
type Transport struct {
	Store Store
	Base  http.RoundTripper
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	sess, err := t.Store.Session(ctx)
	if err != nil {
		return nil, err
	}

	req = req.Clone(ctx)
	for _, f := range Fields {
		if v := sess.Get(f); v != "" {
			req.AddCookie(&http.Cookie{Name: string(f), Value: v})
		}
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	for _, c := range resp.Cookies() {
		f := Field(c.Name)
		if !isField(f) {
			continue
		}
		if c.MaxAge < 0 || c.Value == "" {
			if f != FieldDeviceID {
				_ = t.Store.ClearField(ctx, f)
			}
			continue
		}
		_ = t.Store.Set(ctx, f, c.Value)
	}
	return resp, nil
}

func isField(f Field) bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}
