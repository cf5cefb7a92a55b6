package sessions

import (
	"context"
	"net/http"
	"sync"
)

var _ Store = (*CookieStore)(nil)

// CookieStore is the server-side Store for a single request. Reads prefer
// values written during this request, then the x-access-token header (access
// token only), then the request's cookies. Writes go out as Set-Cookie headers.
type CookieStore struct {
	r      *http.Request
	w      http.ResponseWriter
	policy CookiePolicy

	mu      sync.Mutex
	written map[Field]string // "" marks a deleted field
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, policy CookiePolicy) *CookieStore {
	return &CookieStore{
		r:       r,
		w:       w,
		policy:  policy,
		written: make(map[Field]string),
	}
}

func (s *CookieStore) Get(_ context.Context, f Field) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(f), nil
}

func (s *CookieStore) get(f Field) string {
	if v, ok := s.written[f]; ok {
		return v
	}
	if f == FieldAccessToken {
		if v := s.r.Header.Get(HeaderAccessToken); v != "" {
			return v
		}
	}
	c, err := s.r.Cookie(string(f))
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *CookieStore) Set(_ context.Context, f Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(f, value)
	return nil
}

func (s *CookieStore) set(f Field, value string) {
	http.SetCookie(s.w, s.policy.Cookie(f, value))
	s.written[f] = value
}

func (s *CookieStore) ClearField(_ context.Context, f Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	http.SetCookie(s.w, s.policy.Expired(f))
	s.written[f] = ""
	return nil
}

func (s *CookieStore) Session(_ context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sess Session
	for _, f := range Fields {
		sess.Set(f, s.get(f))
	}
	return sess, nil
}

func (s *CookieStore) SetSession(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range Fields {
		if v := sess.Get(f); v != "" {
			s.set(f, v)
		}
	}
	return nil
}

func (s *CookieStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range Fields {
		http.SetCookie(s.w, s.policy.Expired(f))
		s.written[f] = ""
	}
	return nil
}
