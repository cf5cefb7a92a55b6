package server

import (
	"net/http"

	"github.com/nugudi/nugudi-gateway/httpclient"
	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/nugudi/nugudi-gateway/token"
	"github.com/nugudi/nugudi-gateway/token/refresh"
)

// Refresh scopes, used as metric labels.
const (
	scopeEdge   = "edge"
	scopeServer = "server"
)

// requestSession is the server-side auth container for one request. Nothing
// in it is shared across requests; concurrent work inside the same request
// shares one refresh.
type requestSession struct {
	store       *sessions.CookieStore
	tokens      token.Provider
	coordinator *refresh.Coordinator
	client      *httpclient.Client
}

func (s *Server) newRequestSession(w http.ResponseWriter, r *http.Request, scope string, opts ...refresh.ServerRefresherOption) *requestSession {
	store := sessions.NewCookieStore(w, r, s.cookies)
	tokens := token.NewStoreProvider(store)
	coordinator := refresh.NewCoordinator(
		refresh.NewServerRefresher(store, s.upstream, opts...),
		refresh.WithTimeout(s.config.GetRefreshTimeout()),
		refresh.WithScope(scope),
	)
	return &requestSession{
		store:       store,
		tokens:      tokens,
		coordinator: coordinator,
		client: httpclient.New(s.apiHTTP, tokens, coordinator,
			httpclient.WithBaseURL(s.upstream.BaseURL()),
		),
	}
}
