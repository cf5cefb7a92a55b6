package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nugudi/nugudi-gateway/internal/config"
	apperrors "github.com/nugudi/nugudi-gateway/internal/errors"
	"github.com/nugudi/nugudi-gateway/server/authflowrepo"
	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/nugudi/nugudi-gateway/upstream"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env       string // Environment (e.g., "DEV", "production")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	upstream  *upstream.Client
	authFlows authflowrepo.Repo
	cookies   sessions.CookiePolicy
	providers map[string]Provider
	limiter   *ipRateLimiter
	pages     http.Handler

	// apiHTTP is the plain transport wrapped by each request's authenticated client.
	apiHTTP *http.Client
}

// New builds the gateway. A missing upstream client is a configuration
// error: the session guard refuses to run without somewhere to refresh against.
func New(cfg config.Config, upstreamClient *upstream.Client, authFlowRepo authflowrepo.Repo) (*Server, error) {
	if upstreamClient == nil || upstreamClient.BaseURL() == "" {
		return nil, fmt.Errorf("[Server New] %w", apperrors.ErrMissingAPIURL)
	}

	s := &Server{
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		upstream:  upstreamClient,
		authFlows: authFlowRepo,
		cookies:   sessions.CookiePolicyFromConfig(cfg, cfg.IsProduction()),
		providers: NewProviders(cfg),
		apiHTTP:   &http.Client{Timeout: cfg.GetUpstreamTimeout()},
	}
	if cfg.GetEnableRateLimiting() {
		s.limiter = newIPRateLimiter(cfg.GetRateLimitPerSecond(), cfg.GetRateLimitBurst(), 10*time.Minute, cfg.GetTrustedProxies())
	}

	pages, err := s.newPageHandler(cfg.GetRendererURL())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create page handler: %w", err)
	}
	s.pages = pages

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = ansiGray
	}
	log.Debug().Msgf("[%-19s] %s", color+paddedMethod+ansiReset, path)
}
