package server

func (s *Server) initRoutes() {
	// Operations
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, s.MetricsHandler())

	// BFF auth API
	s.RegisterRouteHandler("POST "+RouteAPIAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware(s.RateLimitMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAPIAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPIAuthSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware(s.RateLimitMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAPIAuthAuthorize, ChainMiddleware(s.AuthorizeHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAPIAuthCallback, ChainMiddleware(s.CallbackHandler(), s.HTMLMiddleWare()...))

	// BFF data API
	s.RegisterRouteHandler("GET "+RouteAPIUsersMe, ChainMiddleware(s.ProfileHandler(), s.APIMiddleware(s.SessionGuard)...))

	// Everything else is a page behind the session guard
	s.RegisterRouteHandler("/", ChainMiddleware(s.pages.ServeHTTP, s.HTMLMiddleWare(s.SessionGuard)...))
}
