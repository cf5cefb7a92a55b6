package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Pages the session guard treats as auth pages
	RouteLogin  = "/auth/login"
	RouteSignup = "/auth/signup"

	// BFF auth API
	RouteAPIAuthRefresh   = "/api/auth/refresh"
	RouteAPIAuthLogout    = "/api/auth/logout"
	RouteAPIAuthSignup    = "/api/auth/signup"
	RouteAPIAuthAuthorize = "/api/auth/{provider}/authorize"
	RouteAPIAuthCallback  = "/api/auth/{provider}/callback"

	// BFF data API (guarded)
	RouteAPIUsersMe = "/api/users/me"

	// Operations
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)

// Path prefixes the session guard never blocks.
var publicPrefixes = []string{
	"/auth",
	"/api/auth",
	RouteHealth,
	RouteMetrics,
	"/_next/",
	"/static/",
	"/favicon.ico",
	"/robots.txt",
}

// registrationTokenCookie carries the upstream registration token from the
// OAuth callback to the signup form.
const registrationTokenCookie = "registration_token"

// callbackURLParam is the query parameter that carries the page to return to after login.
const callbackURLParam = "callbackUrl"
