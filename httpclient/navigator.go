package httpclient

import "context"

// Navigator performs the "go to the login page" side effect after a refresh
// fails. It does not stop the caller: the original 401 is still returned.
type Navigator interface {
	RedirectToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) RedirectToLogin(ctx context.Context) {
	f(ctx)
}

// NoopNavigator is used in server contexts, where the session guard and the
// route handlers decide how to answer an unauthenticated request.
type NoopNavigator struct{}

func (NoopNavigator) RedirectToLogin(context.Context) {}
