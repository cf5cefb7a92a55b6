package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nugudi/nugudi-gateway/httpclient"
	"github.com/nugudi/nugudi-gateway/internal/config"
	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/nugudi/nugudi-gateway/token"
	"github.com/nugudi/nugudi-gateway/token/refresh"
	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitCodeSuccess      = 0
	ExitCodeError        = 1
	ExitCodeAuthRequired = 2
)

// errAuthRequired marks failures that need the user to sign in again.
var errAuthRequired = errors.New("sign-in required")

func exitCode(err error) int {
	if errors.Is(err, errAuthRequired) || httpclient.IsUnauthorized(err) {
		return ExitCodeAuthRequired
	}
	return ExitCodeError
}

type rootOptions struct {
	gatewayURL  string
	sessionFile string
	timeout     time.Duration
}

func newRootCmd(c config.Config) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "nugudi",
		Short: "Use a nugudi session from the command line",
		Long: `nugudi keeps a session for the nugudi gateway on this machine and
calls the gateway with it, refreshing the access token when it expires.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.gatewayURL, "gateway", c.GetBaseURL(), "gateway base URL")
	cmd.PersistentFlags().StringVar(&opts.sessionFile, "session-file", "", "session file (default is <config dir>/nugudi/session.json)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", c.GetRefreshTimeout(), "refresh timeout")

	cmd.AddCommand(newSessionCmd(opts))
	cmd.AddCommand(newRefreshCmd(opts))
	cmd.AddCommand(newWhoamiCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	return cmd
}

// app is the client-side container. One is built per process and shared by
// everything the command does, so concurrent calls share one refresh.
type app struct {
	gatewayURL  string
	store       *sessions.FileStore
	coordinator *refresh.Coordinator
	client      *httpclient.Client
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	path := opts.sessionFile
	if path == "" {
		var err error
		if path, err = sessions.DefaultSessionPath(); err != nil {
			return nil, err
		}
	}
	store := sessions.NewFileStore(path)
	if _, err := store.EnsureDeviceID(cmd.Context()); err != nil {
		return nil, err
	}

	coordinator := refresh.NewCoordinator(
		refresh.NewClientRefresher(opts.gatewayURL, &http.Client{Timeout: opts.timeout}, store),
		refresh.WithTimeout(opts.timeout),
		refresh.WithScope("client"),
	)

	gatewayHTTP := &http.Client{
		Timeout:   30 * time.Second,
		Transport: &sessions.Transport{Store: store},
		// Guard redirects mean "not signed in"; surface them instead of following to the login page
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	client := httpclient.New(gatewayHTTP, token.NewStoreProvider(store), coordinator,
		httpclient.WithBaseURL(opts.gatewayURL),
		httpclient.WithNavigator(loginNavigator(cmd.ErrOrStderr(), opts.gatewayURL)),
	)

	return &app{
		gatewayURL:  opts.gatewayURL,
		store:       store,
		coordinator: coordinator,
		client:      client,
	}, nil
}

// loginNavigator tells the user where to sign in again.
func loginNavigator(w io.Writer, gatewayURL string) httpclient.Navigator {
	return httpclient.NavigatorFunc(func(context.Context) {
		fmt.Fprintf(w, "Session expired. Sign in again at %s/auth/login\n", gatewayURL)
	})
}
