package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/nugudi/nugudi-gateway/internal/config"
	"github.com/nugudi/nugudi-gateway/internal/logging"
	"github.com/nugudi/nugudi-gateway/server"
	"github.com/nugudi/nugudi-gateway/server/authflowrepo"
	"github.com/nugudi/nugudi-gateway/upstream"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	c := config.New()
	logging.Setup(c.GetLogLevel(), c.GetEnv() == "DEV")

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	upstreamClient, err := upstream.New(c.GetAPIURL(), upstream.WithHTTPClient(&http.Client{Timeout: c.GetUpstreamTimeout()}))
	if err != nil {
		return fmt.Errorf("[main run] %w", err)
	}

	authFlows, closeFlows, err := newAuthFlowRepo(c)
	if err != nil {
		return err
	}
	defer closeFlows()

	handler, err := server.New(c, upstreamClient, authFlows)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		errs <- listenAndServe(srv)
	}()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

// newAuthFlowRepo uses Redis when REDIS_ADDR is set so that any replica can
// serve an OAuth callback.
func newAuthFlowRepo(c config.Config) (authflowrepo.Repo, func(), error) {
	if c.GetRedisAddr() == "" {
		return authflowrepo.NewInMemoryRepo(c.GetAuthFlowTimeout()), func() {}, nil
	}

	client := authflowrepo.NewRedisClient(c.GetRedisAddr())
	repo := authflowrepo.NewRedisRepo(client, c.GetAuthFlowTimeout())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := repo.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("[main newAuthFlowRepo] redis ping: %w", err)
	}
	log.Info().Str("addr", c.GetRedisAddr()).Msg("Using Redis for OAuth flow state")
	return repo, func() { _ = client.Close() }, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
