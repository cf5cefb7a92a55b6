package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/nugudi/nugudi-gateway/internal/config"
	"github.com/nugudi/nugudi-gateway/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	c := config.New()
	logging.Setup(config.GetEnv("LOG_LEVEL", "warn"), true)

	if err := newRootCmd(c).Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
