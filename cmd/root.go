package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/99minutos/task-tracker/internal/infrastructure/config"
	"github.com/99minutos/task-tracker/pkg/logger"
)

// version is overridden at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "tasktracker",
	Short:         "Team task tracker service",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads .env (when present) and the environment, then initialises the logger.
func loadConfig(ctx context.Context) (*config.Config, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "tasktracker",
		Version: version,
	})
	if envErr != nil {
		log.Debug().Msg(".env file not found, using environment variables")
	}
	return cfg, nil
}
