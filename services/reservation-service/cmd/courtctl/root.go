package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/md-rashed-zaman/courtreserve/libs/runtime"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/app"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:          "courtctl",
	Short:        "Maintenance commands for the court reservation service",
	SilenceUsage: true,
}

func Execute() {
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(expireCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(availabilityCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level")
}

// withApp loads configuration, wires the service and hands it to fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, svc *app.App, logger *slog.Logger) error) error {
	cfg, err := app.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := runtime.NewLogger("courtctl", logLevel)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(ctx, svc, logger)
}
