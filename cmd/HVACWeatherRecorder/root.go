package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/app"
	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/config"
	metricsSvc "github.com/Nazarious-ucu/hvac-weather-recorder/internal/services/metrics"
	"github.com/Nazarious-ucu/hvac-weather-recorder/pkg/logger"
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// env is what every subcommand shares once the root pre-run has loaded it.
type env struct {
	cfg *config.Config
	log zerolog.Logger
	app *app.App
}

func rootCmd() *cobra.Command {
	e := &env{}

	cmd := &cobra.Command{
		Use:           "hvac-weather-recorder",
		Short:         "Records current NWS weather observations for HVAC control",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load()
		},
	}

	cmd.AddCommand(serveCmd(e), recordCmd(e), refreshCmd(e))
	return cmd
}

func (e *env) load() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.NewLogger(cfg.LogsPath, cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	e.cfg = cfg
	e.log = l
	e.app = app.New(*cfg, l, metricsSvc.NewMetrics(cfg.ServiceName))
	return nil
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return rootCmd().ExecuteContext(ctx)
}
