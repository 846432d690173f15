package main

import (
	"github.com/spf13/cobra"
)

func serveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and the observation request queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e.log.Info().
				Str("address", e.cfg.ServerAddress()).
				Bool("rabbitmq", e.cfg.RabbitMQ.Enabled).
				Bool("redis", e.cfg.Redis.Enabled).
				Msg("starting recorder")

			if err := e.app.Start(cmd.Context()); err != nil {
				e.log.Error().Err(err).Msg("recorder stopped with error")
				return err
			}
			return nil
		},
	}
}
