package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/config"
)

func refreshCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-stations",
		Short: "Load the configured states' station directory once and report its size",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.cfg.Directory.Source != config.DirectorySourceState {
				return errors.New("refresh-stations needs DIRECTORY_SOURCE=state")
			}

			c, err := e.app.Build(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := e.app.Shutdown(c); err != nil {
					e.log.Error().Err(err).Msg("failed to shutdown")
				}
			}()

			if err := c.Directory.Refresh(cmd.Context()); err != nil {
				return err
			}

			snap := c.Directory.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "%d stations loaded at %s\n",
				len(snap.Stations), snap.RefreshedAt.Format(time.RFC3339))
			return nil
		},
	}
}
