package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

var exitCodes = map[models.Kind]int{
	models.KindInvalidInput:        2,
	models.KindNotFound:            3,
	models.KindNoStationsAvailable: 4,
	models.KindUpstreamUnavailable: 5,
	models.KindStaleData:           6,
	models.KindMalformedData:       7,
	models.KindValidation:          8,
	models.KindPersistence:         9,
}

// exitCode maps a run result to the process exit status.
func exitCode(result models.PipelineResult) int {
	if result.Success {
		return 0
	}
	if result.Error == nil {
		return 1
	}
	if code, ok := exitCodes[result.Error.Kind]; ok {
		return code
	}
	return 1
}

func recordCmd(e *env) *cobra.Command {
	var zip string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record the current observation for one zip code and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if zip == "" {
				zip = e.cfg.Pipeline.DefaultZip
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

			if c.Directory != nil {
				if err := c.Directory.Refresh(cmd.Context()); err != nil {
					e.log.Warn().Err(err).Msg("station directory load failed")
				}
			}

			result := c.Pipeline.Run(cmd.Context(), zip)

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if code := exitCode(result); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&zip, "zip", "", "US zip code (defaults to PIPELINE_DEFAULT_ZIP)")
	return cmd
}
