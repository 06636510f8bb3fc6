package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Connect and show the device model, address and cache state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := app.connectRequest()
			if err != nil {
				return err
			}

			status, err := app.service.Status(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, status)
			}

			rendered, err := app.statusRenderer(status, app.renderOptions())
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	statusCmd.Flags().BoolVar(&asJSON, "json", false, "Print status as JSON")
	return statusCmd
}

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
