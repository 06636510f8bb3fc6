package cmd

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect gtv configuration",
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after file and environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := app.cfg.Encode(format)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	showCmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, yaml or json")

	configCmd.AddCommand(showCmd)
	return configCmd
}
