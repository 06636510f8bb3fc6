package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/gtv-cli/internal/adapters/execrun"
	"github.com/bnema/gtv-cli/internal/application"
	"github.com/spf13/cobra"
)

func newDoctorCmd(app *app) *cobra.Command {
	var asJSON bool

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check adb, helper commands, cache and config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := app.service.Doctor(cmd.Context(), app.doctorChecks())

			if asJSON {
				return writeJSON(cmd, report)
			}

			rendered, err := app.doctorRenderer(report, app.renderOptions())
			if err != nil {
				return fmt.Errorf("render doctor report: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	doctorCmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return doctorCmd
}

func (a *app) doctorChecks() []application.Check {
	return []application.Check{
		{
			Name:     "adb",
			Required: true,
			Hint:     "install Android platform-tools or set adb.path",
			Run: func(ctx context.Context) (string, error) {
				return a.adb.Version(ctx)
			},
		},
		{
			Name: "resolver",
			Hint: "install " + orNone(a.cfg.Resolver.Command) + " or set resolver.command",
			Run: func(context.Context) (string, error) {
				return execrun.Locate(a.cfg.Resolver.Command)
			},
		},
		{
			Name: "automation",
			Hint: "install " + orNone(a.cfg.Automation.Command) + " or set automation.command",
			Run: func(context.Context) (string, error) {
				return execrun.Locate(a.cfg.Automation.Command)
			},
		},
		{
			Name: "cache",
			Hint: "delete the file to forget the device",
			Run: func(ctx context.Context) (string, error) {
				if cached, ok := a.cache.Load(ctx); ok {
					return cached.Address.Serial() + " in " + a.cache.Path(), nil
				}
				if _, err := os.Stat(a.cache.Path()); err != nil {
					if errors.Is(err, os.ErrNotExist) {
						return "no device saved yet", nil
					}
					return "", err
				}
				return "", fmt.Errorf("%s is unreadable or malformed", a.cache.Path())
			},
		},
		{
			Name: "config",
			Run: func(context.Context) (string, error) {
				if a.cfg.File == "" {
					return "defaults (no config file)", nil
				}
				return a.cfg.File, nil
			},
		},
		{
			Name: "discovery",
			Hint: "set discovery.providers or pass --host and --port",
			Run: func(context.Context) (string, error) {
				if len(a.cfg.Discovery.Providers) == 0 {
					return "", errors.New("no providers configured")
				}
				return strings.Join(a.cfg.Discovery.Providers, ", ") + " for " + a.cfg.Discovery.Service, nil
			},
		},
	}
}

func orNone(binary string) string {
	if binary == "" {
		return "a helper"
	}
	return binary
}
