package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/spf13/cobra"
)

const usageHint = "usage: gtv play <title> --app <app> --season <n> --episode <n>"

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(newApp(os.Stdin)).ExecuteContext(ctx)
}

// Diagnostic is the single line printed for a failed command.
func Diagnostic(err error) string {
	line := "gtv: " + err.Error()
	if errors.Is(err, domain.ErrMissingArgs) {
		line += "\n" + usageHint
	}
	return line
}

func newRootCmd(app *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gtv",
		Short:         "Control a Chromecast with Google TV over adb",
		Long:          "gtv finds a Chromecast with Google TV on the local network, connects to it over wireless adb and launches or controls playback from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.wire(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.opts.host, "host", "", "Device host or IP (env GTV_HOST)")
	flags.IntVar(&app.opts.port, "port", 0, "Device wireless debugging port (env GTV_PORT)")
	flags.BoolVar(&app.opts.noInput, "no-input", false, "Never prompt, even on a terminal")
	flags.BoolVarP(&app.opts.verbose, "verbose", "v", false, "Log connection and resolution steps to stderr")
	flags.StringVar(&app.opts.configFile, "config", "", "Config file (default ~/.config/gtv/config.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newStatusCmd(app),
		newPlayCmd(app),
		newPauseCmd(app),
		newResumeCmd(app),
		newDoctorCmd(app),
		newConfigCmd(app),
	)

	return rootCmd
}
