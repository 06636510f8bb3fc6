package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/gtv-cli/internal/application"
	"github.com/spf13/cobra"
)

func newPauseCmd(app *app) *cobra.Command {
	return newMediaKeyCmd(app, "pause", "Pause playback", "paused", func(svc *application.Service) mediaFunc {
		return svc.Pause
	})
}

func newResumeCmd(app *app) *cobra.Command {
	return newMediaKeyCmd(app, "resume", "Resume playback", "resumed", func(svc *application.Service) mediaFunc {
		return svc.Resume
	})
}

type mediaFunc func(context.Context, application.ConnectRequest) (application.MediaResult, error)

// The service is built in PersistentPreRunE, so the method is picked at run
// time rather than when the command tree is assembled.
func newMediaKeyCmd(app *app, use, short, verb string, pick func(*application.Service) mediaFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := app.connectRequest()
			if err != nil {
				return err
			}

			result, err := pick(app.service)(cmd.Context(), req)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, result.Serial)
			return err
		},
	}
}
