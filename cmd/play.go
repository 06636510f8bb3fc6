package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/gtv-cli/internal/application"
	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/spf13/cobra"
)

type playOptions struct {
	app     string
	season  int
	episode int
	dryRun  bool
	asJSON  bool
}

func newPlayCmd(app *app) *cobra.Command {
	opts := &playOptions{}

	playCmd := &cobra.Command{
		Use:   "play <query>",
		Short: "Play a YouTube video, a Tubi title or an episode in another app",
		Long: `Play resolves the query and launches it on the device.

A YouTube URL or bare video id opens the YouTube app, a tubitv.com URL opens
Tubi, and anything else is looked up with the external resolver. With --app,
--season and --episode the title is handed to the global search automation.`,
		Example: `  gtv play https://youtu.be/dQw4w9WgXcQ
  gtv play "big buck bunny"
  gtv play "the office" --app peacock --season 2 --episode 1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := opts.query(cmd, args)

			var (
				result application.PlayResult
				err    error
			)
			if opts.dryRun {
				result, err = app.service.Preview(cmd.Context(), query)
			} else {
				req, reqErr := app.connectRequest()
				if reqErr != nil {
					return reqErr
				}
				result, err = app.service.Play(cmd.Context(), req, query)
			}
			if err != nil {
				return err
			}

			if opts.asJSON {
				return writeJSON(cmd, result)
			}
			return writePlayResult(cmd, result)
		},
	}

	flags := playCmd.Flags()
	flags.StringVar(&opts.app, "app", "", "Streaming app to search in (enables global search)")
	flags.IntVar(&opts.season, "season", 0, "Season number for global search")
	flags.IntVar(&opts.episode, "episode", 0, "Episode number for global search")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Resolve and print the command without contacting the device")
	flags.BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	flags.StringVar(&app.opts.youtubePackage, "youtube-package", "", "YouTube package name (env GTV_YOUTUBE_PACKAGE)")
	flags.StringVar(&app.opts.tubiPackage, "tubi-package", "", "Tubi package name (env GTV_TUBI_PACKAGE)")

	return playCmd
}

// query keeps unset flags nil so the resolver can tell "absent" from zero.
func (o *playOptions) query(cmd *cobra.Command, args []string) domain.Query {
	q := domain.Query{Text: strings.Join(args, " ")}

	flags := cmd.Flags()
	if flags.Changed("app") {
		app := o.app
		q.App = &app
	}
	if flags.Changed("season") {
		season := o.season
		q.Season = &season
	}
	if flags.Changed("episode") {
		episode := o.episode
		q.Episode = &episode
	}

	return q
}

func writePlayResult(cmd *cobra.Command, result application.PlayResult) error {
	out := cmd.OutOrStdout()

	if result.DryRun {
		command := result.Command
		if command == "" {
			command = "(global search automation)"
		}
		_, err := fmt.Fprintf(out, "would play %s\n  %s\n", result.Action, command)
		return err
	}

	_, err := fmt.Fprintf(out, "playing %s on %s\n", result.Action, result.Serial)
	return err
}
