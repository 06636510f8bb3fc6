package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/rs/zerolog"
)

// ContentResolver turns a play query into exactly one ResolvedAction.
type ContentResolver struct {
	titles ports.TitleResolver
	keys   []string
	logger zerolog.Logger
}

// NewContentResolver accepts a nil titles resolver, in which case the
// external lookup stage is skipped.
func NewContentResolver(titles ports.TitleResolver, logger zerolog.Logger) *ContentResolver {
	return &ContentResolver{titles: titles, keys: VideoIDKeys, logger: logger}
}

func (r *ContentResolver) Resolve(ctx context.Context, q domain.Query) (domain.ResolvedAction, error) {
	q.Text = strings.TrimSpace(q.Text)

	stages := r.stages()
	if q.App != nil {
		// An explicit app asks for a global search even if the title
		// happens to look like a video id.
		stages = stages[len(stages)-1:]
	}

	action, stageName, found, err := runStages(ctx, r.logger, q, stages)
	if err != nil {
		return domain.ResolvedAction{}, err
	}
	if !found {
		return domain.ResolvedAction{}, domain.NewError(domain.ErrUnresolved,
			fmt.Sprintf("nothing to play for %q", q.Text), nil)
	}

	r.logger.Debug().Str("stage", stageName).Str("action", action.String()).Msg("query resolved")
	return action, nil
}

func (r *ContentResolver) stages() []stage[domain.Query, domain.ResolvedAction] {
	return []stage[domain.Query, domain.ResolvedAction]{
		{name: "direct", run: r.direct},
		{name: "provider", run: r.provider},
		{name: "external", run: r.external},
		{name: "delegation", run: r.delegation},
	}
}

func (r *ContentResolver) direct(_ context.Context, q domain.Query) stepResult[domain.ResolvedAction] {
	id, ok := ExtractVideoID(q.Text)
	if !ok {
		return notApplicable[domain.ResolvedAction]()
	}
	return resolved(domain.YouTubeLaunch(id))
}

func (r *ContentResolver) provider(_ context.Context, q domain.Query) stepResult[domain.ResolvedAction] {
	u, ok := MatchTubiURL(q.Text)
	if !ok {
		return notApplicable[domain.ResolvedAction]()
	}
	return resolved(domain.TubiLaunch(u))
}

func (r *ContentResolver) external(ctx context.Context, q domain.Query) stepResult[domain.ResolvedAction] {
	if r.titles == nil || q.Text == "" {
		return notApplicable[domain.ResolvedAction]()
	}

	out, err := r.titles.Lookup(ctx, q.Text)
	if err != nil {
		r.logger.Debug().Err(err).Str("query", q.Text).Msg("title lookup failed")
		return notApplicable[domain.ResolvedAction]()
	}

	id, ok := FindVideoID(out, r.keys)
	if !ok {
		r.logger.Debug().Str("query", q.Text).Int("bytes", len(out)).Msg("title lookup returned no video id")
		return notApplicable[domain.ResolvedAction]()
	}

	return resolved(domain.YouTubeLaunch(id))
}

func (r *ContentResolver) delegation(_ context.Context, q domain.Query) stepResult[domain.ResolvedAction] {
	if q.Text == "" {
		return notApplicable[domain.ResolvedAction]()
	}

	var missing []string
	if q.App == nil || strings.TrimSpace(*q.App) == "" {
		missing = append(missing, "--app")
	}
	if q.Season == nil {
		missing = append(missing, "--season")
	}
	if q.Episode == nil {
		missing = append(missing, "--episode")
	}
	if len(missing) > 0 {
		return hardFailure[domain.ResolvedAction](domain.MissingArgsError(missing...))
	}

	return resolved(domain.GlobalSearchDelegate(strings.TrimSpace(*q.App), *q.Season, *q.Episode, q.Text))
}
