package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/rs/zerolog"
)

// Packages names the Android package each provider launches into.
type Packages struct {
	YouTube string `json:"youtube" yaml:"youtube" toml:"youtube" mapstructure:"youtube"`
	Tubi    string `json:"tubi" yaml:"tubi" toml:"tubi" mapstructure:"tubi"`
}

func DefaultPackages() Packages {
	return Packages{YouTube: domain.DefaultYouTubePackage, Tubi: domain.DefaultTubiPackage}
}

func (p Packages) withDefaults() Packages {
	if strings.TrimSpace(p.YouTube) == "" {
		p.YouTube = domain.DefaultYouTubePackage
	}
	if strings.TrimSpace(p.Tubi) == "" {
		p.Tubi = domain.DefaultTubiPackage
	}
	return p
}

// Dispatcher issues exactly one remote command per action.
type Dispatcher struct {
	automation ports.UIAutomation
	packages   Packages
	logger     zerolog.Logger
}

func NewDispatcher(automation ports.UIAutomation, packages Packages, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{automation: automation, packages: packages.withDefaults(), logger: logger}
}

func (d *Dispatcher) Packages() Packages {
	return d.packages
}

// Command returns the shell command an intent action runs, or "" for a
// delegated search.
func (d *Dispatcher) Command(action domain.ResolvedAction) string {
	switch action.Kind {
	case domain.ActionYouTubeLaunch:
		return ViewIntent(YouTubeWatchURL(action.VideoID), d.packages.YouTube)
	case domain.ActionTubiLaunch:
		return ViewIntent(action.URL, d.packages.Tubi)
	default:
		return ""
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, session *Session, action domain.ResolvedAction) error {
	switch action.Kind {
	case domain.ActionYouTubeLaunch, domain.ActionTubiLaunch:
		command := d.Command(action)
		d.logger.Debug().Str("serial", session.Serial()).Str("command", command).Msg("sending view intent")
		_, err := session.Run(ctx, command)
		return asDispatchError(err)
	case domain.ActionGlobalSearchDelegate:
		if d.automation == nil {
			return domain.NewError(domain.ErrRemoteFailure, "no automation command configured for global search", nil)
		}
		req := ports.AutomationRequest{
			Serial:  session.Serial(),
			App:     action.App,
			Season:  action.Season,
			Episode: action.Episode,
			Query:   action.Query,
		}
		d.logger.Debug().Str("serial", req.Serial).Str("app", req.App).Msg("delegating global search")
		return asDispatchError(d.automation.Run(ctx, req))
	default:
		return domain.NewError(domain.ErrRemoteFailure, fmt.Sprintf("unknown action kind %q", action.Kind), nil)
	}
}

func (d *Dispatcher) SendKey(ctx context.Context, session *Session, key domain.MediaKey) error {
	_, err := session.Run(ctx, "input keyevent "+string(key))
	return asDispatchError(err)
}

func YouTubeWatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}

// ViewIntent builds an activity-manager VIEW intent restricted to pkg.
func ViewIntent(uri, pkg string) string {
	return fmt.Sprintf("am start -a android.intent.action.VIEW -d %s -p %s", shellQuote(uri), shellQuote(pkg))
}

// shellQuote wraps s for the device's /system/bin/sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func asDispatchError(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewError(domain.ErrRemoteTimeout, "remote command timed out", err)
	}

	return domain.NewError(domain.ErrRemoteFailure, "remote command failed", err)
}
