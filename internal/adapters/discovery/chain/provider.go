package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/rs/zerolog"
)

var errNoProviders = errors.New("no discovery providers configured")

type Named struct {
	Name     string
	Provider ports.Discovery
}

// Provider asks each backend in order and returns the first non-empty
// answer. Backend errors only surface when no backend found anything.
type Provider struct {
	providers []Named
	logger    zerolog.Logger
}

var _ ports.Discovery = (*Provider)(nil)

func NewProvider(logger zerolog.Logger, providers ...Named) (*Provider, error) {
	filtered := make([]Named, 0, len(providers))
	for _, p := range providers {
		if p.Provider == nil {
			return nil, fmt.Errorf("discovery provider %q is nil", p.Name)
		}
		filtered = append(filtered, p)
	}
	if len(filtered) == 0 {
		return nil, errNoProviders
	}

	return &Provider{providers: filtered, logger: logger}, nil
}

func (c *Provider) Discover(ctx context.Context) ([]domain.DeviceAddress, error) {
	var errs error

	for _, p := range c.providers {
		found, err := p.Provider.Discover(ctx)
		if err != nil {
			if shouldSkipFallback(err) {
				return nil, err
			}
			c.logger.Debug().Err(err).Str("provider", p.Name).Msg("discovery provider failed")
			errs = errors.Join(errs, fmt.Errorf("%s: %w", p.Name, err))
			continue
		}
		if len(found) > 0 {
			c.logger.Debug().Str("provider", p.Name).Str("serial", found[0].Serial()).Msg("discovery hit")
			return found, nil
		}
	}

	if errs != nil {
		return nil, fmt.Errorf("discovery failed: %w", errs)
	}

	return nil, nil
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
