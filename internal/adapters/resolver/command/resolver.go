package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/gtv-cli/internal/adapters/execrun"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 20 * time.Second

// Resolver runs "<command> <query>" and hands back stdout untouched.
type Resolver struct {
	binary  string
	run     execrun.Func
	timeout time.Duration
	logger  zerolog.Logger
}

var _ ports.TitleResolver = (*Resolver)(nil)

func NewResolver(binary string, timeout time.Duration, logger zerolog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Resolver{
		binary:  binary,
		run:     execrun.Bind(binary),
		timeout: timeout,
		logger:  logger,
	}
}

func (r *Resolver) Lookup(ctx context.Context, query string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stdout, stderr, err := r.run(runCtx, query)
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("resolver %s exceeded %s", r.binary, r.timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("resolver %s: %w", r.binary, execrun.FormatError(err, stderr))
	}

	r.logger.Debug().Str("resolver", r.binary).Int("bytes", len(stdout)).Msg("resolver output")
	return []byte(stdout), nil
}
