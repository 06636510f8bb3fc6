package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bnema/gtv-cli/internal/adapters/execrun"
	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 2 * time.Minute

// Automation launches the keypress helper that performs a global search on
// an already-connected device. It never touches the device cache.
type Automation struct {
	binary  string
	run     execrun.Func
	timeout time.Duration
	logger  zerolog.Logger
}

var _ ports.UIAutomation = (*Automation)(nil)

func NewAutomation(binary string, timeout time.Duration, logger zerolog.Logger) *Automation {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Automation{
		binary:  binary,
		run:     execrun.Bind(binary),
		timeout: timeout,
		logger:  logger,
	}
}

func Args(req ports.AutomationRequest) []string {
	return []string{
		"--device", req.Serial,
		"--app", req.App,
		"--season", strconv.Itoa(req.Season),
		"--episode", strconv.Itoa(req.Episode),
		"--query", req.Query,
	}
}

func (a *Automation) Run(ctx context.Context, req ports.AutomationRequest) error {
	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	args := Args(req)
	a.logger.Debug().Str("automation", a.binary).Strs("args", args).Msg("delegating global search")

	_, stderr, err := a.run(runCtx, args...)
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return domain.NewError(domain.ErrRemoteTimeout,
			fmt.Sprintf("%s exceeded %s", a.binary, a.timeout), nil)
	}
	if err != nil {
		return domain.NewError(domain.ErrRemoteFailure,
			fmt.Sprintf("%s failed", a.binary), execrun.FormatError(err, stderr))
	}

	return nil
}
