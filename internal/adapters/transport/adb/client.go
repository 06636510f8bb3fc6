package adb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/gtv-cli/internal/adapters/execrun"
	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/rs/zerolog"
)

const (
	DefaultBinary         = "adb"
	DefaultConnectTimeout = 5 * time.Second
	DefaultCommandTimeout = 10 * time.Second
)

var (
	refusedMarkers = []string{"connection refused", "actively refused", "econnrefused"}
	timeoutMarkers = []string{"timed out", "timeout", "no route to host", "host is unreachable", "network is unreachable"}
	failureMarkers = []string{"error:", "exception", "unable to resolve", "does not exist"}
)

type Options struct {
	Binary         string
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
}

// Client wraps the adb binary. Every invocation runs under its own deadline.
type Client struct {
	run            execrun.Func
	connectTimeout time.Duration
	commandTimeout time.Duration
	logger         zerolog.Logger
}

var _ ports.Transport = (*Client)(nil)

func NewClient(opts Options, logger zerolog.Logger) *Client {
	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	return &Client{
		run:            execrun.Bind(binary),
		connectTimeout: orDefault(opts.ConnectTimeout, DefaultConnectTimeout),
		commandTimeout: orDefault(opts.CommandTimeout, DefaultCommandTimeout),
		logger:         logger,
	}
}

func (c *Client) Connect(ctx context.Context, addr domain.DeviceAddress) domain.ConnectionAttempt {
	attempt := domain.ConnectionAttempt{Address: addr}

	runCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	stdout, stderr, err := c.run(runCtx, "connect", addr.Serial())
	output := strings.TrimSpace(stdout + "\n" + stderr)
	attempt.Detail = output

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		attempt.Outcome = domain.OutcomeTimeout
		attempt.Detail = fmt.Sprintf("adb connect exceeded %s", c.connectTimeout)
	case errors.Is(err, execrun.ErrUnavailable):
		attempt.Outcome = domain.OutcomeUnknown
		attempt.Detail = err.Error()
	default:
		attempt.Outcome = ClassifyConnectOutput(output, addr)
		if attempt.Outcome == domain.OutcomeConnected && err != nil {
			attempt.Outcome = domain.OutcomeUnknown
		}
	}

	c.logger.Debug().
		Str("serial", addr.Serial()).
		Str("outcome", string(attempt.Outcome)).
		Str("output", output).
		Msg("adb connect")

	return attempt
}

// ClassifyConnectOutput maps the text printed by "adb connect".
func ClassifyConnectOutput(output string, addr domain.DeviceAddress) domain.ConnectOutcome {
	lower := strings.ToLower(output)

	switch {
	case containsAny(lower, refusedMarkers):
		return domain.OutcomeRefused
	case containsAny(lower, timeoutMarkers):
		return domain.OutcomeTimeout
	case strings.Contains(lower, "failed") || strings.Contains(lower, "cannot") || strings.Contains(lower, "unable"):
		return domain.OutcomeUnknown
	case strings.Contains(lower, "already connected to "+strings.ToLower(addr.Serial())),
		strings.Contains(lower, "connected to "+strings.ToLower(addr.Serial())):
		return domain.OutcomeConnected
	default:
		return domain.OutcomeUnknown
	}
}

func (c *Client) Shell(ctx context.Context, addr domain.DeviceAddress, command string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	stdout, stderr, err := c.run(runCtx, "-s", addr.Serial(), "shell", command)
	c.logger.Debug().
		Str("serial", addr.Serial()).
		Str("command", command).
		Str("stdout", strings.TrimSpace(stdout)).
		Str("stderr", stderr).
		Msg("adb shell")

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return stdout, domain.NewError(domain.ErrRemoteTimeout,
			fmt.Sprintf("%q on %s exceeded %s", command, addr.Serial(), c.commandTimeout), nil)
	}
	if err != nil {
		return stdout, domain.NewError(domain.ErrRemoteFailure,
			fmt.Sprintf("%q on %s", command, addr.Serial()), execrun.FormatError(err, stderr))
	}
	if line := failureLine(stdout + "\n" + stderr); line != "" {
		return stdout, domain.NewError(domain.ErrRemoteFailure,
			fmt.Sprintf("%q on %s reported %q", command, addr.Serial(), line), nil)
	}

	return stdout, nil
}

// failureLine finds the first line where the device reported an error
// while adb itself still exited zero.
func failureLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if containsAny(strings.ToLower(trimmed), failureMarkers) {
			return trimmed
		}
	}

	return ""
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}

	return false
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}

// MDNSServices returns the raw "adb mdns services" listing.
func (c *Client) MDNSServices(ctx context.Context) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	stdout, stderr, err := c.run(runCtx, "mdns", "services")
	if err != nil {
		return "", fmt.Errorf("adb mdns services: %w", execrun.FormatError(err, stderr))
	}

	return stdout, nil
}

// Version reports the first line of "adb version", used by doctor.
func (c *Client) Version(ctx context.Context) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	stdout, stderr, err := c.run(runCtx, "version")
	if err != nil {
		return "", fmt.Errorf("adb version: %w", execrun.FormatError(err, stderr))
	}

	first, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n")
	return strings.TrimSpace(first), nil
}
