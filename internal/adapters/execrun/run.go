// Package execrun runs external collaborator binaries and captures their
// output.
package execrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var ErrUnavailable = errors.New("command unavailable")

// Func matches Run with the binary already bound, so adapters can swap it
// out in tests.
type Func func(ctx context.Context, args ...string) (stdout string, stderr string, err error)

func Bind(binary string) Func {
	return func(ctx context.Context, args ...string) (string, string, error) {
		return Run(ctx, binary, args...)
	}
}

func Run(ctx context.Context, binary string, args ...string) (string, string, error) {
	path, err := Locate(binary)
	if err != nil {
		return "", "", err
	}

	cmd := exec.CommandContext(ctx, path, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

// Locate resolves binary on PATH, mapping "not found" to ErrUnavailable.
func Locate(binary string) (string, error) {
	if strings.TrimSpace(binary) == "" {
		return "", fmt.Errorf("%w: no command configured", ErrUnavailable)
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUnavailable, binary)
		}
		return "", fmt.Errorf("locate %s: %w", binary, err)
	}

	return path, nil
}

func FormatError(err error, stderr string) error {
	if stderr == "" {
		return err
	}

	return fmt.Errorf("%w: %s", err, stderr)
}
