package ports

import (
	"context"

	"github.com/bnema/gtv-cli/internal/domain"
)

// Transport drives the external debug-bridge binary.
type Transport interface {
	Connect(ctx context.Context, addr domain.DeviceAddress) domain.ConnectionAttempt
	Shell(ctx context.Context, addr domain.DeviceAddress, command string) (string, error)
}
