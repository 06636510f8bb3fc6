package application

import (
	"context"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
)

// Session is a live, verified connection to one device. It holds nothing
// beyond the address; adb owns the underlying connection.
type Session struct {
	Address  domain.DeviceAddress
	Source   domain.AddressSource
	Attempts []domain.ConnectionAttempt
	// Cached is the cache entry read before connecting, if any.
	Cached    *domain.CachedDevice
	transport ports.Transport
}

func NewSession(addr domain.DeviceAddress, source domain.AddressSource, transport ports.Transport) *Session {
	return &Session{Address: addr, Source: source, transport: transport}
}

func (s *Session) Serial() string {
	return s.Address.Serial()
}

// Run executes one remote shell command under the transport's timeout.
func (s *Session) Run(ctx context.Context, command string) (string, error) {
	return s.transport.Shell(ctx, s.Address, command)
}
