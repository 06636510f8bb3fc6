package application

import (
	"testing"
	"time"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports/mocks"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, host string, port int) domain.DeviceAddress {
	t.Helper()

	addr, err := domain.NewDeviceAddress(host, port)
	require.NoError(t, err)
	return addr
}

func attempt(outcome domain.ConnectOutcome) domain.ConnectionAttempt {
	return domain.ConnectionAttempt{Outcome: outcome}
}

func newFakeClock() *mocks.FakeClock {
	return &mocks.FakeClock{Current: time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
