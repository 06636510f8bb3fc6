// Package mocks holds testify doubles for the ports interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

type MockDeviceCache struct {
	mock.Mock
}

var _ ports.DeviceCache = (*MockDeviceCache)(nil)

func NewMockDeviceCache(t testingT) *MockDeviceCache {
	m := &MockDeviceCache{}
	register(&m.Mock, t)
	return m
}

func (m *MockDeviceCache) Load(ctx context.Context) (domain.CachedDevice, bool) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CachedDevice), args.Bool(1)
}

func (m *MockDeviceCache) Save(ctx context.Context, addr domain.DeviceAddress) error {
	args := m.Called(ctx, addr)
	return args.Error(0)
}

type MockTransport struct {
	mock.Mock
}

var _ ports.Transport = (*MockTransport)(nil)

func NewMockTransport(t testingT) *MockTransport {
	m := &MockTransport{}
	register(&m.Mock, t)
	return m
}

func (m *MockTransport) Connect(ctx context.Context, addr domain.DeviceAddress) domain.ConnectionAttempt {
	args := m.Called(ctx, addr)
	return args.Get(0).(domain.ConnectionAttempt)
}

func (m *MockTransport) Shell(ctx context.Context, addr domain.DeviceAddress, command string) (string, error) {
	args := m.Called(ctx, addr, command)
	return args.String(0), args.Error(1)
}

type MockDiscovery struct {
	mock.Mock
}

var _ ports.Discovery = (*MockDiscovery)(nil)

func NewMockDiscovery(t testingT) *MockDiscovery {
	m := &MockDiscovery{}
	register(&m.Mock, t)
	return m
}

func (m *MockDiscovery) Discover(ctx context.Context) ([]domain.DeviceAddress, error) {
	args := m.Called(ctx)
	found, _ := args.Get(0).([]domain.DeviceAddress)
	return found, args.Error(1)
}

type MockTitleResolver struct {
	mock.Mock
}

var _ ports.TitleResolver = (*MockTitleResolver)(nil)

func NewMockTitleResolver(t testingT) *MockTitleResolver {
	m := &MockTitleResolver{}
	register(&m.Mock, t)
	return m
}

func (m *MockTitleResolver) Lookup(ctx context.Context, query string) ([]byte, error) {
	args := m.Called(ctx, query)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

type MockUIAutomation struct {
	mock.Mock
}

var _ ports.UIAutomation = (*MockUIAutomation)(nil)

func NewMockUIAutomation(t testingT) *MockUIAutomation {
	m := &MockUIAutomation{}
	register(&m.Mock, t)
	return m
}

func (m *MockUIAutomation) Run(ctx context.Context, req ports.AutomationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MockPrompter struct {
	mock.Mock
}

var _ ports.Prompter = (*MockPrompter)(nil)

func NewMockPrompter(t testingT) *MockPrompter {
	m := &MockPrompter{}
	register(&m.Mock, t)
	return m
}

func (m *MockPrompter) Interactive() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockPrompter) PromptPort(ctx context.Context, addr domain.DeviceAddress) (int, bool, error) {
	args := m.Called(ctx, addr)
	return args.Int(0), args.Bool(1), args.Error(2)
}

// FakeClock records requested sleeps without waiting.
type FakeClock struct {
	Current time.Time
	Slept   []time.Duration
}

var _ ports.Clock = (*FakeClock)(nil)

func (c *FakeClock) Now() time.Time {
	return c.Current
}

func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Slept = append(c.Slept, d)
	c.Current = c.Current.Add(d)
	return nil
}
