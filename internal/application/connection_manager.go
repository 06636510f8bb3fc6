package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/rs/zerolog"
)

// RetryPolicy makes len(Delays) connection attempts against one address.
// Delays[i] is slept after failed attempt i; the final delay is only spent
// when a fallback (prompt or rediscovery) follows.
type RetryPolicy struct {
	Delays []time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Delays: []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}}
}

func (p RetryPolicy) attempts() int {
	if len(p.Delays) == 0 {
		return 1
	}
	return len(p.Delays)
}

func (p RetryPolicy) delay(i int) time.Duration {
	if i < 0 || i >= len(p.Delays) {
		return 0
	}
	return p.Delays[i]
}

type ConnectRequest struct {
	Explicit domain.AddressParts
	// Env is consulted only when Explicit is entirely empty.
	Env              domain.AddressParts
	AllowInteractive bool
}

type target struct {
	addr   domain.DeviceAddress
	source domain.AddressSource
}

type addressInput struct {
	req     ConnectRequest
	cached  domain.CachedDevice
	cacheOK bool
}

type ConnectionManager struct {
	cache     ports.DeviceCache
	discovery ports.Discovery
	transport ports.Transport
	prompter  ports.Prompter
	clock     ports.Clock
	retry     RetryPolicy
	logger    zerolog.Logger
}

type ConnectionManagerOption func(*ConnectionManager)

func WithRetryPolicy(policy RetryPolicy) ConnectionManagerOption {
	return func(m *ConnectionManager) { m.retry = policy }
}

func WithClock(clock ports.Clock) ConnectionManagerOption {
	return func(m *ConnectionManager) { m.clock = clock }
}

func WithPrompter(prompter ports.Prompter) ConnectionManagerOption {
	return func(m *ConnectionManager) { m.prompter = prompter }
}

func WithLogger(logger zerolog.Logger) ConnectionManagerOption {
	return func(m *ConnectionManager) { m.logger = logger }
}

func NewConnectionManager(cache ports.DeviceCache, discovery ports.Discovery, transport ports.Transport, opts ...ConnectionManagerOption) *ConnectionManager {
	m := &ConnectionManager{
		cache:     cache,
		discovery: discovery,
		transport: transport,
		clock:     ports.SystemClock{},
		retry:     DefaultRetryPolicy(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// EnsureConnected resolves an address from flags, env, cache or discovery,
// connects with retry and records the working address in the cache. Ports
// are never guessed: only supplied, cached, discovered or typed ones are
// tried.
func (m *ConnectionManager) EnsureConnected(ctx context.Context, req ConnectRequest) (*Session, error) {
	cached, cacheOK := m.cache.Load(ctx)
	if cacheOK {
		m.logger.Debug().Str("serial", cached.Address.Serial()).Time("saved_at", cached.SavedAt).Msg("device cache hit")
	}

	in := addressInput{req: req, cached: cached, cacheOK: cacheOK}
	tgt, source, found, err := runStages(ctx, m.logger, in, m.addressStages())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.NewError(domain.ErrNoDeviceFound, "no device address available", nil)
	}
	m.logger.Debug().Str("stage", source).Str("serial", tgt.addr.Serial()).Msg("device address resolved")

	canPrompt := req.AllowInteractive && m.prompter != nil && m.prompter.Interactive()
	canRediscover := tgt.source == domain.AddressSourceCache && m.discovery != nil

	var attempts []domain.ConnectionAttempt
	fallbackFollows := func(last domain.ConnectionAttempt) bool {
		return canRediscover || (canPrompt && last.Outcome == domain.OutcomeRefused)
	}
	last, ok := m.connectWithRetry(ctx, tgt.addr, fallbackFollows, &attempts)
	if ok {
		return m.established(ctx, in, tgt, attempts), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if last.Outcome == domain.OutcomeRefused && canPrompt {
		attempt, ok, err := m.promptForPort(ctx, tgt.addr)
		if err != nil {
			m.logger.Warn().Err(err).Msg("port prompt failed")
		}
		if attempt != nil {
			attempt.Number = len(attempts) + 1
			attempts = append(attempts, *attempt)
			last = *attempt
		}
		if ok {
			return m.established(ctx, in, target{addr: attempt.Address, source: domain.AddressSourcePrompt}, attempts), nil
		}
	}

	if canRediscover {
		fresh, found := m.rediscover(ctx, tgt.addr)
		if found {
			attempt, ok := m.connectWithRetry(ctx, fresh, noFallback, &attempts)
			if ok {
				return m.established(ctx, in, target{addr: fresh, source: domain.AddressSourceDiscovery}, attempts), nil
			}
			last = attempt
		}
	}

	return nil, connectionError(last)
}

func (m *ConnectionManager) addressStages() []stage[addressInput, target] {
	return []stage[addressInput, target]{
		{name: "explicit", run: m.explicitAddress},
		{name: "partial", run: m.partialAddress},
		{name: "cache", run: m.cachedAddress},
		{name: "discovery", run: m.discoveredAddress},
	}
}

// suppliedParts applies the all-or-nothing env fallback: env is used only
// when no CLI part was given.
func suppliedParts(req ConnectRequest) (domain.AddressParts, domain.AddressSource) {
	if req.Explicit.IsEmpty() {
		return req.Env, domain.AddressSourceEnv
	}
	return req.Explicit, domain.AddressSourceExplicit
}

func (m *ConnectionManager) explicitAddress(_ context.Context, in addressInput) stepResult[target] {
	parts, source := suppliedParts(in.req)
	if !parts.IsComplete() {
		return notApplicable[target]()
	}

	addr, err := domain.NewDeviceAddress(parts.Host, parts.Port)
	if err != nil {
		return hardFailure[target](domain.NewError(domain.ErrIncompleteAddress, fmt.Sprintf("invalid %s address", source), err))
	}

	return resolved(target{addr: addr, source: source})
}

func (m *ConnectionManager) partialAddress(_ context.Context, in addressInput) stepResult[target] {
	parts, source := suppliedParts(in.req)
	if parts.IsEmpty() || parts.IsComplete() {
		return notApplicable[target]()
	}

	if !in.cacheOK {
		missing := "port"
		if strings.TrimSpace(parts.Host) == "" {
			missing = "host"
		}
		return hardFailure[target](domain.NewError(domain.ErrIncompleteAddress,
			fmt.Sprintf("%s address has no %s and the device cache has none to fill in", source, missing), nil))
	}

	host, port := parts.Host, parts.Port
	if strings.TrimSpace(host) == "" {
		host = in.cached.Address.Host()
	}
	if port == 0 {
		port = in.cached.Address.Port()
	}

	addr, err := domain.NewDeviceAddress(host, port)
	if err != nil {
		return hardFailure[target](domain.NewError(domain.ErrIncompleteAddress, fmt.Sprintf("invalid %s address", source), err))
	}

	return resolved(target{addr: addr, source: domain.AddressSourcePartial})
}

func (m *ConnectionManager) cachedAddress(_ context.Context, in addressInput) stepResult[target] {
	if !in.cacheOK {
		return notApplicable[target]()
	}

	return resolved(target{addr: in.cached.Address, source: domain.AddressSourceCache})
}

func (m *ConnectionManager) discoveredAddress(ctx context.Context, _ addressInput) stepResult[target] {
	if m.discovery == nil {
		return hardFailure[target](domain.NewError(domain.ErrNoDeviceFound, "no cached device and discovery is disabled", nil))
	}

	found, err := m.discovery.Discover(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return hardFailure[target](ctxErr)
		}
		return hardFailure[target](domain.NewError(domain.ErrNoDeviceFound, "device discovery failed", err))
	}
	if len(found) == 0 {
		return hardFailure[target](domain.NewError(domain.ErrNoDeviceFound,
			"no device advertised wireless debugging; pass --host and --port", nil))
	}

	return resolved(target{addr: found[0], source: domain.AddressSourceDiscovery})
}

func noFallback(domain.ConnectionAttempt) bool { return false }

// connectWithRetry returns the last attempt and whether it connected.
func (m *ConnectionManager) connectWithRetry(ctx context.Context, addr domain.DeviceAddress, fallbackFollows func(domain.ConnectionAttempt) bool, log *[]domain.ConnectionAttempt) (domain.ConnectionAttempt, bool) {
	var last domain.ConnectionAttempt

	total := m.retry.attempts()
	for i := 0; i < total; i++ {
		last = m.transport.Connect(ctx, addr)
		last.Address = addr
		last.Number = len(*log) + 1
		*log = append(*log, last)

		m.logger.Debug().
			Str("serial", addr.Serial()).
			Int("attempt", last.Number).
			Str("outcome", string(last.Outcome)).
			Msg("connect attempt")

		if last.Succeeded() {
			return last, true
		}
		if i == total-1 && !fallbackFollows(last) {
			break
		}
		if err := m.clock.Sleep(ctx, m.retry.delay(i)); err != nil {
			break
		}
	}

	return last, false
}

func (m *ConnectionManager) promptForPort(ctx context.Context, addr domain.DeviceAddress) (*domain.ConnectionAttempt, bool, error) {
	port, ok, err := m.prompter.PromptPort(ctx, addr)
	if err != nil || !ok {
		return nil, false, err
	}

	replacement, err := addr.WithPort(port)
	if err != nil {
		return nil, false, err
	}

	attempt := m.transport.Connect(ctx, replacement)
	attempt.Address = replacement
	m.logger.Debug().Str("serial", replacement.Serial()).Str("outcome", string(attempt.Outcome)).Msg("prompted port attempt")

	return &attempt, attempt.Succeeded(), nil
}

func (m *ConnectionManager) rediscover(ctx context.Context, stale domain.DeviceAddress) (domain.DeviceAddress, bool) {
	found, err := m.discovery.Discover(ctx)
	if err != nil {
		m.logger.Debug().Err(err).Msg("rediscovery failed")
		return domain.DeviceAddress{}, false
	}

	for _, addr := range found {
		if addr != stale {
			m.logger.Debug().Str("stale", stale.Serial()).Str("fresh", addr.Serial()).Msg("rediscovered device")
			return addr, true
		}
	}

	return domain.DeviceAddress{}, false
}

func (m *ConnectionManager) established(ctx context.Context, in addressInput, tgt target, attempts []domain.ConnectionAttempt) *Session {
	if err := m.cache.Save(ctx, tgt.addr); err != nil {
		m.logger.Warn().Err(err).Str("serial", tgt.addr.Serial()).Msg("could not update device cache")
	} else {
		m.logger.Debug().Str("serial", tgt.addr.Serial()).Msg("device cache updated")
	}

	session := NewSession(tgt.addr, tgt.source, m.transport)
	session.Attempts = attempts
	if in.cacheOK {
		cached := in.cached
		session.Cached = &cached
	}
	return session
}

func connectionError(last domain.ConnectionAttempt) error {
	var cause error
	if last.Detail != "" {
		cause = errors.New(last.Detail)
	}

	serial := last.Address.Serial()
	switch last.Outcome {
	case domain.OutcomeRefused:
		return domain.NewError(domain.ErrConnectionRefused, fmt.Sprintf("%s refused the connection", serial), cause)
	case domain.OutcomeTimeout:
		return domain.NewError(domain.ErrConnectionTimeout, fmt.Sprintf("connecting to %s timed out", serial), cause)
	default:
		return domain.NewError(domain.ErrUnconfirmed, fmt.Sprintf("adb did not confirm a connection to %s", serial), cause)
	}
}
