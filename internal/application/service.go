package application

import (
	"context"
	"strings"
	"time"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/rs/zerolog"
)

const (
	propModel          = "ro.product.model"
	propAndroidVersion = "ro.build.version.release"
)

type Service struct {
	connections *ConnectionManager
	resolver    *ContentResolver
	dispatcher  *Dispatcher
	clock       ports.Clock
	logger      zerolog.Logger
}

func NewService(connections *ConnectionManager, resolver *ContentResolver, dispatcher *Dispatcher, clock ports.Clock, logger zerolog.Logger) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Service{
		connections: connections,
		resolver:    resolver,
		dispatcher:  dispatcher,
		clock:       clock,
		logger:      logger,
	}
}

type PlayResult struct {
	Serial  string                `json:"serial,omitempty" yaml:"serial,omitempty"`
	Source  domain.AddressSource  `json:"source,omitempty" yaml:"source,omitempty"`
	Action  domain.ResolvedAction `json:"action" yaml:"action"`
	Command string                `json:"command,omitempty" yaml:"command,omitempty"`
	DryRun  bool                  `json:"dry_run" yaml:"dry_run"`
}

// Play connects, resolves the query and dispatches the resulting action.
func (s *Service) Play(ctx context.Context, req ConnectRequest, q domain.Query) (PlayResult, error) {
	session, err := s.connections.EnsureConnected(ctx, req)
	if err != nil {
		return PlayResult{}, err
	}

	action, err := s.resolver.Resolve(ctx, q)
	if err != nil {
		return PlayResult{}, err
	}

	result := PlayResult{
		Serial:  session.Serial(),
		Source:  session.Source,
		Action:  action,
		Command: s.dispatcher.Command(action),
	}
	if err := s.dispatcher.Dispatch(ctx, session, action); err != nil {
		return result, err
	}

	s.logger.Debug().Str("serial", result.Serial).Str("action", action.String()).Msg("play dispatched")
	return result, nil
}

// Preview resolves the query without touching the device.
func (s *Service) Preview(ctx context.Context, q domain.Query) (PlayResult, error) {
	action, err := s.resolver.Resolve(ctx, q)
	if err != nil {
		return PlayResult{}, err
	}

	return PlayResult{Action: action, Command: s.dispatcher.Command(action), DryRun: true}, nil
}

type MediaResult struct {
	Serial string          `json:"serial"`
	Key    domain.MediaKey `json:"key"`
}

func (s *Service) Pause(ctx context.Context, req ConnectRequest) (MediaResult, error) {
	return s.sendKey(ctx, req, domain.MediaKeyPause)
}

func (s *Service) Resume(ctx context.Context, req ConnectRequest) (MediaResult, error) {
	return s.sendKey(ctx, req, domain.MediaKeyResume)
}

func (s *Service) sendKey(ctx context.Context, req ConnectRequest, key domain.MediaKey) (MediaResult, error) {
	session, err := s.connections.EnsureConnected(ctx, req)
	if err != nil {
		return MediaResult{}, err
	}

	result := MediaResult{Serial: session.Serial(), Key: key}
	if err := s.dispatcher.SendKey(ctx, session, key); err != nil {
		return result, err
	}

	return result, nil
}

type DeviceStatus struct {
	Serial         string               `json:"serial" yaml:"serial"`
	Host           string               `json:"host" yaml:"host"`
	Port           int                  `json:"port" yaml:"port"`
	Source         domain.AddressSource `json:"source" yaml:"source"`
	Model          string               `json:"model,omitempty" yaml:"model,omitempty"`
	AndroidVersion string               `json:"android_version,omitempty" yaml:"android_version,omitempty"`
	Attempts       int                  `json:"attempts" yaml:"attempts"`
	CachedAt       *time.Time           `json:"cached_at,omitempty" yaml:"cached_at,omitempty"`
	CheckedAt      time.Time            `json:"checked_at" yaml:"checked_at"`
}

// CacheAge reports how old the cache entry was before this connection.
func (d DeviceStatus) CacheAge() (time.Duration, bool) {
	if d.CachedAt == nil {
		return 0, false
	}
	return d.CheckedAt.Sub(*d.CachedAt), true
}

// Status connects and reads identifying properties. Property reads that
// fail leave the field empty.
func (s *Service) Status(ctx context.Context, req ConnectRequest) (DeviceStatus, error) {
	session, err := s.connections.EnsureConnected(ctx, req)
	if err != nil {
		return DeviceStatus{}, err
	}

	status := DeviceStatus{
		Serial:    session.Serial(),
		Host:      session.Address.Host(),
		Port:      session.Address.Port(),
		Source:    session.Source,
		Attempts:  len(session.Attempts),
		CheckedAt: s.clock.Now(),
	}
	if session.Cached != nil {
		savedAt := session.Cached.SavedAt
		status.CachedAt = &savedAt
	}

	status.Model = s.getprop(ctx, session, propModel)
	status.AndroidVersion = s.getprop(ctx, session, propAndroidVersion)

	return status, nil
}

func (s *Service) getprop(ctx context.Context, session *Session, name string) string {
	out, err := session.Run(ctx, "getprop "+name)
	if err != nil {
		s.logger.Warn().Err(err).Str("property", name).Msg("could not read device property")
		return ""
	}
	return strings.TrimSpace(out)
}
