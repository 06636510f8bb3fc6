package mdns

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"time"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog"
)

const (
	DefaultService = "_adb-tls-connect._tcp"
	DefaultDomain  = "local"
	DefaultTimeout = 3 * time.Second
)

type queryFunc func(params *mdns.QueryParam) error

// Provider browses the local network for the wireless-debugging
// advertisement and stops at the first usable answer.
type Provider struct {
	service string
	timeout time.Duration
	query   queryFunc
	logger  zerolog.Logger
}

var _ ports.Discovery = (*Provider)(nil)

func NewProvider(service string, timeout time.Duration, logger zerolog.Logger) *Provider {
	if service == "" {
		service = DefaultService
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Provider{
		service: strings.TrimSuffix(service, "."),
		timeout: timeout,
		query:   mdns.Query,
		logger:  logger,
	}
}

func (p *Provider) Discover(ctx context.Context) ([]domain.DeviceAddress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan error, 1)
	params := &mdns.QueryParam{
		Service:     p.service,
		Domain:      DefaultDomain,
		Timeout:     p.timeout,
		Entries:     entries,
		DisableIPv6: true,
		Logger:      log.New(io.Discard, "", 0),
	}

	go func() {
		done <- p.query(params)
		close(entries)
	}()

	for {
		select {
		case <-ctx.Done():
			go drain(entries)
			return nil, ctx.Err()
		case entry, ok := <-entries:
			if !ok {
				if err := <-done; err != nil {
					return nil, fmt.Errorf("mdns query %s: %w", p.service, err)
				}
				return nil, nil
			}

			addr, usable := entryAddress(entry)
			if !usable {
				continue
			}

			p.logger.Debug().
				Str("service", p.service).
				Str("name", entry.Name).
				Str("serial", addr.Serial()).
				Msg("mdns candidate")

			go drain(entries)
			return []domain.DeviceAddress{addr}, nil
		}
	}
}

func entryAddress(entry *mdns.ServiceEntry) (domain.DeviceAddress, bool) {
	if entry == nil || entry.Port <= 0 {
		return domain.DeviceAddress{}, false
	}

	var ip net.IP
	switch {
	case entry.AddrV4 != nil:
		ip = entry.AddrV4
	case entry.AddrV6 != nil:
		ip = entry.AddrV6
	}
	if ip == nil {
		return domain.DeviceAddress{}, false
	}

	addr, err := domain.NewDeviceAddress(ip.String(), entry.Port)
	if err != nil {
		return domain.DeviceAddress{}, false
	}

	return addr, true
}

func drain(entries <-chan *mdns.ServiceEntry) {
	for range entries {
	}
}
