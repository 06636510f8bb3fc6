package adbmdns

import (
	"bufio"
	"context"
	"strings"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/rs/zerolog"
)

type servicesLister interface {
	MDNSServices(ctx context.Context) (string, error)
}

// Provider asks the adb server for the services its own mDNS backend has
// seen. It covers hosts where multicast from this process is blocked.
type Provider struct {
	lister  servicesLister
	service string
	logger  zerolog.Logger
}

var _ ports.Discovery = (*Provider)(nil)

func NewProvider(lister servicesLister, service string, logger zerolog.Logger) *Provider {
	return &Provider{lister: lister, service: strings.TrimSuffix(service, "."), logger: logger}
}

func (p *Provider) Discover(ctx context.Context) ([]domain.DeviceAddress, error) {
	output, err := p.lister.MDNSServices(ctx)
	if err != nil {
		return nil, err
	}

	found := ParseServices(output, p.service)
	p.logger.Debug().Int("count", len(found)).Msg("adb mdns services")
	return found, nil
}

// ParseServices extracts addresses of the given service type from
// "adb mdns services" output, in listing order, without duplicates.
func ParseServices(output string, service string) []domain.DeviceAddress {
	var found []domain.DeviceAddress
	seen := map[string]struct{}{}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		if strings.TrimSuffix(fields[1], ".") != service {
			continue
		}

		addr, err := domain.ParseDeviceAddress(fields[len(fields)-1])
		if err != nil {
			continue
		}
		if _, ok := seen[addr.Serial()]; ok {
			continue
		}

		seen[addr.Serial()] = struct{}{}
		found = append(found, addr)
	}

	return found
}
