package domain

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const maxPort = 65535

// DeviceAddress is the host:port pair the debug transport connects to.
// Construct it with NewDeviceAddress; the zero value is not a usable address.
type DeviceAddress struct {
	host string
	port int
}

func NewDeviceAddress(host string, port int) (DeviceAddress, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return DeviceAddress{}, errors.New("device host is empty")
	}
	if err := ValidatePort(port); err != nil {
		return DeviceAddress{}, err
	}

	return DeviceAddress{host: host, port: port}, nil
}

// ParseDeviceAddress accepts "host:port" and bracketed IPv6 forms.
func ParseDeviceAddress(raw string) (DeviceAddress, error) {
	host, portText, err := net.SplitHostPort(strings.TrimSpace(raw))
	if err != nil {
		return DeviceAddress{}, fmt.Errorf("parse device address %q: %w", raw, err)
	}

	port, err := ParsePort(portText)
	if err != nil {
		return DeviceAddress{}, err
	}

	return NewDeviceAddress(host, port)
}

func ValidatePort(port int) error {
	if port <= 0 || port > maxPort {
		return fmt.Errorf("device port %d out of range 1-%d", port, maxPort)
	}

	return nil
}

func ParsePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("device port %q is not a number", raw)
	}
	if err := ValidatePort(port); err != nil {
		return 0, err
	}

	return port, nil
}

func (a DeviceAddress) Host() string { return a.host }

func (a DeviceAddress) Port() int { return a.port }

func (a DeviceAddress) IsZero() bool { return a.host == "" && a.port == 0 }

// Serial is the fully-qualified device identity used by the transport.
func (a DeviceAddress) Serial() string {
	return net.JoinHostPort(a.host, strconv.Itoa(a.port))
}

func (a DeviceAddress) String() string { return a.Serial() }

// WithPort returns a copy bound to another port on the same host.
func (a DeviceAddress) WithPort(port int) (DeviceAddress, error) {
	return NewDeviceAddress(a.host, port)
}

// AddressParts is the possibly incomplete address a caller supplied.
// A zero Port means "not given".
type AddressParts struct {
	Host string
	Port int
}

func (p AddressParts) IsEmpty() bool {
	return strings.TrimSpace(p.Host) == "" && p.Port == 0
}

func (p AddressParts) IsComplete() bool {
	return strings.TrimSpace(p.Host) != "" && p.Port != 0
}

type AddressSource string

const (
	AddressSourceExplicit  AddressSource = "explicit"
	AddressSourceEnv       AddressSource = "env"
	AddressSourcePartial   AddressSource = "partial+cache"
	AddressSourceCache     AddressSource = "cache"
	AddressSourceDiscovery AddressSource = "discovery"
	AddressSourcePrompt    AddressSource = "prompt"
)

// CachedDevice is the persisted last known-good address.
type CachedDevice struct {
	Address DeviceAddress
	SavedAt time.Time
}

type ConnectOutcome string

const (
	OutcomeConnected ConnectOutcome = "connected"
	OutcomeRefused   ConnectOutcome = "refused"
	OutcomeTimeout   ConnectOutcome = "timeout"
	OutcomeUnknown   ConnectOutcome = "unknown-error"
)

type ConnectionAttempt struct {
	Address DeviceAddress
	Outcome ConnectOutcome
	Number  int
	Detail  string
}

func (a ConnectionAttempt) Succeeded() bool {
	return a.Outcome == OutcomeConnected
}
