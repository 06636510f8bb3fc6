package adbmdns

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleListing = `List of discovered mdns services
adb-GZ1234567-AbCdEf	_adb-tls-pairing._tcp.	192.168.1.40:41234
adb-GZ1234567-AbCdEf	_adb-tls-connect._tcp.	192.168.1.40:37105
adb-GZ1234567-AbCdEf	_adb-tls-connect._tcp.	192.168.1.40:37105
adb-GZ7654321-ZyXwVu	_adb-tls-connect._tcp.	192.168.1.41:40001
garbage line
adb-broken	_adb-tls-connect._tcp.	192.168.1.42:notaport
`

type listerFunc func(ctx context.Context) (string, error)

func (f listerFunc) MDNSServices(ctx context.Context) (string, error) {
	return f(ctx)
}

func TestParseServicesFiltersByServiceAndKeepsOrder(t *testing.T) {
	t.Parallel()

	found := ParseServices(sampleListing, "_adb-tls-connect._tcp")
	require.Len(t, found, 2)
	assert.Equal(t, "192.168.1.40:37105", found[0].Serial())
	assert.Equal(t, "192.168.1.41:40001", found[1].Serial())
}

func TestParseServicesEmptyListing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ParseServices("List of discovered mdns services\n", "_adb-tls-connect._tcp"))
}

func TestProviderDiscover(t *testing.T) {
	t.Parallel()

	provider := NewProvider(listerFunc(func(ctx context.Context) (string, error) {
		return sampleListing, nil
	}), "_adb-tls-connect._tcp.", zerolog.Nop())

	found, err := provider.Discover(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, "192.168.1.40:37105", found[0].Serial())
}

func TestProviderDiscoverPropagatesListerError(t *testing.T) {
	t.Parallel()

	listErr := errors.New("adb command unavailable")
	provider := NewProvider(listerFunc(func(ctx context.Context) (string, error) {
		return "", listErr
	}), "_adb-tls-connect._tcp", zerolog.Nop())

	_, err := provider.Discover(context.Background())
	require.ErrorIs(t, err, listErr)
}
