package ports

import (
	"context"

	"github.com/bnema/gtv-cli/internal/domain"
)

// DeviceCache persists the last known-good device address. Load reports
// ok=false for any unusable cache instead of an error.
type DeviceCache interface {
	Load(ctx context.Context) (cached domain.CachedDevice, ok bool)
	Save(ctx context.Context, addr domain.DeviceAddress) error
}
