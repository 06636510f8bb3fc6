package ports

import (
	"context"

	"github.com/bnema/gtv-cli/internal/domain"
)

type Discovery interface {
	// Discover returns advertised candidates in arrival order. An empty
	// slice with a nil error means nothing was found.
	Discover(ctx context.Context) ([]domain.DeviceAddress, error)
}
