package ports

import (
	"context"

	"github.com/bnema/gtv-cli/internal/domain"
)

// TitleResolver runs the external title lookup and returns its raw stdout.
type TitleResolver interface {
	Lookup(ctx context.Context, query string) ([]byte, error)
}

type AutomationRequest struct {
	Serial  string
	App     string
	Season  int
	Episode int
	Query   string
}

// UIAutomation hands a global search off to the keypress automation helper.
type UIAutomation interface {
	Run(ctx context.Context, req AutomationRequest) error
}

// Prompter asks the user for a replacement port after a refused connection.
type Prompter interface {
	Interactive() bool
	PromptPort(ctx context.Context, addr domain.DeviceAddress) (port int, ok bool, err error)
}
