package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	automationcmd "github.com/bnema/gtv-cli/internal/adapters/automation/command"
	filecache "github.com/bnema/gtv-cli/internal/adapters/cache/file"
	"github.com/bnema/gtv-cli/internal/adapters/discovery/adbmdns"
	"github.com/bnema/gtv-cli/internal/adapters/discovery/chain"
	"github.com/bnema/gtv-cli/internal/adapters/discovery/mdns"
	"github.com/bnema/gtv-cli/internal/adapters/prompt/tty"
	statusadapter "github.com/bnema/gtv-cli/internal/adapters/render/status"
	resolvercmd "github.com/bnema/gtv-cli/internal/adapters/resolver/command"
	"github.com/bnema/gtv-cli/internal/adapters/transport/adb"
	"github.com/bnema/gtv-cli/internal/application"
	"github.com/bnema/gtv-cli/internal/config"
	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/logging"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type globalOptions struct {
	host       string
	port       int
	noInput    bool
	verbose    bool
	configFile string

	youtubePackage string
	tubiPackage    string
}

type app struct {
	opts  globalOptions
	stdin *os.File

	cfg            config.Config
	logger         zerolog.Logger
	service        *application.Service
	cache          *filecache.Store
	adb            *adb.Client
	statusRenderer func(application.DeviceStatus, statusadapter.RenderOptions) (string, error)
	doctorRenderer func(application.DoctorReport, statusadapter.RenderOptions) (string, error)
	noColor        bool
	now            func() time.Time
}

func newApp(stdin *os.File) *app {
	return &app{
		stdin:          stdin,
		logger:         zerolog.Nop(),
		statusRenderer: statusadapter.Render,
		doctorRenderer: statusadapter.RenderDoctor,
		now:            time.Now,
	}
}

// wire loads configuration and builds the service graph once flags are
// parsed.
func (a *app) wire(cmd *cobra.Command) error {
	cfg, err := config.Load(viper.New(), config.LoadOptions{File: a.opts.configFile})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if a.opts.verbose {
		level = zerolog.DebugLevel
	}

	stderr := cmd.ErrOrStderr()
	a.noColor = termenv.EnvNoColor() || !isTerminal(stderr)
	a.logger = logging.New(stderr, logging.Options{Level: level, NoColor: a.noColor})

	a.cache = filecache.NewStore(cfg.Cache.Path, a.logger)
	a.adb = adb.NewClient(adb.Options{
		Binary:         cfg.ADB.Path,
		ConnectTimeout: cfg.ADB.ConnectTimeout,
		CommandTimeout: cfg.ADB.CommandTimeout,
	}, a.logger)

	discovery, err := a.discovery(stderr)
	if err != nil {
		return err
	}

	var titles ports.TitleResolver
	if cfg.Resolver.Command != "" {
		titles = resolvercmd.NewResolver(cfg.Resolver.Command, cfg.Resolver.Timeout, a.logger)
	}
	var automation ports.UIAutomation
	if cfg.Automation.Command != "" {
		automation = automationcmd.NewAutomation(cfg.Automation.Command, cfg.Automation.Timeout, a.logger)
	}

	manager := application.NewConnectionManager(a.cache, discovery, a.adb,
		application.WithPrompter(tty.NewPrompter(a.stdin, stderr, a.opts.noInput)),
		application.WithRetryPolicy(application.RetryPolicy{Delays: cfg.Retry.Delays}),
		application.WithLogger(a.logger),
	)

	a.service = application.NewService(
		manager,
		application.NewContentResolver(titles, a.logger),
		application.NewDispatcher(automation, a.packages(), a.logger),
		ports.SystemClock{},
		a.logger,
	)

	a.logger.Debug().Str("config", cfg.File).Str("cache", cfg.Cache.Path).Msg("wired")
	return nil
}

func (a *app) discovery(stderr io.Writer) (ports.Discovery, error) {
	if len(a.cfg.Discovery.Providers) == 0 {
		return nil, nil
	}

	providers := make([]chain.Named, 0, len(a.cfg.Discovery.Providers))
	for _, name := range a.cfg.Discovery.Providers {
		switch name {
		case config.ProviderMDNS:
			providers = append(providers, chain.Named{
				Name:     name,
				Provider: mdns.NewProvider(a.cfg.Discovery.Service, a.cfg.Discovery.Timeout, a.logger),
			})
		case config.ProviderADBMDNS:
			providers = append(providers, chain.Named{
				Name:     name,
				Provider: adbmdns.NewProvider(a.adb, a.cfg.Discovery.Service, a.logger),
			})
		}
	}

	discovery, err := chain.NewProvider(a.logger, providers...)
	if err != nil {
		return nil, fmt.Errorf("wire discovery: %w", err)
	}

	if !isTerminal(stderr) {
		return discovery, nil
	}
	return newSpinnerDiscovery(discovery, stderr), nil
}

func (a *app) packages() application.Packages {
	return application.Packages{
		YouTube: firstNonEmpty(a.opts.youtubePackage, a.cfg.Packages.YouTube),
		Tubi:    firstNonEmpty(a.opts.tubiPackage, a.cfg.Packages.Tubi),
	}
}

// connectRequest gathers the CLI address parts and the GTV_HOST/GTV_PORT
// overrides. The connection manager decides which of them applies.
func (a *app) connectRequest() (application.ConnectRequest, error) {
	env := domain.AddressParts{Host: strings.TrimSpace(os.Getenv("GTV_HOST"))}
	if raw := strings.TrimSpace(os.Getenv("GTV_PORT")); raw != "" {
		port, err := domain.ParsePort(raw)
		if err != nil {
			return application.ConnectRequest{}, fmt.Errorf("GTV_PORT: %w", err)
		}
		env.Port = port
	}

	return application.ConnectRequest{
		Explicit:         domain.AddressParts{Host: strings.TrimSpace(a.opts.host), Port: a.opts.port},
		Env:              env,
		AllowInteractive: !a.opts.noInput,
	}, nil
}

func (a *app) renderOptions() statusadapter.RenderOptions {
	return statusadapter.RenderOptions{Now: a.now(), NoColor: a.noColor}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
