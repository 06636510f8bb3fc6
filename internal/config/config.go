package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	filecache "github.com/bnema/gtv-cli/internal/adapters/cache/file"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configName    = "config"
	configType    = "toml"
	configDirName = "gtv"
	envPrefix     = "GTV"

	currentSchemaVersion = 1
)

// Keys are the viper paths understood in config.toml.
const (
	KeyCachePath          = "cache.path"
	KeyADBPath            = "adb.path"
	KeyADBConnectTimeout  = "adb.connect_timeout"
	KeyADBCommandTimeout  = "adb.command_timeout"
	KeyDiscoveryService   = "discovery.service"
	KeyDiscoveryTimeout   = "discovery.timeout"
	KeyDiscoveryProviders = "discovery.providers"
	KeyResolverCommand    = "resolver.command"
	KeyResolverTimeout    = "resolver.timeout"
	KeyAutomationCommand  = "automation.command"
	KeyAutomationTimeout  = "automation.timeout"
	KeyYouTubePackage     = "packages.youtube"
	KeyTubiPackage        = "packages.tubi"
	KeyRetryDelays        = "retry.delays"
	KeyLogLevel           = "log.level"
)

const (
	ProviderMDNS    = "mdns"
	ProviderADBMDNS = "adb"
)

var ErrUnknownFormat = errors.New("unknown output format")

type Config struct {
	Version    int             `mapstructure:"version"`
	Cache      CacheConfig     `mapstructure:"cache"`
	ADB        ADBConfig       `mapstructure:"adb"`
	Discovery  DiscoveryConfig `mapstructure:"discovery"`
	Resolver   CommandConfig   `mapstructure:"resolver"`
	Automation CommandConfig   `mapstructure:"automation"`
	Packages   PackagesConfig  `mapstructure:"packages"`
	Retry      RetryConfig     `mapstructure:"retry"`
	Log        LogConfig       `mapstructure:"log"`

	// File is the config file that was read, empty when none exists.
	File string `mapstructure:"-"`
}

type CacheConfig struct {
	Path string `mapstructure:"path"`
}

type ADBConfig struct {
	Path           string        `mapstructure:"path"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

type DiscoveryConfig struct {
	Service   string        `mapstructure:"service"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Providers []string      `mapstructure:"providers"`
}

type CommandConfig struct {
	Command string        `mapstructure:"command"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PackagesConfig struct {
	YouTube string `mapstructure:"youtube"`
	Tubi    string `mapstructure:"tubi"`
}

type RetryConfig struct {
	Delays []time.Duration `mapstructure:"delays"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type LoadOptions struct {
	// File forces a specific config file; it must exist.
	File string
	// Dir is searched for config.toml when File is empty.
	Dir string
}

func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}

	return filepath.Join(dir, configDirName), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyCachePath, "")
	v.SetDefault(KeyADBPath, "adb")
	v.SetDefault(KeyADBConnectTimeout, "5s")
	v.SetDefault(KeyADBCommandTimeout, "10s")
	v.SetDefault(KeyDiscoveryService, "_adb-tls-connect._tcp")
	v.SetDefault(KeyDiscoveryTimeout, "3s")
	v.SetDefault(KeyDiscoveryProviders, []string{ProviderMDNS, ProviderADBMDNS})
	v.SetDefault(KeyResolverCommand, "gtv-resolve")
	v.SetDefault(KeyResolverTimeout, "20s")
	v.SetDefault(KeyAutomationCommand, "gtv-search")
	v.SetDefault(KeyAutomationTimeout, "2m")
	v.SetDefault(KeyYouTubePackage, "com.google.android.youtube.tv")
	v.SetDefault(KeyTubiPackage, "com.tubitv")
	v.SetDefault(KeyRetryDelays, []string{"500ms", "1s", "2s"})
	v.SetDefault(KeyLogLevel, "warn")
}

// Load reads config.toml (optional unless opts.File is set), then GTV_*
// environment variables, over the built-in defaults.
func Load(v *viper.Viper, opts LoadOptions) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyYouTubePackage, "GTV_YOUTUBE_PACKAGE", "GTV_PACKAGES_YOUTUBE"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv(KeyTubiPackage, "GTV_TUBI_PACKAGE", "GTV_PACKAGES_TUBI"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", opts.File, err)
		}
	} else {
		dir := opts.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultDir(); err != nil {
				return Config{}, err
			}
		}

		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(dir)

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) normalize() error {
	if c.Version == 0 {
		c.Version = currentSchemaVersion
	}
	if c.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", c.Version, currentSchemaVersion)
	}

	if c.Cache.Path == "" {
		path, err := filecache.DefaultPath()
		if err != nil {
			return err
		}
		c.Cache.Path = path
	}
	absPath, err := filepath.Abs(c.Cache.Path)
	if err != nil {
		return fmt.Errorf("resolve cache path: %w", err)
	}
	c.Cache.Path = filepath.Clean(absPath)

	for _, d := range c.Retry.Delays {
		if d < 0 {
			return fmt.Errorf("%s: negative delay %s", KeyRetryDelays, d)
		}
	}
	if len(c.Retry.Delays) == 0 {
		return fmt.Errorf("%s: at least one delay is required", KeyRetryDelays)
	}

	for _, provider := range c.Discovery.Providers {
		switch provider {
		case ProviderMDNS, ProviderADBMDNS:
		default:
			return fmt.Errorf("%s: unknown provider %q (want %s or %s)", KeyDiscoveryProviders, provider, ProviderMDNS, ProviderADBMDNS)
		}
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	return nil
}

func (c Config) LogLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.Log.Level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	if level == zerolog.NoLevel {
		return zerolog.WarnLevel, nil
	}
	return level, nil
}

// document is the printable shape of Config with durations as strings.
type document struct {
	Version    int         `toml:"version" yaml:"version" json:"version"`
	Cache      cacheDoc    `toml:"cache" yaml:"cache" json:"cache"`
	ADB        adbDoc      `toml:"adb" yaml:"adb" json:"adb"`
	Discovery  discoverDoc `toml:"discovery" yaml:"discovery" json:"discovery"`
	Resolver   commandDoc  `toml:"resolver" yaml:"resolver" json:"resolver"`
	Automation commandDoc  `toml:"automation" yaml:"automation" json:"automation"`
	Packages   packagesDoc `toml:"packages" yaml:"packages" json:"packages"`
	Retry      retryDoc    `toml:"retry" yaml:"retry" json:"retry"`
	Log        logDoc      `toml:"log" yaml:"log" json:"log"`
}

type cacheDoc struct {
	Path string `toml:"path" yaml:"path" json:"path"`
}

type adbDoc struct {
	Path           string `toml:"path" yaml:"path" json:"path"`
	ConnectTimeout string `toml:"connect_timeout" yaml:"connect_timeout" json:"connect_timeout"`
	CommandTimeout string `toml:"command_timeout" yaml:"command_timeout" json:"command_timeout"`
}

type discoverDoc struct {
	Service   string   `toml:"service" yaml:"service" json:"service"`
	Timeout   string   `toml:"timeout" yaml:"timeout" json:"timeout"`
	Providers []string `toml:"providers" yaml:"providers" json:"providers"`
}

type commandDoc struct {
	Command string `toml:"command" yaml:"command" json:"command"`
	Timeout string `toml:"timeout" yaml:"timeout" json:"timeout"`
}

type packagesDoc struct {
	YouTube string `toml:"youtube" yaml:"youtube" json:"youtube"`
	Tubi    string `toml:"tubi" yaml:"tubi" json:"tubi"`
}

type retryDoc struct {
	Delays []string `toml:"delays" yaml:"delays" json:"delays"`
}

type logDoc struct {
	Level string `toml:"level" yaml:"level" json:"level"`
}

func (c Config) document() document {
	delays := make([]string, 0, len(c.Retry.Delays))
	for _, d := range c.Retry.Delays {
		delays = append(delays, d.String())
	}

	return document{
		Version: c.Version,
		Cache:   cacheDoc{Path: c.Cache.Path},
		ADB: adbDoc{
			Path:           c.ADB.Path,
			ConnectTimeout: c.ADB.ConnectTimeout.String(),
			CommandTimeout: c.ADB.CommandTimeout.String(),
		},
		Discovery: discoverDoc{
			Service:   c.Discovery.Service,
			Timeout:   c.Discovery.Timeout.String(),
			Providers: c.Discovery.Providers,
		},
		Resolver:   commandDoc{Command: c.Resolver.Command, Timeout: c.Resolver.Timeout.String()},
		Automation: commandDoc{Command: c.Automation.Command, Timeout: c.Automation.Timeout.String()},
		Packages:   packagesDoc{YouTube: c.Packages.YouTube, Tubi: c.Packages.Tubi},
		Retry:      retryDoc{Delays: delays},
		Log:        logDoc{Level: c.Log.Level},
	}
}

// Encode renders the effective config as toml, yaml or json.
func (c Config) Encode(format string) ([]byte, error) {
	doc := c.document()

	switch strings.ToLower(format) {
	case "", "toml":
		return toml.Marshal(doc)
	case "yaml", "yml":
		return yaml.Marshal(doc)
	case "json":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("%w %q (want toml, yaml or json)", ErrUnknownFormat, format)
	}
}
