package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/rs/zerolog"
)

const (
	cacheDirMode    = 0o700
	cacheFileMode   = 0o600
	tempFilePattern = ".gtv-device-*.json.tmp"
	DefaultName     = ".gtv_device.json"
)

// Store keeps the last known-good device in a small JSON file:
//
//	{"ip": "192.168.1.40", "port": 37105}
type Store struct {
	path   string
	logger zerolog.Logger
}

var _ ports.DeviceCache = (*Store)(nil)

type cacheSchema struct {
	IP   string          `json:"ip"`
	Port json.RawMessage `json:"port"`
}

func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{path: filepath.Clean(path), logger: logger}
}

// DefaultPath places the cache next to the running executable.
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Join(filepath.Dir(exe), DefaultName), nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(ctx context.Context) (domain.CachedDevice, bool) {
	if ctx.Err() != nil {
		return domain.CachedDevice{}, false
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Debug().Err(err).Str("path", s.path).Msg("device cache unreadable")
		}
		return domain.CachedDevice{}, false
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Debug().Err(err).Str("path", s.path).Msg("device cache unreadable")
		return domain.CachedDevice{}, false
	}

	addr, err := decode(data)
	if err != nil {
		s.logger.Debug().Err(err).Str("path", s.path).Msg("ignoring device cache")
		return domain.CachedDevice{}, false
	}

	return domain.CachedDevice{Address: addr, SavedAt: info.ModTime()}, true
}

func (s *Store) Save(ctx context.Context, addr domain.DeviceAddress) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(struct {
		IP   string `json:"ip"`
		Port int    `json:"port"`
	}{IP: addr.Host(), Port: addr.Port()})
	if err != nil {
		return fmt.Errorf("encode device cache: %w", err)
	}

	return s.writeAtomic(data)
}

func decode(data []byte) (domain.DeviceAddress, error) {
	var raw cacheSchema
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.DeviceAddress{}, fmt.Errorf("decode device cache: %w", err)
	}
	if len(raw.Port) == 0 {
		return domain.DeviceAddress{}, errors.New("device cache has no port")
	}

	port, err := decodePort(raw.Port)
	if err != nil {
		return domain.DeviceAddress{}, err
	}

	return domain.NewDeviceAddress(raw.IP, port)
}

// decodePort accepts 5555 and "5555"; anything else is unusable.
func decodePort(raw json.RawMessage) (int, error) {
	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return 0, fmt.Errorf("device cache port %s is not numeric", string(raw))
	}

	port, err := strconv.Atoi(number.String())
	if err != nil {
		return 0, fmt.Errorf("device cache port %s is not an integer", string(raw))
	}

	return port, nil
}

func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, cacheDirMode); err != nil {
		return fmt.Errorf("create device cache directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp device cache: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp device cache: %w", err)
	}

	if err := tempFile.Chmod(cacheFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp device cache: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp device cache: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace device cache: %w", err)
	}

	cleanup = false
	return nil
}
