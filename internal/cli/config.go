package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/copperline/copperline/pkg/board"
	"github.com/copperline/copperline/pkg/errors"
	"github.com/copperline/copperline/pkg/route"
)

// Cache backend names accepted in copperline.toml.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config is the TOML configuration shared by all commands. Command-line
// flags override the file values; the file overrides the built-in defaults.
//
//	resolution = 0.5
//	preferred_layer = "F.Cu"
//
//	[cache]
//	backend = "file"        # file | redis | none
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Resolution     float64      `toml:"resolution"`
	PreferredLayer string       `toml:"preferred_layer"`
	Cache          CacheConfig  `toml:"cache"`
	Server         ServerConfig `toml:"server"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	RedisAddr string `toml:"redis_addr"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Resolution:     route.DefaultResolution,
		PreferredLayer: board.LayerFrontCopper,
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// LoadConfig reads copperline.toml. When path is empty the working directory
// is tried first, then the XDG config directory; a missing file is not an
// error and yields the defaults. An explicitly given path must exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit && os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s not found", path)
		}
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}

	if cfg.Cache.Backend != CacheBackendFile && cfg.Cache.Backend != CacheBackendRedis && cfg.Cache.Backend != CacheBackendNone {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q in %s", cfg.Cache.Backend, path)
	}
	return cfg, nil
}

// findConfig returns the first configuration file found in the search order,
// or an empty string when none exists.
func findConfig() string {
	if _, err := os.Stat("copperline.toml"); err == nil {
		return "copperline.toml"
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, appName, "copperline.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
