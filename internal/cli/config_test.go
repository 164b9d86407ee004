package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/copperline/copperline/pkg/board"
	"github.com/copperline/copperline/pkg/errors"
	"github.com/copperline/copperline/pkg/route"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "copperline.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Resolution != route.DefaultResolution {
		t.Errorf("resolution = %g, want %g", cfg.Resolution, route.DefaultResolution)
	}
	if cfg.PreferredLayer != board.LayerFrontCopper {
		t.Errorf("layer = %q, want %s", cfg.PreferredLayer, board.LayerFrontCopper)
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("cache backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
resolution = 0.25
preferred_layer = "B.Cu"

[cache]
backend = "redis"
redis_addr = "redis.internal:6379"

[server]
addr = ":9090"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Resolution != 0.25 {
		t.Errorf("resolution = %g, want 0.25", cfg.Resolution)
	}
	if cfg.PreferredLayer != board.LayerBackCopper {
		t.Errorf("layer = %q, want B.Cu", cfg.PreferredLayer)
	}
	if cfg.Cache.Backend != CacheBackendRedis || cfg.Cache.RedisAddr != "redis.internal:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("server addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `resolution = 1.0`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Resolution != 1.0 {
		t.Errorf("resolution = %g, want 1.0", cfg.Resolution)
	}
	// Unset fields keep the defaults.
	if cfg.PreferredLayer != board.LayerFrontCopper {
		t.Errorf("layer = %q, want default", cfg.PreferredLayer)
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("cache backend = %q, want default", cfg.Cache.Backend)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %s, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestLoadConfigBadBackend(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "memcached"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for an unknown cache backend")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, `resolution = [`)
	_, err := LoadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %s, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("dir = %s", dir)
	}
}
