package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/vmslayers/pkg/cache"
	"github.com/matzehuels/vmslayers/pkg/errors"
)

// Environment variables read by loadConfig.
const (
	envConfig       = "VMSLAYERS_CONFIG"
	envCacheBackend = "VMSLAYERS_CACHE_BACKEND"
	envRedisURL     = "VMSLAYERS_REDIS_URL"
)

// defaultRedisPrefix scopes keys in a shared Redis instance.
const defaultRedisPrefix = appName + ":"

// Config is the contents of config.toml.
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "12h"
//
//	[log]
//	level = "debug"
type Config struct {
	Cache CacheConfig `toml:"cache"`
	Log   LogConfig   `toml:"log"`

	// source is the file the config was read from, empty for defaults.
	source string
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
	TTL      string `toml:"ttl"`
}

// LogConfig holds the default log level. --verbose overrides it.
type LogConfig struct {
	Level string `toml:"level"`
}

func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{Backend: cache.BackendFile, Prefix: defaultRedisPrefix},
		Log:   LogConfig{Level: "info"},
	}
}

// loadConfig reads the config file, applies environment overrides and
// validates the result. A missing file at the default location yields the
// defaults; a missing file named by --config or VMSLAYERS_CONFIG is an error.
func loadConfig(explicit string, getenv func(string) string) (Config, error) {
	cfg := defaultConfig()

	path, required := explicit, explicit != ""
	if !required {
		if env := getenv(envConfig); env != "" {
			path, required = env, true
		}
	}
	if !required {
		dir, err := configDir(getenv)
		if err == nil {
			path = filepath.Join(dir, "config.toml")
		}
	}

	if path != "" {
		if err := cfg.decodeFile(path, required); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv(getenv)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if required {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil
	}

	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	c.source = path
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(envCacheBackend); v != "" {
		c.Cache.Backend = v
	}
	if v := getenv(envRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if err := errors.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if _, err := c.cacheTTL(); err != nil {
		return err
	}
	if _, err := c.logLevel(); err != nil {
		return err
	}
	return nil
}

// cacheTTL parses cache.ttl, defaulting to cache.DefaultTTL.
func (c Config) cacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return cache.DefaultTTL, nil
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.ttl")
	}
	if ttl <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	return ttl, nil
}

func (c Config) logLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return LogInfo, nil
	}
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return LogInfo, errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return level, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/vmslayers/).
func cacheDir() (string, error) {
	return xdgDir(os.Getenv, "XDG_CACHE_HOME", ".cache")
}

// configDir returns the config directory (~/.config/vmslayers/).
func configDir(getenv func(string) string) (string, error) {
	return xdgDir(getenv, "XDG_CONFIG_HOME", ".config")
}

func xdgDir(getenv func(string) string, env, fallback string) (string, error) {
	if base := getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, fallback, appName), nil
}
